// Package update checks for newer CLI releases and for API servers this
// client cannot talk to.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

// DefaultGitHubReleasesURL is the latest-release endpoint of the CLI repository.
const DefaultGitHubReleasesURL = "https://api.github.com/repos/jmf-tools/jmf-cli/releases/latest"

// CheckTimeout bounds the release lookup.
const CheckTimeout = 5 * time.Second

// GitHubReleasesURL is the release endpoint queried by CheckForUpdate.
var GitHubReleasesURL = DefaultGitHubReleasesURL

// Release is the part of a GitHub release the check reads.
type Release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// CheckResult compares the running build with the latest release.
type CheckResult struct {
	CurrentVersion  string `json:"current_version"`
	LatestVersion   string `json:"latest_version"`
	UpdateURL       string `json:"update_url"`
	UpdateAvailable bool   `json:"update_available"`
}

// CheckForUpdate looks up the latest release. Development builds, lookup
// failures and unparseable tags all yield nil or no update; the check never
// fails a command.
func CheckForUpdate(ctx context.Context, currentVersion string) *CheckResult {
	if currentVersion == "dev" || currentVersion == "" {
		return nil
	}
	release, err := latestRelease(ctx, GitHubReleasesURL)
	if err != nil {
		return nil
	}
	return &CheckResult{
		CurrentVersion:  currentVersion,
		LatestVersion:   strings.TrimPrefix(release.TagName, "v"),
		UpdateURL:       release.HTMLURL,
		UpdateAvailable: newer(release.TagName, currentVersion),
	}
}

func latestRelease(ctx context.Context, url string) (Release, error) {
	ctx, cancel := context.WithTimeout(ctx, CheckTimeout)
	defer cancel()

	var release Release
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return release, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return release, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return release, fmt.Errorf("release lookup: %s", resp.Status)
	}
	err = json.NewDecoder(resp.Body).Decode(&release)
	return release, err
}

// newer reports whether tag is a later semantic version than current.
func newer(tag, current string) bool {
	latest, cur := canonical(tag), canonical(current)
	if !semver.IsValid(latest) || !semver.IsValid(cur) {
		return false
	}
	return semver.Compare(latest, cur) > 0
}

// canonical prefixes v so plain "1.2.3" tags parse as semver.
func canonical(v string) string {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}
