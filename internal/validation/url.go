// Package validation checks user-supplied settings and identifiers before
// they reach the network.
package validation

import (
	"errors"
	"fmt"
	"net/netip"
	"net/url"
	"slices"
	"strings"
)

// MaxURLLength is the standard browser URL limit.
const MaxURLLength = 2048

// metadataHosts are cloud instance metadata endpoints.
var metadataHosts = []string{
	"169.254.169.254",
	"metadata.google.internal",
	"metadata",
	"instance-data",
	"fd00:ec2::254",
}

// baseURLRules run in order against a parsed base URL; the first error wins.
var baseURLRules = []func(u *url.URL) error{
	func(u *url.URL) error {
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("invalid URL scheme: only http and https are allowed, got %q", u.Scheme)
		}
		return nil
	},
	func(u *url.URL) error {
		if u.Hostname() == "" {
			return errors.New("URL must contain a hostname")
		}
		return nil
	},
	func(u *url.URL) error {
		switch {
		case u.User != nil:
			return errors.New("URL must not contain credentials")
		case u.RawQuery != "" || u.ForceQuery:
			return errors.New("URL must not contain a query")
		case u.Fragment != "":
			return errors.New("URL must not contain a fragment")
		}
		return nil
	},
	func(u *url.URL) error {
		if isCloudMetadata(u.Hostname()) {
			return errors.New("cloud metadata endpoints are not allowed")
		}
		return nil
	},
	func(u *url.URL) error {
		addr, err := netip.ParseAddr(u.Hostname())
		switch {
		case err != nil:
			return nil
		case addr.IsUnspecified():
			return errors.New("unspecified IP addresses are not allowed")
		case addr.IsLinkLocalUnicast() || addr.IsLinkLocalMulticast():
			return errors.New("link-local IP addresses are not allowed")
		}
		return nil
	},
}

// ValidateBaseURL checks the API base URL: http or https with a host, a
// path prefix at most, and no cloud metadata or link-local target. Local and
// private hosts are allowed since the API often runs next to the client.
func ValidateBaseURL(rawURL string) error {
	switch {
	case rawURL == "":
		return errors.New("URL cannot be empty")
	case len(rawURL) > MaxURLLength:
		return fmt.Errorf("URL exceeds maximum length of %d characters", MaxURLLength)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}
	for _, rule := range baseURLRules {
		if err := rule(u); err != nil {
			return err
		}
	}
	return nil
}

func isCloudMetadata(host string) bool {
	host = strings.ToLower(host)
	return slices.Contains(metadataHosts, host) || strings.HasSuffix(host, ".metadata.google.internal")
}
