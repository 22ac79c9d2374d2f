// Package urlparse extracts user and article slugs from Jianshu URLs.
package urlparse

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/jmf-tools/jmf-cli/internal/validation"
)

// Kind is the resource a Jianshu URL points at.
type Kind string

const (
	KindUser    Kind = "user"
	KindArticle Kind = "article"
)

// ParsedURL is a Jianshu URL reduced to its resource slug.
type ParsedURL struct {
	Kind Kind
	Slug string
}

var (
	// /u/{slug}, slug of 6 to 12 word characters
	userPattern = regexp.MustCompile(`^/u/(\w{6,12})/?$`)
	// /p/{slug}, slug of 12 word characters
	articlePattern = regexp.MustCompile(`^/p/(\w{12})/?$`)
)

var jianshuHosts = map[string]bool{
	"www.jianshu.com": true,
	"jianshu.com":     true,
}

// Parse extracts the resource from a URL such as
// https://www.jianshu.com/u/ea36c8d8aa30 or https://www.jianshu.com/p/0123456789ab.
func Parse(rawURL string) (*ParsedURL, error) {
	if rawURL == "" {
		return nil, fmt.Errorf("URL cannot be empty")
	}

	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme == "" {
		return nil, fmt.Errorf("invalid URL: missing scheme (expected https://...)")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid URL scheme %q: expected http or https", parsed.Scheme)
	}
	if !jianshuHosts[strings.ToLower(parsed.Hostname())] {
		return nil, fmt.Errorf("not a Jianshu URL: %s", parsed.Host)
	}

	if m := userPattern.FindStringSubmatch(parsed.Path); m != nil {
		return &ParsedURL{Kind: KindUser, Slug: m[1]}, nil
	}
	if m := articlePattern.FindStringSubmatch(parsed.Path); m != nil {
		return &ParsedURL{Kind: KindArticle, Slug: m[1]}, nil
	}
	return nil, fmt.Errorf("invalid Jianshu URL format: expected /u/{user_slug} or /p/{article_slug}")
}

// UserSlug accepts either a user URL or a bare slug and returns the slug.
func UserSlug(input string) (string, error) {
	return slugOf(input, KindUser, validation.ValidateUserSlug)
}

// ArticleSlug accepts either an article URL or a bare slug and returns the slug.
func ArticleSlug(input string) (string, error) {
	return slugOf(input, KindArticle, validation.ValidateArticleSlug)
}

func slugOf(input string, kind Kind, validate func(string) error) (string, error) {
	input = strings.TrimSpace(input)
	if !strings.Contains(input, "://") {
		if err := validate(input); err != nil {
			return "", err
		}
		return input, nil
	}
	parsed, err := Parse(input)
	if err != nil {
		return "", err
	}
	if parsed.Kind != kind {
		return "", fmt.Errorf("expected a %s URL, got a %s URL", kind, parsed.Kind)
	}
	return parsed.Slug, nil
}

// UserURL returns the canonical URL of a user.
func UserURL(slug string) string {
	return "https://www.jianshu.com/u/" + slug
}

// ArticleURL returns the canonical URL of an article.
func ArticleURL(slug string) string {
	return "https://www.jianshu.com/p/" + slug
}
