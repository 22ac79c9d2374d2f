package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Input length limits
const (
	MaxNameLength = 50
	MaxLimit      = 100
)

var (
	userSlugPattern    = regexp.MustCompile(`^\w{6,12}$`)
	articleSlugPattern = regexp.MustCompile(`^\w{12}$`)
)

// ValidateUserSlug checks the shape of a user slug (6 to 12 word characters).
func ValidateUserSlug(slug string) error {
	if !userSlugPattern.MatchString(slug) {
		return fmt.Errorf("invalid user slug %q: expected 6-12 letters or digits", slug)
	}
	return nil
}

// ValidateArticleSlug checks the shape of an article slug (12 word characters).
func ValidateArticleSlug(slug string) error {
	if !articleSlugPattern.MatchString(slug) {
		return fmt.Errorf("invalid article slug %q: expected 12 letters or digits", slug)
	}
	return nil
}

// ValidateName validates a user name length
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name cannot be empty")
	}

	length := utf8.RuneCountInString(name)
	if length > MaxNameLength {
		return fmt.Errorf("name exceeds maximum length of %d characters (got %d)", MaxNameLength, length)
	}

	return nil
}

// ValidateLimit checks a page size. Zero means the server default.
func ValidateLimit(limit int) error {
	if limit < 0 || limit > MaxLimit {
		return fmt.Errorf("limit must be between 1 and %d", MaxLimit)
	}
	return nil
}
