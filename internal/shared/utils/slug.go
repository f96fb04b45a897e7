package utils

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9-]+`)
	slugHyphenRuns   = regexp.MustCompile(`-+`)
)

// GenerateSlug builds a URL-safe slug from a name:
// "Cotton Kurta (Blue)" → "cotton-kurta-blue".
func GenerateSlug(input string) string {
	lower := strings.ToLower(input)

	hyphenated := strings.ReplaceAll(lower, " ", "-")

	cleaned := slugInvalidChars.ReplaceAllString(hyphenated, "")

	normalized := slugHyphenRuns.ReplaceAllString(cleaned, "-")

	return strings.Trim(normalized, "-")
}

// GenerateUniqueSlug appends a short random suffix, for retrying after a
// slug uniqueness conflict.
func GenerateUniqueSlug(input string) string {
	suffix := strings.ToLower(uuid.New().String()[:6])
	base := GenerateSlug(input)
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}
