package utils

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

const maxSlugLength = 50

var (
	nonSlugChars    = regexp.MustCompile(`[^a-z0-9_-]+`)
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Slugify transliterates s to ASCII and reduces it to a URL-safe slug.
func Slugify(s string) string {
	result := strings.ToLower(unidecode.Unidecode(s))
	result = strings.ReplaceAll(result, " ", "-")
	result = nonSlugChars.ReplaceAllString(result, "")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	if len(result) > maxSlugLength {
		result = strings.TrimRight(result[:maxSlugLength], "-")
	}
	return result
}

// IsValidSlug reports whether s could be stored as a category or genre slug.
func IsValidSlug(s string) bool {
	return s != "" && len(s) <= maxSlugLength && slugPattern.MatchString(s)
}
