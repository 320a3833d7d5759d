package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var textPolicy = bluemonday.StrictPolicy()

// maxSanitizePasses bounds how many layers of entity encoding are peeled off.
const maxSanitizePasses = 5

// SanitizeText strips markup from user supplied free text. The policy output is
// entity-escaped and unescaped again to keep apostrophes and ampersands readable,
// so the pass repeats until no markup hidden behind entities remains.
func SanitizeText(s string) string {
	for i := 0; i < maxSanitizePasses; i++ {
		clean := html.UnescapeString(textPolicy.Sanitize(s))
		if clean == s {
			break
		}
		s = clean
	}
	return strings.TrimSpace(s)
}

// SanitizeTextPtr is SanitizeText for optional fields.
func SanitizeTextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	clean := SanitizeText(*s)
	return &clean
}
