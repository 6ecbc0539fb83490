package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Strict policy: submitted text is stored as plain text. Rendering is the
// frontend's concern; the backend only strips markup on the way in.
var sanitizePolicy = bluemonday.StrictPolicy()

// SanitizeText removes any HTML from user-submitted content and trims
// surrounding whitespace.
func SanitizeText(s string) string {
	return strings.TrimSpace(sanitizePolicy.Sanitize(s))
}
