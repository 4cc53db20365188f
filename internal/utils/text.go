package utils

import (
	"regexp"
	"strings"
)

var (
	tagPattern     = regexp.MustCompile(`<[^>]*>?`)
	newlinePattern = regexp.MustCompile(`\r\n|\n|\r`)
	emailPattern   = regexp.MustCompile(`^\S+@\S+\.\S+$`)
)

// CleanText strips HTML tags and collapses newlines to spaces. Free
// text from the visitor crosses into replies and into talent-store
// fields, so it is sanitized before being echoed or stored.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	clean := tagPattern.ReplaceAllString(text, "")
	clean = newlinePattern.ReplaceAllString(clean, " ")
	return strings.TrimSpace(clean)
}

// IsValidEmail reports whether the input matches the conservative
// <nonspace>@<nonspace>.<nonspace> pattern.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// Truncate caps text at limit characters, appending "..." when
// anything was cut.
func Truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}
