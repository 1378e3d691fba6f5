package textutil

import (
	"strings"
	"unicode/utf8"
)

// CollapseWhitespace replaces runs of Unicode whitespace with a single space
// and trims the ends.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Preview returns the first limit runes of s, with "..." appended when s was
// cut short.
func Preview(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "..."
}

// RuneLen returns the number of characters in s.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}
