package textutil

import "strings"

// SanitizeSpeaker maps every rune outside [A-Za-z0-9_-] to an underscore,
// keeping case. The result is safe as a filename component.
func SanitizeSpeaker(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
