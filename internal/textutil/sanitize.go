package textutil

import "strings"

const unknownToken = "unknown"

// SanitizeToken lowercases a manifest group ID into the middle segment of a
// card ID ("<group index>-<token>-<sample index>"). ASCII letters, digits,
// '-' and '_' survive; every other rune becomes '_'. Leading and trailing
// separators are dropped, and an ID that leaves nothing behind becomes
// "unknown" so card IDs never contain an empty segment.
func SanitizeToken(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return unknownToken
	}
	token := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '_'
		}
	}, value)
	token = strings.Trim(token, "_-")
	if token == "" {
		return unknownToken
	}
	return token
}
