// Package strcase converts Go identifiers into other casing conventions.
package strcase

import (
	"strings"
	"unicode"
)

// ToLowerSnake converts an identifier such as LoginSessionID to login_session_id.
func ToLowerSnake(s string) string {
	runes := []rune(s)

	var b strings.Builder
	b.Grow(len(s) + 4)

	for i, r := range runes {
		if i > 0 && wordStart(runes, i) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

// wordStart reports whether runes[i] begins a new word: an upper-case rune
// after a lower-case rune or digit, or the last capital of an acronym that is
// followed by a lower-case rune (HTTPServer -> HTTP|Server).
func wordStart(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) {
		return false
	}
	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}

	return unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
