package compiler

import (
	"strings"
	"unicode"
)

// Name reduces s to a GraphQL name, /[_A-Za-z][_0-9A-Za-z]*/, by dropping
// every other character and any leading digits. The result may be empty.
func Name(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '_', r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if b.Len() > 0 {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

// StringLiteral renders s as a quoted GraphQL string. Backslashes and quotes
// are escaped; line breaks and other control characters are removed.
func StringLiteral(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '\\' || r == '"':
			b.WriteByte('\\')
			b.WriteRune(r)
		case unicode.IsControl(r):
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
