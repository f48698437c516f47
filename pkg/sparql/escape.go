package sparql

import (
	"fmt"
	"strings"
	"time"

	"github.com/gait-ai/gait/pkg/errors"
)

var literalEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
	"\b", `\b`,
	"\f", `\f`,
)

// Literal renders s as a quoted SPARQL string literal. Every character that
// could end the literal early is escaped, so the store reads back exactly s.
func Literal(s string) string {
	return `"` + literalEscaper.Replace(s) + `"`
}

// DateTime renders t as an xsd:dateTime typed literal.
func DateTime(t time.Time) string {
	return Literal(t.UTC().Format(time.RFC3339Nano)) + "^^xsd:dateTime"
}

// ParseDateTime parses the lexical form of an xsd:dateTime value.
func ParseDateTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "parse xsd:dateTime %q", s)
	}
	return t, nil
}

// IRI renders s as an IRI reference, percent-encoding the characters an
// IRIREF may not contain.
func IRI(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('<')
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch <= 0x20 || strings.IndexByte(`<>"{}|^`+"`"+`\`, ch) >= 0 {
			fmt.Fprintf(&b, "%%%02X", ch)
			continue
		}
		b.WriteByte(ch)
	}
	b.WriteByte('>')
	return b.String()
}
