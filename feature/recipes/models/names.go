package models

import (
	"strings"
	"unicode"
)

// NormalizeName reduces a dish name to its identity form: lower case, "&"
// spelled "and", apostrophes and periods dropped, every other non letter or
// digit rune turned into a space, whitespace collapsed. "Mom's Chicken-Curry"
// and "moms chicken curry" normalize to the same string.
func NormalizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		switch {
		case r == '&':
			b.WriteString(" and ")
		case r == '\'' || r == '’' || r == '.' || r == '`':
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
