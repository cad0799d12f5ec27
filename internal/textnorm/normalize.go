// Package textnorm holds the case and accent insensitive text normalization
// shared by every extractor.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize strips diacritics, upper-cases and collapses whitespace runs.
//
//	Normalize("São  Paulo\n") == "SAO PAULO"
func Normalize(s string) string {
	if s == "" {
		return s
	}
	out, _, err := transform.String(stripAccents, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToUpper(out)), " ")
}

// StripAccents removes diacritics but keeps case and line structure.
func StripAccents(s string) string {
	out, _, err := transform.String(stripAccents, s)
	if err != nil {
		return s
	}
	return out
}

// TitleCase upper-cases the first rune of every word and lower-cases the rest.
// Words are separated by whitespace, which is collapsed to single spaces.
func TitleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		rs := []rune(strings.ToLower(w))
		rs[0] = unicode.ToUpper(rs[0])
		words[i] = string(rs)
	}
	return strings.Join(words, " ")
}
