// Package textutil provides text canonicalization shared by the matching
// layers. All pattern keys and matched content pass through Normalize so
// that punctuation and casing never affect comparisons.
package textutil

import (
	"strings"
	"unicode"
)

// Normalize canonicalizes free text for pattern matching: lowercase,
// non-word characters folded to spaces, whitespace collapsed, trimmed.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Words returns the normalized text split into its word set.
func Words(text string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, w := range strings.Fields(Normalize(text)) {
		words[w] = struct{}{}
	}
	return words
}

// CollapseSpaces collapses runs of whitespace to single spaces without
// changing case or punctuation.
func CollapseSpaces(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
