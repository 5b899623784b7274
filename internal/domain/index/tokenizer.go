// Package index provides the full-text search index over profile name
// fields: a word tokenizer and an inverted index with AND query semantics.
package index

import (
	"strings"
	"unicode"
)

// Tokenize lowercases input, splits on whitespace, and strips every
// non-alphanumeric rune from each word. Words that strip to nothing are
// discarded.
func Tokenize(input string) []string {
	var tokens []string
	for _, word := range strings.Fields(strings.ToLower(input)) {
		var b strings.Builder
		for _, r := range word {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteRune(r)
			}
		}
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
		}
	}
	return tokens
}
