// Package bm25 provides tokenization and Okapi BM25 lexical scoring.
package bm25

import (
	"strings"
	"unicode"
)

// Tokenize lowercases text and splits it into index terms. Characters that
// are not Unicode letters, digits, or whitespace are treated as separators,
// so punctuation is dropped while mixed-script text and alphanumeric terms
// like "gpt4" survive. Empty or whitespace-only input yields no terms.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, text)
	return strings.Fields(mapped)
}
