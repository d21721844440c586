package tokenizer

import (
	"regexp"
	"strings"

	"github.com/kljensen/snowball/english"
)

// nonAlphanumericRegex matches sequences of non-alphanumeric characters.
var nonAlphanumericRegex = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// Tokenize converts a string into a slice of lowercase tokens, split by
// non-alphanumeric characters.
func Tokenize(text string) []string {
	split := nonAlphanumericRegex.Split(strings.ToLower(text), -1)

	tokens := make([]string, 0) // Initialize as empty slice, not nil
	for _, s := range split {
		if s != "" { // Filter out empty strings
			tokens = append(tokens, s)
		}
	}
	return tokens
}

// Stem reduces a single lowercase token to its snowball (English) stem, so
// that inflections like "nursing", "nurse" and "nurses" conflate.
func Stem(token string) string {
	return english.Stem(token, true)
}

// TokenizeAndStem combines Tokenize and Stem: it produces the stemmed token
// stream used for indexing and querying.
func TokenizeAndStem(text string) []string {
	tokens := Tokenize(text)
	stems := make([]string, 0, len(tokens))
	for _, token := range tokens {
		stems = append(stems, Stem(token))
	}
	return stems
}

// UniqueStems returns the distinct stems of the text, preserving first-seen
// order.
func UniqueStems(text string) []string {
	stems := TokenizeAndStem(text)

	result := make([]string, 0, len(stems))
	seen := make(map[string]struct{}, len(stems))
	for _, stem := range stems {
		if _, dup := seen[stem]; dup {
			continue
		}
		seen[stem] = struct{}{}
		result = append(result, stem)
	}
	return result
}
