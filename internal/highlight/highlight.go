// Package highlight marks matched stem spans in result text.
package highlight

import (
	"regexp"
	"strings"

	"github.com/RapidRiverSoftware/jobs-api/internal/tokenizer"
)

// wordRegex locates the surface word spans eligible for wrapping. Everything
// between them (whitespace, punctuation) passes through untouched.
var wordRegex = regexp.MustCompile(`[a-zA-Z0-9]+`)

// Highlighter wraps surface spans whose stem is in the matched set.
type Highlighter struct {
	preTag  string
	postTag string
}

// New creates a Highlighter with the given marker pair.
func New(preTag, postTag string) *Highlighter {
	return &Highlighter{preTag: preTag, postTag: postTag}
}

// Highlight wraps each contiguous surface span whose stem matches a query
// stem, preserving the original casing and surrounding punctuation exactly.
// Each word is inspected once, so overlapping matches cannot double-wrap.
func (h *Highlighter) Highlight(text string, matchedStems map[string]struct{}) string {
	if len(matchedStems) == 0 {
		return text
	}

	return wordRegex.ReplaceAllStringFunc(text, func(word string) string {
		stem := tokenizer.Stem(strings.ToLower(word))
		if _, ok := matchedStems[stem]; ok {
			return h.preTag + word + h.postTag
		}
		return word
	})
}
