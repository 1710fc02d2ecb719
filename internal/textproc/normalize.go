// Package textproc holds the local text handling: stop-word removal, stemming,
// sentence and word segmentation, and token counting.
package textproc

import (
	"strings"

	"github.com/kljensen/snowball/english"
)

type Options struct {
	RemoveStopWords bool
	Stem            bool
}

// Normalize splits text on whitespace, drops stop words and stems the remaining
// tokens, in that order, according to opts. Punctuation stays attached to its token.
func Normalize(text string, opts Options) string {
	tokens := strings.Fields(text)
	if opts.RemoveStopWords {
		tokens = RemoveStopWords(tokens)
	}
	if opts.Stem {
		tokens = Stem(tokens)
	}
	return strings.Join(tokens, " ")
}

// RemoveStopWords returns the tokens whose lowercased form is not a stop word.
func RemoveStopWords(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if IsStopWord(strings.ToLower(tok)) {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// Stem applies the Snowball English stemmer to each token.
func Stem(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = english.Stem(tok, true)
	}
	return out
}
