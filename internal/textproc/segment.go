package textproc

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/jdkato/prose/v2"
)

type Granularity string

const (
	BySentence Granularity = "sentence"
	ByWord     Granularity = "word"
)

var ErrUnknownGranularity = errors.New("unknown granularity")

func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(strings.ToLower(strings.TrimSpace(s))); g {
	case BySentence, ByWord:
		return g, nil
	case "":
		return BySentence, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownGranularity, s)
	}
}

// Segment splits text into sentences or word tokens. Punctuation-only tokens are dropped.
func Segment(text string, g Granularity) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithExtraction(false),
		prose.WithSegmentation(g == BySentence),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to segment text: %w", err)
	}

	var out []string
	if g == BySentence {
		for _, s := range doc.Sentences() {
			if t := strings.TrimSpace(s.Text); t != "" {
				out = append(out, t)
			}
		}
		return out, nil
	}

	for _, tok := range doc.Tokens() {
		if isWord(tok.Text) {
			out = append(out, tok.Text)
		}
	}
	return out, nil
}

// Words returns the lowercased word tokens of text.
func Words(text string) ([]string, error) {
	toks, err := Segment(text, ByWord)
	if err != nil {
		return nil, err
	}
	for i, t := range toks {
		toks[i] = strings.ToLower(t)
	}
	return toks, nil
}

// ContentWords returns the lowercased word tokens of text that are not stop words.
func ContentWords(text string) ([]string, error) {
	words, err := Words(text)
	if err != nil {
		return nil, err
	}
	out := words[:0]
	for _, w := range words {
		if !IsStopWord(w) {
			out = append(out, w)
		}
	}
	return out, nil
}

// Frequencies counts content words of text.
func Frequencies(text string) (map[string]int, error) {
	words, err := ContentWords(text)
	if err != nil {
		return nil, err
	}
	freq := make(map[string]int, len(words))
	for _, w := range words {
		freq[w]++
	}
	return freq, nil
}

func isWord(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
