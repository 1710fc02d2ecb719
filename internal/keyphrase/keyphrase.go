// Package keyphrase ranks 1-2 word candidate phrases by how close their embedding
// sits to the embedding of the whole document.
package keyphrase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/james-bowman/nlp"
	"github.com/pscheid92/nlpnavigator/internal/domain"
	"github.com/pscheid92/nlpnavigator/internal/similarity"
	"github.com/pscheid92/nlpnavigator/internal/textproc"
)

const (
	MinTopN     = 1
	MaxTopN     = 10
	DefaultTopN = 5
)

var ErrInvalidTopN = fmt.Errorf("top_n must be between %d and %d", MinTopN, MaxTopN)

type Phrase struct {
	Text  string
	Score float64
}

type Method string

const (
	MethodEmbedding Method = "embedding"
	MethodTFIDF     Method = "tfidf"
)

type Result struct {
	Phrases []Phrase
	Method  Method
	Err     error // embedder failure that forced the TF-IDF fallback
}

func (r Result) Degraded() bool { return r.Err != nil }

type Extractor struct {
	embedder domain.Embedder
}

func NewExtractor(embedder domain.Embedder) *Extractor {
	return &Extractor{embedder: embedder}
}

// Extract returns up to topN phrases, best first.
func (x *Extractor) Extract(ctx context.Context, text string, topN int) (*Result, error) {
	if topN < MinTopN || topN > MaxTopN {
		return nil, ErrInvalidTopN
	}

	candidates, err := Candidates(text)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, domain.ErrNothingToDisplay
	}

	phrases, err := x.rankByEmbedding(ctx, text, candidates)
	if err != nil {
		slog.WarnContext(ctx, "Embedder unavailable, ranking key phrases by TF-IDF", "error", err)
		return &Result{Phrases: top(rankByTFIDF(text), topN), Method: MethodTFIDF, Err: err}, nil
	}
	return &Result{Phrases: top(phrases, topN), Method: MethodEmbedding}, nil
}

// Candidates returns the distinct unigrams and bigrams of text after stop-word
// removal, in first-seen order.
func Candidates(text string) ([]string, error) {
	words, err := textproc.ContentWords(text)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var out []string
	add := func(c string) {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	for i, w := range words {
		add(w)
		if i+1 < len(words) {
			add(w + " " + words[i+1])
		}
	}
	return out, nil
}

func (x *Extractor) rankByEmbedding(ctx context.Context, text string, candidates []string) ([]Phrase, error) {
	if x.embedder == nil {
		return nil, domain.ErrModelUnavailable
	}

	vecs, err := x.embedder.Embed(ctx, append([]string{text}, candidates...))
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(candidates)+1 {
		return nil, errors.New("embedder returned wrong number of vectors")
	}

	doc := vecs[0]
	phrases := make([]Phrase, len(candidates))
	for i, c := range candidates {
		score, err := similarity.Cosine(doc, vecs[i+1])
		if err != nil {
			return nil, err
		}
		phrases[i] = Phrase{Text: c, Score: score}
	}
	return phrases, nil
}

// rankByTFIDF weights unigrams by TF-IDF with each sentence treated as a document.
func rankByTFIDF(text string) []Phrase {
	docs, err := textproc.Segment(text, textproc.BySentence)
	if err != nil || len(docs) == 0 {
		docs = []string{text}
	}

	vectoriser := nlp.NewCountVectoriser(textproc.StopWords()...)
	pipeline := nlp.NewPipeline(vectoriser, nlp.NewTfidfTransformer())
	m, err := pipeline.FitTransform(docs...)
	if err != nil || len(vectoriser.Vocabulary) == 0 {
		return nil
	}

	_, cols := m.Dims()
	phrases := make([]Phrase, 0, len(vectoriser.Vocabulary))
	for term, row := range vectoriser.Vocabulary {
		var w float64
		for j := 0; j < cols; j++ {
			w += m.At(row, j)
		}
		phrases = append(phrases, Phrase{Text: term, Score: w})
	}
	return phrases
}

func top(phrases []Phrase, n int) []Phrase {
	sort.SliceStable(phrases, func(i, j int) bool {
		if phrases[i].Score != phrases[j].Score {
			return phrases[i].Score > phrases[j].Score
		}
		return strings.Compare(phrases[i].Text, phrases[j].Text) < 0
	})
	if len(phrases) > n {
		phrases = phrases[:n]
	}
	return phrases
}
