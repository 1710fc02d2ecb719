package sentiment

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/pscheid92/nlpnavigator/internal/domain"
)

// MinTextLength is the shortest text, in characters, that is scored at all.
const MinTextLength = 10

type Source string

const (
	SourceTooShort Source = "too_short"
	SourceKeyword  Source = "keyword"
	SourceModel    Source = "model"
	SourceDegraded Source = "degraded"
)

type Result struct {
	Score      float64
	Label      string
	Confidence float64
	Source     Source
	Err        error // set only when Source is SourceDegraded
}

func (r Result) Degraded() bool { return r.Source == SourceDegraded }

type Scorer struct {
	classifier domain.Classifier
	keywords   Keywords
	minLength  int
}

type Option func(*Scorer)

func WithKeywords(kw Keywords) Option {
	return func(s *Scorer) { s.keywords = kw }
}

func WithMinLength(n int) Option {
	return func(s *Scorer) { s.minLength = n }
}

func NewScorer(classifier domain.Classifier, opts ...Option) *Scorer {
	s := &Scorer{
		classifier: classifier,
		keywords:   DefaultKeywords(),
		minLength:  MinTextLength,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scorer) Score(ctx context.Context, text string) Result {
	if utf8.RuneCountInString(text) < s.minLength {
		return Result{Label: domain.LabelNeutral, Source: SourceTooShort}
	}

	if label, ok := MatchKeyword(text, s.keywords); ok {
		return Result{
			Score:      SignedScore(label, 1),
			Label:      label,
			Confidence: 1,
			Source:     SourceKeyword,
		}
	}

	top, err := s.top(ctx, text)
	if err != nil {
		slog.WarnContext(ctx, "Sentiment classifier unavailable, scoring neutral", "error", err)
		return Result{Label: domain.LabelNeutral, Source: SourceDegraded, Err: err}
	}

	return Result{
		Score:      SignedScore(top.Label, top.Score),
		Label:      top.Label,
		Confidence: top.Score,
		Source:     SourceModel,
	}
}

// ScoreAll scores each text in order.
func (s *Scorer) ScoreAll(ctx context.Context, texts []string) []Result {
	out := make([]Result, len(texts))
	for i, text := range texts {
		out[i] = s.Score(ctx, text)
	}
	return out
}

// Compare scores two texts side by side.
func (s *Scorer) Compare(ctx context.Context, a, b string) (Result, Result) {
	return s.Score(ctx, a), s.Score(ctx, b)
}

func (s *Scorer) top(ctx context.Context, text string) (domain.Prediction, error) {
	return Top(ctx, s.classifier, text)
}

// Top calls the classifier and returns its highest-confidence prediction.
func Top(ctx context.Context, c domain.Classifier, text string) (domain.Prediction, error) {
	preds, err := c.Classify(ctx, text)
	if err != nil {
		return domain.Prediction{}, err
	}
	if len(preds) == 0 {
		return domain.Prediction{}, errors.New("classifier returned no labels")
	}

	best := preds[0]
	for _, p := range preds[1:] {
		if p.Score > best.Score {
			best = p
		}
	}
	return best, nil
}

// SignedScore maps a label and confidence to [-1, 1]. Labels other than
// POSITIVE and NEGATIVE score 0. Binary models that emit LABEL_0/LABEL_1 are
// treated as negative/positive.
func SignedScore(label string, confidence float64) float64 {
	switch strings.ToUpper(label) {
	case domain.LabelPositive, "LABEL_1":
		return clamp(confidence)
	case domain.LabelNegative, "LABEL_0":
		return -clamp(confidence)
	default:
		return 0
	}
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
