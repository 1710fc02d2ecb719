package app

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/pscheid92/nlpnavigator/internal/chart"
	"github.com/pscheid92/nlpnavigator/internal/domain"
	"github.com/pscheid92/nlpnavigator/internal/keyphrase"
	"github.com/pscheid92/nlpnavigator/internal/similarity"
	"github.com/pscheid92/nlpnavigator/internal/textproc"
	"github.com/pscheid92/nlpnavigator/internal/wordcloud"
)

const (
	SummaryMinLength = 25
	SummaryMaxLength = 50
)

func requireText(text, what string) error {
	if strings.TrimSpace(text) == "" {
		return structured(fmt.Errorf("%w: enter %s", domain.ErrNothingToDisplay, what))
	}
	return nil
}

type EmotionReport struct {
	Text        string
	Predictions []domain.Prediction // highest confidence first
	Chart       []byte
	Warnings    []string
}

// Emotions classifies text against the emotion model.
func (s *Service) Emotions(ctx context.Context, text string, theme chart.Theme) (*EmotionReport, error) {
	if err := requireText(text, "some text to analyse"); err != nil {
		return nil, err
	}

	report := &EmotionReport{Text: text}
	preds, err := s.deps.Emotion.Classify(ctx, text)
	if err != nil || len(preds) == 0 {
		slog.WarnContext(ctx, "Emotion model unavailable", "error", err)
		report.Warnings = append(report.Warnings, "The emotion model is currently unavailable. Please try again later.")
		s.observeDegraded("emotion")
		return report, nil
	}

	sort.SliceStable(preds, func(i, j int) bool { return preds[i].Score > preds[j].Score })
	report.Predictions = preds

	report.Chart, err = chart.Predictions("Emotion Scores", preds, theme)
	if err != nil {
		return nil, fmt.Errorf("failed to render emotion chart: %w", err)
	}
	return report, nil
}

type KeyPhraseReport struct {
	Result   *keyphrase.Result
	Warnings []string
}

func (s *Service) KeyPhrases(ctx context.Context, text string, topN int) (*KeyPhraseReport, error) {
	if err := requireText(text, "some text to extract key phrases from"); err != nil {
		return nil, err
	}

	res, err := s.phrases.Extract(ctx, text, topN)
	if err != nil {
		return nil, structured(err)
	}

	report := &KeyPhraseReport{Result: res}
	if res.Degraded() {
		report.Warnings = append(report.Warnings, "The embedding model was unavailable; phrases were ranked by TF-IDF instead.")
		s.observeDegraded("keyphrases")
	}
	return report, nil
}

type SummaryReport struct {
	Summary  string
	Warnings []string
}

// Summarize condenses text to between SummaryMinLength and SummaryMaxLength tokens.
func (s *Service) Summarize(ctx context.Context, text string) (*SummaryReport, error) {
	if err := requireText(text, "some text to summarise"); err != nil {
		return nil, err
	}

	summary, err := s.deps.Summarizer.Summarize(ctx, text, SummaryMinLength, SummaryMaxLength)
	if err != nil {
		slog.WarnContext(ctx, "Summarizer unavailable", "error", err)
		s.observeDegraded("summarize")
		return &SummaryReport{Warnings: []string{"The summarisation model is currently unavailable. Please try again later."}}, nil
	}
	return &SummaryReport{Summary: summary}, nil
}

type SimilarityReport struct {
	Result   similarity.Result
	Warnings []string
}

func (s *Service) Similarity(ctx context.Context, a, b string) (*SimilarityReport, error) {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return nil, structured(fmt.Errorf("%w: enter both texts to compare", domain.ErrNothingToDisplay))
	}

	res := similarity.Compare(ctx, s.deps.Embedder, a, b)
	report := &SimilarityReport{Result: res}
	if res.Degraded() {
		report.Warnings = append(report.Warnings, "The embedding model was unavailable; similarity was computed with TF-IDF instead.")
		s.observeDegraded("similarity")
	}
	return report, nil
}

type WordCloudReport struct {
	Words []wordcloud.Word
	Chart []byte
}

// WordCloud sizes the most frequent non-stop-words of text.
func (s *Service) WordCloud(ctx context.Context, text string, theme chart.Theme) (*WordCloudReport, error) {
	if err := requireText(text, "some text for the word cloud"); err != nil {
		return nil, err
	}

	freq, err := textproc.Frequencies(text)
	if err != nil {
		return nil, err
	}
	if len(freq) == 0 {
		return nil, structured(fmt.Errorf("%w: the text has no words besides stop words", domain.ErrNothingToDisplay))
	}

	opts := wordcloud.DefaultOptions()
	words := wordcloud.Layout(freq, opts)
	png, err := chart.WordCloud(words, opts, theme)
	if err != nil {
		return nil, fmt.Errorf("failed to render word cloud: %w", err)
	}
	return &WordCloudReport{Words: words, Chart: png}, nil
}

type ProcessReport struct {
	Processed string
	Tokens    int
}

// Process removes stop words and stems the rest, as selected.
func (s *Service) Process(_ context.Context, text string, opts textproc.Options) (*ProcessReport, error) {
	if err := requireText(text, "some text to process"); err != nil {
		return nil, err
	}
	out := textproc.Normalize(text, opts)
	return &ProcessReport{Processed: out, Tokens: len(strings.Fields(out))}, nil
}
