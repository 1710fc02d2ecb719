package inference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/pscheid92/nlpnavigator/internal/domain"
)

// Classifier is a text-classification pipeline.
type Classifier struct{ p *pipeline }

var _ domain.Classifier = (*Classifier)(nil)

// Classify returns every label, highest confidence first. The API answers either
// [[{label, score}]] or [{label, score}] depending on the model.
func (c *Classifier) Classify(ctx context.Context, text string) ([]domain.Prediction, error) {
	var raw json.RawMessage
	if err := c.p.call(ctx, text, map[string]any{"top_k": nil}, &raw); err != nil {
		return nil, err
	}

	preds, err := decodePredictions(raw)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", c.p.model, err)
	}
	sort.SliceStable(preds, func(i, j int) bool { return preds[i].Score > preds[j].Score })
	return preds, nil
}

func decodePredictions(raw json.RawMessage) ([]domain.Prediction, error) {
	var nested [][]domain.Prediction
	if err := json.Unmarshal(raw, &nested); err == nil && len(nested) > 0 {
		return nested[0], nil
	}
	var flat []domain.Prediction
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("unexpected classification body: %w", err)
	}
	return flat, nil
}

// Summarizer is a summarization pipeline.
type Summarizer struct{ p *pipeline }

var _ domain.Summarizer = (*Summarizer)(nil)

func (s *Summarizer) Summarize(ctx context.Context, text string, minLength, maxLength int) (string, error) {
	var out []struct {
		SummaryText string `json:"summary_text"`
	}
	params := map[string]any{"min_length": minLength, "max_length": maxLength, "do_sample": false}
	if err := s.p.call(ctx, text, params, &out); err != nil {
		return "", err
	}
	if len(out) == 0 {
		return "", fmt.Errorf("model %s returned no summary", s.p.model)
	}
	return out[0].SummaryText, nil
}

// Embedder is a feature-extraction pipeline.
type Embedder struct{ p *pipeline }

var _ domain.Embedder = (*Embedder)(nil)

// Embed returns one vector per text. Token-level outputs are mean pooled.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	var raw []json.RawMessage
	if err := e.p.call(ctx, texts, nil, &raw); err != nil {
		return nil, err
	}
	if len(raw) != len(texts) {
		return nil, fmt.Errorf("model %s returned %d vectors for %d texts", e.p.model, len(raw), len(texts))
	}

	out := make([][]float64, len(raw))
	for i, r := range raw {
		vec, err := decodeVector(r)
		if err != nil {
			return nil, fmt.Errorf("model %s vector %d: %w", e.p.model, i, err)
		}
		out[i] = vec
	}
	return out, nil
}

func decodeVector(raw json.RawMessage) ([]float64, error) {
	var vec []float64
	if err := json.Unmarshal(raw, &vec); err == nil {
		return vec, nil
	}

	var tokens [][]float64
	if err := json.Unmarshal(raw, &tokens); err != nil {
		return nil, fmt.Errorf("unexpected embedding shape: %w", err)
	}
	return meanPool(tokens)
}

func meanPool(tokens [][]float64) ([]float64, error) {
	if len(tokens) == 0 || len(tokens[0]) == 0 {
		return nil, errors.New("empty token matrix")
	}
	dim := len(tokens[0])
	out := make([]float64, dim)
	for _, tok := range tokens {
		if len(tok) != dim {
			return nil, errors.New("ragged token matrix")
		}
		for j, v := range tok {
			out[j] += v
		}
	}
	for j := range out {
		out[j] /= float64(len(tokens))
	}
	return out, nil
}
