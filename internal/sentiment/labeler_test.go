package sentiment

import (
	"context"
	"errors"
	"testing"

	"github.com/pscheid92/nlpnavigator/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestLabeler_PassesLabelThrough(t *testing.T) {
	m := returning(
		domain.Prediction{Label: "admiration", Score: 0.3},
		domain.Prediction{Label: "curiosity", Score: 0.6},
	)
	r := NewLabeler(m).Label(context.Background(), "hi")

	assert.Equal(t, "curiosity", r.Label)
	assert.Equal(t, 0.6, r.Confidence)
	assert.Equal(t, SourceModel, r.Source)
	assert.Equal(t, 1, m.calls)
}

func TestLabeler_IgnoresKeywords(t *testing.T) {
	m := returning(domain.Prediction{Label: "optimism", Score: 0.5})
	r := NewLabeler(m).Label(context.Background(), "ransomware gang arrested")
	assert.Equal(t, "optimism", r.Label)
}

func TestLabeler_DegradesToNeutral(t *testing.T) {
	m := &mockClassifier{classifyFn: func(context.Context, string) ([]domain.Prediction, error) {
		return nil, errors.New("timeout")
	}}
	r := NewLabeler(m).Label(context.Background(), "anything at all")
	assert.Equal(t, domain.LabelNeutral, r.Label)
	assert.True(t, r.Degraded())
}
