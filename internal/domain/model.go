package domain

import "context"

// Canonical classifier labels. Other labels (emotions, go_emotions) pass through as returned.
const (
	LabelPositive = "POSITIVE"
	LabelNegative = "NEGATIVE"
	LabelNeutral  = "NEUTRAL"
)

// Prediction is one label with its classifier confidence in [0, 1].
type Prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classifier returns every label the model produced, highest confidence first.
type Classifier interface {
	Classify(ctx context.Context, text string) ([]Prediction, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, text string, minLength, maxLength int) (string, error)
}

// Embedder returns one vector per input text, in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}
