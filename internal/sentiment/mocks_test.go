package sentiment

import (
	"context"

	"github.com/pscheid92/nlpnavigator/internal/domain"
)

type mockClassifier struct {
	classifyFn func(ctx context.Context, text string) ([]domain.Prediction, error)
	calls      int
}

func (m *mockClassifier) Classify(ctx context.Context, text string) ([]domain.Prediction, error) {
	m.calls++
	if m.classifyFn != nil {
		return m.classifyFn(ctx, text)
	}
	return []domain.Prediction{{Label: domain.LabelNeutral, Score: 1}}, nil
}

func returning(preds ...domain.Prediction) *mockClassifier {
	return &mockClassifier{classifyFn: func(context.Context, string) ([]domain.Prediction, error) {
		return preds, nil
	}}
}
