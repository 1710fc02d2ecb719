package aggregate

import (
	"context"

	"github.com/pscheid92/nlpnavigator/internal/domain"
	"github.com/pscheid92/nlpnavigator/internal/sentiment"
)

// lengthScorer scores by text length so order and mapping are easy to assert.
type lengthScorer struct {
	scoreFn func(text string) sentiment.Result
	calls   int
}

func (s *lengthScorer) Score(_ context.Context, text string) sentiment.Result {
	s.calls++
	if s.scoreFn != nil {
		return s.scoreFn(text)
	}
	return sentiment.Result{Score: float64(len(text)) / 100, Source: sentiment.SourceModel}
}

type classifierFunc func(ctx context.Context, text string) ([]domain.Prediction, error)

func (f classifierFunc) Classify(ctx context.Context, text string) ([]domain.Prediction, error) {
	return f(ctx, text)
}

type mockGeocoder struct {
	places map[string]domain.Coordinates
	errs   map[string]error
}

func (g *mockGeocoder) Geocode(_ context.Context, location string) (domain.Coordinates, error) {
	if err, ok := g.errs[location]; ok {
		return domain.Coordinates{}, err
	}
	if c, ok := g.places[location]; ok {
		return c, nil
	}
	return domain.Coordinates{}, domain.ErrLocationNotFound
}
