package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/nlpnavigator/internal/adapter/export"
	"github.com/pscheid92/nlpnavigator/internal/domain"
)

var errModelDown = errors.New("model down")

type mockClassifier struct {
	classifyFn func(ctx context.Context, text string) ([]domain.Prediction, error)
}

func (m *mockClassifier) Classify(ctx context.Context, text string) ([]domain.Prediction, error) {
	if m.classifyFn != nil {
		return m.classifyFn(ctx, text)
	}
	return []domain.Prediction{{Label: domain.LabelPositive, Score: 0.9}}, nil
}

func failingClassifier() *mockClassifier {
	return &mockClassifier{classifyFn: func(context.Context, string) ([]domain.Prediction, error) {
		return nil, errModelDown
	}}
}

type mockSummarizer struct {
	summarizeFn func(ctx context.Context, text string, minLength, maxLength int) (string, error)
}

func (m *mockSummarizer) Summarize(ctx context.Context, text string, minLength, maxLength int) (string, error) {
	if m.summarizeFn != nil {
		return m.summarizeFn(ctx, text, minLength, maxLength)
	}
	return "", fmt.Errorf("not implemented")
}

type mockEmbedder struct {
	embedFn func(ctx context.Context, texts []string) ([][]float64, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if m.embedFn != nil {
		return m.embedFn(ctx, texts)
	}
	return nil, errModelDown
}

type mockGeocoder struct {
	known map[string]domain.Coordinates
}

func (m *mockGeocoder) Geocode(_ context.Context, location string) (domain.Coordinates, error) {
	if c, ok := m.known[location]; ok {
		return c, nil
	}
	return domain.Coordinates{}, fmt.Errorf("%w: %q", domain.ErrLocationNotFound, location)
}

type mockNews struct {
	searchFn func(ctx context.Context, query string) ([]domain.Article, error)
}

func (m *mockNews) Search(ctx context.Context, query string) ([]domain.Article, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query)
	}
	return nil, nil
}

type mockSearch struct {
	searchFn func(ctx context.Context, query string, limit int) ([]domain.SearchResult, error)
}

func (m *mockSearch) Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, limit)
	}
	return nil, nil
}

type memFeedback struct {
	mu       sync.Mutex
	records  []domain.FeedbackRecord
	analysis []domain.AnalysisFeedback
	err      error
}

func (m *memFeedback) AppendFeedback(_ context.Context, rec domain.FeedbackRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, rec)
	return nil
}

func (m *memFeedback) ListFeedback(context.Context) ([]domain.StoredFeedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.StoredFeedback, len(m.records))
	for i, r := range m.records {
		out[i] = domain.StoredFeedback{FeedbackRecord: r}
	}
	return out, nil
}

func (m *memFeedback) AppendAnalysisFeedback(_ context.Context, rec domain.AnalysisFeedback) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.analysis = append(m.analysis, rec)
	return nil
}

type memCredentials struct {
	mu    sync.Mutex
	users map[string]domain.UserCredential
}

func newMemCredentials() *memCredentials {
	return &memCredentials{users: make(map[string]domain.UserCredential)}
}

func (m *memCredentials) Exists(_ context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.users[username]
	return ok, nil
}

func (m *memCredentials) Register(_ context.Context, cred domain.UserCredential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[cred.Username]; ok {
		return domain.ErrUsernameTaken
	}
	m.users[cred.Username] = cred
	return nil
}

func (m *memCredentials) Lookup(_ context.Context, username string) (*domain.UserCredential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.users[username]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

type exporterFunc func(w io.Writer, list []domain.StoredFeedback) error

func (f exporterFunc) WriteFeedback(w io.Writer, list []domain.StoredFeedback) error {
	return f(w, list)
}

type testEnv struct {
	svc         *Service
	feedback    *memFeedback
	credentials *memCredentials
	clock       *clockwork.FakeClock
}

func newTestEnv(mod func(*Deps)) *testEnv {
	env := &testEnv{
		feedback:    &memFeedback{},
		credentials: newMemCredentials(),
		clock:       clockwork.NewFakeClockAt(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)),
	}
	deps := Deps{
		Sentiment:        &mockClassifier{},
		NewsSentiment:    &mockClassifier{},
		Emotion:          &mockClassifier{},
		Summarizer:       &mockSummarizer{},
		Embedder:         &mockEmbedder{},
		Geocoder:         &mockGeocoder{},
		News:             &mockNews{},
		Feedback:         env.feedback,
		AnalysisFeedback: env.feedback,
		Credentials:      env.credentials,
		Exporter:         export.Workbook{},
		Clock:            env.clock,
	}
	if mod != nil {
		mod(&deps)
	}
	env.svc = NewService(deps)
	return env
}
