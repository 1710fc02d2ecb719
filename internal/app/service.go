package app

import (
	"github.com/go-playground/validator/v10"
	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/nlpnavigator/internal/adapter/metrics"
	"github.com/pscheid92/nlpnavigator/internal/domain"
	"github.com/pscheid92/nlpnavigator/internal/keyphrase"
	"github.com/pscheid92/nlpnavigator/internal/sentiment"
)

// Deps are the collaborators a Service needs. Search, Metrics and StoreMetrics may be nil.
type Deps struct {
	Sentiment     domain.Classifier
	NewsSentiment domain.Classifier
	Emotion       domain.Classifier
	Summarizer    domain.Summarizer
	Embedder      domain.Embedder
	Geocoder      domain.Geocoder
	News          domain.NewsSource
	Search        domain.WebSearcher

	Feedback         domain.FeedbackRepository
	AnalysisFeedback domain.AnalysisFeedbackRepository
	Credentials      domain.CredentialStore
	Exporter         domain.FeedbackExporter

	Metrics      *metrics.ModelMetrics
	StoreMetrics *metrics.StoreMetrics
	Clock        clockwork.Clock
}

type Service struct {
	deps     Deps
	scorer   *sentiment.Scorer
	segments *sentiment.Scorer // heatmap cells and comparisons; no length floor
	news     *sentiment.Labeler
	phrases  *keyphrase.Extractor
	validate *validator.Validate
	markers  *markerCache
	clock    clockwork.Clock
}

func NewService(deps Deps) *Service {
	clock := deps.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{
		deps:     deps,
		scorer:   sentiment.NewScorer(deps.Sentiment),
		segments: sentiment.NewScorer(deps.Sentiment, sentiment.WithMinLength(1)),
		news:     sentiment.NewLabeler(deps.NewsSentiment),
		phrases:  keyphrase.NewExtractor(deps.Embedder),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		markers:  newMarkerCache(clock),
		clock:    clock,
	}
}

// WebSearchEnabled reports whether news results can carry related links.
func (s *Service) WebSearchEnabled() bool {
	return s.deps.Search != nil
}

func (s *Service) observeScore(r sentiment.Result) {
	if s.deps.Metrics != nil {
		s.deps.Metrics.ScoresBySrc.WithLabelValues(string(r.Source)).Inc()
	}
}

func (s *Service) observeDegraded(feature string) {
	if s.deps.Metrics != nil {
		s.deps.Metrics.DegradedPages.WithLabelValues(feature).Inc()
	}
}
