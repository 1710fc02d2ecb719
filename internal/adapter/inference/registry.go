package inference

import (
	"context"
	"sync"

	"github.com/pscheid92/nlpnavigator/internal/domain"
	"github.com/pscheid92/nlpnavigator/internal/platform/config"
)

// Registry hands out one pipeline per model, built on first use and kept for the
// lifetime of the process.
type Registry struct {
	client *Client
	models Models

	sentimentOnce sync.Once
	sentiment     *Classifier

	newsOnce sync.Once
	news     *Classifier

	emotionOnce sync.Once
	emotion     *Classifier

	summaryOnce sync.Once
	summary     *Summarizer

	embedOnce sync.Once
	embed     *Embedder
}

type Models struct {
	Sentiment     string
	NewsSentiment string
	Emotion       string
	Summary       string
	Embedding     string
}

func ModelsFromConfig(cfg *config.Config) Models {
	return Models{
		Sentiment:     cfg.SentimentModel,
		NewsSentiment: cfg.NewsSentimentModel,
		Emotion:       cfg.EmotionModel,
		Summary:       cfg.SummaryModel,
		Embedding:     cfg.EmbeddingModel,
	}
}

func NewRegistry(client *Client, models Models) *Registry {
	return &Registry{client: client, models: models}
}

func (r *Registry) Sentiment() *Classifier {
	r.sentimentOnce.Do(func() {
		r.sentiment = &Classifier{p: newPipeline("sentiment", r.models.Sentiment, r.client)}
	})
	return r.sentiment
}

func (r *Registry) NewsSentiment() *Classifier {
	r.newsOnce.Do(func() {
		r.news = &Classifier{p: newPipeline("news_sentiment", r.models.NewsSentiment, r.client)}
	})
	return r.news
}

func (r *Registry) Emotion() *Classifier {
	r.emotionOnce.Do(func() {
		r.emotion = &Classifier{p: newPipeline("emotion", r.models.Emotion, r.client)}
	})
	return r.emotion
}

func (r *Registry) Summarizer() *Summarizer {
	r.summaryOnce.Do(func() {
		r.summary = &Summarizer{p: newPipeline("summarization", r.models.Summary, r.client)}
	})
	return r.summary
}

func (r *Registry) Embedder() *Embedder {
	r.embedOnce.Do(func() {
		r.embed = &Embedder{p: newPipeline("embedding", r.models.Embedding, r.client)}
	})
	return r.embed
}

// Ports are the registry's pipelines as domain ports. Nothing is built until a
// port is first called.
type Ports struct {
	Sentiment     domain.Classifier
	NewsSentiment domain.Classifier
	Emotion       domain.Classifier
	Summarizer    domain.Summarizer
	Embedder      domain.Embedder
}

func (r *Registry) Ports() Ports {
	return Ports{
		Sentiment:     lazyClassifier(r.Sentiment),
		NewsSentiment: lazyClassifier(r.NewsSentiment),
		Emotion:       lazyClassifier(r.Emotion),
		Summarizer:    lazySummarizer(r.Summarizer),
		Embedder:      lazyEmbedder(r.Embedder),
	}
}

type lazyClassifier func() *Classifier

func (f lazyClassifier) Classify(ctx context.Context, text string) ([]domain.Prediction, error) {
	return f().Classify(ctx, text)
}

type lazySummarizer func() *Summarizer

func (f lazySummarizer) Summarize(ctx context.Context, text string, minLength, maxLength int) (string, error) {
	return f().Summarize(ctx, text, minLength, maxLength)
}

type lazyEmbedder func() *Embedder

func (f lazyEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	return f().Embed(ctx, texts)
}
