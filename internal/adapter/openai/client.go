// Package openai provides the OpenAI-backed summariser and embedder used when an
// OpenAI key is configured.
package openai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pscheid92/nlpnavigator/internal/adapter/metrics"
	"github.com/pscheid92/nlpnavigator/internal/domain"
	goopenai "github.com/sashabaranov/go-openai"
)

const summarySystemPrompt = "Summarize the user's text in plain prose. Use between %d and %d words. Reply with the summary only."

type Client struct {
	client         *goopenai.Client
	model          string
	embeddingModel string
	timeout        time.Duration
	metrics        *metrics.ModelMetrics
}

var (
	_ domain.Summarizer = (*Client)(nil)
	_ domain.Embedder   = (*Client)(nil)
)

type Options struct {
	APIKey         string
	BaseURL        string // empty means the public API
	Model          string
	EmbeddingModel string
	Timeout        time.Duration
	Metrics        *metrics.ModelMetrics
}

func NewClient(opts Options) *Client {
	cfg := goopenai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	return &Client{
		client:         goopenai.NewClientWithConfig(cfg),
		model:          opts.Model,
		embeddingModel: opts.EmbeddingModel,
		timeout:        opts.Timeout,
		metrics:        opts.Metrics,
	}
}

func (c *Client) Summarize(ctx context.Context, text string, minLength, maxLength int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: fmt.Sprintf(summarySystemPrompt, minLength, maxLength)},
			{Role: goopenai.ChatMessageRoleUser, Content: text},
		},
		// tokens run a little longer than words
		MaxTokens: maxLength * 2,
	})
	c.observe("openai_summary", start, err)
	if err != nil {
		return "", fmt.Errorf("failed to create completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.client.CreateEmbeddings(ctx, goopenai.EmbeddingRequest{
		Input: texts,
		Model: goopenai.EmbeddingModel(c.embeddingModel),
	})
	c.observe("openai_embedding", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("got %d embeddings for %d texts", len(resp.Data), len(texts))
	}

	out := make([][]float64, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(out) {
			return nil, fmt.Errorf("embedding index %d out of range", d.Index)
		}
		vec := make([]float64, len(d.Embedding))
		for j, v := range d.Embedding {
			vec[j] = float64(v)
		}
		out[d.Index] = vec
	}
	return out, nil
}

func (c *Client) observe(target string, start time.Time, err error) {
	if c.metrics == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	c.metrics.Calls.WithLabelValues(target, result).Inc()
	c.metrics.CallDuration.WithLabelValues(target).Observe(time.Since(start).Seconds())
}
