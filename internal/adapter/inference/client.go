// Package inference calls hosted models on the Hugging Face Inference API.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pscheid92/nlpnavigator/internal/adapter/metrics"
	"github.com/pscheid92/nlpnavigator/internal/domain"
	"github.com/pscheid92/nlpnavigator/internal/platform/version"
	"github.com/sony/gobreaker"
)

const maxErrorBody = 512

// StatusError is a non-200 answer from the inference API.
type StatusError struct {
	Model      string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("model %s returned HTTP %d: %s", e.Model, e.StatusCode, e.Body)
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	metrics    *metrics.ModelMetrics
}

// NewClient builds a client whose every request is bounded by timeout. m may be nil.
func NewClient(baseURL, apiKey string, timeout time.Duration, m *metrics.ModelMetrics) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		metrics:    m,
	}
}

type request struct {
	Inputs     any            `json:"inputs"`
	Parameters map[string]any `json:"parameters,omitempty"`
	Options    requestOptions `json:"options"`
}

type requestOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

func (c *Client) post(ctx context.Context, model string, inputs any, params map[string]any, out any) error {
	body, err := json.Marshal(request{Inputs: inputs, Parameters: params, Options: requestOptions{WaitForModel: true}})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/models/"+model, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("model %s request failed: %w", model, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Model: model, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("model %s returned an invalid body: %w", model, err)
	}
	return nil
}

// pipeline is one model behind its own circuit breaker.
type pipeline struct {
	name    string
	model   string
	client  *Client
	breaker *gobreaker.CircuitBreaker
}

func newPipeline(name, model string, client *Client) *pipeline {
	p := &pipeline{name: name, model: model, client: client}
	p.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 5 && float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		IsSuccessful: func(err error) bool {
			// a rejected input is the caller's problem, not the model's
			var se *StatusError
			return err == nil || (errors.As(err, &se) && se.StatusCode == http.StatusBadRequest)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Circuit breaker state changed", "component", name, "from", from.String(), "to", to.String())
			if client.metrics != nil {
				client.metrics.BreakerTrips.WithLabelValues(name, to.String()).Inc()
				client.metrics.BreakerState.WithLabelValues(name).Set(stateToFloat(to))
			}
		},
	})
	return p
}

func (p *pipeline) call(ctx context.Context, inputs any, params map[string]any, out any) error {
	start := time.Now()
	_, err := p.breaker.Execute(func() (interface{}, error) {
		return nil, p.client.post(ctx, p.model, inputs, params, out)
	})
	p.observe(start, err)

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %s: %v", domain.ErrModelUnavailable, p.name, err)
	}
	return err
}

func (p *pipeline) observe(start time.Time, err error) {
	m := p.client.metrics
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.Calls.WithLabelValues(p.name, result).Inc()
	m.CallDuration.WithLabelValues(p.name).Observe(time.Since(start).Seconds())
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
