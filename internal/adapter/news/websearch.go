package news

import (
	"context"
	"fmt"

	"github.com/pscheid92/nlpnavigator/internal/adapter/metrics"
	"github.com/pscheid92/nlpnavigator/internal/domain"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// maxSearchResults is the Custom Search API's per-request ceiling.
const maxSearchResults = 10

type WebSearch struct {
	svc      *customsearch.Service
	engineID string
	guard    *guard
}

var _ domain.WebSearcher = (*WebSearch)(nil)

// NewWebSearch builds a Custom Search client. Extra options are appended after the
// API key, so tests can point the client at a local endpoint.
func NewWebSearch(ctx context.Context, apiKey, engineID string, m *metrics.ModelMetrics, opts ...option.ClientOption) (*WebSearch, error) {
	svc, err := customsearch.NewService(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create custom search client: %w", err)
	}
	return &WebSearch{svc: svc, engineID: engineID, guard: newGuard("web_search", m)}, nil
}

func (w *WebSearch) Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	limit = min(max(limit, 1), maxSearchResults)

	return run(w.guard, func() ([]domain.SearchResult, error) {
		res, err := w.svc.Cse.List().Cx(w.engineID).Q(query).Num(int64(limit)).Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("custom search failed: %w", err)
		}

		out := make([]domain.SearchResult, 0, len(res.Items))
		for _, item := range res.Items {
			out = append(out, domain.SearchResult{Title: item.Title, Link: item.Link, Snippet: item.Snippet})
			if len(out) == limit {
				break
			}
		}
		return out, nil
	})
}
