package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pscheid92/nlpnavigator/internal/adapter/metrics"
	"github.com/pscheid92/nlpnavigator/internal/domain"
	"github.com/pscheid92/nlpnavigator/internal/platform/version"
)

// NewsAPI queries newsapi.org's everything endpoint, newest first.
type NewsAPI struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	guard      *guard
}

var _ domain.NewsSource = (*NewsAPI)(nil)

func NewNewsAPI(baseURL, apiKey string, timeout time.Duration, m *metrics.ModelMetrics) *NewsAPI {
	return &NewsAPI{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		guard:      newGuard("newsapi", m),
	}
}

type newsAPIResponse struct {
	Status   string `json:"status"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

func (n *NewsAPI) Search(ctx context.Context, query string) ([]domain.Article, error) {
	return run(n.guard, func() ([]domain.Article, error) {
		return n.search(ctx, query)
	})
}

func (n *NewsAPI) search(ctx context.Context, query string) ([]domain.Article, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("sortBy", "publishedAt")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/v2/everything?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build NewsAPI request: %w", err)
	}
	req.Header.Set("X-Api-Key", n.apiKey)
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("NewsAPI request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var body newsAPIResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 10<<20)).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode NewsAPI response (HTTP %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || body.Status != "ok" {
		return nil, fmt.Errorf("NewsAPI returned HTTP %d: %s %s", resp.StatusCode, body.Code, body.Message)
	}

	articles := make([]domain.Article, 0, len(body.Articles))
	for _, a := range body.Articles {
		published, _ := time.Parse(time.RFC3339, a.PublishedAt)
		articles = append(articles, domain.Article{
			Title:       strings.TrimSpace(a.Title),
			Description: strings.TrimSpace(a.Description),
			URL:         a.URL,
			PublishedAt: published.UTC(),
		})
	}
	return articles, nil
}
