package news

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/pscheid92/nlpnavigator/internal/adapter/metrics"
	"github.com/pscheid92/nlpnavigator/internal/domain"
)

// RSS reads a search feed such as Google News. It needs no API key, so it backs the
// news page when NewsAPI is not configured.
type RSS struct {
	searchURL string
	parser    *gofeed.Parser
	guard     *guard
}

var _ domain.NewsSource = (*RSS)(nil)

func NewRSS(searchURL string, timeout time.Duration, m *metrics.ModelMetrics) *RSS {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}
	parser.UserAgent = "nlpnavigator"
	return &RSS{
		searchURL: searchURL,
		parser:    parser,
		guard:     newGuard("news_rss", m),
	}
}

func (r *RSS) Search(ctx context.Context, query string) ([]domain.Article, error) {
	return run(r.guard, func() ([]domain.Article, error) {
		return r.search(ctx, query)
	})
}

func (r *RSS) search(ctx context.Context, query string) ([]domain.Article, error) {
	u, err := url.Parse(r.searchURL)
	if err != nil {
		return nil, fmt.Errorf("invalid RSS search URL: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	u.RawQuery = q.Encode()

	feed, err := r.parser.ParseURLWithContext(u.String(), ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read RSS feed: %w", err)
	}

	articles := make([]domain.Article, 0, len(feed.Items))
	for _, it := range feed.Items {
		var published time.Time
		switch {
		case it.PublishedParsed != nil:
			published = *it.PublishedParsed
		case it.UpdatedParsed != nil:
			published = *it.UpdatedParsed
		}
		articles = append(articles, domain.Article{
			Title:       strings.TrimSpace(it.Title),
			Description: stripTags(it.Description),
			URL:         strings.TrimSpace(it.Link),
			PublishedAt: published.UTC(),
		})
	}
	return articles, nil
}

// stripTags drops markup from feed descriptions, which Google News fills with HTML links.
func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
