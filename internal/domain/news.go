package domain

import (
	"context"
	"time"
)

type Article struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
}

type NewsSource interface {
	Search(ctx context.Context, query string) ([]Article, error)
}

type SearchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

type WebSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
}
