package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pscheid92/nlpnavigator/internal/chart"
	"github.com/pscheid92/nlpnavigator/internal/domain"
	"github.com/pscheid92/nlpnavigator/internal/forecast"
	"github.com/pscheid92/nlpnavigator/internal/sentiment"
)

// SearchLinks is how many related web results accompany a news query.
const SearchLinks = 5

type LabelledArticle struct {
	domain.Article
	Sentiment sentiment.Result
}

type NewsReport struct {
	Query             string
	Articles          []LabelledArticle
	Distribution      map[string]int
	DistributionChart []byte
	Forecasts         []forecast.LabelForecast
	ForecastChart     []byte // nil when no label has enough history
	Links             []domain.SearchResult
	Warnings          []string
}

// News labels recent articles for query, charts the label distribution, forecasts
// daily label counts and, when configured, adds related web links.
func (s *Service) News(ctx context.Context, query string, theme chart.Theme) (*NewsReport, error) {
	query = strings.TrimSpace(query)
	if err := requireText(query, "a search term"); err != nil {
		return nil, err
	}

	report := &NewsReport{Query: query, Distribution: make(map[string]int)}

	articles, fetchErr := s.deps.News.Search(ctx, query)
	if fetchErr != nil {
		slog.WarnContext(ctx, "News source unavailable", "query", query, "error", fetchErr)
		s.observeDegraded("news")
		report.Warnings = append(report.Warnings, "News could not be fetched right now. Please try again later.")
	}

	var obs []forecast.Observation
	degraded := 0
	for _, a := range articles {
		r := s.news.Label(ctx, strings.TrimSpace(a.Title+" "+a.Description))
		s.observeScore(r)
		if r.Degraded() {
			degraded++
		}
		report.Articles = append(report.Articles, LabelledArticle{Article: a, Sentiment: r})
		report.Distribution[r.Label]++
		if !a.PublishedAt.IsZero() {
			obs = append(obs, forecast.Observation{Day: a.PublishedAt, Label: r.Label})
		}
	}
	if degraded > 0 {
		report.Warnings = append(report.Warnings, fmt.Sprintf("The sentiment model was unavailable for %d article(s); those were labelled neutral.", degraded))
		s.observeDegraded("news_sentiment")
	}

	var err error
	if len(report.Articles) > 0 {
		report.DistributionChart, err = chart.LabelDistribution(report.Distribution, theme)
		if err != nil {
			return nil, fmt.Errorf("failed to render distribution chart: %w", err)
		}
	} else if fetchErr == nil {
		report.Warnings = append(report.Warnings, fmt.Sprintf("No articles found for %q.", query))
	}

	report.Forecasts = forecast.ForecastLabels(obs)
	if len(report.Forecasts) > 0 {
		report.ForecastChart, err = chart.Forecast(report.Forecasts, theme)
		if err != nil {
			return nil, fmt.Errorf("failed to render forecast chart: %w", err)
		}
	}

	if s.deps.Search != nil {
		links, err := s.deps.Search.Search(ctx, query, SearchLinks)
		if err != nil {
			slog.WarnContext(ctx, "Web search unavailable", "query", query, "error", err)
			s.observeDegraded("web_search")
			report.Warnings = append(report.Warnings, "Related links could not be fetched right now.")
		}
		report.Links = links
	}

	return report, nil
}
