package aggregate

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/pscheid92/nlpnavigator/internal/domain"
	"github.com/pscheid92/nlpnavigator/internal/sentiment"
)

type Scorer interface {
	Score(ctx context.Context, text string) sentiment.Result
}

type Point struct {
	Date  time.Time
	Text  string
	Score float64
}

type TimeSeries struct {
	Points   []Point
	Degraded int // rows scored neutral because the classifier failed
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01/02/2006 15:04",
	"02.01.2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"02-Jan-2006",
}

// ParseDate accepts the date layouts commonly found in spreadsheet exports.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", domain.ErrUnparsableDate, s)
}

// BuildTimeSeries scores every row and returns the points in chronological order.
// All dates are parsed before any row is scored; one bad date aborts the batch.
func BuildTimeSeries(ctx context.Context, scorer Scorer, rows []Row) (*TimeSeries, error) {
	if len(rows) == 0 {
		return nil, domain.ErrNothingToDisplay
	}

	points := make([]Point, len(rows))
	for i, row := range rows {
		d, err := ParseDate(row.Category)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", row.Line, err)
		}
		points[i] = Point{Date: d, Text: row.Text}
	}

	ts := &TimeSeries{Points: points}
	for i := range points {
		r := scorer.Score(ctx, points[i].Text)
		points[i].Score = r.Score
		if r.Degraded() {
			ts.Degraded++
		}
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return ts, nil
}
