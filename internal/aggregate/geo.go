package aggregate

import (
	"context"
	"errors"
	"log/slog"

	"github.com/pscheid92/nlpnavigator/internal/domain"
)

const (
	ColorPositive = "green"
	ColorNegative = "red"
	ColorNeutral  = "orange"
)

// MarkerColor picks the map marker colour for a score.
func MarkerColor(score float64) string {
	switch {
	case score > 0:
		return ColorPositive
	case score < 0:
		return ColorNegative
	default:
		return ColorNeutral
	}
}

type GeoResult struct {
	Rows       []domain.GeoSentimentRow // resolved rows only
	Unresolved []string                 // locations that did not resolve, in upload order
	Degraded   int
}

// BuildGeo scores rows and resolves their locations. Rows with an empty Location
// are dropped; rows whose location cannot be resolved are reported, not plotted.
func BuildGeo(ctx context.Context, scorer Scorer, geocoder domain.Geocoder, rows []Row) (*GeoResult, error) {
	res := &GeoResult{}
	seenUnresolved := make(map[string]bool)

	for _, row := range rows {
		if row.Category == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		coords, err := geocoder.Geocode(ctx, row.Category)
		if err != nil {
			if !errors.Is(err, domain.ErrLocationNotFound) {
				slog.WarnContext(ctx, "Geocoding failed", "location", row.Category, "error", err)
			}
			if !seenUnresolved[row.Category] {
				seenUnresolved[row.Category] = true
				res.Unresolved = append(res.Unresolved, row.Category)
			}
			continue
		}

		r := scorer.Score(ctx, row.Text)
		if r.Degraded() {
			res.Degraded++
		}
		c := coords
		res.Rows = append(res.Rows, domain.GeoSentimentRow{
			Location: row.Category,
			Text:     row.Text,
			Coords:   &c,
			Score:    r.Score,
		})
	}

	if len(res.Rows) == 0 {
		return res, domain.ErrNothingToDisplay
	}
	return res, nil
}
