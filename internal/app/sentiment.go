package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pscheid92/nlpnavigator/internal/aggregate"
	"github.com/pscheid92/nlpnavigator/internal/chart"
	"github.com/pscheid92/nlpnavigator/internal/domain"
	apperrors "github.com/pscheid92/nlpnavigator/internal/platform/errors"
	"github.com/pscheid92/nlpnavigator/internal/sentiment"
	"github.com/pscheid92/nlpnavigator/internal/textproc"
)

// observedScorer counts every score by source.
type observedScorer struct {
	s      *Service
	scorer *sentiment.Scorer
}

func (o observedScorer) Score(ctx context.Context, text string) sentiment.Result {
	r := o.scorer.Score(ctx, text)
	o.s.observeScore(r)
	return r
}

// scoring scores uploaded rows, which skip texts under sentiment.MinTextLength.
func (s *Service) scoring() aggregate.Scorer {
	return observedScorer{s: s, scorer: s.scorer}
}

// segmentScoring scores heatmap segments and compared texts of any length.
func (s *Service) segmentScoring() aggregate.Scorer {
	return observedScorer{s: s, scorer: s.segments}
}

// degradedWarning is the notice shown when some results fell back to neutral.
func degradedWarning(n int, what string) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("The sentiment model was unavailable for %d %s; those were scored neutral.", n, what)
}

type Comparison struct {
	First    sentiment.Result
	Second   sentiment.Result
	Warnings []string
}

// CompareTexts scores two texts side by side.
func (s *Service) CompareTexts(ctx context.Context, a, b string) (*Comparison, error) {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return nil, structured(fmt.Errorf("%w: enter both texts to compare", domain.ErrNothingToDisplay))
	}

	sc := s.segmentScoring()
	c := &Comparison{First: sc.Score(ctx, a), Second: sc.Score(ctx, b)}
	degraded := 0
	for _, r := range []sentiment.Result{c.First, c.Second} {
		if r.Degraded() {
			degraded++
		}
	}
	if w := degradedWarning(degraded, "text(s)"); w != "" {
		c.Warnings = append(c.Warnings, w)
		s.observeDegraded("compare")
	}
	return c, nil
}

type TrendReport struct {
	Series   *aggregate.TimeSeries
	Chart    []byte
	Warnings []string
}

// Trends scores a Date,Text upload and plots the scores over time.
func (s *Service) Trends(ctx context.Context, upload io.Reader, theme chart.Theme) (*TrendReport, error) {
	rows, err := aggregate.ReadRows(upload, aggregate.ColumnDate)
	if err != nil {
		return nil, structured(err)
	}

	ts, err := aggregate.BuildTimeSeries(ctx, s.scoring(), rows)
	if err != nil {
		return nil, structured(err)
	}

	png, err := chart.Trend(ts.Points, theme)
	if err != nil {
		return nil, fmt.Errorf("failed to render trend chart: %w", err)
	}

	report := &TrendReport{Series: ts, Chart: png}
	if w := degradedWarning(ts.Degraded, "row(s)"); w != "" {
		report.Warnings = append(report.Warnings, w)
		s.observeDegraded("trends")
	}
	return report, nil
}

type HeatmapInput struct {
	Text        string
	Upload      io.Reader // optional; takes precedence over Text
	Filename    string
	Granularity string
	ColorTheme  string
	Theme       chart.Theme
}

type HeatmapReport struct {
	Heatmap  *aggregate.Heatmap
	Chart    []byte
	Warnings []string
}

// Heatmap scores each sentence or word of a text. The text comes from a .txt
// upload, the Text column of a .csv upload, or the text field.
func (s *Service) Heatmap(ctx context.Context, in HeatmapInput) (*HeatmapReport, error) {
	g, err := textproc.ParseGranularity(in.Granularity)
	if err != nil {
		return nil, structured(err)
	}

	text := in.Text
	if in.Upload != nil {
		text, err = readHeatmapUpload(in.Upload, in.Filename)
		if err != nil {
			return nil, structured(err)
		}
	}
	if strings.TrimSpace(text) == "" {
		return nil, structured(fmt.Errorf("%w: provide text or upload a file", domain.ErrNothingToDisplay))
	}

	hm, err := aggregate.BuildHeatmap(ctx, s.segmentScoring(), text, g)
	if err != nil {
		return nil, structured(err)
	}

	png, err := chart.Heatmap(hm.Cells, in.ColorTheme, in.Theme)
	if err != nil {
		return nil, fmt.Errorf("failed to render heatmap: %w", err)
	}

	report := &HeatmapReport{Heatmap: hm, Chart: png}
	if w := degradedWarning(hm.Degraded, "segment(s)"); w != "" {
		report.Warnings = append(report.Warnings, w)
		s.observeDegraded("heatmap")
	}
	return report, nil
}

func readHeatmapUpload(r io.Reader, filename string) (string, error) {
	if strings.EqualFold(filepath.Ext(filename), ".csv") {
		rows, err := aggregate.ReadRows(r, "")
		if err != nil {
			return "", err
		}
		return aggregate.JoinRows(rows), nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	return string(data), nil
}

// Marker is one plotted location on the geo page.
type Marker struct {
	Location string  `json:"location"`
	Text     string  `json:"text"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Score    float64 `json:"score"`
	Color    string  `json:"color"`
}

type GeoReport struct {
	ID       string // key for MarkersFor
	Result   *aggregate.GeoResult
	Markers  []Marker
	Chart    []byte
	Warnings []string
}

// Geo scores a Location,Text upload and places the resolved rows on a map.
func (s *Service) Geo(ctx context.Context, upload io.Reader, theme chart.Theme) (*GeoReport, error) {
	rows, err := aggregate.ReadRows(upload, aggregate.ColumnLocation)
	if err != nil {
		return nil, structured(err)
	}
	if len(rows) == 0 {
		return nil, structured(domain.ErrNothingToDisplay)
	}

	res, err := aggregate.BuildGeo(ctx, s.scoring(), s.deps.Geocoder, rows)
	if errors.Is(err, domain.ErrNothingToDisplay) && res != nil && len(res.Unresolved) > 0 {
		err = fmt.Errorf("%w: no location could be resolved (%s)", err, strings.Join(res.Unresolved, ", "))
	}
	if err != nil {
		return nil, structured(err)
	}

	report := &GeoReport{Result: res, Markers: markers(res.Rows)}
	report.ID = s.markers.Put(report.Markers)
	if len(res.Unresolved) > 0 {
		report.Warnings = append(report.Warnings, "Could not find coordinates for: "+strings.Join(res.Unresolved, ", "))
	}
	if w := degradedWarning(res.Degraded, "row(s)"); w != "" {
		report.Warnings = append(report.Warnings, w)
		s.observeDegraded("geo")
	}

	report.Chart, err = chart.Geo(res.Rows, theme)
	if err != nil {
		return nil, fmt.Errorf("failed to render map: %w", err)
	}
	return report, nil
}

func markers(rows []domain.GeoSentimentRow) []Marker {
	out := make([]Marker, 0, len(rows))
	for _, r := range rows {
		if r.Coords == nil {
			continue
		}
		out = append(out, Marker{
			Location: r.Location,
			Text:     r.Text,
			Lat:      r.Coords.Lat,
			Lon:      r.Coords.Lon,
			Score:    r.Score,
			Color:    aggregate.MarkerColor(r.Score),
		})
	}
	return out
}

// MarkersFor returns the markers of a recent geo report.
func (s *Service) MarkersFor(id string) ([]Marker, error) {
	m, ok := s.markers.Get(id)
	if !ok {
		return nil, apperrors.NotFoundError("No map data for this id; upload the file again").WithField("id", id)
	}
	return m, nil
}
