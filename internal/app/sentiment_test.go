package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/pscheid92/nlpnavigator/internal/adapter/metrics"
	"github.com/pscheid92/nlpnavigator/internal/chart"
	"github.com/pscheid92/nlpnavigator/internal/domain"
	apperrors "github.com/pscheid92/nlpnavigator/internal/platform/errors"
	"github.com/pscheid92/nlpnavigator/internal/sentiment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireValidation(t *testing.T, err error) *apperrors.Error {
	t.Helper()
	require.Error(t, err)
	se := apperrors.AsStructuredError(err)
	require.Equal(t, apperrors.TypeValidation, se.Type, "got %v", err)
	return se
}

func TestCompareTexts(t *testing.T) {
	env := newTestEnv(nil)

	c, err := env.svc.CompareTexts(context.Background(), "The system was patched overnight", "Our servers were hacked again")
	require.NoError(t, err)
	assert.Equal(t, 1.0, c.First.Score)
	assert.Equal(t, -1.0, c.Second.Score)
	assert.Empty(t, c.Warnings)
}

func TestCompareTexts_ShortTextsReachTheModel(t *testing.T) {
	env := newTestEnv(func(d *Deps) {
		d.Sentiment = &mockClassifier{classifyFn: func(_ context.Context, text string) ([]domain.Prediction, error) {
			if text == "Bad" {
				return []domain.Prediction{{Label: domain.LabelNegative, Score: 0.8}}, nil
			}
			return []domain.Prediction{{Label: domain.LabelPositive, Score: 0.7}}, nil
		}}
	})

	c, err := env.svc.CompareTexts(context.Background(), "Good", "Bad")
	require.NoError(t, err)
	assert.Equal(t, sentiment.SourceModel, c.First.Source)
	assert.InDelta(t, 0.7, c.First.Score, 1e-9)
	assert.InDelta(t, -0.8, c.Second.Score, 1e-9)
}

func TestCompareTexts_RequiresBoth(t *testing.T) {
	env := newTestEnv(nil)

	_, err := env.svc.CompareTexts(context.Background(), "something here", "  ")
	requireValidation(t, err)
}

func TestCompareTexts_DegradedIsAWarning(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewModelMetrics(reg)
	env := newTestEnv(func(d *Deps) {
		d.Sentiment = failingClassifier()
		d.Metrics = m
	})

	c, err := env.svc.CompareTexts(context.Background(), "a perfectly ordinary sentence", "another ordinary sentence")
	require.NoError(t, err)
	assert.Equal(t, 0.0, c.First.Score)
	assert.True(t, c.First.Degraded())
	require.Len(t, c.Warnings, 1)
	assert.Contains(t, c.Warnings[0], "2 text(s)")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ScoresBySrc.WithLabelValues(string(sentiment.SourceDegraded))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DegradedPages.WithLabelValues("compare")))
}

func TestTrends(t *testing.T) {
	env := newTestEnv(nil)
	upload := "Date,Text\n2024-01-02,This product is wonderful\n2024-01-01,The update was hacked badly\n"

	report, err := env.svc.Trends(context.Background(), strings.NewReader(upload), chart.ThemeLight)
	require.NoError(t, err)
	require.Len(t, report.Series.Points, 2)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), report.Series.Points[0].Date)
	assert.Equal(t, -1.0, report.Series.Points[0].Score)
	assert.InDelta(t, 0.9, report.Series.Points[1].Score, 1e-9)
	assert.NotEmpty(t, report.Chart)
}

func TestTrends_MissingColumns(t *testing.T) {
	env := newTestEnv(nil)

	_, err := env.svc.Trends(context.Background(), strings.NewReader("When,Text\nx,y\n"), chart.ThemeLight)
	se := requireValidation(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingColumns)
	assert.Contains(t, se.Message, "Date")
}

func TestTrends_StrayQuoteIsAccepted(t *testing.T) {
	env := newTestEnv(nil)
	upload := "Date,Text\n2024-01-01,He said \"hi\" and left happy\n"

	report, err := env.svc.Trends(context.Background(), strings.NewReader(upload), chart.ThemeLight)
	require.NoError(t, err)
	assert.Len(t, report.Series.Points, 1)
}

func TestTrends_UnreadableUploadIsAValidationError(t *testing.T) {
	env := newTestEnv(nil)

	_, err := env.svc.Trends(context.Background(), iotest.ErrReader(errors.New("truncated upload")), chart.ThemeLight)
	se := requireValidation(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedUpload)
	assert.Contains(t, se.Message, "not valid CSV")
}

func TestTrends_BadDateAbortsBatch(t *testing.T) {
	classified := 0
	env := newTestEnv(func(d *Deps) {
		d.Sentiment = &mockClassifier{classifyFn: func(context.Context, string) ([]domain.Prediction, error) {
			classified++
			return []domain.Prediction{{Label: domain.LabelPositive, Score: 0.5}}, nil
		}}
	})
	upload := "Date,Text\n2024-01-01,first perfectly fine row\nyesterday,second perfectly fine row\n"

	_, err := env.svc.Trends(context.Background(), strings.NewReader(upload), chart.ThemeLight)
	requireValidation(t, err)
	assert.ErrorIs(t, err, domain.ErrUnparsableDate)
	assert.Zero(t, classified)
}

func TestHeatmap_FromText(t *testing.T) {
	env := newTestEnv(nil)

	report, err := env.svc.Heatmap(context.Background(), HeatmapInput{
		Text:        "The firewall held. Then we were hacked.",
		Granularity: "sentence",
		ColorTheme:  "RdYlGn",
		Theme:       chart.ThemeDark,
	})
	require.NoError(t, err)
	require.Len(t, report.Heatmap.Cells, 2)
	assert.Equal(t, 1.0, report.Heatmap.Cells[0].Score)
	assert.Equal(t, -1.0, report.Heatmap.Cells[1].Score)
	assert.NotEmpty(t, report.Chart)
}

func TestHeatmap_WordCellsCarryModelScores(t *testing.T) {
	scores := map[string]domain.Prediction{
		"love":      {Label: domain.LabelPositive, Score: 0.95},
		"awful":     {Label: domain.LabelNegative, Score: 0.9},
		"wonderful": {Label: domain.LabelPositive, Score: 0.99},
	}
	var classified []string
	env := newTestEnv(func(d *Deps) {
		d.Sentiment = &mockClassifier{classifyFn: func(_ context.Context, text string) ([]domain.Prediction, error) {
			classified = append(classified, text)
			if p, ok := scores[text]; ok {
				return []domain.Prediction{p}, nil
			}
			return []domain.Prediction{{Label: "NEUTRAL", Score: 0.6}}, nil
		}}
	})

	report, err := env.svc.Heatmap(context.Background(), HeatmapInput{
		Text:        "I love this wonderful but awful product",
		Granularity: "word",
		ColorTheme:  "RdYlGn",
	})
	require.NoError(t, err)

	got := map[string]float64{}
	for _, c := range report.Heatmap.Cells {
		got[c.Segment] = c.Score
	}
	assert.InDelta(t, 0.95, got["love"], 1e-9)
	assert.InDelta(t, 0.99, got["wonderful"], 1e-9)
	assert.InDelta(t, -0.9, got["awful"], 1e-9)
	assert.Len(t, classified, len(report.Heatmap.Cells))
}

func TestHeatmap_FromCSVUpload(t *testing.T) {
	env := newTestEnv(nil)

	report, err := env.svc.Heatmap(context.Background(), HeatmapInput{
		Upload:      strings.NewReader("Text\nFirst sentence is here.\nSecond sentence is here.\n"),
		Filename:    "notes.CSV",
		Granularity: "sentence",
		ColorTheme:  "coolwarm",
	})
	require.NoError(t, err)
	assert.Len(t, report.Heatmap.Cells, 2)
}

func TestHeatmap_FromTextUpload(t *testing.T) {
	env := newTestEnv(nil)

	report, err := env.svc.Heatmap(context.Background(), HeatmapInput{
		Upload:      strings.NewReader("Only one sentence in this file."),
		Filename:    "notes.txt",
		Granularity: "word",
		ColorTheme:  "magma",
	})
	require.NoError(t, err)
	assert.Len(t, report.Heatmap.Cells, 6)
}

func TestHeatmap_InvalidInput(t *testing.T) {
	env := newTestEnv(nil)

	_, err := env.svc.Heatmap(context.Background(), HeatmapInput{Text: "hello", Granularity: "paragraph"})
	requireValidation(t, err)

	_, err = env.svc.Heatmap(context.Background(), HeatmapInput{Text: "   "})
	requireValidation(t, err)
}

func TestGeo(t *testing.T) {
	env := newTestEnv(func(d *Deps) {
		d.Geocoder = &mockGeocoder{known: map[string]domain.Coordinates{
			"Berlin": {Lat: 52.5, Lon: 13.4},
			"Paris":  {Lat: 48.9, Lon: 2.35},
		}}
	})
	upload := "Location,Text\nBerlin,Everything is encrypted now\nParis,The bank suffered a breach\nAtlantis,Nobody knows this place\n,no location here at all\n"

	report, err := env.svc.Geo(context.Background(), strings.NewReader(upload), chart.ThemeLight)
	require.NoError(t, err)

	require.Len(t, report.Markers, 2)
	assert.Equal(t, "green", report.Markers[0].Color)
	assert.Equal(t, "red", report.Markers[1].Color)
	assert.Equal(t, []string{"Atlantis"}, report.Result.Unresolved)
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "Atlantis")
	assert.NotEmpty(t, report.Chart)

	markers, err := env.svc.MarkersFor(report.ID)
	require.NoError(t, err)
	assert.Equal(t, report.Markers, markers)
}

func TestGeo_NothingResolved(t *testing.T) {
	env := newTestEnv(nil)

	_, err := env.svc.Geo(context.Background(), strings.NewReader("Location,Text\nAtlantis,Nobody knows this place\n"), chart.ThemeLight)
	se := requireValidation(t, err)
	assert.Contains(t, se.Message, "Atlantis")
}

func TestGeo_EmptyUpload(t *testing.T) {
	env := newTestEnv(nil)

	_, err := env.svc.Geo(context.Background(), strings.NewReader("Location,Text\n"), chart.ThemeLight)
	requireValidation(t, err)
	assert.ErrorIs(t, err, domain.ErrNothingToDisplay)
}

func TestMarkersFor_Unknown(t *testing.T) {
	env := newTestEnv(nil)

	_, err := env.svc.MarkersFor("nope")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.TypeNotFound), "got %v", err)
}
