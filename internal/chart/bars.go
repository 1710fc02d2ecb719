package chart

import (
	"errors"
	"fmt"
	"sort"

	"github.com/pscheid92/nlpnavigator/internal/domain"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Bar is one labelled value of a bar chart.
type Bar struct {
	Label string
	Value float64
}

// Bars renders a vertical bar chart in the given order.
func Bars(title, yLabel string, bars []Bar, theme Theme) ([]byte, error) {
	if len(bars) == 0 {
		return nil, errors.New("no bars to plot")
	}

	values := make(plotter.Values, len(bars))
	names := make([]string, len(bars))
	for i, b := range bars {
		values[i] = b.Value
		names[i] = truncate(b.Label, 16)
	}

	p := newPlot(title, theme)
	p.Y.Label.Text = yLabel
	p.Y.Min = 0

	bc, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return nil, fmt.Errorf("failed to build bar chart: %w", err)
	}
	bc.Color = plotutil.Color(0)
	bc.LineStyle.Width = vg.Length(0)

	p.Add(plotter.NewGrid(), bc)
	p.NominalX(names...)
	return render(p)
}

// LabelDistribution plots how many items carry each label, most frequent first.
func LabelDistribution(counts map[string]int, theme Theme) ([]byte, error) {
	bars := make([]Bar, 0, len(counts))
	for label, n := range counts {
		bars = append(bars, Bar{Label: label, Value: float64(n)})
	}
	sort.Slice(bars, func(i, j int) bool {
		if bars[i].Value != bars[j].Value {
			return bars[i].Value > bars[j].Value
		}
		return bars[i].Label < bars[j].Label
	})
	return Bars("Sentiment Distribution", "Articles", bars, theme)
}

// Predictions plots classifier confidences, as returned.
func Predictions(title string, preds []domain.Prediction, theme Theme) ([]byte, error) {
	bars := make([]Bar, len(preds))
	for i, pr := range preds {
		bars[i] = Bar{Label: pr.Label, Value: pr.Score}
	}
	return Bars(title, "Confidence", bars, theme)
}
