package chart

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/pscheid92/nlpnavigator/internal/aggregate"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var trendColor = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}

// Trend plots scores over time with a zero reference line.
func Trend(points []aggregate.Point, theme Theme) ([]byte, error) {
	if len(points) == 0 {
		return nil, errors.New("no points to plot")
	}

	p := newPlot("Sentiment Trend Over Time", theme)
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Sentiment Score"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	p.Y.Min, p.Y.Max = -1, 1

	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i] = plotter.XY{X: float64(pt.Date.Unix()), Y: pt.Score}
	}

	line, scatter, err := plotter.NewLinePoints(xys)
	if err != nil {
		return nil, fmt.Errorf("failed to build trend line: %w", err)
	}
	line.Color = trendColor
	line.Width = vg.Points(2)
	scatter.GlyphStyle.Color = trendColor

	zero := plotter.NewFunction(func(float64) float64 { return 0 })
	zero.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	zero.Color = color.Gray{Y: 0x80}

	p.Add(plotter.NewGrid(), zero, line, scatter)
	return render(p)
}
