package chart

import (
	"errors"
	"fmt"

	"github.com/pscheid92/nlpnavigator/internal/forecast"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Forecast plots each label's daily counts solid and its forecast dashed.
func Forecast(series []forecast.LabelForecast, theme Theme) ([]byte, error) {
	if len(series) == 0 {
		return nil, errors.New("no series to plot")
	}

	p := newPlot("Sentiment Forecast", theme)
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Articles per day"
	p.X.Tick.Marker = plot.TimeTicks{Format: "01-02"}
	p.Add(plotter.NewGrid())

	for i, s := range series {
		history, err := plotter.NewLine(toXYs(s.History))
		if err != nil {
			return nil, fmt.Errorf("failed to build history for %s: %w", s.Label, err)
		}
		history.Color = plotutil.Color(i)
		history.Width = vg.Points(2)

		// start the forecast at the last observed point so the lines join
		joined := append([]forecast.Point{s.History[len(s.History)-1]}, s.Forecast...)
		predicted, err := plotter.NewLine(toXYs(joined))
		if err != nil {
			return nil, fmt.Errorf("failed to build forecast for %s: %w", s.Label, err)
		}
		predicted.Color = plotutil.Color(i)
		predicted.Width = vg.Points(2)
		predicted.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}

		p.Add(history, predicted)
		p.Legend.Add(s.Label, history)
	}
	return render(p)
}

func toXYs(points []forecast.Point) plotter.XYs {
	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i] = plotter.XY{X: float64(pt.Day.Unix()), Y: pt.Value}
	}
	return xys
}
