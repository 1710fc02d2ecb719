package chart

import (
	"errors"
	"fmt"

	"github.com/pscheid92/nlpnavigator/internal/wordcloud"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// WordCloud draws placed words at their layout positions and sizes.
func WordCloud(words []wordcloud.Word, opts wordcloud.Options, theme Theme) ([]byte, error) {
	if len(words) == 0 {
		return nil, errors.New("no words to plot")
	}

	xys := make(plotter.XYs, len(words))
	labels := make([]string, len(words))
	for i, w := range words {
		xys[i] = plotter.XY{X: w.X, Y: w.Y}
		labels[i] = w.Text
	}

	lbl, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return nil, fmt.Errorf("failed to build word labels: %w", err)
	}
	for i, w := range words {
		lbl.TextStyle[i].Font.Size = vg.Points(w.Size)
		lbl.TextStyle[i].Color = plotutil.Color(i)
		lbl.TextStyle[i].XAlign = draw.XCenter
		lbl.TextStyle[i].YAlign = draw.YCenter
	}

	p := newPlot("", theme)
	p.HideAxes()
	p.X.Min, p.X.Max = 0, opts.Width
	p.Y.Min, p.Y.Max = 0, opts.Height
	p.Add(lbl)
	return render(p)
}
