package chart

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/pscheid92/nlpnavigator/internal/aggregate"
	"github.com/pscheid92/nlpnavigator/internal/domain"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var markerColors = map[string]color.Color{
	aggregate.ColorPositive: color.RGBA{G: 0x99, A: 0xff},
	aggregate.ColorNegative: color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	aggregate.ColorNeutral:  color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
}

// Geo scatters resolved rows by longitude and latitude, coloured by sentiment sign.
func Geo(rows []domain.GeoSentimentRow, theme Theme) ([]byte, error) {
	groups := make(map[string]plotter.XYs)
	var labelXYs plotter.XYs
	var labels []string

	for _, r := range rows {
		if r.Coords == nil {
			continue
		}
		xy := plotter.XY{X: r.Coords.Lon, Y: r.Coords.Lat}
		c := aggregate.MarkerColor(r.Score)
		groups[c] = append(groups[c], xy)
		labelXYs = append(labelXYs, xy)
		labels = append(labels, truncate(r.Location, 20))
	}
	if len(labelXYs) == 0 {
		return nil, errors.New("no located rows to plot")
	}

	p := newPlot("Geospatial Sentiment", theme)
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"
	p.Add(plotter.NewGrid())

	for _, name := range []string{aggregate.ColorPositive, aggregate.ColorNeutral, aggregate.ColorNegative} {
		xys, ok := groups[name]
		if !ok {
			continue
		}
		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s markers: %w", name, err)
		}
		sc.GlyphStyle.Color = markerColors[name]
		sc.GlyphStyle.Radius = vg.Points(6)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(sc)
	}

	lbl, err := plotter.NewLabels(plotter.XYLabels{XYs: labelXYs, Labels: labels})
	if err != nil {
		return nil, fmt.Errorf("failed to build location labels: %w", err)
	}
	for i := range lbl.TextStyle {
		lbl.TextStyle[i].Font.Size = vg.Points(9)
	}
	p.Add(lbl)

	return render(p)
}
