package chart

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/pscheid92/nlpnavigator/internal/aggregate"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ColorThemes are the heatmap colour schemes offered on the heatmap page.
var ColorThemes = []string{"RdYlGn", "coolwarm", "magma", "plasma"}

const heatmapColumns = 10

// heatmapGrid lays cells out row by row, heatmapColumns wide, first row on top.
type heatmapGrid struct {
	cells []aggregate.Cell
	rows  int
}

func newHeatmapGrid(cells []aggregate.Cell) heatmapGrid {
	rows := (len(cells) + heatmapColumns - 1) / heatmapColumns
	return heatmapGrid{cells: cells, rows: rows}
}

func (g heatmapGrid) Dims() (c, r int) {
	return min(len(g.cells), heatmapColumns), g.rows
}

func (g heatmapGrid) Z(c, r int) float64 {
	idx := g.index(c, r)
	if idx >= len(g.cells) {
		return math.NaN()
	}
	return g.cells[idx].Score
}

func (g heatmapGrid) X(c int) float64 { return float64(c) }
func (g heatmapGrid) Y(r int) float64 { return float64(r) }

func (g heatmapGrid) index(c, r int) int {
	return (g.rows-1-r)*heatmapColumns + c
}

// Heatmap colours each segment score on a fixed [-1, 1] scale.
func Heatmap(cells []aggregate.Cell, colorTheme string, theme Theme) ([]byte, error) {
	if len(cells) == 0 {
		return nil, errors.New("no cells to plot")
	}

	pal, err := heatmapPalette(colorTheme)
	if err != nil {
		return nil, err
	}

	grid := newHeatmapGrid(cells)
	hm := plotter.NewHeatMap(grid, pal)
	hm.Min, hm.Max = -1, 1
	hm.NaN = color.Transparent

	p := newPlot("Sentiment Heatmap", theme)
	p.HideAxes()
	p.Add(hm)

	if len(cells) <= 50 {
		cols, rows := grid.Dims()
		var xys plotter.XYs
		var labels []string
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				idx := grid.index(c, r)
				if idx >= len(cells) {
					continue
				}
				xys = append(xys, plotter.XY{X: float64(c), Y: float64(r)})
				labels = append(labels, truncate(cells[idx].Segment, 14))
			}
		}
		lbl, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
		if err != nil {
			return nil, fmt.Errorf("failed to build heatmap labels: %w", err)
		}
		for i := range lbl.TextStyle {
			lbl.TextStyle[i].Font.Size = vg.Points(8)
			lbl.TextStyle[i].XAlign = draw.XCenter
			lbl.TextStyle[i].YAlign = draw.YCenter
		}
		p.Add(lbl)
	}

	return render(p)
}

func heatmapPalette(name string) (palette.Palette, error) {
	switch name {
	case "", "RdYlGn":
		return brewer.GetPalette(brewer.TypeDiverging, "RdYlGn", 11)
	case "coolwarm":
		return colorMapPalette(moreland.SmoothBlueRed())
	case "magma":
		return colorMapPalette(moreland.BlackBody())
	case "plasma":
		return colorMapPalette(moreland.ExtendedKindlmann())
	default:
		return nil, fmt.Errorf("unknown colour theme %q", name)
	}
}

func colorMapPalette(cm palette.ColorMap) (palette.Palette, error) {
	cm.SetMin(-1)
	cm.SetMax(1)
	return cm.Palette(64), nil
}
