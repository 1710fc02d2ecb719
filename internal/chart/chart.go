// Package chart renders the dashboard's plots as PNG images with gonum/plot.
package chart

import (
	"bytes"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

type Theme string

const (
	ThemeLight Theme = "Light"
	ThemeDark  Theme = "Dark"
)

func ParseTheme(s string) Theme {
	if s == string(ThemeDark) {
		return ThemeDark
	}
	return ThemeLight
}

var (
	darkBackground = color.RGBA{R: 0x0e, G: 0x11, B: 0x17, A: 0xff}
	darkForeground = color.RGBA{R: 0xfa, G: 0xfa, B: 0xfa, A: 0xff}
)

// Size of every rendered chart.
const (
	width  = 10 * vg.Inch
	height = 5 * vg.Inch
)

func newPlot(title string, theme Theme) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	if theme == ThemeDark {
		applyDark(p)
	}
	return p
}

func applyDark(p *plot.Plot) {
	p.BackgroundColor = darkBackground
	p.Title.TextStyle.Color = darkForeground
	p.Legend.TextStyle.Color = darkForeground
	for _, ax := range []*plot.Axis{&p.X, &p.Y} {
		ax.Color = darkForeground
		ax.Label.TextStyle.Color = darkForeground
		ax.Tick.Color = darkForeground
		ax.Tick.Label.Color = darkForeground
	}
}

func render(p *plot.Plot) ([]byte, error) {
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create png writer: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to render png: %w", err)
	}
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
