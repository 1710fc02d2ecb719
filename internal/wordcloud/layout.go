// Package wordcloud places the most frequent words of a text on a canvas, larger
// words first, along an Archimedean spiral so that no two words overlap.
package wordcloud

import (
	"math"
	"sort"
)

type Options struct {
	MaxWords int
	MinSize  float64 // font size in points of the least frequent word
	MaxSize  float64 // font size in points of the most frequent word
	Width    float64
	Height   float64
}

func DefaultOptions() Options {
	return Options{MaxWords: 100, MinSize: 10, MaxSize: 64, Width: 800, Height: 400}
}

// Word is one placed word. X and Y are the centre of its box, origin bottom-left.
type Word struct {
	Text  string
	Count int
	Size  float64
	X, Y  float64
}

type rect struct{ x0, y0, x1, y1 float64 }

func (a rect) overlaps(b rect) bool {
	return a.x0 < b.x1 && b.x0 < a.x1 && a.y0 < b.y1 && b.y0 < a.y1
}

// charWidth approximates glyph advance as a fraction of the font size.
const charWidth = 0.6

// Layout places up to MaxWords words. Words that find no free spot are dropped.
func Layout(freq map[string]int, opts Options) []Word {
	words := rank(freq, opts.MaxWords)
	if len(words) == 0 {
		return nil
	}

	maxCount, minCount := words[0].Count, words[len(words)-1].Count
	var placed []rect
	var out []Word

	for _, w := range words {
		w.Size = scale(w.Count, minCount, maxCount, opts.MinSize, opts.MaxSize)
		bw := float64(len([]rune(w.Text))) * w.Size * charWidth
		bh := w.Size

		if x, y, ok := findSpot(bw, bh, placed, opts); ok {
			w.X, w.Y = x, y
			placed = append(placed, rect{x - bw/2, y - bh/2, x + bw/2, y + bh/2})
			out = append(out, w)
		}
	}
	return out
}

func rank(freq map[string]int, limit int) []Word {
	words := make([]Word, 0, len(freq))
	for text, n := range freq {
		if n > 0 && text != "" {
			words = append(words, Word{Text: text, Count: n})
		}
	}
	sort.Slice(words, func(i, j int) bool {
		if words[i].Count != words[j].Count {
			return words[i].Count > words[j].Count
		}
		return words[i].Text < words[j].Text
	})
	if limit > 0 && len(words) > limit {
		words = words[:limit]
	}
	return words
}

func scale(n, lo, hi int, minSize, maxSize float64) float64 {
	if hi == lo {
		return maxSize
	}
	f := float64(n-lo) / float64(hi-lo)
	return minSize + f*(maxSize-minSize)
}

func findSpot(bw, bh float64, placed []rect, opts Options) (float64, float64, bool) {
	cx, cy := opts.Width/2, opts.Height/2
	const step = 0.1
	maxTheta := 2 * math.Pi * 80

	for theta := 0.0; theta < maxTheta; theta += step {
		r := 2 * theta
		x := cx + r*math.Cos(theta)
		y := cy + r*math.Sin(theta)*opts.Height/opts.Width

		box := rect{x - bw/2, y - bh/2, x + bw/2, y + bh/2}
		if box.x0 < 0 || box.y0 < 0 || box.x1 > opts.Width || box.y1 > opts.Height {
			continue
		}
		free := true
		for _, p := range placed {
			if box.overlaps(p) {
				free = false
				break
			}
		}
		if free {
			return x, y, true
		}
	}
	return 0, 0, false
}
