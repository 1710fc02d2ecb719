package wordcloud

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayout_Empty(t *testing.T) {
	assert.Nil(t, Layout(nil, DefaultOptions()))
	assert.Nil(t, Layout(map[string]int{"zero": 0}, DefaultOptions()))
}

func TestLayout_MostFrequentFirstAndLargest(t *testing.T) {
	words := Layout(map[string]int{"cloud": 10, "rain": 5, "sun": 1}, DefaultOptions())
	require.Len(t, words, 3)

	assert.Equal(t, "cloud", words[0].Text)
	assert.Equal(t, 64.0, words[0].Size)
	assert.Equal(t, 10.0, words[2].Size)
	assert.Greater(t, words[1].Size, words[2].Size)
}

func TestLayout_FirstWordCentred(t *testing.T) {
	opts := DefaultOptions()
	words := Layout(map[string]int{"only": 3}, opts)
	require.Len(t, words, 1)
	assert.Equal(t, opts.Width/2, words[0].X)
	assert.Equal(t, opts.Height/2, words[0].Y)
}

func TestLayout_NoOverlapInsideCanvas(t *testing.T) {
	freq := map[string]int{}
	for i, w := range []string{"alpha", "beta", "gamma", "delta", "epsilon", "zeta", "eta", "theta", "iota", "kappa"} {
		freq[w] = i + 1
	}
	opts := DefaultOptions()
	words := Layout(freq, opts)
	require.NotEmpty(t, words)

	boxes := make([]rect, len(words))
	for i, w := range words {
		bw := float64(len(w.Text)) * w.Size * charWidth
		boxes[i] = rect{w.X - bw/2, w.Y - w.Size/2, w.X + bw/2, w.Y + w.Size/2}
		assert.GreaterOrEqual(t, boxes[i].x0, 0.0)
		assert.LessOrEqual(t, boxes[i].x1, opts.Width)
	}
	for i := range boxes {
		for j := i + 1; j < len(boxes); j++ {
			assert.False(t, boxes[i].overlaps(boxes[j]), "%s overlaps %s", words[i].Text, words[j].Text)
		}
	}
}

func TestLayout_MaxWords(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxWords = 2
	words := Layout(map[string]int{"a": 3, "b": 2, "c": 1}, opts)
	assert.Len(t, words, 2)
}
