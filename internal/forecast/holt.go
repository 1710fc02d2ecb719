// Package forecast fits Holt's linear trend model to daily label counts.
package forecast

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
)

// MinPoints is the shortest series that is forecast at all.
const MinPoints = 3

var ErrTooFewPoints = fmt.Errorf("need at least %d data points", MinPoints)

// Holt is a fitted additive-trend exponential smoothing model.
type Holt struct {
	Alpha float64 // level smoothing
	Beta  float64 // trend smoothing
	Level float64 // level after the last observation
	Trend float64 // trend after the last observation
	SSE   float64
}

// FitHolt picks alpha and beta that minimise the one-step-ahead squared error.
// The level starts at the first observation and the trend at the first difference.
func FitHolt(series []float64) (*Holt, error) {
	if len(series) < MinPoints {
		return nil, ErrTooFewPoints
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			sse, _, _ := smooth(series, sigmoid(x[0]), sigmoid(x[1]))
			return sse
		},
	}

	// start at alpha=0.5, beta=0.1 in the unconstrained space
	init := []float64{0, logit(0.1)}
	res, err := optimize.Minimize(problem, init, nil, &optimize.NelderMead{})
	if err != nil && res == nil {
		return nil, fmt.Errorf("failed to fit holt model: %w", err)
	}

	x := init
	if res != nil && len(res.X) == 2 && !math.IsNaN(res.F) {
		x = res.X
	}

	alpha, beta := sigmoid(x[0]), sigmoid(x[1])
	sse, level, trend := smooth(series, alpha, beta)
	if math.IsNaN(sse) || math.IsInf(sse, 0) {
		return nil, errors.New("holt model diverged")
	}
	return &Holt{Alpha: alpha, Beta: beta, Level: level, Trend: trend, SSE: sse}, nil
}

// Forecast extrapolates steps periods past the last observation.
func (h *Holt) Forecast(steps int) []float64 {
	out := make([]float64, steps)
	for i := range out {
		out[i] = h.Level + float64(i+1)*h.Trend
	}
	return out
}

func smooth(series []float64, alpha, beta float64) (sse, level, trend float64) {
	level = series[0]
	trend = series[1] - series[0]
	for _, y := range series[1:] {
		predicted := level + trend
		e := y - predicted
		sse += e * e

		prevLevel := level
		level = alpha*y + (1-alpha)*(level+trend)
		trend = beta*(level-prevLevel) + (1-beta)*trend
	}
	return sse, level, trend
}

func sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }
func logit(p float64) float64   { return math.Log(p / (1 - p)) }
