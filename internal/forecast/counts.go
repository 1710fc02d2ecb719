package forecast

import (
	"sort"
	"time"
)

// Horizon is how many days past the last observed day are forecast.
const Horizon = 5

type Observation struct {
	Day   time.Time
	Label string
}

type Point struct {
	Day   time.Time
	Value float64
}

type LabelForecast struct {
	Label    string
	History  []Point
	Forecast []Point
	Model    *Holt
}

// DailyCounts groups observations by label and calendar day (UTC). Only days with
// at least one observation appear; each label's days are sorted.
func DailyCounts(obs []Observation) map[string][]Point {
	counts := make(map[string]map[time.Time]float64)
	for _, o := range obs {
		day := truncateDay(o.Day)
		if counts[o.Label] == nil {
			counts[o.Label] = make(map[time.Time]float64)
		}
		counts[o.Label][day]++
	}

	out := make(map[string][]Point, len(counts))
	for label, byDay := range counts {
		pts := make([]Point, 0, len(byDay))
		for day, n := range byDay {
			pts = append(pts, Point{Day: day, Value: n})
		}
		sort.Slice(pts, func(i, j int) bool { return pts[i].Day.Before(pts[j].Day) })
		out[label] = pts
	}
	return out
}

// ForecastLabels fits one model per label with at least MinPoints days and
// forecasts Horizon days. Labels with shorter histories are skipped. Results are
// sorted by label. Negative forecasts are clamped to zero.
func ForecastLabels(obs []Observation) []LabelForecast {
	var out []LabelForecast
	for label, history := range DailyCounts(obs) {
		if len(history) < MinPoints {
			continue
		}

		series := make([]float64, len(history))
		for i, p := range history {
			series[i] = p.Value
		}
		model, err := FitHolt(series)
		if err != nil {
			continue
		}

		last := history[len(history)-1].Day
		values := model.Forecast(Horizon)
		fc := make([]Point, len(values))
		for i, v := range values {
			fc[i] = Point{Day: last.AddDate(0, 0, i+1), Value: max(v, 0)}
		}
		out = append(out, LabelForecast{Label: label, History: history, Forecast: fc, Model: model})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
