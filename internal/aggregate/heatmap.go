package aggregate

import (
	"context"

	"github.com/pscheid92/nlpnavigator/internal/domain"
	"github.com/pscheid92/nlpnavigator/internal/textproc"
)

type Cell struct {
	Segment string
	Score   float64
}

type Heatmap struct {
	Granularity textproc.Granularity
	Cells       []Cell
	Degraded    int
}

// BuildHeatmap segments one text and scores each segment in order.
func BuildHeatmap(ctx context.Context, scorer Scorer, text string, g textproc.Granularity) (*Heatmap, error) {
	segments, err := textproc.Segment(text, g)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, domain.ErrNothingToDisplay
	}

	hm := &Heatmap{Granularity: g, Cells: make([]Cell, len(segments))}
	for i, seg := range segments {
		r := scorer.Score(ctx, seg)
		hm.Cells[i] = Cell{Segment: seg, Score: r.Score}
		if r.Degraded() {
			hm.Degraded++
		}
	}
	return hm, nil
}

// JoinRows concatenates the Text column of an upload into one document for the heatmap.
func JoinRows(rows []Row) string {
	var n int
	for _, r := range rows {
		n += len(r.Text) + 1
	}
	buf := make([]byte, 0, n)
	for i, r := range rows {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, r.Text...)
	}
	return string(buf)
}
