package filestore

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pscheid92/nlpnavigator/internal/adapter/metrics"
	"github.com/pscheid92/nlpnavigator/internal/domain"
)

type FeedbackStore struct {
	csv *CSVStore
}

var _ domain.FeedbackRepository = (*FeedbackStore)(nil)

func NewFeedbackStore(path string, m *metrics.StoreMetrics) *FeedbackStore {
	return &FeedbackStore{csv: NewCSVStore("feedback", path, domain.FeedbackColumns, m)}
}

func (s *FeedbackStore) AppendFeedback(ctx context.Context, rec domain.FeedbackRecord) error {
	return s.csv.Append(ctx, []string{
		rec.Name,
		rec.Email,
		strconv.Itoa(rec.Rating),
		rec.EasyToUse,
		rec.Challenges,
		rec.GeneralFeedback,
	})
}

func (s *FeedbackStore) ListFeedback(ctx context.Context) ([]domain.StoredFeedback, error) {
	rows, err := s.csv.Rows(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.StoredFeedback, 0, len(rows))
	for i, row := range rows {
		rating, err := strconv.Atoi(row[2])
		if err != nil {
			return nil, fmt.Errorf("%w: feedback row %d: invalid rating %q", domain.ErrMalformedStore, i+1, row[2])
		}
		out = append(out, domain.StoredFeedback{FeedbackRecord: domain.FeedbackRecord{
			Name:            row[0],
			Email:           row[1],
			Rating:          rating,
			EasyToUse:       row[3],
			Challenges:      row[4],
			GeneralFeedback: row[5],
		}})
	}
	return out, nil
}

type AnalysisFeedbackStore struct {
	csv *CSVStore
}

var _ domain.AnalysisFeedbackRepository = (*AnalysisFeedbackStore)(nil)

func NewAnalysisFeedbackStore(path string, m *metrics.StoreMetrics) *AnalysisFeedbackStore {
	return &AnalysisFeedbackStore{csv: NewCSVStore("analysis_feedback", path, domain.AnalysisFeedbackColumns, m)}
}

func (s *AnalysisFeedbackStore) AppendAnalysisFeedback(ctx context.Context, rec domain.AnalysisFeedback) error {
	return s.csv.Append(ctx, []string{rec.Text, strconv.Itoa(rec.Rating), rec.Comment})
}
