package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pscheid92/nlpnavigator/internal/domain"
)

// FeedbackRepo stores both feedback forms, one row per submission.
type FeedbackRepo struct {
	pool *pgxpool.Pool
}

var (
	_ domain.FeedbackRepository         = (*FeedbackRepo)(nil)
	_ domain.AnalysisFeedbackRepository = (*FeedbackRepo)(nil)
)

func NewFeedbackRepo(pool *pgxpool.Pool) *FeedbackRepo {
	return &FeedbackRepo{pool: pool}
}

const insertFeedback = `
INSERT INTO feedback (id, name, email, rating, easy_to_use, challenges, general_feedback)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

func (r *FeedbackRepo) AppendFeedback(ctx context.Context, rec domain.FeedbackRecord) error {
	_, err := r.pool.Exec(ctx, insertFeedback,
		uuid.New(), rec.Name, rec.Email, rec.Rating, rec.EasyToUse, rec.Challenges, rec.GeneralFeedback)
	if err != nil {
		return fmt.Errorf("failed to insert feedback: %w", err)
	}
	return nil
}

const listFeedback = `
SELECT name, email, rating, easy_to_use, challenges, general_feedback, submitted_at
FROM feedback
ORDER BY submitted_at, id`

func (r *FeedbackRepo) ListFeedback(ctx context.Context) ([]domain.StoredFeedback, error) {
	rows, err := r.pool.Query(ctx, listFeedback)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}

	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.StoredFeedback, error) {
		var f domain.StoredFeedback
		err := row.Scan(&f.Name, &f.Email, &f.Rating, &f.EasyToUse, &f.Challenges, &f.GeneralFeedback, &f.SubmittedAt)
		return f, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan feedback: %w", err)
	}
	return list, nil
}

const insertAnalysisFeedback = `
INSERT INTO analysis_feedback (id, text, rating, comment)
VALUES ($1, $2, $3, $4)`

func (r *FeedbackRepo) AppendAnalysisFeedback(ctx context.Context, rec domain.AnalysisFeedback) error {
	if _, err := r.pool.Exec(ctx, insertAnalysisFeedback, uuid.New(), rec.Text, rec.Rating, rec.Comment); err != nil {
		return fmt.Errorf("failed to insert analysis feedback: %w", err)
	}
	return nil
}
