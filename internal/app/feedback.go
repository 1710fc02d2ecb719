package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/pscheid92/nlpnavigator/internal/domain"
)

// SubmitFeedback validates and stores one app feedback form.
func (s *Service) SubmitFeedback(ctx context.Context, rec domain.FeedbackRecord) error {
	rec.Name = strings.TrimSpace(rec.Name)
	rec.Email = strings.TrimSpace(rec.Email)
	if err := s.validate.StructCtx(ctx, rec); err != nil {
		return invalid(err)
	}

	if err := s.deps.Feedback.AppendFeedback(ctx, rec); err != nil {
		return structured(fmt.Errorf("failed to store feedback: %w", err))
	}
	slog.InfoContext(ctx, "Feedback stored", "rating", rec.Rating)
	return nil
}

// SubmitAnalysisFeedback stores a rating of one emotion analysis.
func (s *Service) SubmitAnalysisFeedback(ctx context.Context, rec domain.AnalysisFeedback) error {
	if err := s.validate.StructCtx(ctx, rec); err != nil {
		return invalid(err)
	}

	if err := s.deps.AnalysisFeedback.AppendAnalysisFeedback(ctx, rec); err != nil {
		return structured(fmt.Errorf("failed to store analysis feedback: %w", err))
	}
	return nil
}

// ExportFeedback writes every stored feedback form as an XLSX workbook.
func (s *Service) ExportFeedback(ctx context.Context, w io.Writer) error {
	list, err := s.deps.Feedback.ListFeedback(ctx)
	if err != nil {
		return structured(fmt.Errorf("failed to list feedback: %w", err))
	}
	if err := s.deps.Exporter.WriteFeedback(w, list); err != nil {
		return fmt.Errorf("failed to export feedback: %w", err)
	}
	return nil
}
