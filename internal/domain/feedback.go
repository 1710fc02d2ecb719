package domain

import (
	"context"
	"io"
	"time"
)

// FeedbackRecord is one submission of the app feedback form.
type FeedbackRecord struct {
	Name            string `validate:"required,max=200"`
	Email           string `validate:"required,email"`
	Rating          int    `validate:"min=1,max=5"`
	EasyToUse       string `validate:"oneof=Yes No Somewhat"`
	Challenges      string `validate:"max=5000"`
	GeneralFeedback string `validate:"max=5000"`
}

// FeedbackColumns is the header of the feedback file, in column order.
var FeedbackColumns = []string{"Name", "Email", "Rating", "Easy to Use", "Challenges", "General Feedback"}

// AnalysisFeedback rates one emotion analysis result.
type AnalysisFeedback struct {
	Text    string `validate:"required"`
	Rating  int    `validate:"min=1,max=5"`
	Comment string `validate:"max=5000"`
}

// AnalysisFeedbackColumns is the header of the analysis feedback file.
var AnalysisFeedbackColumns = []string{"Text", "Rating", "Comment"}

// StoredFeedback is a FeedbackRecord as read back from a repository.
type StoredFeedback struct {
	FeedbackRecord
	SubmittedAt time.Time // zero for file-backed records
}

type FeedbackRepository interface {
	AppendFeedback(ctx context.Context, rec FeedbackRecord) error
	ListFeedback(ctx context.Context) ([]StoredFeedback, error)
}

// FeedbackExporter renders stored feedback as a downloadable document.
type FeedbackExporter interface {
	WriteFeedback(w io.Writer, list []StoredFeedback) error
}

type AnalysisFeedbackRepository interface {
	AppendAnalysisFeedback(ctx context.Context, rec AnalysisFeedback) error
}
