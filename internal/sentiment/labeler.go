package sentiment

import (
	"context"
	"log/slog"

	"github.com/pscheid92/nlpnavigator/internal/domain"
)

// Labeler returns the top classifier label without keyword overrides or score mapping.
// Used where the label set is wider than positive/negative, such as go_emotions.
type Labeler struct {
	classifier domain.Classifier
}

func NewLabeler(classifier domain.Classifier) *Labeler {
	return &Labeler{classifier: classifier}
}

func (l *Labeler) Label(ctx context.Context, text string) Result {
	top, err := Top(ctx, l.classifier, text)
	if err != nil {
		slog.WarnContext(ctx, "Label classifier unavailable, labelling neutral", "error", err)
		return Result{Label: domain.LabelNeutral, Source: SourceDegraded, Err: err}
	}
	return Result{
		Score:      SignedScore(top.Label, top.Score),
		Label:      top.Label,
		Confidence: top.Score,
		Source:     SourceModel,
	}
}
