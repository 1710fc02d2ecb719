package aggregate

import (
	"context"
	"testing"

	"github.com/pscheid92/nlpnavigator/internal/domain"
	"github.com/pscheid92/nlpnavigator/internal/sentiment"
	"github.com/pscheid92/nlpnavigator/internal/textproc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildHeatmap_BySentence(t *testing.T) {
	hm, err := BuildHeatmap(context.Background(), &lengthScorer{}, "I like it. I hate the new pricing model.", textproc.BySentence)
	require.NoError(t, err)
	require.Len(t, hm.Cells, 2)
	assert.Equal(t, "I like it.", hm.Cells[0].Segment)
	assert.Equal(t, textproc.BySentence, hm.Granularity)
}

func TestBuildHeatmap_ByWord(t *testing.T) {
	hm, err := BuildHeatmap(context.Background(), &lengthScorer{}, "good, bad", textproc.ByWord)
	require.NoError(t, err)
	require.Len(t, hm.Cells, 2)
	assert.Equal(t, "good", hm.Cells[0].Segment)
	assert.Equal(t, "bad", hm.Cells[1].Segment)
}

func TestBuildHeatmap_WordLevelWithSentimentScorer(t *testing.T) {
	calls := 0
	classifier := classifierFunc(func(_ context.Context, text string) ([]domain.Prediction, error) {
		calls++
		if text == "awful" {
			return []domain.Prediction{{Label: domain.LabelNegative, Score: 0.9}}, nil
		}
		return []domain.Prediction{{Label: domain.LabelPositive, Score: 0.8}}, nil
	})
	scorer := sentiment.NewScorer(classifier, sentiment.WithMinLength(1))

	hm, err := BuildHeatmap(context.Background(), scorer, "love awful", textproc.ByWord)
	require.NoError(t, err)
	require.Len(t, hm.Cells, 2)
	assert.InDelta(t, 0.8, hm.Cells[0].Score, 1e-9)
	assert.InDelta(t, -0.9, hm.Cells[1].Score, 1e-9)
	assert.Equal(t, 2, calls)
	assert.Zero(t, hm.Degraded)
}

func TestBuildHeatmap_NothingToDisplay(t *testing.T) {
	_, err := BuildHeatmap(context.Background(), &lengthScorer{}, "   ", textproc.BySentence)
	assert.ErrorIs(t, err, domain.ErrNothingToDisplay)

	_, err = BuildHeatmap(context.Background(), &lengthScorer{}, "?! ...", textproc.ByWord)
	assert.ErrorIs(t, err, domain.ErrNothingToDisplay)
}

func TestJoinRows(t *testing.T) {
	assert.Equal(t, "one. two.", JoinRows([]Row{{Text: "one."}, {Text: "two."}}))
	assert.Equal(t, "", JoinRows(nil))
}
