package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pscheid92/nlpnavigator/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedbackStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedback_data.csv")
	store := NewFeedbackStore(path, nil)
	ctx := context.Background()

	rec := domain.FeedbackRecord{
		Name:            "Ada",
		Email:           "ada@example.com",
		Rating:          4,
		EasyToUse:       "Somewhat",
		Challenges:      "Uploading, mostly",
		GeneralFeedback: "Nice\nwork",
	}
	require.NoError(t, store.AppendFeedback(ctx, rec))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Name,Email,Rating,Easy to Use,Challenges,General Feedback\n")

	list, err := store.ListFeedback(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, rec, list[0].FeedbackRecord)
	assert.True(t, list[0].SubmittedAt.IsZero())
}

func TestFeedbackStore_InvalidRating(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feedback_data.csv")
	content := "Name,Email,Rating,Easy to Use,Challenges,General Feedback\nAda,ada@example.com,five,Yes,,\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := NewFeedbackStore(path, nil).ListFeedback(context.Background())
	require.ErrorIs(t, err, domain.ErrMalformedStore)
}

func TestAnalysisFeedbackStore_Append(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_feedback.csv")
	store := NewAnalysisFeedbackStore(path, nil)

	require.NoError(t, store.AppendAnalysisFeedback(context.Background(), domain.AnalysisFeedback{
		Text: "I am thrilled", Rating: 5, Comment: "spot on",
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Text,Rating,Comment\nI am thrilled,5,spot on\n", string(data))
}
