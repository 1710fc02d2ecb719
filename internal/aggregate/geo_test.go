package aggregate

import (
	"context"
	"errors"
	"testing"

	"github.com/pscheid92/nlpnavigator/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkerColor(t *testing.T) {
	assert.Equal(t, "green", MarkerColor(0.4))
	assert.Equal(t, "red", MarkerColor(-0.1))
	assert.Equal(t, "orange", MarkerColor(0))
}

func TestBuildGeo_KeepsResolvedRows(t *testing.T) {
	geo := &mockGeocoder{
		places: map[string]domain.Coordinates{"Berlin": {Lat: 52.52, Lon: 13.40}},
		errs:   map[string]error{"Paris": errors.New("timeout")},
	}
	rows := []Row{
		{Category: "Berlin", Text: "great"},
		{Category: "Atlantis", Text: "lost"},
		{Category: "", Text: "nowhere"},
		{Category: "Paris", Text: "slow"},
		{Category: "Atlantis", Text: "again"},
	}

	res, err := BuildGeo(context.Background(), &lengthScorer{}, geo, rows)
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "Berlin", res.Rows[0].Location)
	assert.Equal(t, 52.52, res.Rows[0].Coords.Lat)
	assert.Equal(t, []string{"Atlantis", "Paris"}, res.Unresolved)
}

func TestBuildGeo_NothingResolved(t *testing.T) {
	res, err := BuildGeo(context.Background(), &lengthScorer{}, &mockGeocoder{}, []Row{{Category: "Atlantis", Text: "x"}})
	assert.ErrorIs(t, err, domain.ErrNothingToDisplay)
	assert.Equal(t, []string{"Atlantis"}, res.Unresolved)
}

func TestBuildGeo_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := BuildGeo(ctx, &lengthScorer{}, &mockGeocoder{}, []Row{{Category: "Berlin", Text: "x"}})
	assert.ErrorIs(t, err, context.Canceled)
}
