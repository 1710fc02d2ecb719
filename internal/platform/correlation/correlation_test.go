package correlation

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewID(t *testing.T) {
	seen := make(map[string]struct{}, 50)
	for range 50 {
		id := NewID()
		assert.Len(t, id, 12)
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, 50)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"empty", "", false},
		{"upstream id", "req-42_a.b", true},
		{"header injection", "abc\r\nSet-Cookie: x", false},
		{"spaces", "two words", false},
		{"too long", strings.Repeat("a", 65), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.incoming)
			if tt.keep {
				assert.Equal(t, tt.incoming, got)
				return
			}
			assert.NotEqual(t, tt.incoming, got)
			assert.Len(t, got, 12)
		})
	}
}

func TestID(t *testing.T) {
	id, ok := ID(WithID(context.Background(), "upload-7"))
	assert.True(t, ok)
	assert.Equal(t, "upload-7", id)

	_, ok = ID(context.Background())
	assert.False(t, ok)

	_, ok = ID(WithID(context.Background(), ""))
	assert.False(t, ok)
}

func TestHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(slog.NewTextHandler(&buf, nil))).
		With("component", "geocode").
		WithGroup("req")

	logger.InfoContext(WithID(context.Background(), "ab12"), "lookup", "location", "Berlin")
	logger.InfoContext(context.Background(), "startup")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if assert.Len(t, lines, 2) {
		assert.Contains(t, lines[0], "component=geocode")
		assert.Contains(t, lines[0], "req.location=Berlin")
		assert.Contains(t, lines[0], "correlation_id=ab12")
		assert.NotContains(t, lines[1], "correlation_id")
	}
}
