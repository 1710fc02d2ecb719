package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pscheid92/nlpnavigator/internal/platform/correlation"
	"github.com/pscheid92/nlpnavigator/internal/platform/version"
)

// InitLogger installs the process-wide slog default. Unknown levels fall back
// to info and any format other than "json" yields text output.
func InitLogger(level, format string) {
	slog.SetDefault(NewLogger(os.Stdout, level, format).With("version", version.Version))
}

// NewLogger builds a correlation-aware logger writing to w.
func NewLogger(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler = slog.NewTextHandler(w, opts)
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(correlation.NewHandler(handler))
}

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

func parseLevel(level string) slog.Level {
	if l, ok := levels[strings.ToLower(strings.TrimSpace(level))]; ok {
		return l
	}
	return slog.LevelInfo
}
