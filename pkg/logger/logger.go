package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Logger is a thin leveled wrapper around slog so call sites stay
// key-value pairs: log.Info("merged quotes", "count", n).
type Logger struct {
	*slog.Logger
}

func NewLogger(level string) *Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: lvl,
	})

	return &Logger{slog.New(handler)}
}
