package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type Logger struct {
	sl *slog.Logger
}

func New(level string) *Logger {
	return NewWithFormat(level, "text", os.Stdout)
}

// NewWithFormat builds a logger writing text or JSON records to w.
func NewWithFormat(level, format string, w io.Writer) *Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return &Logger{sl: slog.New(handler)}
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *Logger {
	return NewWithFormat("error", "text", io.Discard)
}

// With returns a logger carrying extra structured fields.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{sl: l.sl.With(args...)}
}

func (l *Logger) Info(msg string, args ...interface{}) {
	l.sl.Info(format(msg, args...))
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	l.sl.Debug(format(msg, args...))
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	l.sl.Warn(format(msg, args...))
}

func (l *Logger) Error(msg string, args ...interface{}) {
	l.sl.Error(format(msg, args...))
}

func (l *Logger) Fatal(msg string, args ...interface{}) {
	l.sl.Error("[FATAL] " + format(msg, args...))
	os.Exit(1)
}

func format(msg string, args ...interface{}) string {
	if len(args) == 0 {
		return msg
	}
	if strings.Contains(msg, "%") {
		return fmt.Sprintf(msg, args...)
	}
	// logger.Fatal("Failed to connect:", err) style calls
	return fmt.Sprint(append([]interface{}{msg, " "}, args...)...)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
