package navis

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with navis-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithSource adds a source field to the logger (file, URL or store key).
func (l *Logger) WithSource(source string) *Logger {
	return &Logger{
		Logger: l.Logger.With("source", source),
	}
}

// WithNeuron adds a neuron name field to the logger.
func (l *Logger) WithNeuron(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("neuron", name),
	}
}

// LogRead logs a single-source import.
func (l *Logger) LogRead(ctx context.Context, source string, nodes int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "read failed",
			"source", source,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "read completed",
			"source", source,
			"nodes", nodes,
		)
	}
}

// LogBatchRead logs a bulk import.
func (l *Logger) LogBatchRead(ctx context.Context, source string, count, failed int) {
	if failed > 0 {
		l.WarnContext(ctx, "bulk read completed with failures",
			"source", source,
			"total", count,
			"failed", failed,
			"success", count-failed,
		)
	} else {
		l.InfoContext(ctx, "bulk read completed",
			"source", source,
			"count", count,
		)
	}
}

// LogWrite logs an export.
func (l *Logger) LogWrite(ctx context.Context, target string, count int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "write failed",
			"target", target,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "write completed",
			"target", target,
			"count", count,
		)
	}
}
