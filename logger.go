package yavs

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with yavs-specific helpers.
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

// WithDimension adds a dimension field to the logger.
func (l *Logger) WithDimension(dim uint32) *Logger {
	return &Logger{
		Logger: l.Logger.With("dimension", dim),
	}
}

// LogInsert logs an insert operation.
func (l *Logger) LogInsert(id ID, dimension int, err error) {
	if err != nil {
		l.Error("insert failed",
			"dimension", dimension,
			"error", err,
		)
	} else {
		l.Debug("insert completed",
			"id", id.String(),
			"dimension", dimension,
		)
	}
}

// LogRemove logs a soft-delete operation.
func (l *Logger) LogRemove(id ID, found bool) {
	l.Debug("remove completed",
		"id", id.String(),
		"found", found,
	)
}

// LogCompact logs a compaction.
func (l *Logger) LogCompact(dropped, remaining int) {
	l.Debug("compaction completed",
		"dropped", dropped,
		"remaining", remaining,
	)
}

// LogQuery logs a query operation.
func (l *Logger) LogQuery(k, resultsFound int, err error) {
	if err != nil {
		l.Error("query failed",
			"k", k,
			"error", err,
		)
	} else {
		l.Debug("query completed",
			"k", k,
			"results", resultsFound,
		)
	}
}

// LogSave logs a save operation.
func (l *Logger) LogSave(dest string, records int, err error) {
	if err != nil {
		l.Error("save failed",
			"dest", dest,
			"error", err,
		)
	} else {
		l.Info("save completed",
			"dest", dest,
			"records", records,
		)
	}
}

// LogLoad logs a load operation.
func (l *Logger) LogLoad(source string, records int, err error) {
	if err != nil {
		l.Error("load failed",
			"source", source,
			"error", err,
		)
	} else {
		l.Info("load completed",
			"source", source,
			"records", records,
		)
	}
}
