package survgo

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with survgo-specific context.
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

// WithColumn adds a column field to the logger.
func (l *Logger) WithColumn(column string) *Logger {
	return &Logger{
		Logger: l.Logger.With("column", column),
	}
}

// WithRows adds a row-count field to the logger.
func (l *Logger) WithRows(rows int) *Logger {
	return &Logger{
		Logger: l.Logger.With("rows", rows),
	}
}

// LogIngest logs an ingestion operation.
func (l *Logger) LogIngest(ctx context.Context, name string, rows, columns int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "ingest failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "ingest completed",
			"name", name,
			"rows", rows,
			"columns", columns,
		)
	}
}

// LogFactorsLoaded logs loading of a factor definition file.
func (l *Logger) LogFactorsLoaded(ctx context.Context, name string, count int) {
	l.InfoContext(ctx, "factor definitions loaded",
		"name", name,
		"factors", count,
	)
}

// LogFactorsWritten logs creation of a factor definition file.
func (l *Logger) LogFactorsWritten(ctx context.Context, name string, count int) {
	l.InfoContext(ctx, "factor definitions written",
		"name", name,
		"factors", count,
	)
}

// LogImputePass logs one KNN imputation pass.
func (l *Logger) LogImputePass(ctx context.Context, pass, filled, remaining int) {
	l.DebugContext(ctx, "imputation pass completed",
		"pass", pass,
		"filled", filled,
		"remaining", remaining,
	)
}

// LogImpute logs a completed imputation run.
func (l *Logger) LogImpute(ctx context.Context, passes, filled, remaining int) {
	l.InfoContext(ctx, "imputation completed",
		"passes", passes,
		"filled", filled,
		"remaining", remaining,
	)
}

// LogSplit logs a train/test split.
func (l *Logger) LogSplit(ctx context.Context, train, test int) {
	l.InfoContext(ctx, "split completed",
		"train", train,
		"test", test,
	)
}

// LogExport logs an export operation.
func (l *Logger) LogExport(ctx context.Context, name string, rows int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "export failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "export completed",
			"name", name,
			"rows", rows,
		)
	}
}
