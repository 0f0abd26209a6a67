// Package observability carries per-invocation log context (stage and
// change source) through context.Context and logs with it attached. The run
// id lives on the process logger itself.
package observability

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/affected/internal/logfields"
)

// LogContext holds structured logging context information.
type LogContext struct {
	Stage  string
	Source string
}

type logContextKeyType string

const logContextKey logContextKeyType = "log-context"

// WithStage adds a stage name to the context.
func WithStage(ctx context.Context, stage string) context.Context {
	lc := extractLogContext(ctx)
	lc.Stage = stage
	return context.WithValue(ctx, logContextKey, lc)
}

// WithSource records which change source feeds the run.
func WithSource(ctx context.Context, source string) context.Context {
	lc := extractLogContext(ctx)
	lc.Source = source
	return context.WithValue(ctx, logContextKey, lc)
}

func extractLogContext(ctx context.Context) LogContext {
	if lc, ok := ctx.Value(logContextKey).(LogContext); ok {
		return lc
	}
	return LogContext{}
}

func getLogAttrs(ctx context.Context) []slog.Attr {
	lc := extractLogContext(ctx)
	attrs := []slog.Attr{}

	if lc.Stage != "" {
		attrs = append(attrs, logfields.Stage(lc.Stage))
	}
	if lc.Source != "" {
		attrs = append(attrs, logfields.Source(lc.Source))
	}
	return attrs
}

// InfoContext logs an info message with context information.
func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logContext(ctx, slog.LevelInfo, msg, attrs)
}

// WarnContext logs a warning message with context information.
func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logContext(ctx, slog.LevelWarn, msg, attrs)
}

// ErrorContext logs an error message with context information.
func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logContext(ctx, slog.LevelError, msg, attrs)
}

// DebugContext logs a debug message with context information.
func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	logContext(ctx, slog.LevelDebug, msg, attrs)
}

func logContext(ctx context.Context, level slog.Level, msg string, attrs []slog.Attr) {
	allAttrs := append(getLogAttrs(ctx), attrs...)
	slog.LogAttrs(ctx, level, msg, allAttrs...)
}
