package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"condense/internal/handler/http/requestid"
)

// Format selects the handler used by New.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Options configures New.
type Options struct {
	Level  slog.Level
	Format Format
}

// ParseLevel maps debug, info, warn and error (any case) to slog levels.
// Anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// New creates a logger writing to w. Source locations are attached when the
// level is warn or more verbose.
func New(w io.Writer, opts Options) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{
		Level:     opts.Level,
		AddSource: opts.Level <= slog.LevelWarn,
	}
	if opts.Format == FormatText {
		return slog.New(slog.NewTextHandler(w, handlerOpts))
	}
	return slog.New(slog.NewJSONHandler(w, handlerOpts))
}

// NewLogger creates a stdout logger configured from LOG_LEVEL and LOG_FORMAT.
// JSON is the default format.
func NewLogger() *slog.Logger {
	format := FormatJSON
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), string(FormatText)) {
		format = FormatText
	}
	return New(os.Stdout, Options{
		Level:  ParseLevel(os.Getenv("LOG_LEVEL")),
		Format: format,
	})
}

// NewTextLogger creates a human-readable stderr logger for command-line tools.
func NewTextLogger() *slog.Logger {
	return New(os.Stderr, Options{
		Level:  ParseLevel(os.Getenv("LOG_LEVEL")),
		Format: FormatText,
	})
}

// WithRequestID returns logger annotated with the request ID from ctx, if any.
func WithRequestID(ctx context.Context, logger *slog.Logger) *slog.Logger {
	reqID := requestid.FromContext(ctx)
	if reqID == "" {
		return logger
	}
	return logger.With(slog.String("request_id", reqID))
}

// FromContext returns the logger stored in ctx, or slog.Default.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerContextKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, logger)
}

type contextKey string

const loggerContextKey contextKey = "logger"
