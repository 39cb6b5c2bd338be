// Package logger configures log/slog for the process and derives request
// scoped loggers from a context.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strconv"
)

var log *slog.Logger

// Init installs the process logger. "development" gets human readable text
// at debug level, anything else JSON at info level.
func Init(env string) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if env == "development" {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	log = slog.New(handler)
	slog.SetDefault(log)
}

// Get returns the process logger, falling back to slog's default before Init.
func Get() *slog.Logger {
	if log == nil {
		return slog.Default()
	}
	return log
}

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	userIDKey    contextKey = "user_id"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// FromContext returns the process logger with the request_id and user_id
// carried by ctx attached.
func FromContext(ctx context.Context) *slog.Logger {
	l := Get()
	if ctx == nil {
		return l
	}

	var fields []any
	if id := RequestID(ctx); id != "" {
		fields = append(fields, "request_id", id)
	}
	if id, ok := ctx.Value(userIDKey).(uint); ok && id != 0 {
		fields = append(fields, "user_id", strconv.FormatUint(uint64(id), 10))
	}
	if len(fields) > 0 {
		l = l.With(fields...)
	}
	return l
}
