package logger

import (
	"context"
	"log/slog"

	"atelier_backend/pkg/contextkeys"
)

// WithRequestID stores the request id in the context so downstream log
// lines can be correlated with the originating HTTP request.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextkeys.RequestIDKey, requestID)
}

// RequestIDFromContext extracts the request id, if present.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(contextkeys.RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// FromContext returns the global logger enriched with the request id
// when the context carries one.
func FromContext(ctx context.Context) *slog.Logger {
	if id := RequestIDFromContext(ctx); id != "" {
		return GetLogger().With("request_id", id)
	}
	return GetLogger()
}
