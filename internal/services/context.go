package services

import "context"

type contextKey string

const (
	sessionIDKey contextKey = "session_id"
	pageKey      contextKey = "page"
	requestIDKey contextKey = "request_id"
)

// WithSessionID annotates context with the review session identifier.
func WithSessionID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionIDKey, id)
}

// SessionIDFromContext extracts the review session identifier if present.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(sessionIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithPage annotates context with the 1-based page under review.
func WithPage(ctx context.Context, page int) context.Context {
	if page <= 0 {
		return ctx
	}
	return context.WithValue(ctx, pageKey, page)
}

// PageFromContext returns the page if present.
func PageFromContext(ctx context.Context) (int, bool) {
	v, ok := ctx.Value(pageKey).(int)
	if !ok || v <= 0 {
		return 0, false
	}
	return v, true
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
