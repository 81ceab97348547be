package log

import "context"

type contextKey string

const requestIDKey contextKey = "request_id"

// WithRequestID stores a request id in the context for handlers and
// downstream calls to pick up.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the request id stored in ctx, or "" when absent.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}
