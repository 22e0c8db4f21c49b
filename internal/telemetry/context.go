package telemetry

import (
	"context"

	"github.com/google/uuid"
)

// callIDKey is the context key type used to store a call ID.
type callIDKey struct{}

// WithCallID returns a child context that carries the provided call ID.
// If ctx is nil, context.Background() is used
func WithCallID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, callIDKey{}, id)
}

// CallIDFromContext returns the call ID from ctx, if present.
// Returns "", false if the value is missing or not a non-empty string.
func CallIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	v := ctx.Value(callIDKey{})
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// EnsureCallID returns ctx unchanged when it already carries a call ID,
// otherwise a child context with a fresh one.
func EnsureCallID(ctx context.Context) (context.Context, string) {
	if id, ok := CallIDFromContext(ctx); ok {
		return ctx, id
	}
	id := uuid.NewString()
	return WithCallID(ctx, id), id
}
