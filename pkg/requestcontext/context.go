// Package requestcontext carries request-scoped values that cut across
// layers: the logical clock and the request correlation ID.
package requestcontext

import (
	"context"
	"time"
)

type nowKey struct{}
type requestIDKey struct{}

// WithNow pins the logical clock for the request. Tests use this to make
// timestamps deterministic.
func WithNow(ctx context.Context, now time.Time) context.Context {
	return context.WithValue(ctx, nowKey{}, now)
}

// Now returns the pinned request time, falling back to the wall clock.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(nowKey{}).(time.Time); ok {
		return t
	}
	return time.Now().UTC()
}

// WithRequestID attaches the correlation ID assigned by the middleware.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the correlation ID, or "" when none was assigned.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}
