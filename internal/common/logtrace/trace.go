package logtrace

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type requestIDContextKey string

const (
	requestIDKey = requestIDContextKey("requestId")

	// RequestIDHeader carries the request id to the backend.
	RequestIDHeader = "X-Request-ID"
)

// RequestIDFromContext extracts the request ID from the context.
// Returns an empty string if the context is nil or if no request ID is found.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	r, ok := ctx.Value(requestIDKey).(string)
	if !ok {
		return ""
	}
	return r
}

// WithRequestID returns a context carrying a request id and a logger tagged
// with it. An id already present in ctx is reused.
func WithRequestID(ctx context.Context) (context.Context, string) {
	if id := RequestIDFromContext(ctx); id != "" {
		return ctx, id
	}
	id := NewRequestID()
	ctx = context.WithValue(ctx, requestIDKey, id)
	ctx = log.Ctx(ctx).With().Str("request_id", id).Logger().WithContext(ctx)
	return ctx, id
}

// NewRequestID returns a UUIDv7, falling back to a timestamp id.
func NewRequestID() string {
	u, err := uuid.NewV7()
	if err == nil {
		return u.String()
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}
