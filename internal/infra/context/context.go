// Package context holds the request-scoped values shared between the HTTP
// middleware, the services and the log handlers.
package context

import (
	"context"

	"github.com/mkrupp/userapi/internal/domain"
)

type contextKey string

const (
	contextKeyTraceID      = contextKey("traceID")
	contextKeySessionClaim = contextKey("sessionClaim")
)

// TraceIDFromContext extracts the trace ID from the context.
func TraceIDFromContext(ctx context.Context) (string, bool) {
	traceID, ok := ctx.Value(contextKeyTraceID).(string)

	return traceID, ok
}

// WithTraceID returns a context carrying the given trace ID.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, contextKeyTraceID, traceID)
}

// SessionClaimFromContext extracts the verified session claim attached by the
// authorization gate. Returns false on requests that did not pass the gate.
func SessionClaimFromContext(ctx context.Context) (domain.SessionClaim, bool) {
	claim, ok := ctx.Value(contextKeySessionClaim).(domain.SessionClaim)

	return claim, ok
}

// WithSessionClaim returns a context carrying a verified session claim.
func WithSessionClaim(ctx context.Context, claim domain.SessionClaim) context.Context {
	return context.WithValue(ctx, contextKeySessionClaim, claim)
}
