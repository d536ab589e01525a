package logging

import (
	"context"
)

// Context keys for common log fields.
type contextKey string

const (
	// RequestIDKey is the context key for request IDs.
	RequestIDKey contextKey = "request_id"

	// IdentityKey is the context key for the admission identity
	// (API key hash or client IP).
	IdentityKey contextKey = "identity"
)

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// WithIdentity adds an admission identity to the context.
func WithIdentity(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

// GetIdentity retrieves the admission identity from the context.
func GetIdentity(ctx context.Context) string {
	if identity, ok := ctx.Value(IdentityKey).(string); ok {
		return identity
	}
	return ""
}

// ContextAttrs extracts common request fields from context as logger
// arguments. Returns an empty slice when nothing is set.
func ContextAttrs(ctx context.Context) []any {
	var fields []any

	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, "request_id", requestID)
	}

	if identity := GetIdentity(ctx); identity != "" {
		fields = append(fields, "identity", identity)
	}

	return fields
}
