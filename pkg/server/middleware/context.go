package middleware

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// Context keys for storing values in request context.
const (
	// RequestIDKey stores the unique request ID.
	RequestIDKey contextKey = "request_id"

	// StartTimeKey stores the request start time for latency calculation.
	StartTimeKey contextKey = "start_time"

	// IdentityKey stores the admission identity (API key or client IP).
	IdentityKey contextKey = "identity"

	// IdentityIsKeyKey marks the identity as an API key.
	IdentityIsKeyKey contextKey = "identity_is_key"
)
