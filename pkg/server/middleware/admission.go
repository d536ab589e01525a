package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"prismatic-hq/prism/pkg/admission"
	"prismatic-hq/prism/pkg/server/types"
	"prismatic-hq/prism/pkg/telemetry/metrics"
)

// RejectionMessage is the body message returned when the admission queue
// is full.
const RejectionMessage = "Too many requests. Please try again later."

// StatusClientClosedRequest is the nginx convention for a client that
// disconnected before the server produced a response.
const StatusClientClosedRequest = 499

// queuedThreshold separates fast-path admissions from queued ones in the
// metrics. The fast path never sleeps, so anything above this waited.
const queuedThreshold = 5 * time.Millisecond

// AdmissionMiddleware gates a route through the per-identity sliding
// window limiter.
//
// The identity is the caller's API key when one is presented in the
// Authorization or X-API-Key header, otherwise the client IP. Requests
// over the rate wait in the limiter's FIFO queue; a full queue rejects
// with 429, Retry-After, and X-RateLimit-* headers.
func AdmissionMiddleware(registry *admission.Registry, collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, isKey := ExtractIdentity(r)
			limiter := registry.ForKey(identity)

			start := time.Now()
			err := limiter.Admit(r.Context())
			wait := time.Since(start)

			if collector != nil {
				defer collector.SetQueueDepth(registry.Stats().QueuedTotal)
			}

			switch {
			case err == nil:
				if collector != nil {
					if wait >= queuedThreshold {
						collector.RecordAdmission(metrics.OutcomeQueued)
						collector.ObserveQueueWait(identity, wait)
					} else {
						collector.RecordAdmission(metrics.OutcomeAdmitted)
					}
				}

			case errors.Is(err, admission.ErrQueueFull):
				if collector != nil {
					collector.RecordAdmission(metrics.OutcomeRejected)
				}
				writeRejection(w, limiter)
				return

			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				if collector != nil {
					collector.RecordAdmission(metrics.OutcomeCancelled)
				}
				slog.DebugContext(r.Context(), "client gave up while queued",
					"identity", identity,
					"waited_ms", wait.Milliseconds(),
				)
				w.WriteHeader(StatusClientClosedRequest)
				return

			default:
				// Releaser fault or limiter closed during shutdown.
				if collector != nil {
					collector.RecordAdmission(metrics.OutcomeRejected)
				}
				slog.ErrorContext(r.Context(), "admission failed",
					"identity", identity,
					"error", err,
				)
				writeEnvelope(w, http.StatusServiceUnavailable,
					types.NewServiceUnavailableError("Service temporarily unable to accept requests."))
				return
			}

			ctx := context.WithValue(r.Context(), IdentityKey, identity)
			ctx = context.WithValue(ctx, IdentityIsKeyKey, isKey)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeRejection writes the 429 response with rate limit headers.
func writeRejection(w http.ResponseWriter, limiter *admission.Limiter) {
	retryAfter := limiter.RetryAfter()
	retrySecs := int(math.Ceil(retryAfter.Seconds()))
	if retrySecs < 1 {
		retrySecs = 1
	}

	limit := limiter.MaxRequests()
	remaining := limit - limiter.InWindow()
	if remaining < 0 {
		remaining = 0
	}

	w.Header().Set("Retry-After", strconv.Itoa(retrySecs))
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(retryAfter).Unix(), 10))

	writeEnvelope(w, http.StatusTooManyRequests, types.NewRateLimitError(RejectionMessage))
}

// writeEnvelope writes a JSON error envelope.
func writeEnvelope(w http.ResponseWriter, status int, errResp *types.ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errResp)
}

// ExtractIdentity returns the admission identity for a request: the API
// key from the Authorization or X-API-Key header when present, otherwise
// the client IP. The second return reports whether the identity is a key.
func ExtractIdentity(r *http.Request) (string, bool) {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if key, ok := strings.CutPrefix(auth, "Bearer "); ok && key != "" {
			return key, true
		}
	}

	if key := r.Header.Get("X-API-Key"); key != "" {
		return key, true
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr, false
	}
	return host, false
}

// GetIdentity extracts the admission identity from the context.
func GetIdentity(ctx context.Context) (identity string, isKey bool) {
	identity, _ = ctx.Value(IdentityKey).(string)
	isKey, _ = ctx.Value(IdentityIsKeyKey).(bool)
	return identity, isKey
}
