package admission

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Admit. Callers match them with errors.Is.
var (
	// ErrQueueFull is returned when the admission queue has no free slot.
	// This is the only hard-rejection path: requests inside the rate limit
	// are admitted immediately and requests over it wait in the queue.
	ErrQueueFull = errors.New("admission queue is full")

	// ErrLimiterClosed is returned after Close. Queued waiters are failed
	// with this error during shutdown.
	ErrLimiterClosed = errors.New("limiter is closed")
)

// ReleaserFault reports that the background releaser goroutine panicked.
//
// A releaser fault is fatal to its limiter: queued waiters fail with the
// fault and every later Admit call returns it. The fault is never
// swallowed; the limiter logs it with the recovered value and stack.
type ReleaserFault struct {
	Key   string // Registry key of the failed limiter, empty for standalone
	Value any    // Recovered panic value
}

func (e *ReleaserFault) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("admission releaser for %q failed: %v", e.Key, e.Value)
	}
	return fmt.Sprintf("admission releaser failed: %v", e.Value)
}

// IsReleaserFault reports whether err is (or wraps) a ReleaserFault.
func IsReleaserFault(err error) bool {
	var fault *ReleaserFault
	return errors.As(err, &fault)
}
