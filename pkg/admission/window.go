package admission

import (
	"sync"
	"time"
)

// Window implements a sliding window counter for request admission.
//
// The window tracks the exact timestamp of every admitted request over a
// rolling time period. Entries that fall outside the window are pruned
// before every decision, so capacity frees up continuously instead of in
// fixed-window reset spikes.
//
// # Algorithm
//
//  1. Prune timestamps older than the window duration
//  2. If fewer than maxRequests remain, record now and admit
//  3. Otherwise reject; the caller may queue and retry later
//
// Unlike a bucketed counter, the window keeps individual timestamps. This
// costs O(maxRequests) memory per window but gives exact admission times,
// which the releaser needs to compute when the next slot frees up.
//
// # Thread Safety
//
// Window is thread-safe using sync.Mutex. TryAdmit performs prune, check,
// and append as a single atomic step under the lock.
type Window struct {
	maxRequests int           // Maximum admissions inside the window
	window      time.Duration // Window duration (e.g., 60 seconds)
	timestamps  []time.Time   // Admission times, oldest first
	mu          sync.Mutex
}

// NewWindow creates a new sliding window counter.
//
// Parameters:
//   - maxRequests: Maximum number of admissions per window
//   - window: Rolling window duration
//
// Example:
//
//	// 10 requests per rolling minute
//	w := NewWindow(10, time.Minute)
func NewWindow(maxRequests int, window time.Duration) *Window {
	return &Window{
		maxRequests: maxRequests,
		window:      window,
		timestamps:  make([]time.Time, 0, maxRequests),
	}
}

// TryAdmit attempts to admit one request at the given time.
//
// Expired timestamps are pruned first. If capacity remains, now is recorded
// and TryAdmit returns true. Returns false when the window is full; nothing
// is recorded in that case.
func (w *Window) TryAdmit(now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pruneLocked(now)

	if len(w.timestamps) < w.maxRequests {
		w.timestamps = append(w.timestamps, now)
		return true
	}

	return false
}

// Prune removes timestamps outside the window. Idempotent.
func (w *Window) Prune(now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pruneLocked(now)
}

// NextFreeAt returns the earliest time a slot can free up.
//
// Returns the zero time when the window is under capacity (a slot is free
// right now). Otherwise it returns the expiry time of the oldest admission.
// Pruning at or after that instant drops the oldest entry.
func (w *Window) NextFreeAt(now time.Time) time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pruneLocked(now)

	if len(w.timestamps) < w.maxRequests {
		return time.Time{}
	}

	return w.timestamps[0].Add(w.window)
}

// Len returns the number of admissions currently inside the window.
func (w *Window) Len(now time.Time) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pruneLocked(now)

	return len(w.timestamps)
}

// Snapshot returns a copy of the live timestamps for persistence.
func (w *Window) Snapshot(now time.Time) []time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pruneLocked(now)

	out := make([]time.Time, len(w.timestamps))
	copy(out, w.timestamps)
	return out
}

// Restore seeds the window from persisted timestamps. Entries outside the
// window or beyond capacity are discarded. Intended for startup only; any
// admissions recorded before Restore are overwritten.
func (w *Window) Restore(timestamps []time.Time, now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.timestamps = w.timestamps[:0]
	cutoff := now.Add(-w.window)

	for _, ts := range timestamps {
		if ts.After(cutoff) && len(w.timestamps) < w.maxRequests {
			w.timestamps = append(w.timestamps, ts)
		}
	}
}

// pruneLocked drops every timestamp at or before now minus the window.
// Caller must hold the lock.
func (w *Window) pruneLocked(now time.Time) {
	cutoff := now.Add(-w.window)

	i := 0
	for i < len(w.timestamps) && !w.timestamps[i].After(cutoff) {
		i++
	}

	if i > 0 {
		w.timestamps = append(w.timestamps[:0], w.timestamps[i:]...)
	}
}
