package admission

import (
	"sync"
	"sync/atomic"
)

// waiter represents one request parked in the admission queue.
//
// A waiter resolves exactly once: resolve closes done so the caller wakes
// from Admit. The sync.Once guards against double resolution, which would
// otherwise panic on the second close.
type waiter struct {
	done      chan struct{}
	err       error
	once      sync.Once
	abandoned atomic.Bool
}

func newWaiter() *waiter {
	return &waiter{done: make(chan struct{})}
}

// resolve wakes the caller with the given error (nil means admitted).
// Safe to call more than once; only the first call takes effect.
func (w *waiter) resolve(err error) {
	w.once.Do(func() {
		w.err = err
		close(w.done)
	})
}

// abandon marks the waiter as no longer wanted. The releaser skips
// abandoned waiters without consuming a window slot.
func (w *waiter) abandon() {
	w.abandoned.Store(true)
}
