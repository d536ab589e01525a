package admission

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// maxReleaserSleep caps releaser pacing sleeps so shutdown and config
	// changes are noticed promptly even with long windows.
	maxReleaserSleep = time.Second

	// minReleaserSleep is the retry interval when the window reports no
	// usable wait time (for example after a slot was stolen by the fast
	// path between the failed TryAdmit and the NextFreeAt read).
	minReleaserSleep = 100 * time.Millisecond
)

// Limiter admits requests through a sliding window with queued waiting.
//
// Admit runs a three-step state machine:
//
//  1. Fast path: if the window has capacity, admit immediately.
//  2. Queue: otherwise park the caller in a bounded FIFO queue. A full
//     queue fails immediately with ErrQueueFull.
//  3. Wait: block until the background releaser grants a slot, the
//     caller's context is cancelled, or the limiter shuts down.
//
// A single releaser goroutine, started by NewLimiter, serves the queue in
// order. For each waiter it polls the window, sleeping until the oldest
// admission expires (capped at one second per sleep), and resolves the
// waiter once a slot is taken.
//
// # Fairness
//
// Grant order among queued waiters is strictly FIFO. The fast path does
// not consult the queue, so a request arriving in the instant after a slot
// frees can win it ahead of the queue head; the head then gets the next
// slot. Under sustained saturation the queue drains in order.
//
// # Failure
//
// A panic in the releaser is fatal to the limiter: it is recovered, logged
// with the stack, queued waiters fail with a *ReleaserFault, and every
// later Admit returns the same fault.
type Limiter struct {
	cfg    Config
	key    string
	win    *Window
	queue  chan *waiter // nil when MaxQueueSize is zero
	logger *slog.Logger

	stopCh    chan struct{}
	doneCh    chan struct{}
	closeOnce sync.Once
	fault     atomic.Pointer[ReleaserFault]
	waiting   atomic.Int64

	// testHookServe, when set, runs before each waiter is served.
	testHookServe func()
}

// NewLimiter creates a limiter and starts its releaser goroutine.
// The caller must Close the limiter to stop the goroutine.
func NewLimiter(cfg Config, logger *slog.Logger) (*Limiter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newLimiter(cfg, "", logger), nil
}

// newLimiter skips validation; the registry validates once up front.
func newLimiter(cfg Config, key string, logger *slog.Logger) *Limiter {
	if logger == nil {
		logger = slog.Default()
	}

	l := &Limiter{
		cfg:    cfg,
		key:    key,
		win:    NewWindow(cfg.MaxRequests, cfg.TimeWindow),
		logger: logger,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}

	if cfg.MaxQueueSize > 0 {
		l.queue = make(chan *waiter, cfg.MaxQueueSize)
	}

	go l.run()

	return l
}

// Admit blocks until the request is admitted or rejected.
//
// Returns nil when admitted. Returns ErrQueueFull immediately when the
// rate is exceeded and the queue is full, ctx.Err() when the caller's
// context is cancelled while queued, ErrLimiterClosed after Close, and a
// *ReleaserFault when the releaser has failed.
//
// A caller cancelled while queued does not consume a window slot: its
// waiter is marked abandoned and the releaser skips it. If the grant and
// the cancellation race, the grant wins and Admit returns nil.
func (l *Limiter) Admit(ctx context.Context) error {
	if f := l.fault.Load(); f != nil {
		return f
	}

	select {
	case <-l.stopCh:
		return ErrLimiterClosed
	default:
	}

	// Fast path: capacity is free right now.
	if l.win.TryAdmit(time.Now()) {
		return nil
	}

	if l.queue == nil {
		return ErrQueueFull
	}

	w := newWaiter()
	select {
	case l.queue <- w:
		l.waiting.Add(1)
		defer l.waiting.Add(-1)
	default:
		return ErrQueueFull
	}

	select {
	case <-w.done:
		return w.err

	case <-ctx.Done():
		w.abandon()
		select {
		case <-w.done:
			return w.err
		default:
			return ctx.Err()
		}

	case <-l.stopCh:
		w.abandon()
		select {
		case <-w.done:
			return w.err
		default:
		}
		if f := l.fault.Load(); f != nil {
			return f
		}
		return ErrLimiterClosed
	}
}

// Close stops the releaser and fails all queued waiters with
// ErrLimiterClosed. Blocks until the releaser goroutine has exited.
// Safe to call more than once.
func (l *Limiter) Close() {
	l.closeOnce.Do(func() { close(l.stopCh) })
	<-l.doneCh
	l.drain(ErrLimiterClosed)
}

// Fault returns the releaser fault, or nil while the limiter is healthy.
func (l *Limiter) Fault() *ReleaserFault {
	return l.fault.Load()
}

// QueueDepth returns the number of requests parked in the queue, not
// counting the waiter the releaser is currently serving.
func (l *Limiter) QueueDepth() int {
	if l.queue == nil {
		return 0
	}
	return len(l.queue)
}

// Waiting returns the number of callers blocked in Admit, including the
// waiter the releaser is currently serving.
func (l *Limiter) Waiting() int {
	return int(l.waiting.Load())
}

// InWindow returns the number of admissions inside the current window.
func (l *Limiter) InWindow() int {
	return l.win.Len(time.Now())
}

// MaxRequests returns the window capacity the limiter was configured with.
func (l *Limiter) MaxRequests() int {
	return l.cfg.MaxRequests
}

// RetryAfter estimates how long until the next slot frees up.
// Returns zero when a slot is free right now.
func (l *Limiter) RetryAfter() time.Duration {
	now := time.Now()
	next := l.win.NextFreeAt(now)
	if next.IsZero() {
		return 0
	}
	d := next.Sub(now)
	if d < 0 {
		d = 0
	}
	return d
}

// run is the releaser loop. It owns the consumer side of the queue.
func (l *Limiter) run() {
	var current *waiter

	defer close(l.doneCh)
	defer func() {
		if r := recover(); r != nil {
			fault := &ReleaserFault{Key: l.key, Value: r}
			l.fault.Store(fault)
			l.logger.Error("admission releaser panicked",
				"key", l.key,
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
			l.closeOnce.Do(func() { close(l.stopCh) })
			if current != nil {
				current.resolve(fault)
			}
			l.drain(fault)
		}
	}()

	for {
		var w *waiter
		select {
		case <-l.stopCh:
			return
		case w = <-l.queue:
		}
		current = w

		if l.testHookServe != nil {
			l.testHookServe()
		}

		if !l.waitForSlot(w) {
			return
		}
		current = nil
	}
}

// waitForSlot paces until the window admits the waiter. Returns false when
// the limiter is shutting down.
func (l *Limiter) waitForSlot(w *waiter) bool {
	for {
		if w.abandoned.Load() {
			// Caller is gone; do not burn a slot on it.
			return true
		}

		now := time.Now()
		if l.win.TryAdmit(now) {
			w.resolve(nil)
			return true
		}

		delay := minReleaserSleep
		if next := l.win.NextFreeAt(now); !next.IsZero() {
			if d := next.Sub(now); d > 0 {
				delay = d
			}
		}
		if delay > maxReleaserSleep {
			delay = maxReleaserSleep
		}

		timer := time.NewTimer(delay)
		select {
		case <-l.stopCh:
			timer.Stop()
			w.resolve(ErrLimiterClosed)
			return false
		case <-timer.C:
		}
	}
}

// drain fails any waiters still parked in the queue.
func (l *Limiter) drain(err error) {
	if l.queue == nil {
		return
	}
	for {
		select {
		case w := <-l.queue:
			w.resolve(err)
		default:
			return
		}
	}
}
