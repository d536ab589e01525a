package admission

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"prismatic-hq/prism/pkg/admission/storage"
)

// DefaultSnapshotInterval is how often the registry persists window state
// when a storage backend is configured.
const DefaultSnapshotInterval = 30 * time.Second

// Registry manages one limiter per identity key.
//
// All limiters share a single Config. Limiters are created lazily on first
// use of a key; concurrent first use yields exactly one limiter per key.
//
// The registry never evicts limiters. Every key retains a window, a queue,
// and one releaser goroutine for the life of the process, so callers should
// key on bounded identities (API keys, authenticated users) rather than
// unbounded ones. See RegistryStats for monitoring key cardinality.
type Registry struct {
	cfg     Config
	logger  *slog.Logger
	backend storage.Backend

	mu       sync.RWMutex
	limiters map[string]*Limiter

	stopCh    chan struct{}
	doneCh    chan struct{}
	closeOnce sync.Once
}

// RegistryOptions configures optional registry behavior.
type RegistryOptions struct {
	// Backend, when set, persists per-key window state so limits stay
	// warm across restarts. Snapshots are best-effort.
	Backend storage.Backend

	// SnapshotInterval overrides DefaultSnapshotInterval.
	SnapshotInterval time.Duration

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// RegistryStats is a point-in-time view of registry state.
type RegistryStats struct {
	Keys            int `json:"keys"`
	QueuedTotal     int `json:"queued_total"`
	InWindowTotal   int `json:"in_window_total"`
	FaultedLimiters int `json:"faulted_limiters"`
}

// NewRegistry creates a registry. When opts.Backend is set, persisted
// window state is restored lazily as keys are first seen and a snapshot
// loop runs until Close.
func NewRegistry(cfg Config, opts RegistryOptions) (*Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := &Registry{
		cfg:      cfg,
		logger:   logger,
		backend:  opts.Backend,
		limiters: make(map[string]*Limiter),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}

	if r.backend != nil {
		interval := opts.SnapshotInterval
		if interval <= 0 {
			interval = DefaultSnapshotInterval
		}
		go r.snapshotLoop(interval)
	} else {
		close(r.doneCh)
	}

	return r, nil
}

// ForKey returns the limiter for a key, creating it on first use.
func (r *Registry) ForKey(key string) *Limiter {
	r.mu.RLock()
	l, ok := r.limiters[key]
	r.mu.RUnlock()
	if ok {
		return l
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another goroutine may have created it while we waited for the lock
	if l, ok := r.limiters[key]; ok {
		return l
	}

	l = newLimiter(r.cfg, key, r.logger)
	r.restoreWindow(key, l)
	r.limiters[key] = l

	r.logger.Debug("created admission limiter",
		"key", key,
		"max_requests", r.cfg.MaxRequests,
		"time_window", r.cfg.TimeWindow,
		"max_queue_size", r.cfg.MaxQueueSize,
	)

	return l
}

// Admit is shorthand for ForKey(key).Admit(ctx).
func (r *Registry) Admit(ctx context.Context, key string) error {
	return r.ForKey(key).Admit(ctx)
}

// Stats aggregates limiter state across all keys.
func (r *Registry) Stats() RegistryStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := RegistryStats{Keys: len(r.limiters)}
	for _, l := range r.limiters {
		stats.QueuedTotal += l.Waiting()
		stats.InWindowTotal += l.InWindow()
		if l.Fault() != nil {
			stats.FaultedLimiters++
		}
	}

	return stats
}

// Close stops the snapshot loop, takes a final snapshot, and closes every
// limiter. Safe to call more than once.
func (r *Registry) Close() {
	r.closeOnce.Do(func() { close(r.stopCh) })
	<-r.doneCh

	r.mu.Lock()
	limiters := make([]*Limiter, 0, len(r.limiters))
	for _, l := range r.limiters {
		limiters = append(limiters, l)
	}
	r.mu.Unlock()

	for _, l := range limiters {
		l.Close()
	}
}

// restoreWindow seeds a fresh limiter from persisted state.
// Caller holds the write lock; failures are logged and ignored.
func (r *Registry) restoreWindow(key string, l *Limiter) {
	if r.backend == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	state, err := r.backend.Load(ctx, key)
	if err != nil {
		r.logger.Warn("failed to restore admission window", "key", key, "error", err)
		return
	}
	if state == nil {
		return
	}

	l.win.Restore(state.Timestamps, time.Now())
}

// snapshotLoop persists every key's window state at a fixed interval and
// once more on shutdown.
func (r *Registry) snapshotLoop(interval time.Duration) {
	defer close(r.doneCh)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.snapshot()
		case <-r.stopCh:
			r.snapshot()
			return
		}
	}
}

func (r *Registry) snapshot() {
	r.mu.RLock()
	limiters := make(map[string]*Limiter, len(r.limiters))
	for key, l := range r.limiters {
		limiters[key] = l
	}
	r.mu.RUnlock()

	now := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for key, l := range limiters {
		state := &storage.WindowState{
			Key:        key,
			Timestamps: l.win.Snapshot(now),
			UpdatedAt:  now,
		}
		if err := r.backend.Save(ctx, state); err != nil {
			r.logger.Warn("failed to snapshot admission window", "key", key, "error", err)
		}
	}
}
