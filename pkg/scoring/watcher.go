package scoring

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ProfileWatcher watches a scoring profile file and reapplies it to a
// scorer when the file changes. Changes are debounced so editors that write
// in multiple events do not trigger reload storms.
type ProfileWatcher struct {
	path     string
	scorer   *Scorer
	logger   *slog.Logger
	watcher  *fsnotify.Watcher
	debounce *debouncer

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// DefaultProfileDebounce is the quiet period after a file event before the
// profile is reloaded.
const DefaultProfileDebounce = 100 * time.Millisecond

// NewProfileWatcher creates a watcher for the given profile path.
func NewProfileWatcher(path string, scorer *Scorer, logger *slog.Logger) (*ProfileWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &ProfileWatcher{
		path:     path,
		scorer:   scorer,
		logger:   logger,
		watcher:  watcher,
		debounce: newDebouncer(DefaultProfileDebounce),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Watch blocks, reloading the profile on changes, until the context is
// cancelled or Stop is called.
func (pw *ProfileWatcher) Watch(ctx context.Context) error {
	pw.mu.Lock()
	if pw.running {
		pw.mu.Unlock()
		return fmt.Errorf("profile watcher already running")
	}
	pw.running = true
	pw.mu.Unlock()

	defer func() {
		pw.mu.Lock()
		pw.running = false
		pw.mu.Unlock()
		close(pw.doneCh)
	}()

	if err := pw.watcher.Add(pw.path); err != nil {
		return fmt.Errorf("failed to watch scoring profile: %w", err)
	}

	pw.logger.Info("Scoring profile watcher started", "path", pw.path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-pw.stopCh:
			return nil

		case event, ok := <-pw.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if event.Op&fsnotify.Chmod == fsnotify.Chmod {
				continue
			}

			pw.debounce.trigger(func() {
				pw.reload()
			})

		case err, ok := <-pw.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			pw.logger.Error("Scoring profile watcher error", "error", err)
		}
	}
}

// Stop stops the watcher and waits for Watch to return.
func (pw *ProfileWatcher) Stop() error {
	pw.mu.Lock()
	if !pw.running {
		pw.mu.Unlock()
		return pw.watcher.Close()
	}
	pw.mu.Unlock()

	close(pw.stopCh)
	<-pw.doneCh

	pw.debounce.stop()
	return pw.watcher.Close()
}

// reload parses and applies the profile. A broken file keeps the previous
// weights in place.
func (pw *ProfileWatcher) reload() {
	profile, err := LoadProfile(pw.path)
	if err != nil {
		pw.logger.Error("Scoring profile reload failed", "path", pw.path, "error", err)
		return
	}

	profile.Apply(pw.scorer)
	pw.logger.Info("Scoring profile reloaded", "path", pw.path, "weights", len(profile.Weights))
}

// debouncer collects rapid events and runs the callback only after a quiet
// period.
type debouncer struct {
	interval time.Duration
	timer    *time.Timer
	mu       sync.Mutex
	callback func()
	stopCh   chan struct{}
}

func newDebouncer(interval time.Duration) *debouncer {
	return &debouncer{
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

func (d *debouncer) trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.callback = callback

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.interval, func() {
		select {
		case <-d.stopCh:
			return
		default:
			d.mu.Lock()
			cb := d.callback
			d.mu.Unlock()

			if cb != nil {
				cb()
			}
		}
	})
}

func (d *debouncer) stop() {
	close(d.stopCh)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.callback = nil
}
