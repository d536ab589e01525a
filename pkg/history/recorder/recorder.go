package recorder

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"prismatic-hq/prism/pkg/analysis"
	"prismatic-hq/prism/pkg/history"
)

// Config contains configuration for the analysis recorder.
type Config struct {
	// Enabled enables history recording.
	Enabled bool

	// AsyncBuffer is the size of the async write channel buffer.
	// Default: 1000
	AsyncBuffer int

	// WriteTimeout is the timeout for writing a record to storage.
	// It also bounds how long an enqueue may block when the buffer is full.
	// Default: 5 seconds
	WriteTimeout time.Duration

	// HashIdentities enables hashing of API-key identities before storage.
	// Client IPs are stored as-is.
	// Default: true
	HashIdentities bool

	// MaxPreviewLength is the maximum prompt preview length before truncation.
	// Default: 500
	MaxPreviewLength int
}

// DefaultConfig returns the default recorder configuration.
func DefaultConfig() *Config {
	return &Config{
		Enabled:          true,
		AsyncBuffer:      1000,
		WriteTimeout:     5 * time.Second,
		HashIdentities:   true,
		MaxPreviewLength: 500,
	}
}

// Analysis describes one completed analysis for recording.
type Analysis struct {
	// Prompt is the full prompt text. The recorder stores only a hash
	// and a truncated preview of it.
	Prompt string

	// TargetModel is the model the analysis was tuned for.
	TargetModel string

	// Result is the analysis outcome.
	Result *analysis.Result

	// Detailed reports whether LLM enrichment was requested.
	Detailed bool

	// Provider and Model identify the completion backend used for
	// enrichment. Both are empty for heuristic-only analyses.
	Provider string
	Model    string

	// Identity is the caller identity, an API key or a client IP.
	Identity string

	// IdentityIsKey marks the identity as an API key so it gets hashed.
	IdentityIsKey bool

	// Duration is the total analysis time.
	Duration time.Duration
}

// Recorder records completed prompt analyses to a history store.
// Writes happen asynchronously so recording never blocks the request path.
type Recorder struct {
	store      history.Store
	config     *Config
	recordChan chan *history.Record
	wg         sync.WaitGroup
	done       chan struct{}
	logger     *slog.Logger
}

// NewRecorder creates a new analysis recorder with the provided store and
// configuration.
func NewRecorder(store history.Store, config *Config) *Recorder {
	if config == nil {
		config = DefaultConfig()
	}

	r := &Recorder{
		store:      store,
		config:     config,
		recordChan: make(chan *history.Record, config.AsyncBuffer),
		done:       make(chan struct{}),
		logger:     slog.Default().With("component", "history.recorder"),
	}

	// Background worker drains the channel
	r.wg.Add(1)
	go r.worker()

	r.logger.Info("analysis recorder initialized",
		"async_buffer", config.AsyncBuffer,
		"write_timeout", config.WriteTimeout,
		"hash_identities", config.HashIdentities,
	)

	return r
}

// Record builds a history record from a completed analysis and enqueues it
// for async writing.
//
// This method returns quickly and does not block on storage writes.
func (r *Recorder) Record(ctx context.Context, a *Analysis) error {
	if !r.config.Enabled {
		return nil
	}

	record := r.buildRecord(a)

	select {
	case r.recordChan <- record:
		r.logger.Debug("analysis record enqueued for writing",
			"record_id", record.ID,
			"target_model", record.TargetModel,
		)
	case <-time.After(r.config.WriteTimeout):
		r.logger.Error("history channel full, dropping record",
			"record_id", record.ID,
			"channel_capacity", r.config.AsyncBuffer,
		)
		return history.NewRecorderError(record.ID, context.DeadlineExceeded)
	case <-r.done:
		r.logger.Warn("recorder shutting down, dropping record",
			"record_id", record.ID,
		)
		return history.NewRecorderError(record.ID, context.Canceled)
	}

	return nil
}

// Close gracefully shuts down the recorder by draining the async channel and
// waiting for all pending writes to complete.
func (r *Recorder) Close() error {
	r.logger.Info("shutting down analysis recorder")

	close(r.done)
	r.wg.Wait()

	r.logger.Info("analysis recorder shut down complete")
	return nil
}

// worker is the background goroutine that drains the record channel and
// writes records to the store.
func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case record := <-r.recordChan:
			r.writeRecord(record)

		case <-r.done:
			// Drain remaining records before exit
			r.logger.Info("draining history channel before shutdown",
				"pending_count", len(r.recordChan),
			)

			for {
				select {
				case record := <-r.recordChan:
					r.writeRecord(record)
				default:
					r.logger.Info("history channel drained")
					return
				}
			}
		}
	}
}

// writeRecord writes a single record to the store.
func (r *Recorder) writeRecord(record *history.Record) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	start := time.Now()

	err := r.store.Store(ctx, record)
	if err != nil {
		r.logger.Error("failed to store analysis record",
			"record_id", record.ID,
			"error", err,
		)
		return
	}

	duration := time.Since(start)

	r.logger.Debug("analysis recorded",
		"record_id", record.ID,
		"target_model", record.TargetModel,
		"overall_score", record.OverallScore,
		"duration_ms", duration.Milliseconds(),
	)

	if duration > r.config.WriteTimeout/2 {
		r.logger.Warn("slow history write",
			"record_id", record.ID,
			"duration_ms", duration.Milliseconds(),
			"threshold_ms", (r.config.WriteTimeout / 2).Milliseconds(),
		)
	}
}

// buildRecord creates a history record from a completed analysis.
func (r *Recorder) buildRecord(a *Analysis) *history.Record {
	record := &history.Record{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),

		PromptHash:    HashPrompt(a.Prompt),
		PromptPreview: TruncateString(a.Prompt, r.config.MaxPreviewLength),
		PromptLength:  len(a.Prompt),

		TargetModel: a.TargetModel,

		Detailed: a.Detailed,
		Provider: a.Provider,
		Model:    a.Model,

		Duration: a.Duration,
	}

	if a.Result != nil {
		record.OverallScore = a.Result.OverallScore
		record.SuggestionCount = len(a.Result.Suggestions)
		record.Note = a.Result.Note

		record.DimensionScores = make(map[string]float64, len(a.Result.Scores))
		for name, score := range a.Result.Scores {
			record.DimensionScores[name] = score
		}
	}

	if a.IdentityIsKey && r.config.HashIdentities {
		record.Identity = HashIdentity(a.Identity)
	} else {
		record.Identity = a.Identity
	}

	return record
}
