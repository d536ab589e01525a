package retention

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"prismatic-hq/prism/pkg/history"
)

// Config contains configuration for the retention pruner.
type Config struct {
	// RetentionDays is the number of days to retain analysis records.
	// 0 means keep records forever (no age-based pruning).
	RetentionDays int

	// PruneSchedule is a cron expression for scheduling pruning.
	// Example: "0 3 * * *" (daily at 3 AM)
	PruneSchedule string

	// ArchiveBeforeDelete enables archiving records before deletion.
	ArchiveBeforeDelete bool

	// ArchivePath is the directory to store archived records.
	ArchivePath string

	// MaxRecords is the maximum number of records to keep.
	// 0 means unlimited.
	MaxRecords int64
}

// DefaultConfig returns the default retention configuration.
func DefaultConfig() *Config {
	return &Config{
		RetentionDays:       90,
		PruneSchedule:       "0 3 * * *",
		ArchiveBeforeDelete: false,
		ArchivePath:         "data/archives/",
		MaxRecords:          0,
	}
}

// Pruner enforces retention policies on analysis records.
type Pruner struct {
	store     history.Store
	config    *Config
	logger    *slog.Logger
	scheduler *Scheduler
}

// NewPruner creates a new retention pruner.
func NewPruner(store history.Store, config *Config) *Pruner {
	if config == nil {
		config = DefaultConfig()
	}

	pruner := &Pruner{
		store:  store,
		config: config,
		logger: slog.Default().With("component", "history.retention"),
	}

	pruner.scheduler = NewScheduler(pruner)

	return pruner
}

// Prune deletes analysis records older than the retention period
// or exceeding the max record count.
//
// Pruning happens in two phases:
// 1. Age-based: delete records older than retention_days
// 2. Count-based: if total records > max_records, delete oldest
//
// Both can run together. Returns the total number of records deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var totalDeleted int64

	if p.config.RetentionDays > 0 {
		deleted, err := p.pruneByAge(ctx)
		if err != nil {
			return totalDeleted, fmt.Errorf("prune by age failed: %w", err)
		}
		totalDeleted += deleted
		p.logger.Info("pruned records by age",
			"deleted_count", deleted,
			"retention_days", p.config.RetentionDays,
		)
	}

	if p.config.MaxRecords > 0 {
		deleted, err := p.pruneByCount(ctx)
		if err != nil {
			return totalDeleted, fmt.Errorf("prune by count failed: %w", err)
		}
		totalDeleted += deleted
		p.logger.Info("pruned records by count",
			"deleted_count", deleted,
			"max_records", p.config.MaxRecords,
		)
	}

	if totalDeleted == 0 {
		p.logger.Debug("no records pruned",
			"retention_days", p.config.RetentionDays,
			"max_records", p.config.MaxRecords,
		)
	} else {
		p.logger.Info("history pruning completed",
			"total_deleted", totalDeleted,
			"retention_days", p.config.RetentionDays,
			"max_records", p.config.MaxRecords,
		)
	}

	return totalDeleted, nil
}

// pruneByAge deletes records older than the retention period.
func (p *Pruner) pruneByAge(ctx context.Context) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -p.config.RetentionDays)

	p.logger.Debug("pruning by age",
		"cutoff_time", cutoff,
		"retention_days", p.config.RetentionDays,
	)

	query := &history.Query{
		Until: &cutoff,
	}

	if p.config.ArchiveBeforeDelete {
		if err := p.archive(ctx, query); err != nil {
			return 0, history.NewRetentionError(p.config.RetentionDays, err)
		}
	}

	deleted, err := p.store.Delete(ctx, query)
	if err != nil {
		return 0, history.NewRetentionError(p.config.RetentionDays, err)
	}

	return deleted, nil
}

// pruneByCount deletes oldest records if total count exceeds max_records.
func (p *Pruner) pruneByCount(ctx context.Context) (int64, error) {
	count, err := p.store.Count(ctx, &history.Query{})
	if err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}

	if count <= p.config.MaxRecords {
		p.logger.Debug("record count within limit",
			"current", count,
			"max", p.config.MaxRecords,
		)
		return 0, nil
	}

	toDelete := count - p.config.MaxRecords

	p.logger.Info("record count exceeds limit, pruning oldest",
		"current_count", count,
		"max_records", p.config.MaxRecords,
		"to_delete", toDelete,
	)

	// Query everything so the cutoff is computed from a consistent view
	allRecords, err := p.store.Query(ctx, &history.Query{SortOrder: "asc", Limit: int(count)})
	if err != nil {
		return 0, fmt.Errorf("failed to query records: %w", err)
	}

	if len(allRecords) == 0 {
		p.logger.Debug("no records found to delete")
		return 0, nil
	}

	sortRecordsByTime(allRecords)

	// Recompute in case the count changed between Count and Query
	actualToDelete := len(allRecords) - int(p.config.MaxRecords)
	if actualToDelete <= 0 {
		p.logger.Debug("record count within limit after query")
		return 0, nil
	}
	if actualToDelete > len(allRecords) {
		actualToDelete = len(allRecords)
	}

	// Cutoff is the timestamp of the newest record slated for deletion
	cutoffTime := allRecords[actualToDelete-1].CreatedAt

	p.logger.Debug("calculated cutoff time for count-based pruning",
		"cutoff_time", cutoffTime,
		"records_to_delete", actualToDelete,
	)

	deleteQuery := &history.Query{
		Until: &cutoffTime,
	}

	if p.config.ArchiveBeforeDelete {
		recordsToArchive := allRecords[:actualToDelete]
		if err := p.archiveRecords(recordsToArchive, fmt.Sprintf("history-count-%s.json", time.Now().Format("2006-01-02-150405"))); err != nil {
			return 0, fmt.Errorf("archive failed: %w", err)
		}
	}

	deleted, err := p.store.Delete(ctx, deleteQuery)
	if err != nil {
		return 0, fmt.Errorf("delete failed: %w", err)
	}

	return deleted, nil
}

// sortRecordsByTime sorts records by CreatedAt in ascending order (oldest first).
func sortRecordsByTime(records []*history.Record) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
}

// archive exports records matching the query to a JSON archive before deletion.
func (p *Pruner) archive(ctx context.Context, query *history.Query) error {
	p.logger.Info("archiving history records before deletion")

	records, err := p.store.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query records for archiving: %w", err)
	}

	if len(records) == 0 {
		p.logger.Debug("no records to archive")
		return nil
	}

	return p.archiveRecords(records, fmt.Sprintf("history-%s.json", time.Now().Format("2006-01-02")))
}

// archiveRecords writes a list of records to a JSON file under ArchivePath.
func (p *Pruner) archiveRecords(records []*history.Record, filename string) error {
	if len(records) == 0 {
		return nil
	}

	if err := os.MkdirAll(p.config.ArchivePath, 0755); err != nil {
		return fmt.Errorf("failed to create archive directory: %w", err)
	}

	archiveFile := filepath.Join(p.config.ArchivePath, filename)
	f, err := os.Create(archiveFile)
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to write archive: %w", err)
	}

	p.logger.Info("history records archived",
		"archive_file", archiveFile,
		"record_count", len(records),
	)

	return nil
}

// Start starts the automatic pruning scheduler.
// Call this when starting the application.
func (p *Pruner) Start(ctx context.Context) error {
	return p.scheduler.Start(ctx)
}

// Stop stops the automatic pruning scheduler.
// Call this during graceful shutdown.
func (p *Pruner) Stop() {
	p.scheduler.Stop()
}

// NextPruning returns the time of the next scheduled pruning.
func (p *Pruner) NextPruning() *time.Time {
	return p.scheduler.NextRun()
}
