package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteBackend implements Backend using SQLite for persistence.
// Suitable for single-instance deployments where admission windows should
// survive restarts.
//
// SQLiteBackend uses a write-ahead log (WAL) for better concurrent
// performance and periodic checkpointing to balance write performance with
// durability.
type SQLiteBackend struct {
	db                 *sql.DB
	dbPath             string
	checkpointInterval time.Duration
	done               chan struct{}
	mu                 sync.RWMutex
	closeOnce          sync.Once

	saveStmt   *sql.Stmt
	loadStmt   *sql.Stmt
	deleteStmt *sql.Stmt
	listStmt   *sql.Stmt
}

// SQLiteBackendConfig configures the SQLite backend.
type SQLiteBackendConfig struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	// CheckpointInterval is how often to checkpoint the WAL.
	// Default: 5 minutes
	CheckpointInterval time.Duration

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// NewSQLiteBackend creates a new SQLite storage backend with default settings.
func NewSQLiteBackend(dbPath string) (*SQLiteBackend, error) {
	return NewSQLiteBackendWithConfig(SQLiteBackendConfig{
		DBPath:             dbPath,
		CheckpointInterval: 5 * time.Minute,
		BusyTimeout:        5 * time.Second,
	})
}

// NewSQLiteBackendWithConfig creates a new SQLite backend with custom configuration.
func NewSQLiteBackendWithConfig(cfg SQLiteBackendConfig) (*SQLiteBackend, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if cfg.CheckpointInterval == 0 {
		cfg.CheckpointInterval = 5 * time.Minute
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.DBPath, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	backend := &SQLiteBackend{
		db:                 db,
		dbPath:             cfg.DBPath,
		checkpointInterval: cfg.CheckpointInterval,
		done:               make(chan struct{}),
	}

	if err := backend.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	if err := backend.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	go backend.checkpointLoop()

	return backend, nil
}

// initSchema creates the database schema if it doesn't exist.
func (s *SQLiteBackend) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS admission_windows (
		key TEXT NOT NULL PRIMARY KEY,
		timestamps TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_admission_updated ON admission_windows(updated_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// prepareStatements prepares SQL statements for reuse.
func (s *SQLiteBackend) prepareStatements() error {
	var err error

	s.saveStmt, err = s.db.Prepare(`
		INSERT INTO admission_windows (key, timestamps, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			timestamps = excluded.timestamps,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare save statement: %w", err)
	}

	s.loadStmt, err = s.db.Prepare(`
		SELECT key, timestamps, updated_at
		FROM admission_windows
		WHERE key = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare load statement: %w", err)
	}

	s.deleteStmt, err = s.db.Prepare(`
		DELETE FROM admission_windows
		WHERE key = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare delete statement: %w", err)
	}

	s.listStmt, err = s.db.Prepare(`
		SELECT key, timestamps, updated_at
		FROM admission_windows
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare list statement: %w", err)
	}

	return nil
}

// Save persists the window state for a key.
func (s *SQLiteBackend) Save(ctx context.Context, state *WindowState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if state.Key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	// Store timestamps as unix nanoseconds for lossless round trips
	nanos := make([]int64, len(state.Timestamps))
	for i, ts := range state.Timestamps {
		nanos[i] = ts.UnixNano()
	}
	encoded, err := json.Marshal(nanos)
	if err != nil {
		return fmt.Errorf("failed to marshal timestamps: %w", err)
	}

	updatedAt := state.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.saveStmt.ExecContext(ctx, state.Key, string(encoded), updatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to save window state: %w", err)
	}

	return nil
}

// Load retrieves the window state for a key. Returns (nil, nil) when absent.
func (s *SQLiteBackend) Load(ctx context.Context, key string) (*WindowState, error) {
	if key == "" {
		return nil, fmt.Errorf("key cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		encoded   string
		updatedAt int64
	)

	err := s.loadStmt.QueryRowContext(ctx, key).Scan(&key, &encoded, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load window state: %w", err)
	}

	return decodeState(key, encoded, updatedAt)
}

// Delete removes the window state for a key.
func (s *SQLiteBackend) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.deleteStmt.ExecContext(ctx, key); err != nil {
		return fmt.Errorf("failed to delete window state: %w", err)
	}

	return nil
}

// List returns all persisted window states.
func (s *SQLiteBackend) List(ctx context.Context) ([]*WindowState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.listStmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list window states: %w", err)
	}
	defer rows.Close()

	var states []*WindowState
	for rows.Next() {
		var (
			key       string
			encoded   string
			updatedAt int64
		)
		if err := rows.Scan(&key, &encoded, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		state, err := decodeState(key, encoded, updatedAt)
		if err != nil {
			return nil, err
		}
		states = append(states, state)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return states, nil
}

// Close releases any resources held by the backend.
// Close is idempotent and safe to call multiple times.
func (s *SQLiteBackend) Close() error {
	var closeErr error

	s.closeOnce.Do(func() {
		close(s.done)

		if s.saveStmt != nil {
			s.saveStmt.Close()
		}
		if s.loadStmt != nil {
			s.loadStmt.Close()
		}
		if s.deleteStmt != nil {
			s.deleteStmt.Close()
		}
		if s.listStmt != nil {
			s.listStmt.Close()
		}

		if s.db != nil {
			// Run final checkpoint
			_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
			closeErr = s.db.Close()
		}
	})

	return closeErr
}

// checkpointLoop runs periodic WAL checkpoints.
func (s *SQLiteBackend) checkpointLoop() {
	ticker := time.NewTicker(s.checkpointInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_, _ = s.db.Exec("PRAGMA wal_checkpoint(PASSIVE)")
		case <-s.done:
			return
		}
	}
}

func decodeState(key, encoded string, updatedAt int64) (*WindowState, error) {
	var nanos []int64
	if err := json.Unmarshal([]byte(encoded), &nanos); err != nil {
		return nil, fmt.Errorf("failed to unmarshal timestamps: %w", err)
	}

	timestamps := make([]time.Time, len(nanos))
	for i, n := range nanos {
		timestamps[i] = time.Unix(0, n)
	}

	return &WindowState{
		Key:        key,
		Timestamps: timestamps,
		UpdatedAt:  time.Unix(updatedAt, 0),
	}, nil
}
