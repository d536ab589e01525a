package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"prismatic-hq/prism/pkg/history"
)

// SQLiteConfig contains configuration for the SQLite history store.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/history.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStore implements the history.Store interface using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite history store.
// It initializes the database schema and enables WAL mode if configured.
func NewSQLiteStore(config *SQLiteConfig) (*SQLiteStore, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	logger := slog.Default().With("component", "history.storage.sqlite")

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, history.NewStorageError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStore{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite history store initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
		"max_open_conns", config.MaxOpenConns,
	)

	return s, nil
}

// initialize sets up the database schema and enables WAL mode.
func (s *SQLiteStore) initialize() error {
	if s.config.WALMode {
		_, err := s.db.Exec("PRAGMA journal_mode=WAL;")
		if err != nil {
			return history.NewStorageError("sqlite", "enable_wal", err)
		}
		s.logger.Debug("WAL mode enabled")
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	_, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs))
	if err != nil {
		return history.NewStorageError("sqlite", "set_busy_timeout", err)
	}

	_, err = s.db.Exec(Schema)
	if err != nil {
		return history.NewStorageError("sqlite", "create_schema", err)
	}
	s.logger.Debug("database schema created")

	_, err = s.db.Exec(InsertSchemaVersion, SchemaVersion)
	if err != nil {
		return history.NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err = s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return history.NewStorageError("sqlite", "get_schema_version", err)
	}

	if version != SchemaVersion {
		return history.NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	s.logger.Debug("schema version verified", "version", version)

	return nil
}

// Store persists an analysis record to the database.
func (s *SQLiteStore) Store(ctx context.Context, record *history.Record) error {
	dimensionScores, _ := json.Marshal(record.DimensionScores)

	query := `
		INSERT INTO analyses (
			id, created_at,
			prompt_hash, prompt_preview, prompt_length,
			target_model, overall_score, dimension_scores, suggestion_count,
			detailed, provider, model, note,
			identity, duration
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var noteVal interface{}
	if record.Note != "" {
		noteVal = record.Note
	}

	_, err := s.db.ExecContext(ctx, query,
		record.ID, record.CreatedAt,
		record.PromptHash, record.PromptPreview, record.PromptLength,
		record.TargetModel, record.OverallScore, string(dimensionScores), record.SuggestionCount,
		record.Detailed, record.Provider, record.Model, noteVal,
		record.Identity, record.Duration.Milliseconds(),
	)

	if err != nil {
		return history.NewStorageError("sqlite", "store", err)
	}

	return nil
}

// Query retrieves analysis records matching the query filters.
func (s *SQLiteStore) Query(ctx context.Context, query *history.Query) ([]*history.Record, error) {
	whereClause, args := buildWhereClause(query)

	sqlQuery := "SELECT * FROM analyses"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	sortOrder := "DESC"
	if query.SortOrder == "asc" {
		sortOrder = "ASC"
	}
	sqlQuery += fmt.Sprintf(" ORDER BY created_at %s", sortOrder)

	limit := 100
	if query.Limit > 0 {
		limit = query.Limit
	}
	sqlQuery += fmt.Sprintf(" LIMIT %d", limit)

	if query.Offset > 0 {
		sqlQuery += fmt.Sprintf(" OFFSET %d", query.Offset)
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, history.NewStorageError("sqlite", "query", err)
	}
	defer rows.Close()

	records := []*history.Record{}
	for rows.Next() {
		record, err := scanRow(rows)
		if err != nil {
			return nil, history.NewStorageError("sqlite", "scan", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, history.NewStorageError("sqlite", "query", err)
	}

	return records, nil
}

// Count returns the number of analysis records matching the query filters.
func (s *SQLiteStore) Count(ctx context.Context, query *history.Query) (int64, error) {
	whereClause, args := buildWhereClause(query)

	sqlQuery := "SELECT COUNT(*) FROM analyses"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	var count int64
	err := s.db.QueryRowContext(ctx, sqlQuery, args...).Scan(&count)
	if err != nil {
		return 0, history.NewStorageError("sqlite", "count", err)
	}

	return count, nil
}

// Delete removes analysis records matching the query filters.
// Returns the number of records deleted.
func (s *SQLiteStore) Delete(ctx context.Context, query *history.Query) (int64, error) {
	whereClause, args := buildWhereClause(query)

	sqlQuery := "DELETE FROM analyses"
	if whereClause != "" {
		sqlQuery += " WHERE " + whereClause
	}

	result, err := s.db.ExecContext(ctx, sqlQuery, args...)
	if err != nil {
		return 0, history.NewStorageError("sqlite", "delete", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, history.NewStorageError("sqlite", "delete", err)
	}

	return count, nil
}

// Close releases resources held by the store.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return history.NewStorageError("sqlite", "close", err)
	}

	s.logger.Info("SQLite history store closed")
	return nil
}

// buildWhereClause builds a SQL WHERE clause from query filters.
// Returns the WHERE clause (without "WHERE" keyword) and the query arguments.
func buildWhereClause(query *history.Query) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if query.Since != nil {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, *query.Since)
	}
	if query.Until != nil {
		conditions = append(conditions, "created_at <= ?")
		args = append(args, *query.Until)
	}

	if query.TargetModel != "" {
		conditions = append(conditions, "target_model = ?")
		args = append(args, query.TargetModel)
	}
	if query.Identity != "" {
		conditions = append(conditions, "identity = ?")
		args = append(args, query.Identity)
	}
	if query.Provider != "" {
		conditions = append(conditions, "provider = ?")
		args = append(args, query.Provider)
	}

	if query.Detailed != nil {
		conditions = append(conditions, "detailed = ?")
		args = append(args, *query.Detailed)
	}

	if query.MinScore != nil {
		conditions = append(conditions, "overall_score >= ?")
		args = append(args, *query.MinScore)
	}
	if query.MaxScore != nil {
		conditions = append(conditions, "overall_score <= ?")
		args = append(args, *query.MaxScore)
	}

	whereClause := ""
	for i, condition := range conditions {
		if i > 0 {
			whereClause += " AND "
		}
		whereClause += condition
	}

	return whereClause, args
}

// scanRow scans a database row into a Record.
func scanRow(row *sql.Rows) (*history.Record, error) {
	var record history.Record
	var dimensionScores string
	var noteVal sql.NullString
	var durationMs int64

	err := row.Scan(
		&record.ID, &record.CreatedAt,
		&record.PromptHash, &record.PromptPreview, &record.PromptLength,
		&record.TargetModel, &record.OverallScore, &dimensionScores, &record.SuggestionCount,
		&record.Detailed, &record.Provider, &record.Model, &noteVal,
		&record.Identity, &durationMs,
	)
	if err != nil {
		return nil, err
	}

	if noteVal.Valid {
		record.Note = noteVal.String
	}

	if dimensionScores != "" {
		json.Unmarshal([]byte(dimensionScores), &record.DimensionScores)
	}

	record.Duration = time.Duration(durationMs) * time.Millisecond

	return &record, nil
}
