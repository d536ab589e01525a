package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the history database schema.
const Schema = `
-- Analysis records table
CREATE TABLE IF NOT EXISTS analyses (
    id TEXT PRIMARY KEY,
    created_at TIMESTAMP NOT NULL,

    -- Prompt fingerprint
    prompt_hash TEXT NOT NULL,
    prompt_preview TEXT,
    prompt_length INTEGER NOT NULL,

    -- Analysis outcome
    target_model TEXT NOT NULL,
    overall_score REAL NOT NULL,
    dimension_scores TEXT,
    suggestion_count INTEGER,

    -- Enrichment
    detailed BOOLEAN,
    provider TEXT,
    model TEXT,
    note TEXT,

    -- Caller
    identity TEXT,

    -- Timing (milliseconds)
    duration INTEGER
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at);
CREATE INDEX IF NOT EXISTS idx_analyses_target_model ON analyses(target_model);
CREATE INDEX IF NOT EXISTS idx_analyses_identity ON analyses(identity);
CREATE INDEX IF NOT EXISTS idx_analyses_overall_score ON analyses(overall_score);
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`
