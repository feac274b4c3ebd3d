package storage

// SchemaVersion is the current journal database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the journal schema.
const Schema = `
CREATE TABLE IF NOT EXISTS journal (
    id TEXT PRIMARY KEY,
    operation TEXT NOT NULL,

    -- Document metadata
    document_id TEXT,
    document_type TEXT,
    product_group TEXT,

    -- Content hashes
    request_hash TEXT,
    signature_hash TEXT,

    -- Outcome
    http_status INTEGER,
    status TEXT NOT NULL,
    error TEXT,
    result_value TEXT,

    -- Timing
    gate_wait_ms INTEGER NOT NULL,
    submitted_at TIMESTAMP NOT NULL,
    recorded_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_journal_submitted_at ON journal(submitted_at);
CREATE INDEX IF NOT EXISTS idx_journal_operation ON journal(operation);
CREATE INDEX IF NOT EXISTS idx_journal_status ON journal(status);
CREATE INDEX IF NOT EXISTS idx_journal_document_id ON journal(document_id);
`

// InsertSchemaVersion records the schema version on first initialization.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the newest schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`
