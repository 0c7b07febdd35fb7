package activity

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/hupe1980/shopmesh/core"
	"github.com/hupe1980/shopmesh/internal/util"
)

// Compile-time interface check.
var _ core.ActivityLogger = (*SQLiteStore)(nil)

const activitySchema = `
CREATE TABLE IF NOT EXISTS agent_activities (
	id TEXT PRIMARY KEY,
	timestamp TEXT NOT NULL,
	agent_name TEXT NOT NULL,
	agent_version TEXT,
	model TEXT,
	user_id TEXT,
	session_id TEXT,
	task TEXT NOT NULL,
	input_data TEXT NOT NULL,
	output_data TEXT NOT NULL,
	confidence_score REAL,
	processing_time_ms INTEGER,
	severity TEXT NOT NULL,
	status TEXT NOT NULL,
	error_message TEXT,
	cached INTEGER NOT NULL DEFAULT 0,
	metadata TEXT
);
CREATE INDEX IF NOT EXISTS idx_agent_activities_agent ON agent_activities (agent_name, timestamp);
CREATE INDEX IF NOT EXISTS idx_agent_activities_session ON agent_activities (session_id);`

// SQLiteStore is a durable ActivityLogger backed by a SQLite database. It
// is safe for concurrent use; SQLite supports a single writer, so the
// connection pool is capped at one connection.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and ensures the
// activity schema exists. Close the store when done.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", path))
	if err != nil {
		return nil, fmt.Errorf("open activity database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping activity database: %w", err)
	}
	if _, err := db.Exec(activitySchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize activity schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Log inserts one activity record.
func (s *SQLiteStore) Log(ctx context.Context, record core.ActivityRecord) error {
	var confidence any
	if record.Confidence != nil {
		confidence = *record.Confidence
	}

	var metadata any
	if record.Metadata != nil {
		metadata = util.MustJSON(record.Metadata)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO agent_activities (
			id, timestamp, agent_name, agent_version, model, user_id,
			session_id, task, input_data, output_data, confidence_score,
			processing_time_ms, severity, status, error_message, cached, metadata
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		record.AgentName,
		record.AgentVersion,
		record.Model,
		record.UserID,
		record.SessionID,
		record.Task,
		record.InputJSON,
		record.OutputJSON,
		confidence,
		record.LatencyMs,
		record.Severity,
		record.Status,
		record.ErrorMessage,
		record.Cached,
		metadata,
	)
	if err != nil {
		return fmt.Errorf("insert activity record: %w", err)
	}
	return nil
}

// CountByStatus reports how many records carry the given status.
func (s *SQLiteStore) CountByStatus(ctx context.Context, status string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM agent_activities WHERE status = ?`, status,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count activity records: %w", err)
	}
	return count, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
