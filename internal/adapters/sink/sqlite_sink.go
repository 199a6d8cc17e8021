package sink

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		generated_at TIMESTAMP,
		canceled BOOLEAN,
		threshold REAL,
		total INTEGER,
		spam INTEGER,
		non_spam INTEGER,
		unclassified INTEGER,
		spam_ratio REAL
	)`,
	`CREATE TABLE IF NOT EXISTS run_tokens (
		run_id TEXT,
		token TEXT,
		spam_count INTEGER,
		non_spam_count INTEGER,
		spam_prob REAL,
		non_spam_prob REAL,
		PRIMARY KEY (run_id, token)
	)`,
	`CREATE TABLE IF NOT EXISTS run_evidence (
		run_id TEXT,
		address TEXT,
		token TEXT,
		spam_prob REAL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_run_evidence_run ON run_evidence(run_id)`,
}

// SQLiteSink stores reports in a SQLite database
type SQLiteSink struct {
	sqlSink
}

// NewSQLiteSink opens (creating if needed) the database at dbPath
func NewSQLiteSink(dbPath string, logger *zap.Logger) (*SQLiteSink, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	s := &SQLiteSink{sqlSink{db: db, driver: "sqlite3", logger: logger}}
	if err := s.createTables(context.Background(), sqliteSchema); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}
