package sink

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		run_id VARCHAR(36) PRIMARY KEY,
		generated_at DATETIME,
		canceled BOOLEAN,
		threshold DOUBLE,
		total INT,
		spam INT,
		non_spam INT,
		unclassified INT,
		spam_ratio DOUBLE
	)`,
	`CREATE TABLE IF NOT EXISTS run_tokens (
		run_id VARCHAR(36),
		token VARCHAR(255),
		spam_count INT,
		non_spam_count INT,
		spam_prob DOUBLE,
		non_spam_prob DOUBLE,
		PRIMARY KEY (run_id, token)
	)`,
	`CREATE TABLE IF NOT EXISTS run_evidence (
		run_id VARCHAR(36),
		address VARCHAR(255),
		token VARCHAR(255),
		spam_prob DOUBLE,
		INDEX idx_run_evidence_run (run_id)
	)`,
}

// MySQLSink stores reports in a MySQL database
type MySQLSink struct {
	sqlSink
}

// NewMySQLSink connects to dsn and creates the tables if missing
func NewMySQLSink(dsn string, logger *zap.Logger) (*MySQLSink, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	s := &MySQLSink{sqlSink{db: db, driver: "mysql", logger: logger}}
	if err := s.createTables(context.Background(), mysqlSchema); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}
