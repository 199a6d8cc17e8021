package sink

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mikey/spam-sorter/internal/report"
	"go.uber.org/zap"
)

// sqlSink stores reports in three tables: runs, run_tokens and run_evidence.
// The statements use ? placeholders, which both drivers accept.
type sqlSink struct {
	db     *sql.DB
	driver string
	logger *zap.Logger
}

func (s *sqlSink) createTables(ctx context.Context, ddl []string) error {
	for _, stmt := range ddl {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// Emit stores r in a single transaction
func (s *sqlSink) Emit(ctx context.Context, r *report.Report) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (run_id, generated_at, canceled, threshold, total, spam, non_spam, unclassified, spam_ratio)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.RunID, r.GeneratedAt.UTC(), r.Canceled, r.Threshold,
		r.Summary.Total, r.Summary.Spam, r.Summary.NonSpam, r.Summary.Unclassified, r.Summary.SpamRatio)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	tokenStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_tokens (run_id, token, spam_count, non_spam_count, spam_prob, non_spam_prob)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare token insert: %w", err)
	}
	defer tokenStmt.Close()
	for _, st := range r.Tokens {
		if _, err := tokenStmt.ExecContext(ctx, r.RunID, st.Token, st.SpamCount, st.NonSpamCount, st.SpamProb, st.NonSpamProb); err != nil {
			return fmt.Errorf("failed to insert token %q: %w", st.Token, err)
		}
	}

	evidenceStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_evidence (run_id, address, token, spam_prob)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare evidence insert: %w", err)
	}
	defer evidenceStmt.Close()
	for _, ev := range r.Evidence {
		for _, tok := range ev.Tokens {
			if _, err := evidenceStmt.ExecContext(ctx, r.RunID, ev.Address, tok.Token, tok.SpamProb); err != nil {
				return fmt.Errorf("failed to insert evidence: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit report: %w", err)
	}

	s.logger.Info("Stored report",
		zap.String("driver", s.driver),
		zap.String("run_id", r.RunID),
		zap.Int("tokens", len(r.Tokens)))
	return nil
}

// Close closes the database connection
func (s *sqlSink) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close %s database: %w", s.driver, err)
	}
	return nil
}
