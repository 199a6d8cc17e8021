// Package sink delivers settled reports to files, databases, mail and the console.
package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikey/spam-sorter/internal/report"
	"go.uber.org/zap"
)

// TextFileSink writes the three text reports into a single file
type TextFileSink struct {
	path   string
	logger *zap.Logger
}

// NewTextFileSink creates a file sink. The file is replaced on every emit.
func NewTextFileSink(path string, logger *zap.Logger) *TextFileSink {
	return &TextFileSink{path: path, logger: logger}
}

// Emit writes r to the file
func (s *TextFileSink) Emit(_ context.Context, r *report.Report) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	if err := report.WriteText(f, r); err != nil {
		f.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close report file: %w", err)
	}

	s.logger.Info("Wrote report", zap.String("path", s.path), zap.String("run_id", r.RunID))
	return nil
}
