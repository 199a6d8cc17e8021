package sink

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mikey/spam-sorter/internal/report"
)

// ConsoleSink prints a summary of the run, plus the evidence when verbose
type ConsoleSink struct {
	out     io.Writer
	verbose bool
	started time.Time
}

// NewConsoleSink creates a console sink writing to out
func NewConsoleSink(out io.Writer, verbose bool) *ConsoleSink {
	return &ConsoleSink{out: out, verbose: verbose, started: time.Now()}
}

// Emit prints r
func (s *ConsoleSink) Emit(_ context.Context, r *report.Report) error {
	fmt.Fprintf(s.out, "\n=== Results ===\n")
	if err := report.WriteSummary(s.out, r); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Vocabulary size: %d\n", len(r.Tokens))
	fmt.Fprintf(s.out, "Spam items with evidence: %d\n", len(r.Evidence))
	fmt.Fprintf(s.out, "Processing time: %v\n", time.Since(s.started).Round(time.Millisecond))

	if s.verbose {
		fmt.Fprintf(s.out, "\n")
		return report.WriteEvidence(s.out, r)
	}
	return nil
}
