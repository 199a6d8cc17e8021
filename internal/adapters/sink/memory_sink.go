package sink

import (
	"context"
	"sync"

	"github.com/mikey/spam-sorter/internal/report"
)

// MemorySink keeps emitted reports in memory
type MemorySink struct {
	mu      sync.RWMutex
	reports []*report.Report
}

// NewMemorySink creates an empty memory sink
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Emit stores r
func (s *MemorySink) Emit(_ context.Context, r *report.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reports = append(s.reports, r)
	return nil
}

// Reports returns the stored reports in emit order
func (s *MemorySink) Reports() []*report.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*report.Report, len(s.reports))
	copy(out, s.reports)
	return out
}

// Last returns the most recent report, if any
func (s *MemorySink) Last() (*report.Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.reports) == 0 {
		return nil, false
	}
	return s.reports[len(s.reports)-1], true
}
