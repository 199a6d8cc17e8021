package sink

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/mikey/spam-sorter/internal/ports"
	"github.com/mikey/spam-sorter/internal/report"
	"go.uber.org/zap"
)

// Named pairs a sink with the name it is configured under
type Named struct {
	Name string
	Sink ports.ReportSink
}

// MultiSink hands a report to every sink. A failing sink does not stop the others.
type MultiSink struct {
	sinks  []Named
	logger *zap.Logger
}

// NewMultiSink creates a sink fanning out to sinks in order
func NewMultiSink(logger *zap.Logger, sinks ...Named) *MultiSink {
	return &MultiSink{sinks: sinks, logger: logger}
}

// Emit calls every sink and joins their errors
func (m *MultiSink) Emit(ctx context.Context, r *report.Report) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Sink.Emit(ctx, r); err != nil {
			m.logger.Error("Report sink failed", zap.String("sink", s.Name), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s sink: %w", s.Name, err))
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink holding resources
func (m *MultiSink) Close() error {
	var errs []error
	for _, s := range m.sinks {
		if c, ok := s.Sink.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("%s sink: %w", s.Name, err))
			}
		}
	}
	return errors.Join(errs...)
}
