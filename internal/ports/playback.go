package ports

import (
	"context"

	"github.com/mikey/spam-sorter/internal/core"
	"github.com/mikey/spam-sorter/internal/report"
)

// Renderer draws a frame. It must not retain the frame's slices beyond the call
// unless it copies them.
type Renderer interface {
	Render(frame core.Frame)
}

// CancelSignal is polled by the playback loop at every suspension point
type CancelSignal interface {
	// CancelRequested must not block
	CancelRequested() bool
}

// Pacer blocks for one frame interval
type Pacer interface {
	Wait(ctx context.Context) error
}

// ReportSink consumes the reports produced when playback settles
type ReportSink interface {
	Emit(ctx context.Context, r *report.Report) error
}
