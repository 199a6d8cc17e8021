package playback

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RatePacer spaces waits at a fixed cadence. Time spent between waits
// (rendering, classification) counts toward the interval.
type RatePacer struct {
	limiter *rate.Limiter
}

// NewRatePacer creates a pacer releasing one wait per interval. A zero or
// negative interval never blocks.
func NewRatePacer(interval time.Duration) *RatePacer {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	lim := rate.NewLimiter(limit, 1)
	// consume the initial burst so the first Wait blocks for a full interval
	lim.Allow()
	return &RatePacer{limiter: lim}
}

// Wait blocks until the next interval boundary or ctx is done
func (p *RatePacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}
