package ingestion

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultPacingInterval is the pause between upsert windows of paced file types.
const DefaultPacingInterval = 60 * time.Second

// Pacer blocks until the next upsert window may start.
type Pacer interface {
	Wait(ctx context.Context) error
}

// PacerFunc adapts a function to Pacer.
type PacerFunc func(ctx context.Context) error

// Wait calls f(ctx).
func (f PacerFunc) Wait(ctx context.Context) error {
	return f(ctx)
}

// NewRatePacer returns a Pacer that lets one window through per interval.
// The first Wait blocks for a full interval, since the caller has already
// written the window preceding it.
func NewRatePacer(interval time.Duration) Pacer {
	limiter := rate.NewLimiter(rate.Every(interval), 1)
	limiter.Allow()
	return limiter
}
