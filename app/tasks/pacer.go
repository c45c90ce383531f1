package tasks

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

const (
	FeedInterval     = 500 * time.Millisecond
	AnalysisInterval = time.Second
)

// Pacer spaces out calls to third-party services. The first Wait returns
// immediately.
type Pacer struct {
	limiter *rate.Limiter
}

func NewPacer(interval time.Duration) *Pacer {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Pacer{limiter: rate.NewLimiter(limit, 1)}
}

func (p *Pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}
