package agni

import (
	"context"
	"sync"
	"time"
)

// pacer enforces a flat delay between successive API calls. The delay is a
// documented constant gap, not an adaptive backoff: AGNI exposes no rate-limit
// headers, and the export deliberately keeps the original fixed-sleep policy.
type pacer struct {
	mu    sync.Mutex
	delay time.Duration
	last  time.Time
}

func newPacer(delay time.Duration) *pacer {
	return &pacer{delay: delay}
}

// Wait blocks until at least the configured delay has elapsed since the
// previous call, honoring context cancellation. The first call never waits.
func (p *pacer) Wait(ctx context.Context) error {
	p.mu.Lock()
	now := time.Now()
	var gap time.Duration
	if !p.last.IsZero() {
		gap = p.delay - now.Sub(p.last)
	}
	if gap <= 0 {
		p.last = now
		p.mu.Unlock()
		return nil
	}
	p.last = now.Add(gap)
	p.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(gap):
		return nil
	}
}
