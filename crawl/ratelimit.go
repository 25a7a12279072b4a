package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/bookfetch"
	"golang.org/x/time/rate"
)

var _ bookfetch.Limiter = (*DelayLimiter)(nil)

// DelayLimiter paces page requests using a token bucket, enforcing a fixed
// minimum interval between consecutive fetches. The crawl is strictly
// sequential, so a single limiter with a burst of 1 is sufficient: the first
// request passes immediately and every later one waits out the interval.
type DelayLimiter struct {
	limiter *rate.Limiter
}

// NewDelayLimiter creates a DelayLimiter with the given inter-request delay.
// A zero or negative delay disables pacing.
func NewDelayLimiter(delay time.Duration) *DelayLimiter {
	if delay <= 0 {
		return &DelayLimiter{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &DelayLimiter{limiter: rate.NewLimiter(rate.Every(delay), 1)}
}

// Wait blocks until the next request is allowed.
// Returns an error if the context is canceled before the wait completes.
func (d *DelayLimiter) Wait(ctx context.Context) error {
	return d.limiter.Wait(ctx)
}
