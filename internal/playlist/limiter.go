package playlist

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultInterval is the minimum spacing between backing store calls in the
// reference deployment.
const DefaultInterval = time.Second

// Pacer sequences outgoing calls to the backing store. Callers block in Wait
// until their slot arrives; arrival order is preserved.
type Pacer interface {
	Wait(ctx context.Context) error
}

// Limiter enforces a minimum interval between outgoing backing store calls,
// measured from the start of the previous call. It is safe for concurrent use
// and is meant to be shared by every client talking to the same store.
type Limiter struct {
	rl *rate.Limiter
}

// NewLimiter creates a Limiter with the given minimum interval between calls.
// Non-positive intervals fall back to [DefaultInterval].
func NewLimiter(minInterval time.Duration) *Limiter {
	if minInterval <= 0 {
		minInterval = DefaultInterval
	}
	return &Limiter{rl: rate.NewLimiter(rate.Every(minInterval), 1)}
}

// Wait blocks until the caller may begin its call, or until ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.rl.Wait(ctx)
}
