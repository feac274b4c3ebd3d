package gate

import (
	"context"
	"sync"
	"time"
)

// Gate is a fixed-window admission gate.
//
// A Gate admits at most capacity callers per period. Callers over the limit
// block in Acquire until the current window elapses. Admissions are consumed
// per window, not per concurrent request: there is no Release.
type Gate struct {
	period   time.Duration
	capacity int

	// mu guards windowStart and count. It is held only for the counter
	// bookkeeping, never across the wait for the next window.
	mu          sync.Mutex
	windowStart time.Time
	count       int
}

// New creates a gate admitting at most capacity calls per period.
//
// Returns a *ConfigError if capacity is not positive or period is not a
// strictly positive duration.
func New(period time.Duration, capacity int) (*Gate, error) {
	if capacity <= 0 {
		return nil, &ConfigError{
			Field:   "capacity",
			Message: "must be a positive integer",
		}
	}
	if period <= 0 {
		return nil, &ConfigError{
			Field:   "period",
			Message: "must be a positive duration",
		}
	}

	return &Gate{
		period:      period,
		capacity:    capacity,
		windowStart: time.Now(),
	}, nil
}

// Acquire blocks until an admission is granted or ctx is cancelled.
//
// On success the caller is counted toward the current window and may issue
// exactly one outbound call. If ctx is cancelled while waiting, Acquire
// returns a *CancelledError wrapping ctx.Err() and the window counters are
// left untouched: a cancelled waiter consumes nothing.
func (g *Gate) Acquire(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return &CancelledError{Cause: err}
		}

		g.mu.Lock()
		now := time.Now()

		// Lazy realignment: a fully elapsed window resets wholesale.
		if now.Sub(g.windowStart) > g.period {
			g.count = 0
			g.windowStart = now
		}

		if g.count < g.capacity {
			g.count++
			g.mu.Unlock()
			return nil
		}

		// Window exhausted. Sleep until it elapses, outside the critical
		// section, then re-validate: another waiter may have realigned the
		// window (or filled it) while we slept.
		wait := g.windowStart.Add(g.period).Sub(now)
		g.mu.Unlock()

		if wait <= 0 {
			continue
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return &CancelledError{Cause: ctx.Err()}
		case <-timer.C:
		}
	}
}

// Capacity returns the maximum number of admissions per window.
func (g *Gate) Capacity() int {
	return g.capacity
}

// Period returns the window duration.
func (g *Gate) Period() time.Duration {
	return g.period
}

// Remaining returns the number of admissions still available in the current
// window. Like Acquire, it realigns an elapsed window first, so a fresh
// window reports full capacity.
func (g *Gate) Remaining() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	if time.Since(g.windowStart) > g.period {
		g.count = 0
		g.windowStart = time.Now()
	}

	return g.capacity - g.count
}
