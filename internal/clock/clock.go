// Package clock provides a tick source whose period can change while it runs.
package clock

import (
	"context"
	"sync"
	"time"
)

// Clock sends the current time on C once per period. Unlike [time.Ticker] the
// period is read right before each timer is armed, so a SetPeriod call takes
// effect from the next tick on and never shortens the one already pending.
type Clock struct {
	mu     sync.Mutex
	period time.Duration
	c      chan time.Time
}

func New(period time.Duration) *Clock {
	if period <= 0 {
		panic("clock: non-positive period")
	}
	return &Clock{
		period: period,
		c:      make(chan time.Time, 1),
	}
}

func (c *Clock) C() <-chan time.Time {
	return c.c
}

func (c *Clock) Period() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.period
}

// SetPeriod ignores non-positive durations.
func (c *Clock) SetPeriod(d time.Duration) {
	if d <= 0 {
		return
	}
	c.mu.Lock()
	c.period = d
	c.mu.Unlock()
}

// Run ticks until ctx is done. Ticks are dropped while the previous one is
// still unread.
func (c *Clock) Run(ctx context.Context) error {
	timer := time.NewTimer(c.Period())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-timer.C:
			select {
			case c.c <- now:
			default:
			}
			timer.Reset(c.Period())
		}
	}
}
