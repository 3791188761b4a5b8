// Package pacing turns held keys and buttons into discrete game inputs.
//
// A Debouncer enforces a minimum interval between accepted events. It reads
// time only from the caller, so a frame loop passes its own tick timestamp and
// tests can drive it with a fake clock.
package pacing

import (
	"time"

	"golang.org/x/time/rate"
)

// Debouncer accepts at most one event per interval
type Debouncer struct {
	interval time.Duration
	limiter  *rate.Limiter
}

// NewDebouncer creates a debouncer. A non-positive interval accepts every event.
func NewDebouncer(interval time.Duration) *Debouncer {
	d := &Debouncer{interval: interval}
	d.Reset()
	return d
}

// Interval returns the minimum time between accepted events
func (d *Debouncer) Interval() time.Duration {
	return d.interval
}

// Allow reports whether an event at now is accepted. Rejected events do not
// delay the next accepted one.
func (d *Debouncer) Allow(now time.Time) bool {
	return d.limiter.AllowN(now, 1)
}

// Reset forgets previous events so the next one is accepted
func (d *Debouncer) Reset() {
	if d.interval <= 0 {
		d.limiter = rate.NewLimiter(rate.Inf, 1)
		return
	}
	d.limiter = rate.NewLimiter(rate.Every(d.interval), 1)
}
