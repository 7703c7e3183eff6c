// Package scheduler provides the cooperative event loop every animated
// surface and the gallery run on. All callbacks of one scheduler execute
// sequentially, never concurrently with each other.
package scheduler

import "time"

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	// Stop cancels the timer. It reports whether the timer was still
	// active. Stopping twice is a no-op.
	Stop() bool
}

// Scheduler schedules callbacks on a single event loop.
type Scheduler interface {
	// Every runs fn repeatedly with the given period until stopped.
	Every(period time.Duration, fn func()) Timer
	// After runs fn once after the delay unless stopped first.
	After(delay time.Duration, fn func()) Timer
	// Now returns the scheduler's notion of the current time.
	Now() time.Time
}

// Debouncer coalesces bursts of triggers into one delayed call: each
// Trigger replaces any call still pending.
type Debouncer struct {
	sched   Scheduler
	delay   time.Duration
	pending Timer
}

// NewDebouncer creates a debouncer firing delay after the last trigger.
func NewDebouncer(s Scheduler, delay time.Duration) *Debouncer {
	return &Debouncer{sched: s, delay: delay}
}

// Trigger schedules fn, cancelling a previously scheduled call.
func (d *Debouncer) Trigger(fn func()) {
	d.Cancel()
	var t Timer
	t = d.sched.After(d.delay, func() {
		if d.pending == t {
			d.pending = nil
		}
		fn()
	})
	d.pending = t
}

// Pending reports whether a call is waiting to fire.
func (d *Debouncer) Pending() bool {
	return d.pending != nil
}

// Cancel drops the pending call, if any.
func (d *Debouncer) Cancel() {
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
}

// Throttle runs at most one call per interval: triggers arriving while a
// call is pending are dropped.
type Throttle struct {
	sched    Scheduler
	interval time.Duration
	pending  Timer
}

// NewThrottle creates a throttle with the given interval.
func NewThrottle(s Scheduler, interval time.Duration) *Throttle {
	return &Throttle{sched: s, interval: interval}
}

// Trigger schedules fn unless a call is already pending. It reports
// whether fn was scheduled.
func (t *Throttle) Trigger(fn func()) bool {
	if t.pending != nil {
		return false
	}
	t.pending = t.sched.After(t.interval, func() {
		t.pending = nil
		fn()
	})
	return true
}

// Cancel drops the pending call, if any.
func (t *Throttle) Cancel() {
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
}
