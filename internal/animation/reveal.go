package animation

import (
	"time"

	"github.com/weave-visualizer/engine/internal/scheduler"
)

// DefaultRevealInterval is the time between two revealed cells.
const DefaultRevealInterval = 100 * time.Millisecond

// Reveal counts revealed cells up to a total and then stops by itself.
type Reveal struct {
	sched    scheduler.Scheduler
	interval time.Duration
	onStep   func()
	total    int
	progress int
	ticker   scheduler.Timer
}

// NewReveal creates a stopped reveal counter. onStep runs after every
// increment, including the final one.
func NewReveal(s scheduler.Scheduler, interval time.Duration, onStep func()) *Reveal {
	if interval <= 0 {
		interval = DefaultRevealInterval
	}
	return &Reveal{sched: s, interval: interval, onStep: onStep}
}

// Start restarts the reveal from zero for a grid of total cells.
func (r *Reveal) Start(total int) {
	r.Stop()
	r.progress = 0
	r.total = total
	if total <= 0 {
		return
	}
	r.ticker = r.sched.Every(r.interval, r.step)
}

// Stop cancels the counter. It is safe to call when already stopped.
func (r *Reveal) Stop() {
	if r.ticker != nil {
		r.ticker.Stop()
		r.ticker = nil
	}
}

// Active reports whether the reveal is still counting.
func (r *Reveal) Active() bool {
	return r.ticker != nil
}

// Progress returns the number of completed steps.
func (r *Reveal) Progress() int {
	return r.progress
}

func (r *Reveal) step() {
	r.progress++
	if r.progress >= r.total {
		r.Stop()
	}
	if r.onStep != nil {
		r.onStep()
	}
}
