package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Loop is a real-time scheduler. Timer goroutines only post work; every
// callback runs on the goroutine executing Run.
type Loop struct {
	tasks  chan func()
	closed chan struct{}
	once   sync.Once
}

// NewLoop creates a loop with the given task queue capacity.
func NewLoop(queue int) *Loop {
	if queue <= 0 {
		queue = 64
	}
	return &Loop{
		tasks:  make(chan func(), queue),
		closed: make(chan struct{}),
	}
}

// Run executes posted tasks until ctx is cancelled. It must be called
// from exactly one goroutine.
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.closed) })
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.tasks:
			fn()
		}
	}
}

// Post enqueues fn to run on the loop. It reports false if the loop has
// stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.closed:
		return false
	case l.tasks <- fn:
		return true
	}
}

type loopTimer struct {
	active atomic.Bool
	stop   chan struct{}
	once   sync.Once
}

func (t *loopTimer) Stop() bool {
	wasActive := t.active.Swap(false)
	t.once.Do(func() { close(t.stop) })
	return wasActive
}

// fire posts fn unless the timer was stopped in the meantime. The check
// happens again on the loop so a tick already queued when Stop ran is
// dropped.
func (l *Loop) fire(t *loopTimer, fn func()) {
	l.Post(func() {
		if t.active.Load() {
			fn()
		}
	})
}

func (l *Loop) Every(period time.Duration, fn func()) Timer {
	if period <= 0 {
		period = time.Millisecond
	}
	t := &loopTimer{stop: make(chan struct{})}
	t.active.Store(true)
	go func() {
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-t.stop:
				return
			case <-l.closed:
				return
			case <-ticker.C:
				l.fire(t, fn)
			}
		}
	}()
	return t
}

func (l *Loop) After(delay time.Duration, fn func()) Timer {
	t := &loopTimer{stop: make(chan struct{})}
	t.active.Store(true)
	go func() {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-t.stop:
		case <-l.closed:
		case <-timer.C:
			l.Post(func() {
				if t.active.Swap(false) {
					fn()
				}
			})
		}
	}()
	return t
}

func (l *Loop) Now() time.Time {
	return time.Now()
}
