package scheduler

import (
	"container/heap"
	"sync"
	"time"
)

// Manual is a deterministic scheduler driven by a virtual clock. Callbacks
// only run inside Advance, on the caller's goroutine, in deadline order.
type Manual struct {
	mu    sync.Mutex
	now   time.Time
	seq   uint64
	queue timerQueue
}

// NewManual creates a manual scheduler whose clock starts at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

type manualTimer struct {
	m      *Manual
	at     time.Time
	period time.Duration
	seq    uint64
	fn     func()
	active bool
	index  int
}

func (t *manualTimer) Stop() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	if !t.active {
		return false
	}
	t.active = false
	if t.index >= 0 {
		heap.Remove(&t.m.queue, t.index)
	}
	return true
}

func (m *Manual) Every(period time.Duration, fn func()) Timer {
	if period <= 0 {
		period = time.Millisecond
	}
	return m.schedule(period, period, fn)
}

func (m *Manual) After(delay time.Duration, fn func()) Timer {
	return m.schedule(delay, 0, fn)
}

func (m *Manual) schedule(delay, period time.Duration, fn func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTimer{
		m:      m,
		at:     m.now.Add(delay),
		period: period,
		seq:    m.seq,
		fn:     fn,
		active: true,
	}
	heap.Push(&m.queue, t)
	return t
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by d, firing every callback that falls
// due. Callbacks may schedule or stop timers.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	for {
		if len(m.queue) == 0 || m.queue[0].at.After(target) {
			break
		}
		t := heap.Pop(&m.queue).(*manualTimer)
		m.now = t.at
		if t.period > 0 {
			m.seq++
			t.seq = m.seq
			t.at = t.at.Add(t.period)
			heap.Push(&m.queue, t)
		} else {
			t.active = false
		}
		fn := t.fn
		m.mu.Unlock()
		fn()
		m.mu.Lock()
	}
	m.now = target
	m.mu.Unlock()
}

// Pending returns the number of active timers.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

type timerQueue []*manualTimer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].at.Equal(q[j].at) {
		return q[i].seq < q[j].seq
	}
	return q[i].at.Before(q[j].at)
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	t := x.(*manualTimer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
