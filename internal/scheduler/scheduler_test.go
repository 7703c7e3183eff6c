package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestManual_Every(t *testing.T) {
	m := NewManual(epoch)
	count := 0
	timer := m.Every(200*time.Millisecond, func() { count++ })

	m.Advance(199 * time.Millisecond)
	assert.Equal(t, 0, count)
	m.Advance(time.Millisecond)
	assert.Equal(t, 1, count)
	m.Advance(time.Second)
	assert.Equal(t, 6, count)

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop(), "second stop is a no-op")
	m.Advance(time.Second)
	assert.Equal(t, 6, count)
	assert.Equal(t, 0, m.Pending())
}

func TestManual_AfterFiresOnce(t *testing.T) {
	m := NewManual(epoch)
	count := 0
	timer := m.After(50*time.Millisecond, func() { count++ })

	m.Advance(time.Second)
	assert.Equal(t, 1, count)
	assert.False(t, timer.Stop())
	assert.Equal(t, epoch.Add(time.Second), m.Now())
}

func TestManual_OrderAndReentrancy(t *testing.T) {
	m := NewManual(epoch)
	var order []string

	m.After(30*time.Millisecond, func() { order = append(order, "c") })
	m.After(10*time.Millisecond, func() {
		order = append(order, "a")
		// scheduled from inside a callback, still due within this Advance
		m.After(5*time.Millisecond, func() { order = append(order, "b") })
	})

	m.Advance(100 * time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestManual_StopFromOwnCallback(t *testing.T) {
	m := NewManual(epoch)
	count := 0
	var timer Timer
	timer = m.Every(10*time.Millisecond, func() {
		count++
		if count == 3 {
			timer.Stop()
		}
	})

	m.Advance(time.Second)
	assert.Equal(t, 3, count)
}

func TestDebouncer_Coalesces(t *testing.T) {
	m := NewManual(epoch)
	d := NewDebouncer(m, 250*time.Millisecond)
	calls := 0

	for i := 0; i < 5; i++ {
		d.Trigger(func() { calls++ })
		m.Advance(100 * time.Millisecond)
	}
	assert.Equal(t, 0, calls)
	assert.True(t, d.Pending())

	m.Advance(250 * time.Millisecond)
	assert.Equal(t, 1, calls)
	assert.False(t, d.Pending())

	d.Trigger(func() { calls++ })
	d.Cancel()
	m.Advance(time.Second)
	assert.Equal(t, 1, calls)
}

func TestThrottle_DropsWhilePending(t *testing.T) {
	m := NewManual(epoch)
	th := NewThrottle(m, 16*time.Millisecond)
	calls := 0

	assert.True(t, th.Trigger(func() { calls++ }))
	assert.False(t, th.Trigger(func() { calls++ }))
	m.Advance(20 * time.Millisecond)
	assert.Equal(t, 1, calls)

	assert.True(t, th.Trigger(func() { calls++ }))
	th.Cancel()
	m.Advance(20 * time.Millisecond)
	assert.Equal(t, 1, calls)
}

func TestLoop_RunsCallbacksOnLoop(t *testing.T) {
	l := NewLoop(8)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	var ticks atomic.Int32
	fired := make(chan struct{})
	timer := l.Every(5*time.Millisecond, func() {
		if ticks.Add(1) == 3 {
			close(fired)
		}
	})

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("ticker did not fire")
	}
	posted := make(chan struct{})
	require.True(t, l.Post(func() {
		timer.Stop()
		close(posted)
	}))
	<-posted

	stopped := ticks.Load()
	time.Sleep(30 * time.Millisecond)
	// a tick queued before Stop ran must be dropped on the loop
	synced := make(chan struct{})
	l.Post(func() { close(synced) })
	<-synced
	assert.Equal(t, stopped, ticks.Load())

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.False(t, l.Post(func() {}))
}

func TestLoop_AfterStopped(t *testing.T) {
	l := NewLoop(8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	var fired atomic.Bool
	timer := l.After(20*time.Millisecond, func() { fired.Store(true) })
	assert.True(t, timer.Stop())
	time.Sleep(50 * time.Millisecond)
	assert.False(t, fired.Load())
}
