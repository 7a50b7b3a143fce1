package scheduler

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now float64
}

func (c *fakeClock) CurrentTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t float64) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

type recorder struct {
	mu     sync.Mutex
	events []BarEvent
}

func (r *recorder) onBar(ev BarEvent) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recorder) snapshot() []BarEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]BarEvent(nil), r.events...)
}

// manual returns a scheduler whose ticker never fires during a test
func manual(clock Clock, cb Callbacks) *Scheduler {
	return New(clock, Config{PollInterval: time.Hour}, cb)
}

func TestBarCadenceAt120BPM(t *testing.T) {
	clock := &fakeClock{now: 10}
	rec := &recorder{}
	s := manual(clock, Callbacks{OnBar: rec.onBar})
	t.Cleanup(s.Stop)

	s.Start(120, 4)
	for bar := 1; bar < 8; bar++ {
		clock.Set(10 + float64(bar)*2 - 0.05)
		s.Poll()
	}

	events := rec.snapshot()
	require.Len(t, events, 8)
	for i, ev := range events {
		assert.Equal(t, i%4, ev.BarIndex)
		assert.Equal(t, 10+float64(i)*2, ev.BarStartTime)
	}
}

func TestPollOutsideLookaheadIsQuiet(t *testing.T) {
	clock := &fakeClock{}
	rec := &recorder{}
	s := manual(clock, Callbacks{OnBar: rec.onBar})
	t.Cleanup(s.Stop)

	s.Start(120, 4)
	clock.Set(1.89)
	s.Poll()
	s.Poll()
	assert.Len(t, rec.snapshot(), 1)

	clock.Set(1.95)
	s.Poll()
	assert.Len(t, rec.snapshot(), 2)
}

func TestPollCatchesUp(t *testing.T) {
	clock := &fakeClock{}
	rec := &recorder{}
	s := manual(clock, Callbacks{OnBar: rec.onBar})
	t.Cleanup(s.Stop)

	s.Start(120, 8)
	clock.Set(9.95)
	s.Poll()

	events := rec.snapshot()
	require.Len(t, events, 6)
	assert.Equal(t, 5, events[5].BarIndex)
	assert.Equal(t, 10.0, events[5].BarStartTime)
}

func TestUpdateBPMTakesEffectNextPoll(t *testing.T) {
	clock := &fakeClock{}
	rec := &recorder{}
	s := manual(clock, Callbacks{OnBar: rec.onBar})
	t.Cleanup(s.Stop)

	s.Start(120, 8)
	s.UpdateBPM(60)
	clock.Set(3.95)
	s.Poll()

	events := rec.snapshot()
	require.Len(t, events, 2)
	assert.Equal(t, 4.0, events[1].BarStartTime)
}

func TestShrinkingLoopKeepsTimeMonotonic(t *testing.T) {
	clock := &fakeClock{}
	rec := &recorder{}
	s := manual(clock, Callbacks{OnBar: rec.onBar})
	t.Cleanup(s.Stop)

	s.Start(120, 8)
	clock.Set(9.95)
	s.Poll() // bars 0..5

	s.UpdateTotalBars(4)
	clock.Set(13.95)
	s.Poll()

	events := rec.snapshot()
	require.Len(t, events, 8)
	assert.Equal(t, BarEvent{BarIndex: 2, BarStartTime: 12}, events[6])
	assert.Equal(t, BarEvent{BarIndex: 0, BarStartTime: 14}, events[7])
}

func TestPanickingCallbackDoesNotStall(t *testing.T) {
	clock := &fakeClock{}
	rec := &recorder{}
	var failures []error

	s := manual(clock, Callbacks{
		OnBar: func(ev BarEvent) {
			if ev.BarIndex == 1 {
				panic("boom")
			}
			rec.onBar(ev)
		},
		OnError: func(ev BarEvent, err error) {
			failures = append(failures, err)
		},
	})
	t.Cleanup(s.Stop)

	s.Start(120, 4)
	clock.Set(1.95)
	s.Poll()
	clock.Set(3.95)
	s.Poll()

	events := rec.snapshot()
	require.Len(t, events, 2)
	assert.Equal(t, 0, events[0].BarIndex)
	assert.Equal(t, 2, events[1].BarIndex)

	require.Len(t, failures, 1)
	assert.True(t, errors.Is(failures[0], ErrCallbackPanic))
	assert.Contains(t, failures[0].Error(), "boom")
}

func TestStopAndRestart(t *testing.T) {
	clock := &fakeClock{}
	rec := &recorder{}
	s := manual(clock, Callbacks{OnBar: rec.onBar})

	assert.False(t, s.IsRunning())
	s.Start(120, 4)
	assert.True(t, s.IsRunning())

	s.Stop()
	assert.False(t, s.IsRunning())
	clock.Set(5.95)
	s.Poll()
	assert.Len(t, rec.snapshot(), 1)

	// a second Stop is harmless
	s.Stop()

	s.Start(120, 4)
	t.Cleanup(s.Stop)
	events := rec.snapshot()
	require.Len(t, events, 2)
	assert.Equal(t, BarEvent{BarIndex: 0, BarStartTime: 5.95}, events[1])
}

func TestStopFromInsideCallback(t *testing.T) {
	clock := &fakeClock{}
	var calls int
	var s *Scheduler
	s = manual(clock, Callbacks{OnBar: func(BarEvent) {
		calls++
		s.Stop()
	}})

	s.Start(6000, 4) // 0.04s bars, several inside the window
	assert.Equal(t, 1, calls)
	assert.False(t, s.IsRunning())
}

func TestVisualCallbacks(t *testing.T) {
	clock := &fakeClock{}
	var bars, steps atomic.Int32
	s := New(clock, Config{PollInterval: time.Hour, StepsPerBar: 4}, Callbacks{
		OnBar:        func(BarEvent) {},
		OnVisualBar:  func(int) { bars.Add(1) },
		OnVisualStep: func(_, _ int) { steps.Add(1) },
	})
	t.Cleanup(s.Stop)

	// 0.04s bars; the first poll sees bars 0, 1 and 2
	s.Start(6000, 64)

	assert.Eventually(t, func() bool {
		return bars.Load() == 3 && steps.Load() == 12
	}, 2*time.Second, 5*time.Millisecond)
}

func TestStopDropsPendingVisuals(t *testing.T) {
	clock := &fakeClock{}
	s := manual(clock, Callbacks{
		OnBar:        func(BarEvent) {},
		OnVisualStep: func(_, _ int) {},
	})

	s.Start(1, 4) // 240s bars
	assert.Greater(t, s.visuals.len(), 0)

	s.Stop()
	assert.Zero(t, s.visuals.len())
}

func TestBarDuration(t *testing.T) {
	assert.Equal(t, 2.0, BarDuration(120))
	assert.Equal(t, 4.0, BarDuration(60))
}
