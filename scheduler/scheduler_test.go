package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tickN(t *Ticker, n int) {
	for i := 0; i < n; i++ {
		t.OnTick()
	}
}

func TestDueOncePerInterval(t *testing.T) {
	s := New(time.Second, 15)
	perInterval := 15 * 60

	for cycle := 0; cycle < 3; cycle++ {
		tickN(s, perInterval-1)
		require.False(t, s.PollAndClearDue(), "cycle %d: due early", cycle)
		s.OnTick()
		require.True(t, s.PollAndClearDue(), "cycle %d: not due", cycle)
		require.False(t, s.PollAndClearDue(), "cycle %d: due twice", cycle)
	}
	assert.Equal(t, uint64(0), s.Overruns())
}

func TestStateMachine(t *testing.T) {
	s := New(10*time.Second, 2)
	assert.Equal(t, Idle, s.State())

	tickN(s, 5)
	assert.Equal(t, Idle, s.State())
	s.OnTick() // first minute boundary
	assert.Equal(t, Accumulating, s.State())
	assert.Equal(t, uint64(1), s.Minutes())

	tickN(s, 6)
	assert.Equal(t, Due, s.State())
	assert.Equal(t, "DUE", s.State().String())

	require.True(t, s.PollAndClearDue())
	assert.Equal(t, Idle, s.State())
}

func TestOneMinuteIntervalSkipsAccumulating(t *testing.T) {
	s := New(30*time.Second, 1)
	s.OnTick()
	assert.Equal(t, Idle, s.State())
	s.OnTick()
	assert.Equal(t, Due, s.State())
	assert.Equal(t, uint64(0), s.Minutes())
}

func TestOverrunKeepsSingleDue(t *testing.T) {
	s := New(30*time.Second, 1)
	tickN(s, 2)
	tickN(s, 2)
	tickN(s, 2)
	assert.Equal(t, uint64(2), s.Overruns())
	assert.True(t, s.PollAndClearDue())
	assert.False(t, s.PollAndClearDue())
}

func TestSubMinuteHooks(t *testing.T) {
	s := New(time.Second, 1)
	var every, third []uint64
	s.Every(1, func(tick uint64) { every = append(every, tick) })
	s.Every(3, func(tick uint64) { third = append(third, tick) })
	tickN(s, 7)
	assert.Equal(t, []uint64{1, 2, 3, 4, 5, 6, 7}, every)
	assert.Equal(t, []uint64{3, 6}, third)
	// hooks never raise the due flag on their own
	assert.False(t, s.PollAndClearDue())
}

func TestNewClampsBadArguments(t *testing.T) {
	s := New(0, 0)
	assert.Equal(t, time.Second, s.Period())
	tickN(s, 60)
	assert.True(t, s.PollAndClearDue())
}

func TestRunWithFakeClock(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := New(time.Second, 1)
	var ticks atomic.Uint64
	s.Every(1, func(uint64) { ticks.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, clock)
		close(done)
	}()

	clock.BlockUntil(1)
	for i := 0; i < 60; i++ {
		clock.Advance(time.Second)
		want := uint64(i + 1)
		require.Eventually(t, func() bool { return ticks.Load() == want }, time.Second, time.Millisecond)
	}
	assert.True(t, s.PollAndClearDue())

	cancel()
	<-done
}
