package scheduler

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	logger "github.com/sirupsen/logrus"
)

type State int

const (
	Idle State = iota
	Accumulating
	Due
)

func (s State) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case Accumulating:
		return "ACCUMULATING"
	case Due:
		return "DUE"
	}
	return "UNKNOWN"
}

type hook struct {
	every uint64
	fn    func(tick uint64)
}

// Ticker counts timer ticks into minutes and raises a due flag every
// reporting interval. OnTick is only ever called from one goroutine; the
// reporting loop only touches due through PollAndClearDue.
type Ticker struct {
	period         time.Duration
	ticksPerMinute uint64
	interval       uint64

	ticks    atomic.Uint64 // within the current minute
	minutes  atomic.Uint64 // within the current window
	due      atomic.Bool
	overruns atomic.Uint64
	elapsed  atomic.Uint64 // ticks since start up

	hooks []hook
}

// New creates a scheduler ticking every period and due every interval
// minutes. period must divide one minute.
func New(period time.Duration, intervalMinutes int) *Ticker {
	if period <= 0 || period > time.Minute {
		period = time.Second
	}
	if intervalMinutes < 1 {
		intervalMinutes = 1
	}
	return &Ticker{
		period:         period,
		ticksPerMinute: uint64(time.Minute / period),
		interval:       uint64(intervalMinutes),
	}
}

// Every registers fn to run on every n-th tick, in the tick goroutine.
// Register hooks before Run.
func (t *Ticker) Every(n int, fn func(tick uint64)) {
	if n < 1 {
		n = 1
	}
	t.hooks = append(t.hooks, hook{every: uint64(n), fn: fn})
}

// OnTick advances the scheduler by one timer period.
func (t *Ticker) OnTick() {
	tick := t.elapsed.Add(1)
	for _, h := range t.hooks {
		if tick%h.every == 0 {
			h.fn(tick)
		}
	}

	if t.ticks.Add(1) < t.ticksPerMinute {
		return
	}
	t.ticks.Store(0)
	if t.minutes.Add(1) < t.interval {
		return
	}
	t.minutes.Store(0)
	if t.due.Swap(true) {
		// previous report has not been collected yet
		t.overruns.Add(1)
	}
}

// PollAndClearDue reports whether a reporting interval has completed since the
// last call.
func (t *Ticker) PollAndClearDue() bool {
	return t.due.Swap(false)
}

// State is Due while a report is waiting to be collected, Accumulating once
// at least one minute of the window has passed, and Idle otherwise. With a one
// minute interval the minute count is reset on the tick that raises the flag,
// so the state goes straight from Idle to Due.
func (t *Ticker) State() State {
	if t.due.Load() {
		return Due
	}
	if t.minutes.Load() > 0 {
		return Accumulating
	}
	return Idle
}

// Minutes elapsed in the current window.
func (t *Ticker) Minutes() uint64 {
	return t.minutes.Load()
}

// Overruns counts intervals that completed while the previous one was still
// uncollected.
func (t *Ticker) Overruns() uint64 {
	return t.overruns.Load()
}

func (t *Ticker) Period() time.Duration {
	return t.period
}

// Run drives OnTick from clock until ctx is done.
func (t *Ticker) Run(ctx context.Context, clock clockwork.Clock) {
	logger.Infof("Scheduler started, tick [%v] report every [%v] minutes", t.period, t.interval)
	tk := clock.NewTicker(t.period)
	defer tk.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("Scheduler stopped")
			return
		case <-tk.Chan():
			t.OnTick()
		}
	}
}
