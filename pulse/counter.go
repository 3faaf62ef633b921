package pulse

import (
	"sync/atomic"
	"time"
)

// Counter counts debounced edges on one input. OnEdge runs in the edge
// goroutine, Drain in the reporting loop; the Swap in Drain is the only
// boundary between two reporting windows.
type Counter struct {
	input    InputID
	debounce *Debouncer
	count    atomic.Uint64 // current window
	total    atomic.Uint64 // since start up, never reset
}

func NewCounter(input InputID, d *Debouncer) *Counter {
	return &Counter{input: input, debounce: d}
}

// OnEdge registers an edge seen at now. It returns false if the edge was
// bounce.
func (c *Counter) OnEdge(now time.Duration) bool {
	if !c.debounce.Accept(c.input, now) {
		return false
	}
	c.count.Add(1)
	c.total.Add(1)
	return true
}

// Drain returns the edges counted since the previous Drain and starts a new
// window at zero.
func (c *Counter) Drain() uint64 {
	return c.count.Swap(0)
}

// Total is every accepted edge since start up.
func (c *Counter) Total() uint64 {
	return c.total.Load()
}

func (c *Counter) Rejected() uint64 {
	return c.debounce.Rejected(c.input)
}

func (c *Counter) Name() string {
	return c.input.String()
}
