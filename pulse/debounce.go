package pulse

import (
	"math"
	"sync/atomic"
	"time"
)

// InputID identifies a monitored switch input.
type InputID int

const (
	Rain InputID = iota
	Wind
	numInputs
)

// never marks an input that has not yet accepted an edge.
const never = math.MinInt64

// Debouncer suppresses switch bounce. It is safe to call Accept from any
// number of edge goroutines; it never blocks or allocates.
type Debouncer struct {
	minContact   time.Duration
	lastAccepted [numInputs]atomic.Int64
	rejected     [numInputs]atomic.Uint64
}

func NewDebouncer(minContact time.Duration) *Debouncer {
	d := &Debouncer{minContact: minContact}
	for i := range d.lastAccepted {
		d.lastAccepted[i].Store(never)
	}
	return d
}

// Accept reports whether an edge seen at now (monotonic, arbitrary origin)
// is a new contact rather than bounce from the previous one.
func (d *Debouncer) Accept(input InputID, now time.Duration) bool {
	if input < 0 || input >= numInputs {
		return false
	}
	last := &d.lastAccepted[input]
	for {
		prev := last.Load()
		if prev != never && time.Duration(int64(now)-prev) < d.minContact {
			d.rejected[input].Add(1)
			return false
		}
		if last.CompareAndSwap(prev, int64(now)) {
			return true
		}
	}
}

// Rejected is the number of edges suppressed on input since start up.
func (d *Debouncer) Rejected(input InputID) uint64 {
	if input < 0 || input >= numInputs {
		return 0
	}
	return d.rejected[input].Load()
}

func (i InputID) String() string {
	switch i {
	case Rain:
		return "rain"
	case Wind:
		return "wind"
	}
	return "unknown"
}
