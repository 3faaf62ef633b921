package led

import "sync"

// Fake records flicker requests.
type Fake struct {
	mu    sync.Mutex
	calls []int
}

func (f *Fake) Flicker(pulses int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, pulses)
}

func (f *Fake) Calls() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int, len(f.calls))
	copy(out, f.calls)
	return out
}
