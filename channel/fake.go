package channel

import (
	"context"
	"sync"
)

// Sent is one record seen by FakeTransport.
type Sent struct {
	Channel Channel
	Record  Record
}

// FakeTransport records every Send. Fail, keyed by channel key, makes Send
// return that error instead.
type FakeTransport struct {
	mu     sync.Mutex
	Fail   map[Key]error
	sent   []Sent
	closed bool
}

func (f *FakeTransport) Send(_ context.Context, ch Channel, rec Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, Sent{Channel: ch, Record: rec})
	if err := f.Fail[ch.Key]; err != nil {
		return err
	}
	return nil
}

func (f *FakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *FakeTransport) Sent() []Sent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Sent, len(f.sent))
	copy(out, f.sent)
	return out
}

func (f *FakeTransport) SetFail(k Key, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Fail == nil {
		f.Fail = map[Key]error{}
	}
	f.Fail[k] = err
}

func (f *FakeTransport) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
