package main

import (
	"context"
	"time"

	"github.com/gr-butler/weatherstation/sensors"
)

type flasher interface {
	Flash()
}

// tipFlasher shows each counted bucket tip on the rain LED. The count is
// taken first; the flash is handed off so the edge path never waits on it.
type tipFlasher struct {
	sink  sensors.EdgeSink
	led   flasher
	blink chan struct{}
}

func newTipFlasher(sink sensors.EdgeSink, l flasher) *tipFlasher {
	return &tipFlasher{sink: sink, led: l, blink: make(chan struct{}, 1)}
}

func (t *tipFlasher) OnEdge(now time.Duration) bool {
	if !t.sink.OnEdge(now) {
		return false
	}
	select {
	case t.blink <- struct{}{}:
	default:
		// a flash is already pending
	}
	return true
}

func (t *tipFlasher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.blink:
			t.led.Flash()
		}
	}
}
