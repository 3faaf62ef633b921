package sensors

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	logger "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// EdgeSink receives switch closures. now is monotonic with an arbitrary
// origin and only differences between edges are meaningful.
type EdgeSink interface {
	OnEdge(now time.Duration) bool
}

// EdgeSource feeds edges from one input to a sink until ctx is done.
type EdgeSource interface {
	Watch(ctx context.Context, sink EdgeSink) error
}

// PeriphEdges waits for falling edges on a reed switch input.
type PeriphEdges struct {
	pin   gpio.PinIO
	clock clockwork.Clock
	start time.Time
}

func NewPeriphEdges(name string, clock clockwork.Clock) (*PeriphEdges, error) {
	// Lookup a pin by its number:
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("failed to find pin %v", name)
	}
	logger.Infof("%s: %s", p, p.Function())

	if err := p.In(gpio.PullUp, gpio.FallingEdge); err != nil {
		return nil, fmt.Errorf("set edge detect on %v: %w", name, err)
	}
	return &PeriphEdges{pin: p, clock: clock, start: clock.Now()}, nil
}

func (e *PeriphEdges) Watch(ctx context.Context, sink EdgeSink) error {
	logger.Infof("Watching %v for edges", e.pin)
	defer func() { _ = e.pin.Halt() }()
	for ctx.Err() == nil {
		// wake up once a second so we notice shutdown
		if !e.pin.WaitForEdge(time.Second) {
			continue
		}
		now := e.clock.Since(e.start)
		if e.pin.Read() == gpio.Low {
			sink.OnEdge(now)
		}
	}
	return nil
}
