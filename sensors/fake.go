package sensors

import (
	"context"
	"sync"
	"time"
)

// FakeAtmosphere is a test double returning fixed values.
type FakeAtmosphere struct {
	TempC    float64
	RH       float64
	HPa      float64
	TempErr  error
	HumPrErr error
}

func (f *FakeAtmosphere) Temperature() (TemperatureC, error) {
	if f.TempErr != nil {
		return 0, f.TempErr
	}
	return TemperatureC(f.TempC), nil
}

func (f *FakeAtmosphere) HumidityAndPressure() (PressurehPa, RelHumidity, error) {
	if f.HumPrErr != nil {
		return 0, 0, f.HumPrErr
	}
	return PressurehPa(f.HPa), RelHumidity(f.RH), nil
}

// FakeLight is a test double for the light meter.
type FakeLight struct {
	Value float64
	Err   error
}

func (f *FakeLight) Lux() (float64, error) {
	return f.Value, f.Err
}

// FakeAnalog returns scripted counts per channel.
type FakeAnalog struct {
	Raw  map[int]int
	Errs map[int]error
}

func (f *FakeAnalog) ReadRaw(channel int) (int, error) {
	if err := f.Errs[channel]; err != nil {
		return 0, err
	}
	return f.Raw[channel], nil
}

// FakeEdges delivers scripted edge times when Watch is called, then blocks
// until ctx is done.
type FakeEdges struct {
	Times    []time.Duration
	mu       sync.Mutex
	Accepted int
}

func (f *FakeEdges) Watch(ctx context.Context, sink EdgeSink) error {
	for _, t := range f.Times {
		if sink.OnEdge(t) {
			f.mu.Lock()
			f.Accepted++
			f.mu.Unlock()
		}
	}
	<-ctx.Done()
	return nil
}

func (f *FakeEdges) AcceptedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Accepted
}
