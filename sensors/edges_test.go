package sensors

import (
	"context"
	"testing"
	"time"

	"github.com/gr-butler/weatherstation/pulse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeEdgesIntoCounter(t *testing.T) {
	wind := pulse.NewCounter(pulse.Wind, pulse.NewDebouncer(15*time.Millisecond))
	var src EdgeSource = &FakeEdges{Times: []time.Duration{
		0,
		5 * time.Millisecond, // bounce
		20 * time.Millisecond,
		40 * time.Millisecond,
		41 * time.Millisecond, // bounce
	}}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- src.Watch(ctx, wind) }()

	require.Eventually(t, func() bool { return src.(*FakeEdges).AcceptedCount() == 3 }, time.Second, time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	assert.Equal(t, uint64(3), wind.Drain())
	assert.Equal(t, uint64(2), wind.Rejected())
}
