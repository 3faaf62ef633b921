package main

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gr-butler/weatherstation/pulse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countFlash struct{ n atomic.Int32 }

func (c *countFlash) Flash() { c.n.Add(1) }

func Test_tipFlasher(t *testing.T) {
	rain := pulse.NewCounter(pulse.Rain, pulse.NewDebouncer(15*time.Millisecond))
	l := &countFlash{}
	tf := newTipFlasher(rain, l)

	assert.True(t, tf.OnEdge(time.Second))
	// contact bounce is not a tip and does not flash
	assert.False(t, tf.OnEdge(time.Second+time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go tf.run(ctx)

	require.Eventually(t, func() bool { return l.n.Load() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, uint64(1), rain.Drain())
}

func Test_tipFlasherNeverBlocks(t *testing.T) {
	rain := pulse.NewCounter(pulse.Rain, pulse.NewDebouncer(0))
	tf := newTipFlasher(rain, &countFlash{})
	// nobody is flashing, the edge path must still not block
	for i := 0; i < 10; i++ {
		tf.OnEdge(time.Duration(i) * time.Second)
	}
	assert.Equal(t, uint64(10), rain.Total())
}
