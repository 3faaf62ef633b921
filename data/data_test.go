package data

import (
	"errors"
	"testing"
	"time"

	"github.com/gr-butler/weatherstation/aggregator"
	"github.com/gr-butler/weatherstation/channel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatest(t *testing.T) {
	l := NewLatest()
	now := time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC)
	l.Record(aggregator.Aggregate{
		Time:     now,
		Elapsed:  15 * time.Minute,
		Tips:     7,
		Spread:   aggregator.WindSpread{Mean: 1, Lull: 0.5, Peak: 3},
		Values:   map[channel.Quantity]float64{channel.Rainfall: 0.7},
		Failures: []*aggregator.SensorReadError{{Sensor: "light", Err: errors.New("nack")}},
	})
	l.Published(channel.Environment, now, nil)
	l.Published(channel.Derived, now, errors.New("timeout"))

	s := l.Get()
	assert.Equal(t, uint64(1), s.Cycles)
	assert.Equal(t, "15m0s", s.Window)
	assert.Equal(t, 3.0, s.Spread.Peak)
	assert.Equal(t, 0.7, s.Values[channel.Rainfall])
	require.Len(t, s.Failures, 1)
	assert.Contains(t, s.Failures[0], "light")
	assert.True(t, s.Published[channel.Environment].OK)
	assert.False(t, s.Published[channel.Derived].OK)
	assert.Equal(t, "timeout", s.Published[channel.Derived].Error)

	// the copy is detached from the holder
	s.Values[channel.Rainfall] = 99
	assert.Equal(t, 0.7, l.Get().Values[channel.Rainfall])
}
