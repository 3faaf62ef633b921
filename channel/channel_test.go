package channel

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSchemaFieldIndices(t *testing.T) {
	env := DefaultSchema.Layouts[Environment]
	assert.Equal(t, 1, env[Temperature])
	assert.Equal(t, 2, env[Humidity])
	assert.Equal(t, 3, env[UVRaw])
	assert.Equal(t, 4, env[WindSpeed])
	assert.Equal(t, 5, env[WindDirection])
	assert.Equal(t, 6, env[Rainfall])
	assert.Equal(t, 7, env[Pressure])
	assert.Equal(t, 8, env[Light])

	der := DefaultSchema.Layouts[Derived]
	assert.Equal(t, 1, der[DewPoint])
	assert.Equal(t, 2, der[FrostPoint])
	assert.Equal(t, 3, der[UVIndex])
	assert.Equal(t, 4, der[Dust])
	assert.Equal(t, 5, der[Radiation])
}

func TestSchemaIndicesUniquePerChannel(t *testing.T) {
	for k, l := range DefaultSchema.Layouts {
		seen := map[int]Quantity{}
		for q, i := range l {
			prev, dup := seen[i]
			assert.False(t, dup, "%v field %d used by %v and %v", k, i, prev, q)
			seen[i] = q
		}
	}
}

func TestMap(t *testing.T) {
	recs := DefaultSchema.Map(map[Quantity]float64{
		Rainfall:  0.7,
		WindSpeed: 2,
		DewPoint:  12,
	})
	require.Len(t, recs, 2)
	assert.Equal(t, Environment, recs[0].Channel)
	assert.Equal(t, map[int]float64{4: 2, 6: 0.7}, recs[0].Fields)
	assert.Equal(t, []int{4, 6}, recs[0].Indices())
	assert.Equal(t, Derived, recs[1].Channel)
	assert.Equal(t, map[int]float64{1: 12}, recs[1].Fields)
}

func TestQuantitiesInFieldOrder(t *testing.T) {
	assert.Equal(t,
		[]Quantity{DewPoint, FrostPoint, UVIndex, Dust, Radiation},
		DefaultSchema.Quantities(Derived))
}

func TestDescribe(t *testing.T) {
	rec := Record{Channel: Environment, Fields: map[int]float64{6: 0.7, 1: 12.5, 4: 2}}
	assert.Equal(t, "temperature=12.5 wind_speed=2 rainfall=0.7", DefaultSchema.Describe(rec))
	assert.Equal(t, "", DefaultSchema.Describe(Record{Channel: Derived}))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "0", FormatValue(0))
	assert.Equal(t, "-9999", FormatValue(-9999))
	assert.Equal(t, "0.7", FormatValue(0.7000000000000001))
	assert.Equal(t, "12.346", FormatValue(12.3456))
	assert.Equal(t, "field8", FieldName(8))
}

func TestPublishOnce(t *testing.T) {
	ft := &FakeTransport{}
	p := NewPublisher(ft, time.Second)
	ch := Channel{Key: Environment, ID: "123", APIKey: "KEY"}
	rec := Record{Channel: Environment, Fields: map[int]float64{6: 0.7}}

	require.NoError(t, p.Publish(context.Background(), ch, rec))
	sent := ft.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, ch, sent[0].Channel)
	assert.Equal(t, rec.Fields, sent[0].Record.Fields)
}

func TestPublishFailureIsPublishError(t *testing.T) {
	boom := errors.New("network down")
	ft := &FakeTransport{}
	ft.SetFail(Derived, boom)
	p := NewPublisher(ft, 0)

	err := p.Publish(context.Background(),
		Channel{Key: Derived, ID: "1", APIKey: "K"},
		Record{Channel: Derived, Fields: map[int]float64{1: 3}})

	var pe *PublishError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, Derived, pe.Channel)
	assert.ErrorIs(t, err, boom)
	// attempted exactly once, no retry
	assert.Len(t, ft.Sent(), 1)
}

func TestPublishUnconfiguredChannel(t *testing.T) {
	ft := &FakeTransport{}
	p := NewPublisher(ft, 0)
	err := p.Publish(context.Background(), Channel{Key: Environment},
		Record{Fields: map[int]float64{1: 1}})
	var pe *PublishError
	require.ErrorAs(t, err, &pe)
	assert.Empty(t, ft.Sent())
}

func TestPublisherClose(t *testing.T) {
	ft := &FakeTransport{}
	require.NoError(t, NewPublisher(ft, 0).Close())
	assert.True(t, ft.Closed())
}
