package sensors

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeTotal struct{ n uint64 }

func (f *fakeTotal) Total() uint64 { return f.n }

func Test_anemometer_Gust(t *testing.T) {
	rot := &fakeTotal{n: 500} // rotations before the window started do not count
	a := NewAnemometer(rot, 1.0, time.Second, time.Minute)

	require.Equal(t, float64(0), a.Gust())

	// steady 2 rotations a second, then one 3 second burst of 5 a second
	per := []uint64{2, 2, 2, 2, 5, 5, 5, 2, 2}
	a.Sample(0)
	for _, p := range per {
		rot.n += p
		a.Sample(0)
	}

	require.InDelta(t, 5.0, a.Gust(), 1e-9)

	a.Reset()
	require.Equal(t, float64(0), a.Gust())

	rot.n += 3
	a.Sample(0)
	// one sample of 3 rotations averaged over the 3 second gust window
	require.InDelta(t, 1.0, a.Gust(), 1e-9)
}

func Test_anemometer_SubSecondTick(t *testing.T) {
	rot := &fakeTotal{}
	a := NewAnemometer(rot, 2.0, 250*time.Millisecond, time.Minute)
	a.Sample(0)
	for i := 0; i < 12; i++ {
		rot.n++
		a.Sample(0)
	}
	// 4 rotations a second of 2m each
	require.InDelta(t, 8.0, a.Gust(), 1e-9)
}

func Test_anemometer_Spread(t *testing.T) {
	rot := &fakeTotal{}
	a := NewAnemometer(rot, 0.5, time.Second, time.Minute)
	a.Sample(0)
	_, _, first := a.Spread()
	require.Equal(t, float64(0), first)

	a.Reset()
	for _, p := range []uint64{2, 4, 6} {
		rot.n += p
		a.Sample(0)
	}
	mean, lull, peak := a.Spread()
	require.InDelta(t, 2.0, mean, 1e-9)
	require.InDelta(t, 1.0, lull, 1e-9)
	require.InDelta(t, 3.0, peak, 1e-9)
}
