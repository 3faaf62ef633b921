package sensors

import (
	"time"

	"github.com/gr-butler/weatherstation/buffer"
	"github.com/gr-butler/weatherstation/env"
)

// RotationSource is the running rotation total of the wind counter.
type RotationSource interface {
	Total() uint64
}

// Anemometer samples the rotation total every tick so the highest gust of the
// reporting window can be found. It never drains the wind counter.
type Anemometer struct {
	rotations  RotationSource
	metres     float64
	tick       time.Duration
	gustWindow int
	last       uint64
	started    bool
	perTick    *buffer.SampleBuffer
}

// NewAnemometer keeps enough samples to cover window at one sample per tick.
func NewAnemometer(r RotationSource, metresPerRotation float64, tick, window time.Duration) *Anemometer {
	size := int(window / tick)
	if size < 1 {
		size = 1
	}
	gw := int(time.Duration(env.GustSeconds) * time.Second / tick)
	if gw < 1 {
		gw = 1
	}
	return &Anemometer{
		rotations:  r,
		metres:     metresPerRotation,
		tick:       tick,
		gustWindow: gw,
		perTick:    buffer.NewBuffer(size),
	}
}

// Sample is run from the scheduler on every tick.
func (a *Anemometer) Sample(uint64) {
	total := a.rotations.Total()
	if !a.started {
		a.started = true
		a.last = total
	}
	a.perTick.AddItem(float64(total - a.last))
	a.last = total
}

// Gust is "the maximum three second average wind speed occurring in any
// period", in m/s, over the samples taken since the last Reset.
func (a *Anemometer) Gust() float64 {
	mx := a.perTick.MaxWindowSum(a.gustWindow)
	seconds := (time.Duration(a.gustWindow) * a.tick).Seconds()
	return float64(mx) * a.metres / seconds
}

// Spread is the mean, lowest and highest per-tick wind speed in m/s over the
// samples taken since the last Reset.
func (a *Anemometer) Spread() (mean, lull, peak float64) {
	avg, mn, mx, _ := a.perTick.GetAverageMinMaxSum()
	perSecond := a.metres / a.tick.Seconds()
	return float64(avg) * perSecond, float64(mn) * perSecond, float64(mx) * perSecond
}

func (a *Anemometer) Reset() {
	a.perTick.Reset()
}

// VaneDegrees converts the vane output to a compass bearing. The vane is a
// resistor ladder fed from vref so the table, measured at 5V, is scaled.
func VaneDegrees(volts, vref float64) float64 {
	v := volts * 5.0 / vref
	// this is based on the sensor datasheet that gives a list of voltages for each direction when set up according
	// to the circuit given. Have noticed the output isn't that accurate relative to the sensor direction...
	switch {
	case v < 0.365:
		return 112.5
	case v < 0.430:
		return 67.5
	case v < 0.535:
		return 90.0
	case v < 0.760:
		return 157.5
	case v < 1.045:
		return 135.0
	case v < 1.295:
		return 202.5
	case v < 1.690:
		return 180.0
	case v < 2.115:
		return 22.5
	case v < 2.590:
		return 45.0
	case v < 3.005:
		return 247.5
	case v < 3.225:
		return 225.0
	case v < 3.635:
		return 337.5
	case v < 3.940:
		return 0
	case v < 4.185:
		return 292.5
	case v < 4.475:
		return 315.0
	default:
		return 270.0
	}
}

/*
Measuring gusts and wind intensity

Because wind is an element that varies rapidly over very short periods of
time it is sampled at high frequency to capture the intensity of gusts, or
short-lived peaks in speed, which inflict greatest damage in storms. The gust
speed and direction are defined by the maximum three second average wind speed
occurring in any period.

https://www.ncbi.nlm.nih.gov/pmc/articles/PMC5948875/

The wind gust speed, Umax, is defined as a short-duration maximum of the horizontal
wind speed during a longer sampling period (T). Mathematically, it is expressed as
the maximum of the moving averages with a moving average window length equal to the
gust duration (tg). Traditionally in meteorological applications, the gusts are
measured and the wind forecasts issued using a gust duration tg =  3 s and a sample
length T =  10 min
*/
