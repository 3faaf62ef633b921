// Package aggregator turns the drained counters and one round of sensor reads
// into the per-channel records of a reporting cycle.
package aggregator

import (
	"fmt"
	"time"

	"github.com/gr-butler/weatherstation/channel"
	"github.com/gr-butler/weatherstation/env"
	"github.com/gr-butler/weatherstation/sensors"
	"github.com/jonboulle/clockwork"
	logger "github.com/sirupsen/logrus"
)

// Drainer is the window side of a pulse counter.
type Drainer interface {
	Drain() uint64
}

// GustMeter reports the highest gust since its last reset.
type GustMeter interface {
	Gust() float64
	Reset()
}

// WindSpreader is optionally implemented by a GustMeter that also keeps the
// spread of its samples.
type WindSpreader interface {
	Spread() (mean, lull, peak float64)
}

// WindSpread is the per-tick wind speed summary of a window, in m/s.
type WindSpread struct {
	Mean float64 `json:"mean"`
	Lull float64 `json:"lull"`
	Peak float64 `json:"peak"`
}

// Inputs are the devices read once per cycle. Gust may be nil.
type Inputs struct {
	Atm   sensors.Atmosphere
	Light sensors.LightMeter
	ADC   sensors.Analog
	Gust  GustMeter
}

// SensorReadError is one failed read, recovered by substitution.
type SensorReadError struct {
	Sensor string
	Err    error
}

func (e *SensorReadError) Error() string {
	return fmt.Sprintf("read %v: %v", e.Sensor, e.Err)
}

func (e *SensorReadError) Unwrap() error {
	return e.Err
}

// Aggregate is everything measured for one reporting window.
type Aggregate struct {
	Time      time.Time
	Elapsed   time.Duration
	Tips      uint64
	Rotations uint64
	Gust      float64
	Spread    WindSpread
	Values    map[channel.Quantity]float64
	Failures  []*SensorReadError
}

// Aggregator is owned by the reactor goroutine; Build must not be called
// concurrently.
type Aggregator struct {
	cfg       env.Config
	rain      Drainer
	wind      Drainer
	in        Inputs
	schema    channel.Schema
	maxRaw    int
	lastGood  map[channel.Quantity]float64
	lastDrain time.Time
}

// New starts the first window at the clock's current time.
func New(cfg env.Config, rain, wind Drainer, in Inputs, clock clockwork.Clock) *Aggregator {
	return &Aggregator{
		cfg:       cfg,
		rain:      rain,
		wind:      wind,
		in:        in,
		schema:    channel.DefaultSchema,
		maxRaw:    1<<cfg.AdcBits - 1,
		lastGood:  map[channel.Quantity]float64{},
		lastDrain: clock.Now(),
	}
}

// Build drains both counters and reads every sensor. It always produces a
// complete set of values; failed reads are substituted and listed.
func (a *Aggregator) Build(now time.Time) Aggregate {
	tips := a.rain.Drain()
	rotations := a.wind.Drain()

	elapsed := now.Sub(a.lastDrain)
	a.lastDrain = now
	if elapsed <= 0 {
		elapsed = a.cfg.Interval()
	}

	agg := Aggregate{
		Time:      now,
		Elapsed:   elapsed,
		Tips:      tips,
		Rotations: rotations,
		Values:    map[channel.Quantity]float64{},
	}
	v := agg.Values

	v[channel.Rainfall] = float64(tips) * a.cfg.MmPerTip
	v[channel.WindSpeed] = float64(rotations) * a.cfg.MetresPerRotation / elapsed.Seconds()

	t, err := a.in.Atm.Temperature()
	agg.check("temperature", err)
	a.put(v, channel.Temperature, t.Float64(), err)

	p, h, err := a.in.Atm.HumidityAndPressure()
	agg.check("humidity/pressure", err)
	a.put(v, channel.Humidity, h.Float64(), err)
	a.put(v, channel.Pressure, p.Float64(), err)

	lux, err := a.in.Light.Lux()
	agg.check("light", err)
	a.put(v, channel.Light, lux, err)

	uv, err := a.in.ADC.ReadRaw(env.UVChannel)
	agg.check("uv", err)
	a.put(v, channel.UVRaw, float64(uv), err)

	vane, err := a.in.ADC.ReadRaw(env.VaneChannel)
	agg.check("vane", err)
	a.put(v, channel.WindDirection, sensors.VaneDegrees(a.volts(vane), a.cfg.VRef), err)

	dust, err := a.in.ADC.ReadRaw(env.DustChannel)
	agg.check("dust", err)
	a.put(v, channel.Dust, sensors.DustDensity(a.volts(dust)), err)

	rad, err := a.in.ADC.ReadRaw(env.RadiationChannel)
	agg.check("radiation", err)
	a.put(v, channel.Radiation, sensors.Radiation(a.volts(rad), env.MicroSievertPerVolt), err)

	temp, rh := v[channel.Temperature], v[channel.Humidity]
	if missing(temp) || missing(rh) {
		v[channel.DewPoint] = env.MissingValue
		v[channel.FrostPoint] = env.MissingValue
	} else {
		v[channel.DewPoint] = sensors.DewPoint(temp, rh)
		v[channel.FrostPoint] = sensors.FrostPoint(temp, rh)
	}
	if raw := v[channel.UVRaw]; missing(raw) {
		v[channel.UVIndex] = env.MissingValue
	} else {
		v[channel.UVIndex] = float64(sensors.UVIndex(sensors.RawToVolts(int(raw), a.cfg.VRef, a.maxRaw)))
	}

	if a.in.Gust != nil {
		agg.Gust = a.in.Gust.Gust()
		if ws, ok := a.in.Gust.(WindSpreader); ok {
			agg.Spread.Mean, agg.Spread.Lull, agg.Spread.Peak = ws.Spread()
		}
		a.in.Gust.Reset()
	}

	for _, f := range agg.Failures {
		logger.Errorf("Sensor read failed, substituting [%v]", f)
	}
	logger.Debugf("Window %v: %d tips, %d rotations", elapsed, tips, rotations)
	return agg
}

// BuildRecords is Build mapped through the channel schema.
func (a *Aggregator) BuildRecords(now time.Time) []channel.Record {
	return a.Records(a.Build(now))
}

// Records maps an aggregate onto one record per channel.
func (a *Aggregator) Records(agg Aggregate) []channel.Record {
	recs := a.schema.Map(agg.Values)
	for i := range recs {
		recs[i].Time = agg.Time
	}
	return recs
}

func (agg *Aggregate) check(sensor string, err error) {
	if err != nil {
		agg.Failures = append(agg.Failures, &SensorReadError{Sensor: sensor, Err: err})
	}
}

// put stores val for q, or if the read failed the last good value for q,
// or the missing sentinel when there has never been one.
func (a *Aggregator) put(v map[channel.Quantity]float64, q channel.Quantity, val float64, err error) {
	if err != nil {
		v[q] = a.fallback(q)
		return
	}
	a.lastGood[q] = val
	v[q] = val
}

func (a *Aggregator) fallback(q channel.Quantity) float64 {
	if v, ok := a.lastGood[q]; ok {
		return v
	}
	return env.MissingValue
}

func (a *Aggregator) volts(raw int) float64 {
	return sensors.RawToVolts(raw, a.cfg.VRef, a.maxRaw)
}

func missing(v float64) bool {
	return v == env.MissingValue
}
