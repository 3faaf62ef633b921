package main

import (
	"time"

	"github.com/gr-butler/weatherstation/pulse"
	"github.com/gr-butler/weatherstation/sensors"

	logger "github.com/sirupsen/logrus"
)

/*
Measuring gusts and wind intensity

Because wind is an element that varies rapidly over very short periods of
time it is sampled at high frequency to capture the intensity of gusts. The
anemometer total is sampled on every scheduler tick; the window counter that
the report drains is left alone.

A better measure of the overall wind intensity is defined by the average speed
over the reporting window, which is what the report publishes.
*/

// startWindMonitor samples the wind counter on every tick for gust detection.
func (w *weatherstation) startWindMonitor(wind *pulse.Counter) *sensors.Anemometer {
	a := sensors.NewAnemometer(wind, w.cfg.MetresPerRotation, w.cfg.Tick, w.cfg.Interval())
	w.ticker.Every(1, a.Sample)
	return a
}

// startEdgeStats publishes the lifetime edge counts once a minute.
func (w *weatherstation) startEdgeStats(counters ...*pulse.Counter) {
	perMinute := int(time.Minute / w.cfg.Tick)
	w.ticker.Every(perMinute, func(uint64) {
		for _, c := range counters {
			Prom_edges.WithLabelValues(c.Name(), "accepted").Set(float64(c.Total()))
			Prom_edges.WithLabelValues(c.Name(), "rejected").Set(float64(c.Rejected()))
			logger.Debugf("%v: %d accepted, %d rejected", c.Name(), c.Total(), c.Rejected())
		}
	})
}
