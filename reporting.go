package main

import (
	"context"
	"time"

	"github.com/gr-butler/weatherstation/aggregator"
	"github.com/gr-butler/weatherstation/channel"
	"github.com/gr-butler/weatherstation/data"
	"github.com/gr-butler/weatherstation/env"
	"github.com/gr-butler/weatherstation/led"
	"github.com/gr-butler/weatherstation/scheduler"
	"github.com/jonboulle/clockwork"

	logger "github.com/sirupsen/logrus"
)

type weatherstation struct {
	cfg       env.Config
	agg       *aggregator.Aggregator
	ticker    *scheduler.Ticker
	publisher *channel.Publisher
	channels  map[channel.Key]channel.Channel
	status    led.Indicator
	latest    *data.Latest
	clock     clockwork.Clock
	testMode  bool
	overruns  uint64
}

// runLoop is the only goroutine that reports. It polls the scheduler on
// every poll tick and never waits on the due flag itself.
func (w *weatherstation) runLoop(ctx context.Context, poll <-chan time.Time) {
	logger.Info("Reporting started")
	for {
		select {
		case <-ctx.Done():
			logger.Info("Reporting stopped")
			return
		case <-poll:
			if w.ticker.PollAndClearDue() {
				w.report(ctx)
			}
		}
	}
}

// report runs one cycle: drain and read, then hand each channel's record
// over exactly once. A failed upload loses that record; the counters have
// already moved on to the next window.
func (w *weatherstation) report(ctx context.Context) {
	if n := w.ticker.Overruns(); n != w.overruns {
		logger.Warnf("Reporting fell behind, %d window(s) merged", n-w.overruns)
		w.overruns = n
		Prom_overruns.Set(float64(n))
	}

	now := w.clock.Now()
	logger.Info("Recording data")
	agg := w.agg.Build(now)
	w.latest.Record(agg)
	recordMetrics(agg)

	failed := false
	for _, rec := range w.agg.Records(agg) {
		if w.testMode {
			logger.Infof("TEST MODE %v: %v", rec.Channel, channel.DefaultSchema.Describe(rec))
			continue
		}
		err := w.publisher.Publish(ctx, w.channels[rec.Channel], rec)
		w.latest.Published(rec.Channel, now, err)
		if err != nil {
			failed = true
			Prom_publish.WithLabelValues(string(rec.Channel), "error").Inc()
			continue
		}
		Prom_publish.WithLabelValues(string(rec.Channel), "ok").Inc()
	}

	if failed {
		w.status.Flicker(3)
	} else {
		w.status.Flicker(1)
	}
}

func recordMetrics(agg aggregator.Aggregate) {
	for q, v := range agg.Values {
		if v == env.MissingValue {
			continue
		}
		Prom_value.WithLabelValues(string(q)).Set(v)
	}
	Prom_windgust.Set(agg.Gust)
	for _, f := range agg.Failures {
		Prom_sensorFailures.WithLabelValues(f.Sensor).Inc()
	}
}
