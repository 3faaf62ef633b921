package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gr-butler/weatherstation/aggregator"
	"github.com/gr-butler/weatherstation/channel"
	"github.com/gr-butler/weatherstation/data"
	"github.com/gr-butler/weatherstation/env"
	"github.com/gr-butler/weatherstation/led"
	"github.com/gr-butler/weatherstation/pulse"
	"github.com/gr-butler/weatherstation/scheduler"
	"github.com/gr-butler/weatherstation/sensors"
	"github.com/gr-butler/weatherstation/thingspeak"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	logger "github.com/sirupsen/logrus"
)

const version = "GRB-Weather-2.0.0"

var Prom_value = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "weather_value",
		Help: "Last reported value per quantity",
	},
	[]string{"quantity"},
)

var Prom_windgust = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "windgust",
		Help: "Highest 3 second wind speed m/s in the last window",
	},
)

var Prom_publish = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "weather_publish_total",
		Help: "Records handed to the transport, by channel and result",
	},
	[]string{"channel", "result"},
)

var Prom_sensorFailures = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "weather_sensor_failures_total",
		Help: "Sensor reads replaced by the last good value",
	},
	[]string{"sensor"},
)

var Prom_edges = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "weather_edges",
		Help: "Edges since start up by input, accepted or rejected by debounce",
	},
	[]string{"input", "result"},
)

var Prom_overruns = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "weather_report_overruns",
		Help: "Reporting windows that completed before the previous one was collected",
	},
)

// called by prometheus
func init() {
	prometheus.MustRegister(
		Prom_value,
		Prom_windgust,
		Prom_publish,
		Prom_sensorFailures,
		Prom_edges,
		Prom_overruns)
}

func main() {
	logger.Infof("Starting weather station [%v]", version)

	args := env.Args{
		Config:  flag.String("config", "", "yaml config file, environment overrides it"),
		Test:    flag.Bool("test", false, "test mode, records are logged and not sent"),
		Verbose: flag.Bool("verbose", false, "debug logging"),
		NoMCP:   flag.Bool("nomcp", false, "take temperature from the BME280 only"),
	}
	flag.Parse()

	if *args.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}
	if *args.Test {
		logger.Info("TEST MODE")
	}

	cfg, err := env.Load(*args.Config)
	if err != nil {
		logger.Fatalf("Bad configuration [%v]", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Infof("%v: Initialize sensors...", time.Now().Format(time.RFC822))
	s, err := sensors.Open(cfg, args)
	if err != nil {
		logger.Fatalf("Failed to initialise sensors!! [%v]", err)
	}
	defer s.Close()

	clock := clockwork.NewRealClock()
	debounce := pulse.NewDebouncer(cfg.Debounce)
	rain := pulse.NewCounter(pulse.Rain, debounce)
	wind := pulse.NewCounter(pulse.Wind, debounce)

	w := &weatherstation{
		cfg:      cfg,
		ticker:   scheduler.New(cfg.Tick, cfg.ReportMinutes),
		channels: channels(cfg),
		status:   led.NewLED("status", env.StatusLed),
		latest:   data.NewLatest(),
		clock:    clock,
		testMode: *args.Test,
	}
	gust := w.startWindMonitor(wind)
	w.startEdgeStats(rain, wind)
	w.agg = aggregator.New(cfg, rain, wind, aggregator.Inputs{
		Atm:   s.Atm,
		Light: s.Light,
		ADC:   s.ADC,
		Gust:  gust,
	}, clock)

	tips := newTipFlasher(rain, led.NewLED("rain", env.RainTipLed))
	go tips.run(ctx)
	if err := w.watch(ctx, cfg.RainPin, cfg.RainLine, tips); err != nil {
		logger.Fatalf("Rain gauge input [%v]", err)
	}
	if err := w.watch(ctx, cfg.WindPin, cfg.WindLine, wind); err != nil {
		logger.Fatalf("Anemometer input [%v]", err)
	}

	if !w.testMode {
		t, err := newTransport(cfg)
		if err != nil {
			logger.Fatalf("Failed to start %v transport [%v]", cfg.Transport, err)
		}
		w.publisher = channel.NewPublisher(t, 30*time.Second)
		defer w.publisher.Close()
	}

	go w.ticker.Run(ctx, clock)

	// start web service
	mux := http.NewServeMux()
	mux.HandleFunc("/", w.handler)
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: mux}
	go func() {
		logger.Infof("Starting webservice on [%v]", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("Webservice stopped [%v]", err)
		}
	}()

	poll := clock.NewTicker(cfg.Poll)
	w.runLoop(ctx, poll.Chan())
	poll.Stop()

	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdown)
	logger.Info("Exiting")
}

// channels pairs each schema key with its configured destination.
func channels(cfg env.Config) map[channel.Key]channel.Channel {
	return map[channel.Key]channel.Channel{
		channel.Environment: {Key: channel.Environment, ID: cfg.Channel1.ID, APIKey: cfg.Channel1.APIKey},
		channel.Derived:     {Key: channel.Derived, ID: cfg.Channel2.ID, APIKey: cfg.Channel2.APIKey},
	}
}

func newTransport(cfg env.Config) (channel.Transport, error) {
	switch cfg.Transport {
	case "mqtt":
		return thingspeak.NewMQTT(cfg.MQTTBroker, cfg.MQTTClientID, cfg.MQTTUser, cfg.MQTTPassword)
	case "http":
		return thingspeak.NewHTTP(cfg.ThingSpeakURL), nil
	default:
		return nil, fmt.Errorf("unknown transport %q", cfg.Transport)
	}
}

// watch starts delivering edges from one reed switch input to sink.
func (w *weatherstation) watch(ctx context.Context, pin string, line int, sink sensors.EdgeSink) error {
	var src sensors.EdgeSource
	if w.cfg.GPIODrv == "cdev" {
		src = sensors.NewCdevEdges(w.cfg.GPIOChip, line)
	} else {
		p, err := sensors.NewPeriphEdges(pin, w.clock)
		if err != nil {
			return err
		}
		src = p
	}
	go func() {
		if err := src.Watch(ctx, sink); err != nil {
			logger.Errorf("Edge watch on %v stopped [%v]", pin, err)
		}
	}()
	return nil
}

func (w *weatherstation) handler(rw http.ResponseWriter, r *http.Request) {
	rw.Header().Set("Content-Type", "application/json")
	snap := w.latest.Get()
	snap.State = w.ticker.State().String()
	snap.Minutes = w.ticker.Minutes()
	js, err := json.Marshal(snap)
	if err != nil {
		logger.Errorf("JSON error [%v]", err)
		http.Error(rw, err.Error(), http.StatusInternalServerError)
		return
	}
	logger.Debugf("Web read: \n[%v]", string(js))
	_, _ = rw.Write(js) // not much we can do if this fails
}
