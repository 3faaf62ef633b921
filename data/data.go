package data

import (
	"sync"
	"time"

	"github.com/gr-butler/weatherstation/aggregator"
	"github.com/gr-butler/weatherstation/channel"
)

// holder for the last completed reporting cycle, read by the web handler

type Outcome struct {
	Time  time.Time `json:"time"`
	OK    bool      `json:"ok"`
	Error string    `json:"error,omitempty"`
}

type Snapshot struct {
	Time      time.Time                    `json:"time"`
	Window    string                       `json:"window"`
	Tips      uint64                       `json:"rain_tips"`
	Rotations uint64                       `json:"wind_rotations"`
	Gust      float64                      `json:"wind_gust_ms"`
	Spread    aggregator.WindSpread        `json:"wind_spread_ms"`
	Values    map[channel.Quantity]float64 `json:"values"`
	Failures  []string                     `json:"sensor_failures,omitempty"`
	Published map[channel.Key]Outcome      `json:"published"`
	Cycles    uint64                       `json:"cycles"`

	// filled live by the web handler
	State   string `json:"scheduler_state,omitempty"`
	Minutes uint64 `json:"window_minutes"`
}

type Latest struct {
	lock sync.Mutex
	snap Snapshot
}

func NewLatest() *Latest {
	return &Latest{snap: Snapshot{
		Values:    map[channel.Quantity]float64{},
		Published: map[channel.Key]Outcome{},
	}}
}

// Record replaces the measurements with those of agg.
func (l *Latest) Record(agg aggregator.Aggregate) {
	l.lock.Lock()
	defer l.lock.Unlock()
	vals := make(map[channel.Quantity]float64, len(agg.Values))
	for q, v := range agg.Values {
		vals[q] = v
	}
	var fails []string
	for _, f := range agg.Failures {
		fails = append(fails, f.Error())
	}
	l.snap.Time = agg.Time
	l.snap.Window = agg.Elapsed.String()
	l.snap.Tips = agg.Tips
	l.snap.Rotations = agg.Rotations
	l.snap.Gust = agg.Gust
	l.snap.Spread = agg.Spread
	l.snap.Values = vals
	l.snap.Failures = fails
	l.snap.Cycles++
}

// Published notes the result of handing channel k's record over.
func (l *Latest) Published(k channel.Key, at time.Time, err error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	o := Outcome{Time: at, OK: err == nil}
	if err != nil {
		o.Error = err.Error()
	}
	l.snap.Published[k] = o
}

// Get returns a copy safe to use without the lock.
func (l *Latest) Get() Snapshot {
	l.lock.Lock()
	defer l.lock.Unlock()
	s := l.snap
	s.Values = make(map[channel.Quantity]float64, len(l.snap.Values))
	for q, v := range l.snap.Values {
		s.Values[q] = v
	}
	s.Published = make(map[channel.Key]Outcome, len(l.snap.Published))
	for k, o := range l.snap.Published {
		s.Published[k] = o
	}
	s.Failures = append([]string(nil), l.snap.Failures...)
	return s
}
