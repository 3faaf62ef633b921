// Package channel maps station measurements onto the numbered fields of the
// telemetry channels and hands the result to a transport.
package channel

import (
	"sort"
	"strings"
)

// Quantity names one physical measurement the station produces.
type Quantity string

const (
	Temperature   Quantity = "temperature"
	Humidity      Quantity = "humidity"
	UVRaw         Quantity = "uv_raw"
	WindSpeed     Quantity = "wind_speed"
	WindDirection Quantity = "wind_direction"
	Rainfall      Quantity = "rainfall"
	Pressure      Quantity = "pressure"
	Light         Quantity = "light"
	DewPoint      Quantity = "dew_point"
	FrostPoint    Quantity = "frost_point"
	UVIndex       Quantity = "uv_index"
	Dust          Quantity = "dust"
	Radiation     Quantity = "radiation"
)

// Key identifies a channel within the schema.
type Key string

const (
	Environment Key = "environment"
	Derived     Key = "derived"
)

// Layout is the field index of each quantity on one channel. Indices are
// part of the receiving channel's configuration and must never be renumbered.
type Layout map[Quantity]int

// Schema lists the channels in publishing order.
type Schema struct {
	Keys    []Key
	Layouts map[Key]Layout
}

var DefaultSchema = Schema{
	Keys: []Key{Environment, Derived},
	Layouts: map[Key]Layout{
		Environment: {
			Temperature:   1,
			Humidity:      2,
			UVRaw:         3,
			WindSpeed:     4,
			WindDirection: 5,
			Rainfall:      6,
			Pressure:      7,
			Light:         8,
		},
		Derived: {
			DewPoint:   1,
			FrostPoint: 2,
			UVIndex:    3,
			Dust:       4,
			Radiation:  5,
		},
	},
}

// Map builds one record per channel from a set of measurements. Quantities
// missing from values are left out of the record.
func (s Schema) Map(values map[Quantity]float64) []Record {
	records := make([]Record, 0, len(s.Keys))
	for _, k := range s.Keys {
		r := Record{Channel: k, Fields: map[int]float64{}}
		for q, idx := range s.Layouts[k] {
			if v, ok := values[q]; ok {
				r.Fields[idx] = v
			}
		}
		records = append(records, r)
	}
	return records
}

// Quantities on channel k in field order.
func (s Schema) Quantities(k Key) []Quantity {
	l := s.Layouts[k]
	qs := make([]Quantity, 0, len(l))
	for q := range l {
		qs = append(qs, q)
	}
	sort.Slice(qs, func(i, j int) bool { return l[qs[i]] < l[qs[j]] })
	return qs
}

// Describe lists a record's values by quantity name in field order, for logs.
func (s Schema) Describe(rec Record) string {
	var parts []string
	for _, q := range s.Quantities(rec.Channel) {
		v, ok := rec.Fields[s.Layouts[rec.Channel][q]]
		if !ok {
			continue
		}
		parts = append(parts, string(q)+"="+FormatValue(v))
	}
	return strings.Join(parts, " ")
}
