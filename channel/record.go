package channel

import (
	"math"
	"sort"
	"strconv"
	"time"
)

// Record is one upload to one channel: field index to value.
type Record struct {
	Channel Key
	Time    time.Time
	Fields  map[int]float64
}

// Indices returns the populated field indices in ascending order.
func (r Record) Indices() []int {
	idx := make([]int, 0, len(r.Fields))
	for i := range r.Fields {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx
}

// FieldName is the upload key for field index i, e.g. "field3".
func FieldName(i int) string {
	return "field" + strconv.Itoa(i)
}

// FormatValue writes whole numbers without a decimal point and everything
// else with at most three decimals.
func FormatValue(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}
