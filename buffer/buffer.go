package buffer

import (
	"math"
	"sync"
)

type Average float64
type Minimum float64
type Maximum float64
type Sum float64

// SampleBuffer is a fixed size ring of samples, safe for one writer and
// any number of readers.
type SampleBuffer struct {
	position int
	size     int
	count    int
	data     []float64
	lock     sync.Mutex
}

func NewBuffer(size int) *SampleBuffer {
	if size < 1 {
		size = 1
	}
	return &SampleBuffer{
		size: size,
		data: make([]float64, size),
	}
}

func (b *SampleBuffer) AddItem(val float64) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.data[b.position] = val
	b.position += 1
	if b.position == b.size {
		b.position = 0
	}
	if b.count < b.size {
		b.count++
	}
}

// Reset empties the buffer.
func (b *SampleBuffer) Reset() {
	b.lock.Lock()
	defer b.lock.Unlock()
	for i := range b.data {
		b.data[i] = 0
	}
	b.position = 0
	b.count = 0
}

// GetAverageMinMaxSum covers the samples held so far. An empty buffer
// returns zeros.
func (b *SampleBuffer) GetAverageMinMaxSum() (Average, Minimum, Maximum, Sum) {
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.count == 0 {
		return 0, 0, 0, 0
	}
	return b.summarise(b.count)
}

// MaxWindowSum is the largest sum of width consecutive samples held.
func (b *SampleBuffer) MaxWindowSum(width int) Sum {
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.count == 0 || width < 1 {
		return 0
	}
	if width > b.count {
		width = b.count
	}
	oldest := b.index(b.count)
	run := 0.0
	for i := 0; i < width; i++ {
		run += b.data[b.wrap(oldest+i)]
	}
	best := run
	for i := width; i < b.count; i++ {
		run += b.data[b.wrap(oldest+i)] - b.data[b.wrap(oldest+i-width)]
		if run > best {
			best = run
		}
	}
	return Sum(best)
}

// summarise the newest n samples, lock held.
func (b *SampleBuffer) summarise(n int) (Average, Minimum, Maximum, Sum) {
	min := math.MaxFloat64
	max := -math.MaxFloat64
	sum := 0.0
	index := b.index(n)
	for i := 0; i < n; i++ {
		x := b.data[b.wrap(index+i)]
		if x > max {
			max = x
		}
		if x < min {
			min = x
		}
		sum += x
	}
	return Average(sum / float64(n)), Minimum(min), Maximum(max), Sum(sum)
}

// index of the n-th newest sample
func (b *SampleBuffer) index(n int) int {
	return b.wrap(b.position - n)
}

func (b *SampleBuffer) wrap(i int) int {
	i %= b.size
	if i < 0 {
		i += b.size
	}
	return i
}
