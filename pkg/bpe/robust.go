package bpe

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// DefaultHistorySize is the default number of accepted estimates the
// robust average is computed over.
const DefaultHistorySize = 10

// History is a bounded FIFO of accepted estimate values. Pushing beyond
// capacity evicts the oldest value.
type History struct {
	vals []float64
	max  int
}

// NewHistory creates a history with the given capacity.
// If capacity is <= 0, DefaultHistorySize (10) is used.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}
	return &History{vals: make([]float64, 0, capacity), max: capacity}
}

// Push appends a value, evicting the oldest if at capacity.
func (h *History) Push(v float64) {
	if len(h.vals) == h.max {
		copy(h.vals, h.vals[1:])
		h.vals = h.vals[:len(h.vals)-1]
	}
	h.vals = append(h.vals, v)
}

// Len returns the number of retained values.
func (h *History) Len() int {
	return len(h.vals)
}

// Values returns the retained values, oldest first. The returned slice
// aliases internal storage and must not be mutated.
func (h *History) Values() []float64 {
	return h.vals
}

// Reset discards all retained values.
func (h *History) Reset() {
	h.vals = h.vals[:0]
}

// RobustAverage computes a Hampel-style outlier-filtered mean of values:
// the median and the median absolute deviation (MAD) are taken, and only
// values within 3*MAD of the median contribute to the mean. If the
// filtered subset is empty the median is returned. Returns 0 for empty
// input.
//
// The filter is applied per call, not maintained incrementally;
// O(n log n) on the small history windows it is used for.
func RobustAverage(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)
	median := sorted[n/2]

	deviations := make([]float64, n)
	for i, v := range sorted {
		deviations[i] = math.Abs(v - median)
	}
	sort.Float64s(deviations)
	mad := deviations[n/2]
	threshold := 3 * mad

	filtered := make([]float64, 0, n)
	for _, v := range sorted {
		if math.Abs(v-median) <= threshold {
			filtered = append(filtered, v)
		}
	}
	if len(filtered) == 0 {
		return median
	}
	return stat.Mean(filtered, nil)
}
