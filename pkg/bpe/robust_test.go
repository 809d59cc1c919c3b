package bpe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistory_EvictsOldest(t *testing.T) {
	h := NewHistory(3)

	for i := 1; i <= 5; i++ {
		h.Push(float64(i))
	}

	assert.Equal(t, 3, h.Len())
	assert.Equal(t, []float64{3, 4, 5}, h.Values())
}

func TestHistory_Reset(t *testing.T) {
	h := NewHistory(3)
	h.Push(1)
	h.Reset()

	assert.Equal(t, 0, h.Len())
}

func TestRobustAverage_Empty(t *testing.T) {
	assert.Equal(t, 0.0, RobustAverage(nil))
}

func TestRobustAverage_SingleValue(t *testing.T) {
	assert.Equal(t, 120.0, RobustAverage([]float64{120}))
}

func TestRobustAverage_ExcludesOutlier(t *testing.T) {
	// A single wild value must not drag the average.
	// Plain mean here is 156.4; the filtered mean is 120.5.
	avg := RobustAverage([]float64{120, 121, 119, 122, 300})

	assert.InDelta(t, 120.5, avg, 2)
	assert.Less(t, avg, 156.4)
}

func TestRobustAverage_AllEqual(t *testing.T) {
	// MAD is 0: the 3*MAD window collapses onto the median.
	avg := RobustAverage([]float64{80, 80, 80, 80})

	assert.Equal(t, 80.0, avg)
}

func TestRobustAverage_NoOutliers(t *testing.T) {
	avg := RobustAverage([]float64{118, 120, 122})

	assert.InDelta(t, 120.0, avg, 1e-9)
}
