package bpe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// asymBeat builds one beat sampled at 30 Hz from the asymmetric basis
// with the given split, peak-first like a segmented beat.
func asymBeat(ibiMs float64, systoleRatio, diastoleRatio float64) (values []float64, times []int64) {
	n := int(ibiMs / 33)
	for i := 0; i <= n; i++ {
		tm := float64(i) * 33
		values = append(values, 10+8*AsymmetricBasis(tm, ibiMs, systoleRatio, diastoleRatio))
		times = append(times, int64(tm))
	}
	return values, times
}

func TestEstimateSplit_RecoversLateTrough(t *testing.T) {
	values, times := asymBeat(900, 0.3, 0.7)

	sys, dia := EstimateSplit(values, times, 900)

	assert.InDelta(t, 0.7, dia, 0.12, "trough position should track the diastole ratio")
	assert.InDelta(t, 1.0, sys+dia, 1e-9)
}

func TestEstimateSplit_DefaultOnShortBeat(t *testing.T) {
	sys, dia := EstimateSplit([]float64{1, 2}, []int64{0, 33}, 66)

	assert.Equal(t, DefaultSystoleRatio, sys)
	assert.Equal(t, DefaultDiastoleRatio, dia)
}

func TestEstimateSplit_DefaultOnFlatBeat(t *testing.T) {
	values := make([]float64, 24)
	times := make([]int64, 24)
	for i := range values {
		values[i] = 5
		times[i] = int64(i * 33)
	}

	sys, dia := EstimateSplit(values, times, 792)

	// Flat beat: the trough collapses onto the peak, leaving an
	// implausible split.
	assert.Equal(t, DefaultSystoleRatio, sys)
	assert.Equal(t, DefaultDiastoleRatio, dia)
}

func TestEstimateSplit_DefaultOnZeroIBI(t *testing.T) {
	values, times := asymBeat(900, 0.3, 0.7)

	sys, dia := EstimateSplit(values, times, 0)

	assert.Equal(t, DefaultSystoleRatio, sys)
	assert.Equal(t, DefaultDiastoleRatio, dia)
}
