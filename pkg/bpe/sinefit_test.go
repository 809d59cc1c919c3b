package bpe

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func synthSine(n int, mean, amplitude, phase float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = mean + amplitude*math.Sin(2*math.Pi*float64(i)/float64(n)+phase)
	}
	return out
}

func TestFitSymmetric_RecoversAmplitude(t *testing.T) {
	values := synthSine(64, 50, 8, 0)

	fit := FitSymmetric(values)

	// Amplitude must come back within 5% on a clean sinusoid.
	assert.InEpsilon(t, 8.0, fit.Amplitude, 0.05)
	assert.InDelta(t, 50.0, fit.Mean, 1e-9)
}

func TestFitSymmetric_RecoversPhase(t *testing.T) {
	for _, phase := range []float64{0, math.Pi / 3, math.Pi, 3 * math.Pi / 2} {
		values := synthSine(64, 10, 5, phase)

		fit := FitSymmetric(values)

		require.Greater(t, fit.Amplitude, 0.0)
		assert.InDelta(t, phase, fit.Phase, 0.05, "phase %.3f", phase)
		assert.GreaterOrEqual(t, fit.Phase, 0.0)
		assert.Less(t, fit.Phase, 2*math.Pi)
	}
}

func TestFitSymmetric_FlatSignalIsDegenerate(t *testing.T) {
	values := make([]float64, 64)
	for i := range values {
		values[i] = 42
	}

	fit := FitSymmetric(values)

	assert.Equal(t, 0.0, fit.Amplitude, "flat beat must be marked degenerate")
	assert.Equal(t, 0.0, fit.Phase)
	assert.Equal(t, 42.0, fit.Mean)
}

func TestFitSymmetricDC_MatchesSymmetricOnFundamental(t *testing.T) {
	// With a pure fundamental plus DC, removing the mean first must not
	// change the recovered amplitude.
	values := synthSine(64, 100, 4, 1.1)

	plain := FitSymmetric(values)
	dc := FitSymmetricDC(values)

	assert.InDelta(t, plain.Amplitude, dc.Amplitude, 1e-9)
	assert.InDelta(t, plain.Phase, dc.Phase, 1e-9)
	assert.InDelta(t, 100.0, dc.Mean, 1e-9)
}

func TestAsymmetricBasis_Shape(t *testing.T) {
	const period = 900.0

	// Peak at t=0, trough at diastoleRatio*period, peak again at period.
	assert.InDelta(t, 1.0, AsymmetricBasis(0, period, DefaultSystoleRatio, DefaultDiastoleRatio), 1e-9)
	assert.InDelta(t, 0.0, AsymmetricBasis(DefaultDiastoleRatio*period, period, DefaultSystoleRatio, DefaultDiastoleRatio), 1e-9)
	assert.InDelta(t, 1.0, AsymmetricBasis(period, period, DefaultSystoleRatio, DefaultDiastoleRatio), 1e-9)

	for tm := 0.0; tm < period; tm += 10 {
		v := AsymmetricBasis(tm, period, DefaultSystoleRatio, DefaultDiastoleRatio)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestAsymmetricBasis_SplitMovesTrough(t *testing.T) {
	const period = 800.0

	// With a late trough (diastoleRatio 0.8) the falling edge is slower
	// than the rise back.
	fall := AsymmetricBasis(0.4*period, period, 0.2, 0.8)
	assert.Greater(t, fall, 0.0, "mid-fall still above trough with a late split")
	assert.InDelta(t, 0.0, AsymmetricBasis(0.8*period, period, 0.2, 0.8), 1e-9)
}

func TestDistortionSymmetric_ZeroOnPerfectFit(t *testing.T) {
	values := synthSine(64, 20, 6, 0.7)
	fit := FitSymmetric(values)

	e := DistortionSymmetric(values, fit.Mean, fit.Amplitude, fit.Phase)

	assert.InDelta(t, 0.0, e, 0.05)
}

func TestDistortionSymmetric_GrowsWithNoise(t *testing.T) {
	clean := synthSine(64, 20, 6, 0)
	fit := FitSymmetric(clean)
	base := DistortionSymmetric(clean, fit.Mean, fit.Amplitude, fit.Phase)

	noisy := make([]float64, len(clean))
	copy(noisy, clean)
	for i := 0; i < len(noisy); i += 4 {
		noisy[i] += 3
	}

	e := DistortionSymmetric(noisy, fit.Mean, fit.Amplitude, fit.Phase)
	assert.Greater(t, e, base)
}

func TestDistortionAsymmetric_ZeroOnBasisShape(t *testing.T) {
	const (
		n      = 64
		period = 900.0
	)
	values := make([]float64, n)
	for i := range values {
		tm := float64(i) * period / n
		values[i] = 30 + 5*AsymmetricBasis(tm, period, DefaultSystoleRatio, DefaultDiastoleRatio)
	}

	e := DistortionAsymmetric(values, 30, 5, period, DefaultSystoleRatio, DefaultDiastoleRatio)

	assert.InDelta(t, 0.0, e, 1e-9)
}
