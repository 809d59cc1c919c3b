package bpe

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// SineFit holds the parameters recovered from a single-beat waveform fit.
// A zero Amplitude marks a degenerate fit: the beat carried no usable
// fundamental component and downstream estimation is skipped.
type SineFit struct {
	// Amplitude of the fundamental component.
	Amplitude float64

	// Phase in radians, normalized into [0, 2*pi).
	Phase float64

	// Mean is the DC offset of the beat samples.
	Mean float64
}

// projectFundamental computes the 1-bin discrete Fourier projection of
// values onto one full cycle:
//
//	a = (2/N) * sum v[n]*sin(2*pi*n/N)
//	b = (2/N) * sum v[n]*cos(2*pi*n/N)
func projectFundamental(values []float64) (a, b float64) {
	n := len(values)
	if n == 0 {
		return 0, 0
	}
	for i, v := range values {
		angle := 2 * math.Pi * float64(i) / float64(n)
		a += v * math.Sin(angle)
		b += v * math.Cos(angle)
	}
	a *= 2.0 / float64(n)
	b *= 2.0 / float64(n)
	return a, b
}

// FitSymmetric treats values as one cycle of a sinusoid and recovers
// amplitude and phase via the direct fundamental projection. The DC
// component is reported but not removed before projection.
func FitSymmetric(values []float64) SineFit {
	fit := SineFit{}
	if len(values) == 0 {
		return fit
	}
	fit.Mean = stat.Mean(values, nil)

	a, b := projectFundamental(values)
	fit.Amplitude = math.Hypot(a, b)
	if fit.Amplitude < amplitudeEpsilon {
		fit.Amplitude = 0
		return fit
	}

	fit.Phase = math.Atan2(b, a)
	if fit.Phase < 0 {
		fit.Phase += 2 * math.Pi
	}
	return fit
}

// FitSymmetricDC is FitSymmetric with the DC component removed before
// projection. Used by the pure sine-parameter estimator, which regresses
// on the clean fundamental plus the mean as separate terms.
func FitSymmetricDC(values []float64) SineFit {
	fit := SineFit{}
	n := len(values)
	if n == 0 {
		return fit
	}
	fit.Mean = stat.Mean(values, nil)

	centered := make([]float64, n)
	for i, v := range values {
		centered[i] = v - fit.Mean
	}

	a, b := projectFundamental(centered)
	fit.Amplitude = math.Hypot(a, b)
	if fit.Amplitude < amplitudeEpsilon {
		fit.Amplitude = 0
		return fit
	}

	fit.Phase = math.Atan2(b, a)
	if fit.Phase < 0 {
		fit.Phase += 2 * math.Pi
	}
	return fit
}

// Default systole:diastole time split (1:2) used when the per-beat
// estimate is unavailable or implausible.
const (
	DefaultSystoleRatio  = 1.0 / 3.0
	DefaultDiastoleRatio = 2.0 / 3.0
)

// AsymmetricBasis evaluates the asymmetric sine basis at time t within a
// beat of period periodMs: time-warped cosine lobes with a tunable
// systole:diastole split. The waveform peaks at t=0, reaches its trough
// at t = diastoleRatio*period, and returns to peak at t = period. The
// result is rescaled into [0, 1].
func AsymmetricBasis(t, periodMs, systoleRatio, diastoleRatio float64) float64 {
	if periodMs <= 0 {
		return 0
	}
	phase := math.Mod(t, periodMs) / periodMs
	if phase < 0 {
		phase += 1
	}

	var v float64
	if phase <= diastoleRatio {
		// Peak to trough: map [0, diastoleRatio] onto [0, pi].
		v = math.Cos(phase / diastoleRatio * math.Pi)
	} else {
		// Trough back to peak: map [diastoleRatio, 1] onto [pi, 2*pi].
		v = math.Cos(math.Pi + (phase-diastoleRatio)/systoleRatio*math.Pi)
	}
	return (v + 1) / 2
}

// DistortionSymmetric is the RMS residual between the raw beat samples
// and the symmetric sine reconstruction mean + A*sin(2*pi*t + phase),
// with t the sample's normalized position within the beat.
func DistortionSymmetric(values []float64, mean, amplitude, phase float64) float64 {
	n := len(values)
	if n == 0 || amplitude < amplitudeEpsilon {
		return 0
	}
	sum := 0.0
	for i, v := range values {
		t := float64(i) / float64(n)
		ideal := mean + amplitude*math.Sin(2*math.Pi*t+phase)
		err := v - ideal
		sum += err * err
	}
	return math.Sqrt(sum / float64(n))
}

// DistortionAsymmetric is the RMS residual between the raw beat samples
// and the asymmetric reconstruction mean + A*basis(t), with t the
// sample's position within the beat in milliseconds.
func DistortionAsymmetric(values []float64, mean, amplitude, ibiMs, systoleRatio, diastoleRatio float64) float64 {
	n := len(values)
	if n == 0 || amplitude < amplitudeEpsilon {
		return 0
	}
	sum := 0.0
	for i, v := range values {
		t := float64(i) * ibiMs / float64(n)
		ideal := mean + amplitude*AsymmetricBasis(t, ibiMs, systoleRatio, diastoleRatio)
		err := v - ideal
		sum += err * err
	}
	return math.Sqrt(sum / float64(n))
}
