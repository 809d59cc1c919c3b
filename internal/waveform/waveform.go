// Package waveform generates a synthetic rPPG pulse signal for feeding
// the estimation pipeline without a camera.
package waveform

import (
	"math"

	"github.com/vitalsignal/ppgbp/pkg/bpe"
)

// PulseSim produces a pulse-shaped brightness signal at fs Hz. It is
// deliberately simple: an asymmetric pulse lobe, a slow respiratory
// baseline drift and cheap deterministic noise. Not clinical.
type PulseSim struct {
	fs    float64
	hrBPM float64
	amp   float64
	mean  float64
	noise float64
	phase float64
}

// NewPulseSim creates a simulator. Typical values: fs=30, hrBPM 60-100,
// amp ~8 on a mean of ~50, noise 0-0.5.
func NewPulseSim(fs, hrBPM, mean, amp, noise float64) *PulseSim {
	return &PulseSim{fs: fs, hrBPM: hrBPM, mean: mean, amp: amp, noise: noise}
}

// Next returns the next sample and advances the cycle phase.
func (s *PulseSim) Next() float64 {
	cycleHz := s.hrBPM / 60.0
	s.phase += cycleHz / s.fs
	if s.phase >= 1.0 {
		s.phase -= 1.0
	}
	t := s.phase

	// Asymmetric pulse: fast upstroke, slow decay.
	pulse := s.amp * bpe.AsymmetricBasis(t, 1, bpe.DefaultSystoleRatio, bpe.DefaultDiastoleRatio)

	// Slow respiratory baseline wander.
	baseline := 0.4 * s.amp * 0.1 * math.Sin(2*math.Pi*0.27*t)

	// Deterministic noise, cheap to compute and reproducible.
	n := s.noise * (2*fract(math.Sin(12345.678*t)*9876.543) - 1)

	return s.mean + pulse + baseline + n
}

func fract(x float64) float64 { return x - math.Floor(x) }
