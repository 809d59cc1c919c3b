package bpe

import "math"

// SymmetricSineModel estimates pressure from a plain symmetric sine fit
// of the resampled beat. Three additive stages: an amplitude/heart-rate
// baseline, a vascular correction from the external augmentation index,
// relative time-to-peak and a distortion-derived stiffness proxy, and a
// final distortion correction. No one-beat delay: the symmetric fit
// needs no confirmed closing peak.
type SymmetricSineModel struct{}

const (
	symSBPBase      = 80.0
	symSBPAmplitude = 5.0
	symSBPHR        = 0.3
	symSBPAI        = 0.3
	symSBPRelTTP    = 5.0
	symSBPStiffness = 0.01
	symSBPDist      = 0.1

	symDBPBase      = 60.0
	symDBPAmplitude = 3.0
	symDBPHR        = 0.15
	symDBPAI        = 0.2
	symDBPRelTTP    = 3.0
	symDBPStiffness = 0.005
	symDBPDist      = 0.05
)

// NewSymmetricSineModel creates the symmetric sine model.
func NewSymmetricSineModel() *SymmetricSineModel {
	return &SymmetricSineModel{}
}

func (m *SymmetricSineModel) Name() string { return "symmetric-sine" }

func (m *SymmetricSineModel) Fit() FitKind { return SymmetricFit }

func (m *SymmetricSineModel) OneBeatDelay() bool { return false }

// QualityFloor is stricter than the other models: without the asymmetric
// basis the symmetric fit degrades fastest on noisy segments.
func (m *SymmetricSineModel) QualityFloor() float64 { return 500 }

func (m *SymmetricSineModel) Estimate(beat BeatFeatures, ext Features, heartRate float64) (sbp, dbp float64, ok bool) {
	if beat.Fit.Amplitude <= 0 {
		return 0, 0, false
	}

	a := beat.Fit.Amplitude
	e := beat.Distortion
	stiffness := e * math.Sqrt(a)

	sbp = symSBPBase + symSBPAmplitude*a + symSBPHR*heartRate
	dbp = symDBPBase + symDBPAmplitude*a + symDBPHR*heartRate

	sbp += symSBPAI*ext.AugmentationIndex + symSBPRelTTP*ext.ValleyToPeakRelTTP + symSBPStiffness*stiffness
	dbp += symDBPAI*ext.AugmentationIndex + symDBPRelTTP*ext.ValleyToPeakRelTTP + symDBPStiffness*stiffness

	sbp += symSBPDist * e
	dbp += symDBPDist * e
	return sbp, dbp, true
}

func (m *SymmetricSineModel) Reset() {}
