package bpe

import "math"

// DistortionSineModel estimates pressure from the asymmetric sine fit of
// the resampled beat. The beat's own systole:diastole split shapes the
// basis, the RMS residual against that basis feeds both the stiffness
// proxy and the final distortion correction, and the model's theoretical
// peak is re-aligned to the measured one with a rate-limited, smoothed
// phase filter. Beats are finalized only once the next peak closes them.
type DistortionSineModel struct {
	lastPhaseShift float64
	phaseHistory   *History
	hasPhase       bool
}

const (
	distSBPBase      = 80.0
	distSBPAmplitude = 5.0
	distSBPHR        = 0.3
	distSBPV2P       = 5.0
	distSBPP2V       = 3.0
	distSBPStiffness = 0.1
	distSBPDist      = 0.1

	distDBPBase      = 60.0
	distDBPAmplitude = 3.0
	distDBPHR        = 0.15
	distDBPV2P       = 3.0
	distDBPP2V       = 2.0
	distDBPStiffness = 0.05
	distDBPDist      = 0.05

	// phaseSearchSteps is the resolution of the basis peak search used
	// for phase re-alignment.
	phaseSearchSteps = 100

	// phaseSmoothing weights the bounded per-beat phase change; the
	// remainder sticks with the previous alignment.
	phaseSmoothing = 0.7

	phaseHistoryLen = 3
)

// NewDistortionSineModel creates the distortion-corrected sine model.
func NewDistortionSineModel() *DistortionSineModel {
	return &DistortionSineModel{phaseHistory: NewHistory(phaseHistoryLen)}
}

func (m *DistortionSineModel) Name() string { return "distortion-sine" }

func (m *DistortionSineModel) Fit() FitKind { return AsymmetricFit }

func (m *DistortionSineModel) OneBeatDelay() bool { return true }

func (m *DistortionSineModel) QualityFloor() float64 { return 300 }

func (m *DistortionSineModel) Estimate(beat BeatFeatures, ext Features, heartRate float64) (sbp, dbp float64, ok bool) {
	if beat.Fit.Amplitude <= 0 {
		return 0, 0, false
	}

	m.realignPhase(beat)

	a := beat.Fit.Amplitude
	e := beat.Distortion
	stiffness := e * math.Sqrt(a)

	sbp = distSBPBase + distSBPAmplitude*a + distSBPHR*heartRate
	dbp = distDBPBase + distDBPAmplitude*a + distDBPHR*heartRate

	sbp += distSBPV2P*ext.ValleyToPeakRelTTP + distSBPP2V*ext.PeakToValleyRelTTP + distSBPStiffness*stiffness
	dbp += distDBPV2P*ext.ValleyToPeakRelTTP + distDBPP2V*ext.PeakToValleyRelTTP + distDBPStiffness*stiffness

	sbp += distSBPDist * e
	dbp += distDBPDist * e
	return sbp, dbp, true
}

// realignPhase shifts the model's theoretical peak onto the measured
// one: locate the basis maximum within the period, convert it to a start
// offset, then rate-limit the change to period/8 per beat, blend with
// weight phaseSmoothing and average over the last three alignments so
// the reconstruction never jumps visibly between beats.
func (m *DistortionSineModel) realignPhase(beat BeatFeatures) {
	period := beat.IBIMs
	if period <= 0 {
		return
	}

	peakTime := 0.0
	maxValue := -1.0
	for i := 0; i < phaseSearchSteps; i++ {
		t := float64(i) * period / phaseSearchSteps
		v := AsymmetricBasis(t, period, beat.SystoleRatio, beat.DiastoleRatio)
		if v > maxValue {
			maxValue = v
			peakTime = t
		}
	}

	offset := math.Mod(-peakTime, period)
	if offset < 0 {
		offset += period
	}

	if !m.hasPhase {
		m.lastPhaseShift = offset
		m.hasPhase = true
	}

	diff := offset - m.lastPhaseShift
	maxChange := period / 8
	if diff > maxChange {
		diff = maxChange
	} else if diff < -maxChange {
		diff = -maxChange
	}

	m.phaseHistory.Push(m.lastPhaseShift + diff*phaseSmoothing)
	sum := 0.0
	for _, p := range m.phaseHistory.Values() {
		sum += p
	}
	m.lastPhaseShift = sum / float64(m.phaseHistory.Len())
}

// PhaseShift returns the current smoothed phase alignment offset in
// milliseconds, for waveform reconstruction.
func (m *DistortionSineModel) PhaseShift() float64 {
	return m.lastPhaseShift
}

func (m *DistortionSineModel) Reset() {
	m.lastPhaseShift = 0
	m.phaseHistory.Reset()
	m.hasPhase = false
}
