package bpe

// MorphologyModel estimates pressure from externally tracked beat
// morphology alone: augmentation index, valley-to-peak and
// peak-to-valley relative time-to-peak, valley-to-peak amplitude and
// heart rate feed a single-stage linear regression. No waveform fit is
// performed and no one-beat delay is needed.
type MorphologyModel struct{}

// Regression coefficients, SBP then DBP:
// base + ai*AI + hr*HR + amp*sNorm + v2p*V2P_relTTP + p2v*P2V_relTTP.
const (
	morphSBPBase = 80.0
	morphSBPAI   = 0.5
	morphSBPHR   = 0.1
	morphSBPAmp  = 0.001
	morphSBPV2P  = 0.1
	morphSBPP2V  = -0.1

	morphDBPBase = 60.0
	morphDBPAI   = 0.3
	morphDBPHR   = 0.05
	morphDBPAmp  = 0.0005
	morphDBPV2P  = 0.05
	morphDBPP2V  = -0.05
)

// NewMorphologyModel creates the morphology-regression model.
func NewMorphologyModel() *MorphologyModel {
	return &MorphologyModel{}
}

func (m *MorphologyModel) Name() string { return "morphology" }

func (m *MorphologyModel) Fit() FitKind { return NoFit }

func (m *MorphologyModel) OneBeatDelay() bool { return false }

func (m *MorphologyModel) QualityFloor() float64 { return 300 }

func (m *MorphologyModel) Estimate(beat BeatFeatures, ext Features, heartRate float64) (sbp, dbp float64, ok bool) {
	sNorm := ext.ValleyToPeakAmplitude

	sbp = morphSBPBase + morphSBPAI*ext.AugmentationIndex + morphSBPHR*heartRate +
		morphSBPAmp*sNorm + morphSBPV2P*ext.ValleyToPeakRelTTP + morphSBPP2V*ext.PeakToValleyRelTTP
	dbp = morphDBPBase + morphDBPAI*ext.AugmentationIndex + morphDBPHR*heartRate +
		morphDBPAmp*sNorm + morphDBPV2P*ext.ValleyToPeakRelTTP + morphDBPP2V*ext.PeakToValleyRelTTP
	return sbp, dbp, true
}

func (m *MorphologyModel) Reset() {}
