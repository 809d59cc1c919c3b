package bpe

// SineParamModel regresses pressure on the fitted sine parameters alone:
// amplitude, mean, phase and heart rate. It deliberately ignores raw
// beat morphology and the external vascular features, isolating the
// predictive value of the sine model itself. The fit runs on the raw
// beat samples with the DC component removed, and beats are finalized
// one peak late.
//
// Coefficients come from an offline least-squares fit against cuff
// reference readings and are kept at full precision.
type SineParamModel struct{}

const (
	paramSBPIntercept = 71.03692006596621
	paramSBPAmplitude = 9.119930658703085
	paramSBPHR        = -0.2148949678218121
	paramSBPMean      = -0.0920224889164238
	paramSBPPhase     = 11.793308948663666

	paramDBPIntercept = 21.680322032107288
	paramDBPAmplitude = 6.568615116225804
	paramDBPHR        = 9.294430469883875e-05
	paramDBPMean      = -0.3937788369343091
	paramDBPPhase     = 15.691979325320622
)

// NewSineParamModel creates the pure sine-parameter model.
func NewSineParamModel() *SineParamModel {
	return &SineParamModel{}
}

func (m *SineParamModel) Name() string { return "sine-param" }

func (m *SineParamModel) Fit() FitKind { return SymmetricDCFit }

func (m *SineParamModel) OneBeatDelay() bool { return true }

func (m *SineParamModel) QualityFloor() float64 { return 300 }

func (m *SineParamModel) Estimate(beat BeatFeatures, ext Features, heartRate float64) (sbp, dbp float64, ok bool) {
	if beat.Fit.Amplitude <= 0 {
		return 0, 0, false
	}

	sbp = paramSBPIntercept + paramSBPAmplitude*beat.Fit.Amplitude +
		paramSBPHR*heartRate + paramSBPMean*beat.Fit.Mean + paramSBPPhase*beat.Fit.Phase
	dbp = paramDBPIntercept + paramDBPAmplitude*beat.Fit.Amplitude +
		paramDBPHR*heartRate + paramDBPMean*beat.Fit.Mean + paramDBPPhase*beat.Fit.Phase
	return sbp, dbp, true
}

func (m *SineParamModel) Reset() {}
