package bpe

// FitKind selects which waveform fit the engine performs before handing
// a beat to the model.
type FitKind int

const (
	// NoFit skips waveform fitting; the model works from raw beat
	// geometry and external features only.
	NoFit FitKind = iota

	// SymmetricFit projects the resampled beat onto the fundamental
	// without removing the DC component first.
	SymmetricFit

	// SymmetricDCFit projects the raw (unresampled) beat onto the
	// fundamental after removing the DC component.
	SymmetricDCFit

	// AsymmetricFit uses the symmetric projection for amplitude and
	// phase, then measures distortion against the asymmetric basis with
	// the beat's own systole:diastole split.
	AsymmetricFit
)

// BeatFeatures carries everything the engine derived from one validated
// beat: timing, raw samples, fit parameters and residuals. Models read
// from it; only the engine writes it.
type BeatFeatures struct {
	// IBIMs is the raw inter-beat interval of this beat.
	IBIMs float64

	// Values are the beat samples handed to the fit (resampled to the
	// configured length, or raw for SymmetricDCFit and NoFit).
	Values []float64

	// RawValues and RawTimes are the unresampled beat samples.
	RawValues []float64
	RawTimes  []int64

	// Fit is the recovered sine fit. Amplitude is 0 for NoFit.
	Fit SineFit

	// Distortion is the RMS residual of the fit reconstruction.
	Distortion float64

	// SystoleRatio and DiastoleRatio are the per-beat time split used by
	// the asymmetric basis; the defaults (1:3, 2:3) otherwise.
	SystoleRatio  float64
	DiastoleRatio float64
}

// FeatureModel maps a validated beat to a blood pressure estimate.
// Implementations are single-goroutine state machines driven by the
// engine; any cross-beat state they keep must be cleared in Reset.
type FeatureModel interface {
	// Name identifies the model in logs and diagnostics.
	Name() string

	// Fit selects the waveform fit the engine performs for this model.
	Fit() FitKind

	// OneBeatDelay reports whether the model needs the following peak
	// confirmed before estimating a beat.
	OneBeatDelay() bool

	// QualityFloor is the minimum signal quality score required before
	// the engine runs this model.
	QualityFloor() float64

	// Estimate produces (sbp, dbp) for the beat, or ok=false when the
	// model cannot estimate from it. heartRate is in beats per minute,
	// derived from the smoothed IBI when available.
	Estimate(beat BeatFeatures, ext Features, heartRate float64) (sbp, dbp float64, ok bool)

	// Reset clears any cross-beat model state.
	Reset()
}
