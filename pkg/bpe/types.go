// Package bpe implements streaming beat-by-beat blood pressure estimation
// from a remote photoplethysmography (rPPG) brightness signal.
package bpe

// Sample is a single rPPG brightness reading. Samples arrive at roughly
// 30 Hz with producer-supplied millisecond timestamps; behavior is only
// specified for monotonically non-decreasing timestamps.
type Sample struct {
	// Value is the corrected brightness value derived from the camera signal.
	Value float64

	// TimestampMs is the capture time in milliseconds.
	TimestampMs int64
}

// Peak is a detected local maximum of the rPPG waveform. Immutable once
// emitted by the detector.
type Peak struct {
	// Value is the brightness value at the peak sample.
	Value float64

	// TimestampMs is the peak sample's timestamp in milliseconds.
	TimestampMs int64
}

// Estimate is a single systolic/diastolic blood pressure pair in mmHg.
// An Estimate is only ever published after passing the physiological
// validity gate (ValidBP).
type Estimate struct {
	SBP float64
	DBP float64
}

// BeatUpdate is the per-beat notification payload: the latest accepted
// estimate together with the robust running averages over the history
// window.
type BeatUpdate struct {
	SBP    float64
	DBP    float64
	SBPAvg float64
	DBPAvg float64
}

// Listener receives at most one callback per accepted beat.
type Listener func(sbp, dbp, sbpAvg, dbpAvg float64)

// Beat validation bounds. A beat outside these bounds is silently
// discarded; detection state still advances.
const (
	// MinIBIMs / MaxIBIMs bound the inter-beat interval to 40-200 bpm.
	MinIBIMs = 300
	MaxIBIMs = 1500

	// MinAmplitude / MaxAmplitude bound the fitted waveform amplitude.
	MinAmplitude = 0.5
	MaxAmplitude = 50

	// MaxIBIChange is the maximum allowed relative change against the
	// previous valid inter-beat interval.
	MaxIBIChange = 0.3
)

// Physiological pressure bounds in mmHg.
const (
	MinSBP = 60
	MaxSBP = 200
	MinDBP = 40
	MaxDBP = 150

	// MinPulsePressure / MaxPulsePressure bound SBP-DBP.
	MinPulsePressure = 20
	MaxPulsePressure = 100
)

// amplitudeEpsilon is the threshold below which a fit is considered
// degenerate: amplitude and phase are zeroed and the beat is dropped by
// the amplitude bound.
const amplitudeEpsilon = 1e-6
