package bpe

// PeakDetectorConfig configures peak detection on the sample stream.
type PeakDetectorConfig struct {
	// WindowSize is the number of samples in the local-maximum test
	// window. Must be odd; the candidate sits at the center, half the
	// window behind the newest sample. Default: 7.
	WindowSize int

	// RefractoryMs is the minimum spacing between accepted peaks in
	// milliseconds. It bounds the maximum plausible heart rate
	// (~120 bpm at 500 ms) and suppresses dicrotic-notch double counts.
	// Default: 500.
	RefractoryMs int64
}

// DefaultPeakDetectorConfig returns the default detection parameters.
func DefaultPeakDetectorConfig() PeakDetectorConfig {
	return PeakDetectorConfig{
		WindowSize:   7,
		RefractoryMs: 500,
	}
}

// PeakDetector turns the sample stream into a sequence of peak events
// using a windowed strict local-maximum test with a refractory interval.
//
// The candidate sample sits half a window behind the newest sample, so a
// still-rising value is never selected as a false peak. The candidate
// must be strictly greater than every neighbor: plateaus never produce
// a peak.
type PeakDetector struct {
	config       PeakDetectorConfig
	lastPeakTime int64 // 0 means no peak yet
}

// NewPeakDetector creates a detector with the given configuration.
// Zero or invalid fields fall back to defaults.
func NewPeakDetector(config PeakDetectorConfig) *PeakDetector {
	if config.WindowSize < 3 || config.WindowSize%2 == 0 {
		config.WindowSize = 7
	}
	if config.RefractoryMs <= 0 {
		config.RefractoryMs = 500
	}
	return &PeakDetector{config: config}
}

// OnSample examines the buffer after a new sample arrival and reports a
// peak if the window test fires.
//
// Returns (peak, true) when the center of the trailing window is a strict
// local maximum outside the refractory interval, (Peak{}, false)
// otherwise. Fewer than WindowSize buffered samples is an input gap, not
// an error.
func (d *PeakDetector) OnSample(buf *SampleBuffer) (Peak, bool) {
	n := buf.Len()
	if n < d.config.WindowSize {
		return Peak{}, false
	}

	half := d.config.WindowSize / 2
	center := n - 1 - half
	candidate := buf.At(center)

	// Refractory: the candidate peak must clear the minimum spacing
	// from the previously accepted peak.
	if d.lastPeakTime != 0 && candidate.TimestampMs-d.lastPeakTime < d.config.RefractoryMs {
		return Peak{}, false
	}

	for i := center - half; i <= center+half; i++ {
		if i == center {
			continue
		}
		if buf.At(i).Value >= candidate.Value {
			return Peak{}, false
		}
	}

	d.lastPeakTime = candidate.TimestampMs
	return Peak{Value: candidate.Value, TimestampMs: candidate.TimestampMs}, true
}

// LastPeakTime returns the timestamp of the most recently accepted peak,
// or 0 if none has been accepted yet.
func (d *PeakDetector) LastPeakTime() int64 {
	return d.lastPeakTime
}

// Reset clears the refractory state.
func (d *PeakDetector) Reset() {
	d.lastPeakTime = 0
}
