package bpe

import (
	"sync"

	"gonum.org/v1/gonum/stat"
)

// Features is a read-only snapshot of externally maintained vascular
// features, read by every estimator at estimation time and never written
// by them.
type Features struct {
	// AugmentationIndex is the running average augmentation index in
	// percent.
	AugmentationIndex float64

	// ValleyToPeakRelTTP is the running average valley-to-peak relative
	// time-to-peak.
	ValleyToPeakRelTTP float64

	// PeakToValleyRelTTP is the running average peak-to-valley relative
	// time-to-peak.
	PeakToValleyRelTTP float64

	// ValleyToPeakAmplitude is the running average valley-to-peak
	// amplitude.
	ValleyToPeakAmplitude float64

	// SmoothedIBIMs is the most recent smoothed inter-beat interval.
	// Only meaningful when HasSmoothedIBI is true.
	SmoothedIBIMs float64

	// HasSmoothedIBI indicates whether a smoothed IBI is available.
	// When absent, estimators fall back to the beat's own raw IBI for
	// heart rate.
	HasSmoothedIBI bool
}

// FeatureProvider exposes the latest vascular feature snapshot.
// Implementations must be safe to query from the estimator's consumer
// goroutine.
type FeatureProvider interface {
	Features() Features
}

// StaticFeatures is a fixed FeatureProvider, useful for tests and for
// running estimators without a live tracker.
type StaticFeatures Features

// Features returns the fixed snapshot.
func (s StaticFeatures) Features() Features {
	return Features(s)
}

// FeatureTracker maintains the vascular feature averages from the same
// logical sample stream the estimators consume. It runs its own
// detection pipeline so the estimators stay decoupled from it: they only
// ever read snapshots.
type FeatureTracker struct {
	mu sync.RWMutex

	buf      *SampleBuffer
	detector *PeakDetector
	lastPeak Peak
	hasPeak  bool

	v2pRelTTP *History
	p2vRelTTP *History
	v2pAmp    *History
	p2vAmp    *History

	smoothedIBI    float64
	hasSmoothedIBI bool
}

// NewFeatureTracker creates a tracker with default buffer, detection and
// averaging parameters.
func NewFeatureTracker() *FeatureTracker {
	return &FeatureTracker{
		buf:       NewSampleBuffer(DefaultBufferSize),
		detector:  NewPeakDetector(DefaultPeakDetectorConfig()),
		v2pRelTTP: NewHistory(DefaultHistorySize),
		p2vRelTTP: NewHistory(DefaultHistorySize),
		v2pAmp:    NewHistory(DefaultHistorySize),
		p2vAmp:    NewHistory(DefaultHistorySize),
	}
}

// Update feeds one sample. Must be called in timestamp order from a
// single producer goroutine.
func (t *FeatureTracker) Update(value float64, timestampMs int64) {
	t.buf.Push(Sample{Value: value, TimestampMs: timestampMs})

	peak, ok := t.detector.OnSample(t.buf)
	if !ok {
		return
	}
	if !t.hasPeak {
		t.lastPeak = peak
		t.hasPeak = true
		return
	}

	ibi := float64(peak.TimestampMs - t.lastPeak.TimestampMs)
	if ibi >= MinIBIMs && ibi <= MaxIBIMs {
		t.observeBeat(t.lastPeak.TimestampMs, peak.TimestampMs, ibi)
	}
	t.lastPeak = peak
}

// observeBeat extracts the closed beat, locates its landmarks and folds
// the derived features into the running histories.
func (t *FeatureTracker) observeBeat(startMs, endMs int64, ibiMs float64) {
	values, times := ExtractBeat(t.buf, startMs, endMs)
	n := len(values)
	if n < 3 {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// Smoothed IBI chain: average of the previous smoothed value and
	// the new interval.
	if t.hasSmoothedIBI {
		t.smoothedIBI = (t.smoothedIBI + ibiMs) / 2
	} else {
		t.smoothedIBI = ibiMs
		t.hasSmoothedIBI = true
	}

	peakIdx, valleyIdx, ok := beatLandmarks(values)
	if !ok {
		return
	}

	peakTime := times[peakIdx]
	valleyTime := times[valleyIdx]
	endTime := times[n-1]

	t.p2vRelTTP.Push(float64(valleyTime-peakTime) / ibiMs)
	t.v2pRelTTP.Push(float64(endTime-valleyTime) / ibiMs)
	t.p2vAmp.Push(values[peakIdx] - values[valleyIdx])
	t.v2pAmp.Push(values[n-1] - values[valleyIdx])
}

// Features returns the current snapshot.
func (t *FeatureTracker) Features() Features {
	t.mu.RLock()
	defer t.mu.RUnlock()

	f := Features{
		SmoothedIBIMs:  t.smoothedIBI,
		HasSmoothedIBI: t.hasSmoothedIBI,
	}
	if t.v2pRelTTP.Len() > 0 {
		f.ValleyToPeakRelTTP = stat.Mean(t.v2pRelTTP.Values(), nil)
	}
	if t.p2vRelTTP.Len() > 0 {
		f.PeakToValleyRelTTP = stat.Mean(t.p2vRelTTP.Values(), nil)
	}

	var v2p, p2v float64
	if t.v2pAmp.Len() > 0 {
		v2p = stat.Mean(t.v2pAmp.Values(), nil)
	}
	if t.p2vAmp.Len() > 0 {
		p2v = stat.Mean(t.p2vAmp.Values(), nil)
	}
	f.ValleyToPeakAmplitude = v2p

	// Augmentation index: valley-to-peak share of the total excursion.
	total := v2p + p2v
	switch {
	case total > 0:
		f.AugmentationIndex = v2p / total * 100
	case v2p > 0:
		f.AugmentationIndex = 100
	}
	return f
}

// Reset clears all tracker state.
func (t *FeatureTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.buf.Reset()
	t.detector.Reset()
	t.lastPeak = Peak{}
	t.hasPeak = false
	t.v2pRelTTP.Reset()
	t.p2vRelTTP.Reset()
	t.v2pAmp.Reset()
	t.p2vAmp.Reset()
	t.smoothedIBI = 0
	t.hasSmoothedIBI = false
}
