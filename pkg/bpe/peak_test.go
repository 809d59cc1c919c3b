package bpe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// feedValues pushes values with 33 ms spacing starting at startMs and
// returns every detected peak.
func feedValues(d *PeakDetector, b *SampleBuffer, values []float64, startMs int64) []Peak {
	var peaks []Peak
	for i, v := range values {
		b.Push(Sample{Value: v, TimestampMs: startMs + int64(i)*33})
		if p, ok := d.OnSample(b); ok {
			peaks = append(peaks, p)
		}
	}
	return peaks
}

func TestPeakDetector_StrictLocalMax(t *testing.T) {
	d := NewPeakDetector(DefaultPeakDetectorConfig())
	b := NewSampleBuffer(DefaultBufferSize)

	// Single clean peak at index 5 inside a rising/falling ramp.
	values := []float64{1, 2, 3, 4, 5, 10, 5, 4, 3, 2, 1}
	peaks := feedValues(d, b, values, 0)

	require.Len(t, peaks, 1)
	assert.Equal(t, float64(10), peaks[0].Value)
	assert.Equal(t, int64(5*33), peaks[0].TimestampMs, "peak carries the center sample's timestamp")
}

func TestPeakDetector_PlateauNeverFires(t *testing.T) {
	d := NewPeakDetector(DefaultPeakDetectorConfig())
	b := NewSampleBuffer(DefaultBufferSize)

	// Flat-topped pulse: equal neighbors fail the strict comparison.
	values := []float64{1, 2, 3, 10, 10, 10, 3, 2, 1, 0, 0}
	peaks := feedValues(d, b, values, 0)

	assert.Empty(t, peaks, "plateau must not produce a peak")
}

func TestPeakDetector_RefractorySuppresssSecondPeak(t *testing.T) {
	d := NewPeakDetector(DefaultPeakDetectorConfig())
	b := NewSampleBuffer(DefaultBufferSize)

	// Two clean peaks ~330 ms apart: the second falls inside the 500 ms
	// refractory interval.
	values := []float64{1, 2, 3, 10, 3, 2, 1, 2, 3, 4, 11, 4, 3, 2, 1, 0, 0}
	peaks := feedValues(d, b, values, 0)

	require.Len(t, peaks, 1)
	assert.Equal(t, float64(10), peaks[0].Value)
}

func TestPeakDetector_PeaksOutsideRefractoryBothFire(t *testing.T) {
	d := NewPeakDetector(DefaultPeakDetectorConfig())
	b := NewSampleBuffer(DefaultBufferSize)

	values := make([]float64, 0, 50)
	// Peak at index 4, then flat, then peak at index 24 (660 ms later).
	for i := 0; i < 50; i++ {
		switch i {
		case 4:
			values = append(values, 10)
		case 24:
			values = append(values, 11)
		default:
			values = append(values, float64(i%3))
		}
	}
	peaks := feedValues(d, b, values, 0)

	require.Len(t, peaks, 2)
	assert.Equal(t, int64(4*33), peaks[0].TimestampMs)
	assert.Equal(t, int64(24*33), peaks[1].TimestampMs)
}

func TestPeakDetector_TooFewSamples(t *testing.T) {
	d := NewPeakDetector(DefaultPeakDetectorConfig())
	b := NewSampleBuffer(DefaultBufferSize)

	peaks := feedValues(d, b, []float64{1, 10, 1}, 0)
	assert.Empty(t, peaks, "no detection below WindowSize samples")
}

func TestPeakDetector_ResetClearsRefractory(t *testing.T) {
	d := NewPeakDetector(DefaultPeakDetectorConfig())
	b := NewSampleBuffer(DefaultBufferSize)

	values := []float64{1, 2, 3, 10, 3, 2, 1, 0, 0}
	peaks := feedValues(d, b, values, 0)
	require.Len(t, peaks, 1)
	assert.Equal(t, int64(3*33), d.LastPeakTime())

	d.Reset()
	b.Reset()
	assert.Equal(t, int64(0), d.LastPeakTime())

	// Same shape at the same timestamps detects again after reset.
	peaks = feedValues(d, b, values, 0)
	assert.Len(t, peaks, 1)
}
