package bpe

// DefaultFitSamples is the fixed point count beats are resampled to
// before sine-wave fitting.
const DefaultFitSamples = 64

// ExtractBeat slices the buffered samples belonging to one beat: all
// samples with startMs <= t <= endMs, in time order.
//
// Returns empty slices if the buffer no longer retains the range
// (evicted). Callers treat that as "skip beat", not a fatal error.
func ExtractBeat(buf *SampleBuffer, startMs, endMs int64) (values []float64, times []int64) {
	n := buf.Len()
	for i := 0; i < n; i++ {
		s := buf.At(i)
		if s.TimestampMs >= startMs && s.TimestampMs <= endMs {
			values = append(values, s.Value)
			times = append(times, s.TimestampMs)
		}
	}
	return values, times
}

// ResampleLinear resamples values to exactly n points via linear
// interpolation over the natural sample index range. An empty input
// yields n zeros.
func ResampleLinear(values []float64, n int) []float64 {
	out := make([]float64, n)
	src := len(values)
	if src == 0 {
		return out
	}
	if src == 1 {
		for i := range out {
			out[i] = values[0]
		}
		return out
	}

	for i := 0; i < n; i++ {
		pos := float64(i) * float64(src-1) / float64(n-1)
		i0 := int(pos)
		i1 := i0 + 1
		if i1 > src-1 {
			i1 = src - 1
		}
		frac := pos - float64(i0)
		out[i] = values[i0]*(1-frac) + values[i1]*frac
	}
	return out
}

// SmoothMovingAverage returns a centered moving average of values with
// the given window size. Edges use the available part of the window.
func SmoothMovingAverage(values []float64, window int) []float64 {
	n := len(values)
	out := make([]float64, n)
	half := window / 2

	for i := 0; i < n; i++ {
		sum := 0.0
		count := 0
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi > n-1 {
			hi = n - 1
		}
		for j := lo; j <= hi; j++ {
			sum += values[j]
			count++
		}
		out[i] = sum / float64(count)
	}
	return out
}
