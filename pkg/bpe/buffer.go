package bpe

// DefaultBufferSize is the default sample buffer capacity: 3 seconds of
// signal at 30 fps.
const DefaultBufferSize = 90

// SampleBuffer is a fixed-capacity FIFO of samples feeding all downstream
// stages. When full, pushing evicts the oldest sample; the overwrite is
// silent because older context is intentionally discarded.
//
// Not safe for concurrent use; the estimator touches it from a single
// consumer goroutine only.
type SampleBuffer struct {
	buf  []Sample
	head int // index of the oldest sample
	n    int
}

// NewSampleBuffer creates a buffer with the given capacity.
// If capacity is <= 0, DefaultBufferSize (90) is used.
func NewSampleBuffer(capacity int) *SampleBuffer {
	if capacity <= 0 {
		capacity = DefaultBufferSize
	}
	return &SampleBuffer{buf: make([]Sample, capacity)}
}

// Push appends a sample, evicting the oldest if the buffer is full.
func (b *SampleBuffer) Push(s Sample) {
	if b.n < len(b.buf) {
		b.buf[(b.head+b.n)%len(b.buf)] = s
		b.n++
		return
	}
	b.buf[b.head] = s
	b.head = (b.head + 1) % len(b.buf)
}

// Len returns the number of retained samples.
func (b *SampleBuffer) Len() int {
	return b.n
}

// Cap returns the buffer capacity.
func (b *SampleBuffer) Cap() int {
	return len(b.buf)
}

// At returns the i-th retained sample in arrival order (0 = oldest).
// i must be in [0, Len()).
func (b *SampleBuffer) At(i int) Sample {
	return b.buf[(b.head+i)%len(b.buf)]
}

// Snapshot returns all retained samples in arrival order.
func (b *SampleBuffer) Snapshot() []Sample {
	out := make([]Sample, b.n)
	for i := 0; i < b.n; i++ {
		out[i] = b.At(i)
	}
	return out
}

// Reset discards all retained samples. Capacity is preserved.
func (b *SampleBuffer) Reset() {
	b.head = 0
	b.n = 0
}
