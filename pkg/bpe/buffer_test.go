package bpe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSampleBuffer_EmptyAfterCreate(t *testing.T) {
	b := NewSampleBuffer(DefaultBufferSize)

	assert.Equal(t, 0, b.Len())
	assert.Equal(t, DefaultBufferSize, b.Cap())
}

func TestSampleBuffer_PushAndOrder(t *testing.T) {
	b := NewSampleBuffer(4)

	for i := 0; i < 3; i++ {
		b.Push(Sample{Value: float64(i), TimestampMs: int64(i * 33)})
	}

	assert.Equal(t, 3, b.Len())
	for i := 0; i < 3; i++ {
		assert.Equal(t, float64(i), b.At(i).Value, "At(%d) should be the i-th oldest sample", i)
	}
}

func TestSampleBuffer_EvictsOldestAtCapacity(t *testing.T) {
	b := NewSampleBuffer(90)

	for i := 0; i < 100; i++ {
		b.Push(Sample{Value: float64(i), TimestampMs: int64(i * 33)})
	}

	// Oldest 10 evicted; buffer holds samples 10..99 in order.
	assert.Equal(t, 90, b.Len())
	assert.Equal(t, float64(10), b.At(0).Value)
	assert.Equal(t, float64(99), b.At(89).Value)
}

func TestSampleBuffer_SnapshotIsCopy(t *testing.T) {
	b := NewSampleBuffer(8)
	b.Push(Sample{Value: 1, TimestampMs: 0})
	b.Push(Sample{Value: 2, TimestampMs: 33})

	snap := b.Snapshot()
	assert.Len(t, snap, 2)

	snap[0].Value = 99
	assert.Equal(t, float64(1), b.At(0).Value, "mutating the snapshot must not affect the buffer")
}

func TestSampleBuffer_Reset(t *testing.T) {
	b := NewSampleBuffer(8)
	b.Push(Sample{Value: 1, TimestampMs: 0})

	b.Reset()

	assert.Equal(t, 0, b.Len())
	b.Push(Sample{Value: 5, TimestampMs: 66})
	assert.Equal(t, float64(5), b.At(0).Value)
}
