package vector

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/ralib/metrics"
)

func TestWithMemoryLimit(t *testing.T) {
	// Old storage is released only after the new storage is populated,
	// so growing from 4 to 8 elements briefly needs 16+32 bytes.
	v, err := New(4, 0, WithMemoryLimit(24))
	require.NoError(t, err)

	for i := uint32(1); i <= 4; i++ {
		require.NoError(t, v.PushBack(u32(i)))
	}
	assert.Equal(t, 4, v.Cap())

	err = v.PushBack(u32(5))
	assert.ErrorIs(t, err, ErrAllocationFailed)
	assert.ErrorIs(t, err, ErrMemoryLimitExceeded)

	// The failed operation left the vector untouched.
	assert.Equal(t, 4, v.Len())
	assert.Equal(t, 4, v.Cap())
	assert.Equal(t, []uint32{1, 2, 3, 4}, values(v))

	v.PopBack()
	require.NoError(t, v.PushBack(u32(9)))
	assert.Equal(t, []uint32{1, 2, 3, 9}, values(v))
}

func TestWithMemoryBudget_Shared(t *testing.T) {
	budget := NewMemoryBudget(120)

	a, err := New(10, 5, WithMemoryBudget(budget))
	require.NoError(t, err)
	assert.Equal(t, int64(50), budget.MemoryUsage())

	b, err := New(10, 5, WithMemoryBudget(budget))
	require.NoError(t, err)
	assert.Equal(t, int64(100), budget.MemoryUsage())

	_, err = New(10, 3, WithMemoryBudget(budget))
	assert.ErrorIs(t, err, ErrMemoryLimitExceeded)

	err = a.Reserve(6)
	assert.ErrorIs(t, err, ErrAllocationFailed)
	assert.Equal(t, 5, a.Cap())

	require.NoError(t, b.Free())
	assert.Equal(t, int64(50), budget.MemoryUsage())

	require.NoError(t, a.Reserve(6))
	assert.Equal(t, int64(60), budget.MemoryUsage())
	assert.Equal(t, int64(110), budget.PeakMemoryUsage())

	require.NoError(t, a.ShrinkToFit())
	assert.Equal(t, int64(50), budget.MemoryUsage())

	require.NoError(t, a.Free())
	assert.Zero(t, budget.MemoryUsage())
}

func TestWithMemoryLimit_NonPositiveDisables(t *testing.T) {
	v, err := New(1, 0, WithMemoryLimit(8), WithMemoryLimit(0))
	require.NoError(t, err)
	require.NoError(t, v.Resize(1024))
}

func TestWithMaxAllocBytes(t *testing.T) {
	v, err := New(4, 0, WithMaxAllocBytes(16))
	require.NoError(t, err)

	for i := uint32(1); i <= 4; i++ {
		require.NoError(t, v.PushBack(u32(i)))
	}

	err = v.PushBack(u32(5))
	assert.ErrorIs(t, err, ErrAllocationFailed)
	assert.ErrorContains(t, err, "heap limit")
	assert.Equal(t, []uint32{1, 2, 3, 4}, values(v))

	// Non-positive values restore the default limit.
	v, err = New(4, 0, WithMaxAllocBytes(16), WithMaxAllocBytes(-1))
	require.NoError(t, err)
	require.NoError(t, v.Resize(1024))
}

type recordingAllocator struct {
	failAbove int
	allocs    int
	frees     int
	live      int
}

func (a *recordingAllocator) Allocate(size int) ([]byte, error) {
	if size > a.failAbove {
		return nil, fmt.Errorf("%w: %d > %d", ErrAllocationFailed, size, a.failAbove)
	}
	a.allocs++
	a.live += size
	return make([]byte, size), nil
}

func (a *recordingAllocator) Free(b []byte) error {
	a.frees++
	a.live -= len(b)
	return nil
}

func TestWithAllocator(t *testing.T) {
	alloc := &recordingAllocator{failAbove: 64}

	v, err := New(4, 0, WithAllocator(alloc), WithMmap())
	require.NoError(t, err)

	for i := uint32(0); i < 16; i++ {
		require.NoError(t, v.PushBack(u32(i)))
	}
	assert.Equal(t, 4, alloc.allocs) // 2, 4, 8, 16 elements
	assert.Equal(t, 3, alloc.frees)
	assert.Equal(t, 64, alloc.live)

	err = v.PushBack(u32(16))
	assert.ErrorIs(t, err, ErrAllocationFailed)
	assert.Equal(t, 16, v.Len())

	require.NoError(t, v.Free())
	assert.Zero(t, alloc.live)
}

type failingFree struct{ recordingAllocator }

func (a *failingFree) Free([]byte) error { return errors.New("release refused") }

func TestFree_ReportsAllocatorError(t *testing.T) {
	v, err := New(4, 2, WithAllocator(&failingFree{recordingAllocator{failAbove: 1 << 20}}))
	require.NoError(t, err)

	err = v.Reserve(4)
	assert.ErrorContains(t, err, "release refused")
	assert.Equal(t, 4, v.Cap())

	assert.ErrorContains(t, v.Free(), "release refused")
}

func TestWithMetrics(t *testing.T) {
	var m metrics.Basic

	v, err := New(4, 0, WithMetrics(&m))
	require.NoError(t, err)
	for i := uint32(0); i < 5; i++ {
		require.NoError(t, v.PushBack(u32(i)))
	}
	require.NoError(t, v.Free())

	s := m.Stats()
	assert.Equal(t, int64(3), s.Allocs) // 2, 4, 8 elements
	assert.Equal(t, int64(3), s.Grows)
	assert.Equal(t, int64(3), s.Frees)
	assert.Equal(t, int64(8+16+32), s.AllocBytes)
	assert.Zero(t, s.LiveBytes)

	_, err = New(1, 10, WithMetrics(&m), WithMemoryLimit(5))
	assert.Error(t, err)
	assert.Equal(t, int64(1), m.Stats().AllocErrors)

	// nil falls back to Noop.
	_, err = New(4, 1, WithMetrics(nil))
	require.NoError(t, err)
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	v, err := New(4, 0, WithLogger(logger), WithMemoryLimit(8))
	require.NoError(t, err)

	require.NoError(t, v.PushBack(u32(1)))
	assert.Contains(t, buf.String(), "msg=reallocated")
	assert.Contains(t, buf.String(), "container=vector")
	assert.Contains(t, buf.String(), "stride=4")
	assert.Contains(t, buf.String(), "new_cap=2")

	buf.Reset()
	require.NoError(t, v.PushBack(u32(2)))
	assert.Error(t, v.PushBack(u32(3)))
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "memory limit exceeded")
}
