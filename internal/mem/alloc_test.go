package mem

import (
	"fmt"
	"math"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/ralib/internal/conv"
	"github.com/hupe1980/ralib/internal/resource"
)

func TestAllocAligned(t *testing.T) {
	sizes := []int{1, 10, 63, 64, 65, 100, 1024}

	for _, size := range sizes {
		buf := AllocAligned(size)
		assert.Len(t, buf, size)
		assert.Equal(t, size, cap(buf))

		ptr := unsafe.Pointer(&buf[0])
		addr := uintptr(ptr)
		assert.Equal(t, uintptr(0), addr%Alignment, "Address %d should be aligned to %d for size %d", addr, Alignment, size)
	}

	assert.Nil(t, AllocAligned(0))
	assert.Nil(t, AllocAligned(-1))
}

func TestAllocWords(t *testing.T) {
	for _, n := range []int{1, 2, 8, 9, 100} {
		words, err := AllocWords(n)
		require.NoError(t, err)
		assert.Len(t, words, n)

		addr := uintptr(unsafe.Pointer(&words[0]))
		assert.Equal(t, uintptr(0), addr%Alignment)
		for _, w := range words {
			assert.Zero(t, w)
		}
	}

	words, err := AllocWords(0)
	require.NoError(t, err)
	assert.Nil(t, words)

	_, err = AllocWords(-1)
	assert.ErrorIs(t, err, ErrAllocationFailed)

	_, err = AllocWords(math.MaxInt / 4)
	assert.ErrorIs(t, err, ErrAllocationFailed)
	assert.ErrorIs(t, err, conv.ErrOverflow)
}

func TestHeap(t *testing.T) {
	var h Heap

	b, err := h.Allocate(100)
	require.NoError(t, err)
	assert.Len(t, b, 100)
	assert.NoError(t, h.Free(b))

	b, err = h.Allocate(0)
	require.NoError(t, err)
	assert.Nil(t, b)

	_, err = h.Allocate(-1)
	assert.ErrorIs(t, err, ErrAllocationFailed)

	_, err = h.Allocate(math.MaxInt)
	assert.ErrorIs(t, err, ErrAllocationFailed)
}

func TestHeap_RuntimeRefusal(t *testing.T) {
	// With the limit lifted the request reaches the runtime, which refuses a
	// length beyond any address space: makeslice panics and Allocate recovers.
	_, err := Heap{MaxAllocBytes: math.MaxInt}.Allocate(math.MaxInt - Alignment)
	assert.ErrorIs(t, err, ErrAllocationFailed)
}

func TestHeap_MaxAllocBytes(t *testing.T) {
	h := Heap{MaxAllocBytes: 1024}
	assert.Equal(t, 1024, h.Limit())

	b, err := h.Allocate(1024)
	require.NoError(t, err)
	assert.Len(t, b, 1024)

	_, err = h.Allocate(1025)
	assert.ErrorIs(t, err, ErrAllocationFailed)
	assert.ErrorContains(t, err, "heap limit")

	assert.NoError(t, h.Check(0))
	assert.ErrorIs(t, h.Check(-1), ErrAllocationFailed)
}

func TestDefaultHeapLimit(t *testing.T) {
	limit := DefaultHeapLimit()
	assert.Positive(t, limit)
	assert.Equal(t, limit, Heap{}.Limit())
	assert.Equal(t, limit, DefaultHeapLimit())
}

func TestBudgeted(t *testing.T) {
	budget := resource.NewController(resource.Config{MemoryLimitBytes: 256})
	a := NewBudgeted(nil, budget)

	b1, err := a.Allocate(200)
	require.NoError(t, err)
	assert.Equal(t, int64(200), budget.MemoryUsage())

	_, err = a.Allocate(100)
	assert.ErrorIs(t, err, ErrAllocationFailed)
	assert.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)
	assert.Equal(t, int64(200), budget.MemoryUsage())

	require.NoError(t, a.Free(b1))
	assert.Zero(t, budget.MemoryUsage())

	b2, err := a.Allocate(256)
	require.NoError(t, err)
	require.NoError(t, a.Free(b2))
	assert.Zero(t, budget.MemoryUsage())
}

type failingAllocator struct{}

func (failingAllocator) Allocate(size int) ([]byte, error) {
	return nil, fmt.Errorf("%w: refused %d", ErrAllocationFailed, size)
}

func (failingAllocator) Free([]byte) error { return nil }

func TestBudgeted_ReleasesOnBaseFailure(t *testing.T) {
	budget := resource.NewController(resource.Config{MemoryLimitBytes: 1024})
	a := NewBudgeted(failingAllocator{}, budget)

	_, err := a.Allocate(512)
	assert.ErrorIs(t, err, ErrAllocationFailed)
	assert.Zero(t, budget.MemoryUsage())
}

func BenchmarkAllocAligned(b *testing.B) {
	sizes := []int{64, 256, 1024, 4096}
	for _, size := range sizes {
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = AllocAligned(size)
			}
		})
	}
}
