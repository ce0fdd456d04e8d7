package mem

import (
	"fmt"
	"unsafe"

	"github.com/hupe1980/ralib/internal/conv"
)

// Alignment is the byte alignment of heap allocations (64 bytes, one cache line).
const Alignment = 64

// AllocAligned allocates a byte slice of the given size with 64-byte alignment.
// The returned slice is guaranteed to start at a memory address divisible by 64.
//
// Note: This function allocates slightly more memory than requested to ensure alignment.
// The underlying array is kept alive by the returned slice.
func AllocAligned(size int) []byte {
	if size <= 0 {
		return nil
	}

	// Allocate size + alignment to ensure we can find an aligned offset
	totalSize := size + Alignment
	buf := make([]byte, totalSize)

	ptr := unsafe.Pointer(&buf[0]) //nolint:gosec // unsafe is required for memory alignment
	addr := uintptr(ptr)
	offset := (Alignment - (addr & (Alignment - 1))) & (Alignment - 1)

	return buf[offset : offset+uintptr(size) : offset+uintptr(size)]
}

// AllocWords allocates n zeroed uint64 words with 64-byte alignment.
// Failures (overflowing sizes, a refused runtime allocation) are reported as
// ErrAllocationFailed.
func AllocWords(n int) (words []uint64, err error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative word count %d", ErrAllocationFailed, n)
	}
	if n == 0 {
		return nil, nil
	}

	size, err := conv.MulInt(n, 8)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAllocationFailed, err)
	}

	b, err := Heap{}.Allocate(size)
	if err != nil {
		return nil, err
	}

	// AllocAligned guarantees 64-byte alignment, which covers uint64.
	ptr := unsafe.Pointer(&b[0])                //nolint:gosec // unsafe is required for memory alignment
	return unsafe.Slice((*uint64)(ptr), n), nil //nolint:gosec // unsafe is required for memory alignment
}
