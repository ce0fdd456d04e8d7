package mem

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/hupe1980/ralib/internal/conv"
	"github.com/hupe1980/ralib/internal/mmap"
	"github.com/hupe1980/ralib/internal/resource"
)

// ErrAllocationFailed is returned when an allocator cannot supply the
// requested memory.
var ErrAllocationFailed = errors.New("allocation failed")

// Allocator supplies and releases the backing memory of a container.
//
// Allocate returns a zeroed slice of exactly size bytes (nil for size 0),
// aligned to at least 8 bytes. Free must be called with a slice returned by
// Allocate on the same allocator, unmodified in length.
type Allocator interface {
	Allocate(size int) ([]byte, error)
	Free(b []byte) error
}

// Heap allocates from the Go heap. Free is a no-op; the garbage collector
// reclaims the memory once the container drops it.
//
// A single allocation larger than the heap limit is reported as
// ErrAllocationFailed instead of being handed to the runtime, which would
// abort the process when it cannot satisfy the request. The limit bounds
// one allocation, not the sum of all of them; exhausting memory through
// many allocations that each pass the check is still fatal in Go.
type Heap struct {
	// MaxAllocBytes caps a single allocation. Zero means DefaultHeapLimit.
	MaxAllocBytes int
}

// Limit returns the effective per-allocation cap.
func (h Heap) Limit() int {
	if h.MaxAllocBytes > 0 {
		return h.MaxAllocBytes
	}
	return DefaultHeapLimit()
}

// Check reports whether an allocation of size bytes would be refused.
func (h Heap) Check(size int) error {
	if size < 0 {
		return fmt.Errorf("%w: negative size %d", ErrAllocationFailed, size)
	}
	if limit := h.Limit(); size > limit {
		return fmt.Errorf("%w: %d bytes exceeds the heap limit of %d bytes", ErrAllocationFailed, size, limit)
	}
	if _, err := conv.AddInt(size, Alignment); err != nil {
		return fmt.Errorf("%w: %w", ErrAllocationFailed, err)
	}
	return nil
}

// Allocate implements Allocator.
func (h Heap) Allocate(size int) (b []byte, err error) {
	if err := h.Check(size); err != nil {
		return nil, err
	}
	if size == 0 {
		return nil, nil
	}

	// Sizes the runtime refuses outright (makeslice: len out of range)
	// panic instead of aborting.
	defer func() {
		if r := recover(); r != nil {
			b = nil
			err = fmt.Errorf("%w: %d bytes: %v", ErrAllocationFailed, size, r)
		}
	}()

	return AllocAligned(size), nil
}

// Free implements Allocator.
func (Heap) Free([]byte) error { return nil }

// Mmap allocates page-aligned, off-heap memory through anonymous mappings.
// Memory obtained from Mmap must never hold Go pointers.
type Mmap struct {
	advice   mmap.AccessPattern
	mu       sync.Mutex
	mappings map[*byte]*mmap.Mapping
}

// NewMmap returns an allocator backed by anonymous mappings. Every new
// mapping is advised with advice unless it is mmap.AccessDefault.
func NewMmap(advice mmap.AccessPattern) *Mmap {
	return &Mmap{
		advice:   advice,
		mappings: make(map[*byte]*mmap.Mapping),
	}
}

// Allocate implements Allocator.
func (a *Mmap) Allocate(size int) ([]byte, error) {
	if size < 0 {
		return nil, fmt.Errorf("%w: negative size %d", ErrAllocationFailed, size)
	}
	if size == 0 {
		return nil, nil
	}

	m, err := mmap.MapAnon(size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAllocationFailed, err)
	}

	if a.advice != mmap.AccessDefault {
		if err := m.Advise(a.advice); err != nil {
			_ = m.Close()
			return nil, fmt.Errorf("%w: %w", ErrAllocationFailed, err)
		}
	}

	b := m.Bytes()[:size:size]

	a.mu.Lock()
	a.mappings[unsafe.SliceData(b)] = m
	a.mu.Unlock()

	return b, nil
}

// Free implements Allocator.
func (a *Mmap) Free(b []byte) error {
	if len(b) == 0 {
		return nil
	}

	key := unsafe.SliceData(b)

	a.mu.Lock()
	m, ok := a.mappings[key]
	delete(a.mappings, key)
	a.mu.Unlock()

	if !ok {
		return fmt.Errorf("mem: free of unknown mapping (%d bytes)", len(b))
	}
	return m.Close()
}

// Live returns the number of mappings not yet freed.
func (a *Mmap) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.mappings)
}

// Budgeted charges every allocation of an underlying allocator against a
// resource.Controller.
type Budgeted struct {
	base   Allocator
	budget *resource.Controller
}

// NewBudgeted wraps base with budget. A nil base means Heap.
func NewBudgeted(base Allocator, budget *resource.Controller) *Budgeted {
	if base == nil {
		base = Heap{}
	}
	return &Budgeted{base: base, budget: budget}
}

// Allocate implements Allocator.
func (a *Budgeted) Allocate(size int) ([]byte, error) {
	if err := a.budget.AcquireMemory(int64(size)); err != nil {
		return nil, fmt.Errorf("%w: %d bytes: %w", ErrAllocationFailed, size, err)
	}

	b, err := a.base.Allocate(size)
	if err != nil {
		a.budget.ReleaseMemory(int64(size))
		return nil, err
	}
	return b, nil
}

// Free implements Allocator.
func (a *Budgeted) Free(b []byte) error {
	err := a.base.Free(b)
	a.budget.ReleaseMemory(int64(len(b)))
	return err
}
