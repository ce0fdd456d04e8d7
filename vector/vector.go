package vector

import (
	"bytes"
	"fmt"
	"iter"
	"unsafe"

	"github.com/hupe1980/ralib/internal/conv"
	"github.com/hupe1980/ralib/internal/logging"
	"github.com/hupe1980/ralib/metrics"
)

// Vector is a growable array of fixed-size elements stored as raw bytes.
//
// The element size (stride) is fixed at construction. Elements are copied
// bitwise only; the vector never interprets them. Slices returned by At,
// Bytes and Cursor.Elem alias the backing storage and are invalidated by any
// operation that reallocates it (Reserve, Resize and ShrinkToFit beyond
// capacity, PushBack and Insert when full, Free).
//
// A Vector is not safe for concurrent use.
type Vector struct {
	buf      []byte // len(buf) == Cap()*stride; nil when capacity is zero
	end      int    // byte offset one past the last element
	stride   int
	zeroFill bool
	freed    bool

	alloc   Allocator
	log     *logging.Logger
	metrics metrics.Collector
}

// New creates a vector of n zeroed elements of stride bytes each, with
// capacity exactly n.
//
// It panics if stride is not positive or n is negative. Errors wrap
// ErrAllocationFailed.
func New(stride, n int, opts ...Option) (*Vector, error) {
	if stride <= 0 {
		violated("New", "stride must be positive, got %d", stride)
	}
	if n < 0 {
		violated("New", "negative length %d", n)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	v := &Vector{
		stride:   stride,
		zeroFill: o.zeroFill,
		alloc:    o.buildAllocator(),
		log:      logging.New(o.logger).WithContainer("vector").WithStride(stride),
		metrics:  o.metrics,
	}

	if err := v.Resize(n); err != nil {
		return nil, err
	}

	return v, nil
}

// Free releases the backing storage. It must be the last call on the
// vector; any later call panics.
func (v *Vector) Free() error {
	v.live("Free")

	old := v.buf
	v.buf = nil
	v.end = 0
	v.freed = true

	if len(old) == 0 {
		return nil
	}

	err := v.alloc.Free(old)
	v.metrics.RecordFree(len(old))
	v.log.LogFree(len(old), err)
	if err != nil {
		return fmt.Errorf("vector: free: %w", err)
	}
	return nil
}

// Stride returns the size of one element in bytes.
func (v *Vector) Stride() int {
	return v.stride
}

// Cap returns the number of elements the vector can hold without reallocating.
func (v *Vector) Cap() int {
	return len(v.buf) / v.stride
}

// Len returns the number of elements.
func (v *Vector) Len() int {
	return v.end / v.stride
}

// SizeBytes returns the number of bytes occupied by the elements.
func (v *Vector) SizeBytes() int {
	return v.end
}

// Empty reports whether the vector holds no elements.
func (v *Vector) Empty() bool {
	return v.end == 0
}

// ZeroFill reports whether Resize zeroes newly exposed elements.
func (v *Vector) ZeroFill() bool {
	return v.zeroFill
}

// Reserve ensures capacity for at least n elements. If n exceeds the current
// capacity, storage for exactly n elements is allocated and the elements are
// copied over; the length is unchanged. On error the vector is unchanged.
func (v *Vector) Reserve(n int) error {
	v.live("Reserve")
	if n < 0 {
		violated("Reserve", "negative capacity %d", n)
	}
	if n <= v.Cap() {
		return nil
	}
	return v.realloc(n)
}

// expand doubles the capacity, starting from one element.
func (v *Vector) expand() error {
	return v.growTo(v.Len() + 1)
}

// growTo doubles the capacity until it holds at least n elements.
func (v *Vector) growTo(n int) error {
	c := max(1, v.Cap())
	for {
		var err error
		if c, err = conv.MulInt(c, 2); err != nil {
			err = fmt.Errorf("vector: grow to %d elements: %w: %w", n, ErrAllocationFailed, err)
			v.metrics.RecordAlloc(0, err)
			return err
		}
		if c >= n {
			return v.Reserve(c)
		}
	}
}

// Resize sets the length to n, reserving exactly n elements first if n
// exceeds the capacity. Growing zeroes the new elements unless zero-fill is
// disabled. Shrinking keeps the capacity and does not clear anything.
func (v *Vector) Resize(n int) error {
	v.live("Resize")
	if n < 0 {
		violated("Resize", "negative length %d", n)
	}

	if n > v.Cap() {
		if err := v.Reserve(n); err != nil {
			return err
		}
	}

	newEnd := n * v.stride // cannot overflow: n <= Cap()
	if v.zeroFill && newEnd > v.end {
		clear(v.buf[v.end:newEnd])
	}
	v.end = newEnd

	return nil
}

// ShrinkToFit reallocates the storage to hold exactly Len elements.
func (v *Vector) ShrinkToFit() error {
	v.live("ShrinkToFit")
	if v.Cap() == v.Len() {
		return nil
	}
	return v.realloc(v.Len())
}

// Clear sets the length to zero and keeps the capacity.
func (v *Vector) Clear() {
	v.live("Clear")
	v.end = 0
}

// PushBack appends a copy of elem, which must be exactly Stride bytes.
// When the vector is full the capacity is doubled first.
func (v *Vector) PushBack(elem []byte) error {
	v.live("PushBack")
	if len(elem) != v.stride {
		violated("PushBack", "element is %d bytes, stride is %d", len(elem), v.stride)
	}

	if v.end == len(v.buf) {
		if overlaps(v.buf, elem) {
			elem = bytes.Clone(elem)
		}
		if err := v.expand(); err != nil {
			return err
		}
	}

	copy(v.buf[v.end:], elem)
	v.end += v.stride

	return nil
}

// PopBack removes the last element. The bytes are not cleared.
// It panics if the vector is empty.
func (v *Vector) PopBack() {
	v.live("PopBack")
	if v.end == 0 {
		violated("PopBack", "vector is empty")
	}
	v.end -= v.stride
}

// At returns element i as a Stride-length slice aliasing the storage.
func (v *Vector) At(i int) []byte {
	v.live("At")
	v.checkIndex("At", i)
	off := i * v.stride
	return v.buf[off : off+v.stride : off+v.stride]
}

// Set overwrites element i with elem, which must be exactly Stride bytes.
func (v *Vector) Set(i int, elem []byte) {
	v.live("Set")
	v.checkIndex("Set", i)
	if len(elem) != v.stride {
		violated("Set", "element is %d bytes, stride is %d", len(elem), v.stride)
	}
	copy(v.buf[i*v.stride:], elem)
}

// Bytes returns the elements as one contiguous slice aliasing the storage.
// It is the range [begin, end) of the vector.
func (v *Vector) Bytes() []byte {
	v.live("Bytes")
	return v.buf[:v.end:v.end]
}

// Insert inserts elems, a whole number of elements, before index i
// (0 <= i <= Len). The following elements keep their order. Capacity grows
// by doubling until the result fits.
func (v *Vector) Insert(i int, elems []byte) error {
	v.live("Insert")
	if i < 0 || i > v.Len() {
		violated("Insert", "index %d out of range [0, %d]", i, v.Len())
	}
	if len(elems)%v.stride != 0 {
		violated("Insert", "%d bytes is not a multiple of stride %d", len(elems), v.stride)
	}
	if len(elems) == 0 {
		return nil
	}

	newEnd, err := conv.AddInt(v.end, len(elems))
	if err != nil {
		return fmt.Errorf("vector: insert: %w: %w", ErrAllocationFailed, err)
	}

	if newEnd > len(v.buf) {
		if overlaps(v.buf, elems) {
			elems = bytes.Clone(elems)
		}
		if err := v.growTo(newEnd / v.stride); err != nil {
			return err
		}
	} else if overlaps(v.buf, elems) {
		// The shift below would overwrite the source.
		elems = bytes.Clone(elems)
	}

	at := i * v.stride
	copy(v.buf[at+len(elems):newEnd], v.buf[at:v.end])
	copy(v.buf[at:], elems)
	v.end = newEnd

	return nil
}

// Erase removes the elements in [first, last), shifting the tail down.
// The order of the remaining elements is preserved. The range may start at
// the first element and end at Len, so Erase(0, v.Len()) empties v. It
// panics with a *PreconditionError unless 0 <= first < last <= Len.
func (v *Vector) Erase(first, last int) {
	v.live("Erase")
	v.checkRange("Erase", first, last)

	b, e := first*v.stride, last*v.stride
	n := copy(v.buf[b:], v.buf[e:v.end])
	v.end = b + n
}

// QuickErase removes the elements in [first, last) like Erase, but copies
// only as many bytes as the smaller of the erased range and the tail: when
// the tail is at least as long as the erased range, the last elements are
// moved into the hole. The order of the remaining elements is not preserved.
// It accepts the same ranges as Erase.
func (v *Vector) QuickErase(first, last int) {
	v.live("QuickErase")
	v.checkRange("QuickErase", first, last)

	b, e := first*v.stride, last*v.stride
	erased := e - b
	tail := v.end - e

	if erased > tail {
		copy(v.buf[b:], v.buf[e:v.end])
		v.end = b + tail
		return
	}

	newEnd := v.end - erased
	copy(v.buf[b:e], v.buf[newEnd:v.end])
	v.end = newEnd
}

// All returns an iterator over the index and bytes of every element.
// The vector must not be modified during iteration.
func (v *Vector) All() iter.Seq2[int, []byte] {
	v.live("All")
	return func(yield func(int, []byte) bool) {
		for i, off := 0, 0; off < v.end; i, off = i+1, off+v.stride {
			if !yield(i, v.buf[off:off+v.stride:off+v.stride]) {
				return
			}
		}
	}
}

func (v *Vector) realloc(n int) error {
	oldCap := v.Cap()

	size, err := conv.MulInt(n, v.stride)
	if err != nil {
		err = fmt.Errorf("vector: reserve %d elements: %w: %w", n, ErrAllocationFailed, err)
		v.metrics.RecordAlloc(0, err)
		v.log.LogRealloc(oldCap, n, 0, err)
		return err
	}

	nb, err := v.alloc.Allocate(size)
	v.metrics.RecordAlloc(size, err)
	if err != nil {
		v.log.LogRealloc(oldCap, n, size, err)
		return fmt.Errorf("vector: reserve %d elements: %w", n, err)
	}

	copy(nb, v.buf[:v.end])
	old := v.buf
	v.buf = nb

	v.log.LogRealloc(oldCap, n, size, nil)
	v.metrics.RecordGrow(oldCap, n)

	if len(old) > 0 {
		ferr := v.alloc.Free(old)
		v.metrics.RecordFree(len(old))
		if ferr != nil {
			v.log.LogFree(len(old), ferr)
			return fmt.Errorf("vector: release previous storage: %w", ferr)
		}
	}

	return nil
}

func (v *Vector) live(op string) {
	if v.freed {
		violated(op, "vector used after Free")
	}
}

func (v *Vector) checkIndex(op string, i int) {
	if i < 0 || i >= v.Len() {
		violated(op, "index %d out of range [0, %d)", i, v.Len())
	}
}

func (v *Vector) checkRange(op string, first, last int) {
	if first < 0 || first >= last || last > v.Len() {
		violated(op, "invalid range [%d, %d) for length %d", first, last, v.Len())
	}
}

// overlaps reports whether a and b share any bytes.
func overlaps(a, b []byte) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	a0 := uintptr(unsafe.Pointer(unsafe.SliceData(a))) //nolint:gosec // address comparison only
	b0 := uintptr(unsafe.Pointer(unsafe.SliceData(b))) //nolint:gosec // address comparison only
	return a0 < b0+uintptr(len(b)) && b0 < a0+uintptr(len(a))
}
