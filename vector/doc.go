// Package vector provides a type-erased growable array.
//
// A Vector stores elements of a fixed byte size (the stride) in one
// contiguous allocation and copies them bitwise. It serves any element
// layout without per-type code; Of[T] layers a typed view on top for
// pointer-free element types.
//
// # Growth
//
// Capacity changes only through explicit calls:
//
//   - Reserve(n) allocates exactly n elements when n exceeds the capacity
//   - Resize(n) reserves exactly n when needed, then sets the length
//   - PushBack and Insert double the capacity (starting at one) when full,
//     so repeated appends cost amortized O(1)
//
// Shrinking never releases memory; ShrinkToFit does so explicitly.
//
// # Erasing
//
//   - Erase(first, last) shifts the tail down and preserves order
//   - QuickErase(first, last) fills the hole with whichever is smaller,
//     the tail or an equal number of trailing elements, and may reorder
//
// # Errors
//
// Violated preconditions (index out of range, PopBack on an empty vector,
// a malformed range, use after Free) panic with *PreconditionError.
// Failing to obtain memory is an ordinary error wrapping
// ErrAllocationFailed; the vector is left unchanged.
//
// # Example
//
//	v, err := vector.New(4, 0) // 4-byte elements
//	if err != nil { ... }
//	defer v.Free()
//
//	var b [4]byte
//	binary.LittleEndian.PutUint32(b[:], 42)
//	_ = v.PushBack(b[:])
//
//	for i, elem := range v.All() {
//	    fmt.Println(i, binary.LittleEndian.Uint32(elem))
//	}
package vector
