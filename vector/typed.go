package vector

import (
	"iter"
	"reflect"
	"unsafe"
)

// Of is a typed view over a Vector whose stride is the size of T.
//
// T must be free of Go pointers (no pointers, slices, maps, strings,
// interfaces, channels or funcs, also not nested in arrays or structs): the
// elements live in byte storage the garbage collector does not scan, and
// possibly off-heap. NewOf panics for such types.
type Of[T any] struct {
	v *Vector
}

// NewOf creates a typed vector of n zero elements.
func NewOf[T any](n int, opts ...Option) (*Of[T], error) {
	t := reflect.TypeFor[T]()
	if t.Size() == 0 {
		violated("NewOf", "element type %s has zero size", t)
	}
	if hasPointers(t) {
		violated("NewOf", "element type %s contains Go pointers", t)
	}

	v, err := New(int(t.Size()), n, opts...)
	if err != nil {
		return nil, err
	}
	return &Of[T]{v: v}, nil
}

// Raw returns the underlying byte-stride vector.
func (o *Of[T]) Raw() *Vector { return o.v }

// Free releases the backing storage; see Vector.Free.
func (o *Of[T]) Free() error { return o.v.Free() }

// Len returns the number of elements.
func (o *Of[T]) Len() int { return o.v.Len() }

// Cap returns the capacity in elements.
func (o *Of[T]) Cap() int { return o.v.Cap() }

// Empty reports whether the vector holds no elements.
func (o *Of[T]) Empty() bool { return o.v.Empty() }

// Reserve ensures capacity for at least n elements; see Vector.Reserve.
func (o *Of[T]) Reserve(n int) error { return o.v.Reserve(n) }

// Resize sets the length; see Vector.Resize.
func (o *Of[T]) Resize(n int) error { return o.v.Resize(n) }

// Clear sets the length to zero.
func (o *Of[T]) Clear() { o.v.Clear() }

// Push appends x.
func (o *Of[T]) Push(x T) error {
	return o.v.PushBack(unsafe.Slice((*byte)(unsafe.Pointer(&x)), o.v.stride)) //nolint:gosec // T is pointer-free
}

// Pop removes the last element.
func (o *Of[T]) Pop() { o.v.PopBack() }

// At returns a pointer to element i. The pointer is invalidated by any
// reallocating operation.
func (o *Of[T]) At(i int) *T {
	b := o.v.At(i)
	return (*T)(unsafe.Pointer(unsafe.SliceData(b))) //nolint:gosec // storage is aligned for T
}

// Get returns a copy of element i.
func (o *Of[T]) Get(i int) T { return *o.At(i) }

// Set overwrites element i with x.
func (o *Of[T]) Set(i int, x T) { *o.At(i) = x }

// Insert inserts xs before index i; see Vector.Insert.
func (o *Of[T]) Insert(i int, xs ...T) error {
	if len(xs) == 0 {
		return o.v.Insert(i, nil)
	}
	raw := unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(xs))), len(xs)*o.v.stride) //nolint:gosec // T is pointer-free
	return o.v.Insert(i, raw)
}

// Erase removes [first, last) preserving order; see Vector.Erase.
func (o *Of[T]) Erase(first, last int) { o.v.Erase(first, last) }

// QuickErase removes [first, last) without preserving order; see Vector.QuickErase.
func (o *Of[T]) QuickErase(first, last int) { o.v.QuickErase(first, last) }

// Slice returns the elements as a []T aliasing the storage.
func (o *Of[T]) Slice() []T {
	b := o.v.Bytes()
	if len(b) == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(b))), o.v.Len()) //nolint:gosec // storage is aligned for T
}

// All returns an iterator over the index and value of every element.
func (o *Of[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, x := range o.Slice() {
			if !yield(i, x) {
				return
			}
		}
	}
}

func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return true
	}
}
