package vector

// Cursor is a position in a Vector, from 0 to Len inclusive. The position
// Len is the one-past-the-end sentinel: it compares and counts like any other
// position but has no element.
//
// Cursors hold an index, not an address, so they survive reallocation; they
// do not follow elements moved by Insert or Erase.
type Cursor struct {
	v *Vector
	i int
}

// Cursor returns the position of element i; i == Len yields the end sentinel.
func (v *Vector) Cursor(i int) Cursor {
	v.live("Cursor")
	if i < 0 || i > v.Len() {
		violated("Cursor", "index %d out of range [0, %d]", i, v.Len())
	}
	return Cursor{v: v, i: i}
}

// Begin returns the position of the first element.
func (v *Vector) Begin() Cursor {
	return v.Cursor(0)
}

// End returns the one-past-the-end sentinel.
func (v *Vector) End() Cursor {
	return v.Cursor(v.Len())
}

// Index returns the element index of the cursor.
func (c Cursor) Index() int {
	return c.i
}

// Valid reports whether the cursor refers to an element (is not the end
// sentinel). The zero Cursor is never valid.
func (c Cursor) Valid() bool {
	return c.v != nil && c.i >= 0 && c.i < c.v.Len()
}

// Elem returns the element under the cursor. It panics at the end sentinel.
func (c Cursor) Elem() []byte {
	return c.v.At(c.i)
}

// Next returns the following position. It panics when moving past the end.
func (c Cursor) Next() Cursor {
	return c.v.Cursor(c.i + 1)
}

// Prev returns the preceding position. It panics when moving before the start.
func (c Cursor) Prev() Cursor {
	return c.v.Cursor(c.i - 1)
}

// Distance returns the number of elements from c to other.
func (c Cursor) Distance(other Cursor) int {
	if c.v != other.v {
		violated("Distance", "cursors belong to different vectors")
	}
	return other.i - c.i
}

// EraseRange erases the elements between two cursors; see Erase.
func (v *Vector) EraseRange(first, last Cursor) {
	v.checkOwner("EraseRange", first, last)
	v.Erase(first.i, last.i)
}

// QuickEraseRange erases the elements between two cursors; see QuickErase.
func (v *Vector) QuickEraseRange(first, last Cursor) {
	v.checkOwner("QuickEraseRange", first, last)
	v.QuickErase(first.i, last.i)
}

func (v *Vector) checkOwner(op string, cs ...Cursor) {
	for _, c := range cs {
		if c.v != v {
			violated(op, "cursor belongs to a different vector")
		}
	}
}
