package bitset

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/RoaringBitmap/roaring/v2"
)

// ToRoaring returns a compressed roaring bitmap holding the set bits of b.
// Roaring bitmaps store 32-bit members; a set bit above math.MaxUint32
// yields ErrOutOfRange.
func (b *Bitset) ToRoaring() (*roaring.Bitmap, error) {
	b.live("ToRoaring")
	rb := roaring.New()
	for i, w := range b.words {
		if w == 0 {
			continue
		}
		base := uint64(i) << 6
		if base > math.MaxUint32 {
			return nil, fmt.Errorf("%w: bit %d exceeds the 32-bit roaring range",
				ErrOutOfRange, base+uint64(bits.TrailingZeros64(w)))
		}
		if w == ^uint64(0) {
			rb.AddRange(base, base+WordBits)
			continue
		}
		for ; w != 0; w &= w - 1 {
			rb.Add(uint32(base) + uint32(bits.TrailingZeros64(w)))
		}
	}
	return rb, nil
}

// FromRoaring creates a bitset of n bits holding the members of rb.
// A member not below n yields ErrOutOfRange.
func FromRoaring(n uint64, rb *roaring.Bitmap, opts ...Option) (*Bitset, error) {
	if n == 0 {
		violated("FromRoaring", "width must be positive")
	}
	if rb == nil {
		violated("FromRoaring", "nil bitmap")
	}
	if !rb.IsEmpty() {
		if maxBit := uint64(rb.Maximum()); maxBit >= n {
			return nil, fmt.Errorf("%w: member %d not below width %d", ErrOutOfRange, maxBit, n)
		}
	}

	b, err := New(n, opts...)
	if err != nil {
		return nil, err
	}

	it := rb.Iterator()
	for it.HasNext() {
		x := it.Next()
		b.words[x>>6] |= uint64(1) << (x & 63)
	}

	return b, nil
}
