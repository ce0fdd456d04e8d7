package bitset

import (
	"fmt"
	"slices"
	"strings"
)

// Stringify writes one '0' or '1' byte per bit into dst, bit 0 first, and
// returns Len. dst must hold at least Len bytes; nothing is written past Len.
func (b *Bitset) Stringify(dst []byte) int {
	b.live("Stringify")
	if uint64(len(dst)) < b.size {
		violated("Stringify", "buffer of %d bytes is shorter than %d bits", len(dst), b.size)
	}

	n := 0
	for _, w := range b.words {
		for j := 0; j < WordBits && uint64(n) < b.size; j++ {
			dst[n] = '0' + byte(w>>j&1)
			n++
		}
	}
	return n
}

// AppendText appends the '0'/'1' form of b to dst. It implements
// encoding.TextAppender.
func (b *Bitset) AppendText(dst []byte) ([]byte, error) {
	b.live("AppendText")
	size := int(b.size) //nolint:gosec // a live bitset's width fits in memory
	dst = slices.Grow(dst, size)
	n := len(dst)
	dst = dst[:n+size]
	b.Stringify(dst[n:])
	return dst, nil
}

// MarshalText implements encoding.TextMarshaler.
func (b *Bitset) MarshalText() ([]byte, error) {
	return b.AppendText(nil)
}

// UnmarshalText implements encoding.TextUnmarshaler. It replaces the width
// and contents of b.
func (b *Bitset) UnmarshalText(text []byte) error {
	b.live("UnmarshalText")
	words, n, err := b.parse(text)
	if err != nil {
		return err
	}
	b.adopt(words, n)
	return nil
}

// String returns the bits as '0' and '1' characters, bit 0 first.
func (b *Bitset) String() string {
	var sb strings.Builder
	sb.Grow(int(b.size)) //nolint:gosec // a live bitset's width fits in memory
	for n := uint64(0); n < b.size; n++ {
		sb.WriteByte('0' + byte(b.words[n>>6]>>(n&63)&1))
	}
	return sb.String()
}

// Parse creates a bitset from the output of String.
func Parse(s string, opts ...Option) (*Bitset, error) {
	b := newEmpty(opts...)
	if err := b.UnmarshalText([]byte(s)); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Bitset) parse(text []byte) ([]uint64, uint64, error) {
	if len(text) == 0 {
		return nil, 0, fmt.Errorf("%w: empty text", ErrInvalidEncoding)
	}
	for i, c := range text {
		if c != '0' && c != '1' {
			return nil, 0, fmt.Errorf("%w: invalid character %q at %d", ErrInvalidEncoding, c, i)
		}
	}

	n := uint64(len(text))
	words, err := b.allocate(n)
	if err != nil {
		return nil, 0, err
	}
	for i, c := range text {
		words[i>>6] |= uint64(c-'0') << (i & 63)
	}
	return words, n, nil
}
