package bitset

// Or sets b to b | o and returns b. Both sets must have the same width.
func (b *Bitset) Or(o *Bitset) *Bitset {
	b.checkPeer("Or", o)
	for i, w := range o.words {
		b.words[i] |= w
	}
	return b
}

// And sets b to b & o and returns b. Both sets must have the same width.
func (b *Bitset) And(o *Bitset) *Bitset {
	b.checkPeer("And", o)
	for i, w := range o.words {
		b.words[i] &= w
	}
	return b
}

// Xor sets b to b ^ o and returns b. Both sets must have the same width.
func (b *Bitset) Xor(o *Bitset) *Bitset {
	b.checkPeer("Xor", o)
	for i, w := range o.words {
		b.words[i] ^= w
	}
	return b
}

// AndNot clears in b every bit set in o and returns b.
// Both sets must have the same width.
func (b *Bitset) AndNot(o *Bitset) *Bitset {
	b.checkPeer("AndNot", o)
	for i, w := range o.words {
		b.words[i] &^= w
	}
	return b
}

// Not inverts every bit and returns b.
func (b *Bitset) Not() *Bitset {
	b.live("Not")
	for i := range b.words {
		b.words[i] = ^b.words[i]
	}
	b.maskTail()
	return b
}

// SetAll sets every bit and returns b.
func (b *Bitset) SetAll() *Bitset {
	b.live("SetAll")
	for i := range b.words {
		b.words[i] = ^uint64(0)
	}
	b.maskTail()
	return b
}

// ClearAll clears every bit and returns b.
func (b *Bitset) ClearAll() *Bitset {
	b.live("ClearAll")
	clear(b.words)
	return b
}

// Equal reports whether b and o have the same width and the same bits.
func (b *Bitset) Equal(o *Bitset) bool {
	b.live("Equal")
	o.live("Equal")
	if b.size != o.size {
		return false
	}
	for i, w := range b.words {
		if o.words[i] != w {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of b with the same logger and metrics.
func (b *Bitset) Clone() (*Bitset, error) {
	b.live("Clone")
	if b.size == 0 {
		violated("Clone", "bitset is empty")
	}

	c := &Bitset{log: b.log, metrics: b.metrics}
	words, err := c.allocate(b.size)
	if err != nil {
		return nil, err
	}
	copy(words, b.words)
	c.words = words
	c.size = b.size

	return c, nil
}

func (b *Bitset) checkPeer(op string, o *Bitset) {
	b.live(op)
	if o == nil {
		violated(op, "nil operand")
	}
	o.live(op)
	if b.size != o.size {
		violated(op, "width mismatch: %d != %d", b.size, o.size)
	}
}
