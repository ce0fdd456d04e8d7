package bitset

import (
	"fmt"
	"iter"
	"math/bits"

	"github.com/hupe1980/ralib/internal/conv"
	"github.com/hupe1980/ralib/internal/logging"
	"github.com/hupe1980/ralib/internal/mem"
	"github.com/hupe1980/ralib/metrics"
)

// WordBits is the number of bits per storage word.
const WordBits = 64

// Bitset is a packed array of a fixed number of bits.
//
// The zero value is an empty set that can only be used as a decoding target
// (ReadFrom, UnmarshalBinary, UnmarshalText).
type Bitset struct {
	words []uint64
	size  uint64
	freed bool

	log     *logging.Logger
	metrics metrics.Collector
}

// New creates a bitset of n bits, all zero. It panics if n is zero.
// Errors wrap ErrAllocationFailed.
func New(n uint64, opts ...Option) (*Bitset, error) {
	if n == 0 {
		violated("New", "width must be positive")
	}

	b := newEmpty(opts...)

	words, err := b.allocate(n)
	if err != nil {
		return nil, err
	}
	b.words = words
	b.size = n

	return b, nil
}

func newEmpty(opts ...Option) *Bitset {
	o := options{metrics: metrics.Noop{}}
	for _, opt := range opts {
		opt(&o)
	}
	return &Bitset{
		log:     logging.New(o.logger).WithContainer("bitset"),
		metrics: o.metrics,
	}
}

func (b *Bitset) allocate(n uint64) ([]uint64, error) {
	b.observers()

	count, err := conv.WordsFor(n, WordBits)
	if err != nil {
		err = fmt.Errorf("bitset: %d bits: %w: %w", n, ErrAllocationFailed, err)
		b.metrics.RecordAlloc(0, err)
		b.log.LogAlloc(0, err)
		return nil, err
	}

	words, err := mem.AllocWords(count)
	size := len(words) * 8
	b.metrics.RecordAlloc(size, err)
	b.log.LogAlloc(size, err)
	if err != nil {
		return nil, fmt.Errorf("bitset: %d bits: %w", n, err)
	}

	return words, nil
}

// adopt replaces the storage, releasing the previous words.
func (b *Bitset) adopt(words []uint64, n uint64) {
	b.release()
	b.words = words
	b.size = n
}

func (b *Bitset) release() {
	words := b.words
	b.words = nil
	b.discard(words)
}

// discard accounts for words that are no longer referenced.
func (b *Bitset) discard(words []uint64) {
	if len(words) == 0 {
		return
	}
	size := len(words) * 8
	b.metrics.RecordFree(size)
	b.log.LogFree(size, nil)
}

// observers installs no-op logging and metrics on a zero-value Bitset.
func (b *Bitset) observers() {
	if b.log == nil {
		b.log = logging.Noop().WithContainer("bitset")
	}
	if b.metrics == nil {
		b.metrics = metrics.Noop{}
	}
}

// Free releases the words. It must be the last call on the bitset; any later
// call panics.
func (b *Bitset) Free() {
	b.live("Free")
	b.observers()
	b.release()
	b.size = 0
	b.freed = true
}

// Len returns the width in bits.
func (b *Bitset) Len() uint64 {
	return b.size
}

// WordCount returns the number of storage words, ceil(Len / WordBits).
func (b *Bitset) WordCount() int {
	return len(b.words)
}

// Get returns bit n.
func (b *Bitset) Get(n uint64) bool {
	b.checkBit("Get", n)
	return b.words[n>>6]>>(n&63)&1 != 0
}

// Set sets bit n to v.
func (b *Bitset) Set(n uint64, v bool) {
	b.checkBit("Set", n)
	mask := uint64(1) << (n & 63)
	w := &b.words[n>>6]
	*w = (*w &^ mask) | (-b2w(v) & mask)
}

// Flip toggles bit n and returns its new value.
func (b *Bitset) Flip(n uint64) bool {
	b.checkBit("Flip", n)
	mask := uint64(1) << (n & 63)
	w := &b.words[n>>6]
	*w ^= mask
	return *w&mask != 0
}

// Count returns the number of set bits. Each word is counted with
// bits.OnesCount64, which gives the same result as clearing the lowest set
// bit until the word is zero.
func (b *Bitset) Count() int {
	b.live("Count")
	count := 0
	for _, w := range b.words {
		count += bits.OnesCount64(w)
	}
	return count
}

// Any reports whether at least one bit is set.
func (b *Bitset) Any() bool {
	b.live("Any")
	for _, w := range b.words {
		if w != 0 {
			return true
		}
	}
	return false
}

// None reports whether no bit is set.
func (b *Bitset) None() bool {
	return !b.Any()
}

// NextSet returns the index of the first set bit at or after from.
// It returns false if there is none.
func (b *Bitset) NextSet(from uint64) (uint64, bool) {
	b.live("NextSet")
	if from >= b.size {
		return 0, false
	}

	i := from >> 6
	w := b.words[i] &^ (uint64(1)<<(from&63) - 1)
	for {
		if w != 0 {
			return i<<6 + uint64(bits.TrailingZeros64(w)), true
		}
		i++
		if i >= uint64(len(b.words)) {
			return 0, false
		}
		w = b.words[i]
	}
}

// Ones returns an iterator over the indices of the set bits in ascending order.
// The bitset must not be modified during iteration.
func (b *Bitset) Ones() iter.Seq[uint64] {
	b.live("Ones")
	return func(yield func(uint64) bool) {
		for i, w := range b.words {
			base := uint64(i) << 6
			for w != 0 {
				if !yield(base + uint64(bits.TrailingZeros64(w))) {
					return
				}
				w &= w - 1
			}
		}
	}
}

// Words returns the storage words. Bit n is bit n%64 of word n/64. The slice
// aliases the bitset and must be treated as read-only.
func (b *Bitset) Words() []uint64 {
	b.live("Words")
	return b.words[:len(b.words):len(b.words)]
}

// FromWords creates a bitset of n bits from a copy of words, which must hold
// exactly ceil(n / WordBits) words. Bits past n are cleared.
func FromWords(n uint64, words []uint64, opts ...Option) (*Bitset, error) {
	if n == 0 {
		violated("FromWords", "width must be positive")
	}
	if want, err := conv.WordsFor(n, WordBits); err != nil || len(words) != want {
		violated("FromWords", "%d bits need %d words, got %d", n, want, len(words))
	}

	b, err := New(n, opts...)
	if err != nil {
		return nil, err
	}
	copy(b.words, words)
	b.maskTail()

	return b, nil
}

// tailMask returns the mask of the valid bits in the last word of a
// size-bit set.
func tailMask(size uint64) uint64 {
	if r := size % WordBits; r != 0 {
		return uint64(1)<<r - 1
	}
	return ^uint64(0)
}

func (b *Bitset) maskTail() {
	if len(b.words) > 0 {
		b.words[len(b.words)-1] &= tailMask(b.size)
	}
}

func (b *Bitset) live(op string) {
	if b.freed {
		violated(op, "bitset used after Free")
	}
}

func (b *Bitset) checkBit(op string, n uint64) {
	b.live(op)
	if n >= b.size {
		violated(op, "bit %d out of range [0, %d)", n, b.size)
	}
}

func b2w(v bool) uint64 {
	if v {
		return 1
	}
	return 0
}
