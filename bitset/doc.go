// Package bitset provides a fixed-width packed bit array.
//
// Bits are stored in uint64 words, bit n in word n/64 at position n%64.
// The width is set at construction and never changes; bits past the width in
// the last word are always zero, so Count and the boolean operations never
// see them.
//
// Whole-set operations (Or, And, Xor, AndNot) combine two sets of equal width
// in place and return the receiver, so they chain:
//
//	a.Or(b).AndNot(c)
//
// A Bitset is not safe for concurrent use.
package bitset
