package conv

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
)

// ErrOverflow is returned when a conversion or size computation does not fit
// the destination type.
var ErrOverflow = errors.New("integer overflow")

// MulInt returns a*b for non-negative operands, or ErrOverflow if the
// product does not fit an int.
func MulInt(a, b int) (int, error) {
	if a < 0 || b < 0 {
		return 0, fmt.Errorf("%w: %d * %d (negative operand)", ErrOverflow, a, b)
	}
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if hi != 0 || lo > uint64(math.MaxInt) {
		return 0, fmt.Errorf("%w: %d * %d", ErrOverflow, a, b)
	}
	return int(lo), nil
}

// AddInt returns a+b for non-negative operands, or ErrOverflow if the sum
// does not fit an int.
func AddInt(a, b int) (int, error) {
	if a < 0 || b < 0 {
		return 0, fmt.Errorf("%w: %d + %d (negative operand)", ErrOverflow, a, b)
	}
	if a > math.MaxInt-b {
		return 0, fmt.Errorf("%w: %d + %d", ErrOverflow, a, b)
	}
	return a + b, nil
}

// WordsFor returns the number of w-bit words needed to hold n bits.
func WordsFor(n, w uint64) (int, error) {
	if w == 0 {
		return 0, fmt.Errorf("%w: zero word width", ErrOverflow)
	}
	if n == 0 {
		return 0, nil
	}
	return uint64ToInt((n-1)/w + 1)
}

// uint64ToInt converts v to int, or returns ErrOverflow if it does not fit.
func uint64ToInt(v uint64) (int, error) {
	if v > uint64(math.MaxInt) {
		return 0, fmt.Errorf("%w: %d cannot be converted to int", ErrOverflow, v)
	}
	return int(v), nil
}
