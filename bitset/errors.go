package bitset

import (
	"errors"
	"fmt"

	"github.com/hupe1980/ralib/internal/mem"
)

var (
	// ErrAllocationFailed is returned when the words cannot be allocated.
	ErrAllocationFailed = mem.ErrAllocationFailed

	// ErrInvalidEncoding is returned when decoding malformed text or binary input.
	ErrInvalidEncoding = errors.New("bitset: invalid encoding")

	// ErrOutOfRange is returned when imported members do not fit the width.
	ErrOutOfRange = errors.New("bitset: bit out of range")
)

// PreconditionError is the panic value raised when a caller violates an
// operation's precondition (bit index out of range, mismatched widths, zero
// width, use after Free).
type PreconditionError struct {
	Op  string
	Msg string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("bitset: %s: %s", e.Op, e.Msg)
}

func violated(op, format string, args ...any) {
	panic(&PreconditionError{Op: op, Msg: fmt.Sprintf(format, args...)})
}
