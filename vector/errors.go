package vector

import (
	"fmt"

	"github.com/hupe1980/ralib/internal/mem"
	"github.com/hupe1980/ralib/internal/resource"
)

var (
	// ErrAllocationFailed is returned when backing storage cannot be obtained.
	// The vector is left unchanged.
	ErrAllocationFailed = mem.ErrAllocationFailed

	// ErrMemoryLimitExceeded is wrapped together with ErrAllocationFailed
	// when a memory budget refuses an allocation.
	ErrMemoryLimitExceeded = resource.ErrMemoryLimitExceeded
)

// PreconditionError is the panic value raised when a caller violates an
// operation's precondition (index out of range, PopBack on an empty vector,
// malformed erase range, use after Free). These are programming errors and
// are never returned as errors.
type PreconditionError struct {
	Op  string
	Msg string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("vector: %s: %s", e.Op, e.Msg)
}

func violated(op, format string, args ...any) {
	panic(&PreconditionError{Op: op, Msg: fmt.Sprintf(format, args...)})
}
