package mem

import (
	"math"
	"runtime/debug"
	"sync"
)

// FallbackHeapLimit is the default heap limit where neither GOMEMLIMIT nor
// the machine's physical memory is known.
const FallbackHeapLimit = 1 << 40

// DefaultHeapLimit returns the per-allocation cap of a Heap without
// MaxAllocBytes: the GOMEMLIMIT soft limit if one is set, else the
// physical memory of the machine, else FallbackHeapLimit.
var DefaultHeapLimit = sync.OnceValue(func() int {
	if limit := debug.SetMemoryLimit(-1); limit < math.MaxInt64 {
		return clampInt(uint64(limit)) //nolint:gosec // limit is non-negative
	}
	if total, ok := physicalMemory(); ok {
		return clampInt(total)
	}
	return clampInt(FallbackHeapLimit)
})

func clampInt(v uint64) int {
	if v > math.MaxInt {
		return math.MaxInt
	}
	return int(v)
}
