package vector

import (
	"log/slog"

	"github.com/hupe1980/ralib/internal/mem"
	"github.com/hupe1980/ralib/internal/mmap"
	"github.com/hupe1980/ralib/internal/resource"
	"github.com/hupe1980/ralib/metrics"
)

// Allocator supplies and releases backing storage. Allocate must return
// zeroed memory of exactly the requested size, aligned to at least 8 bytes;
// Free receives slices previously returned by Allocate.
type Allocator = mem.Allocator

// MemoryBudget is a byte budget that can be shared between vectors, possibly
// owned by different goroutines.
type MemoryBudget = resource.Controller

// NewMemoryBudget creates a budget of limitBytes. A limit of 0 only tracks usage.
func NewMemoryBudget(limitBytes int64) *MemoryBudget {
	return resource.NewController(resource.Config{MemoryLimitBytes: limitBytes})
}

// MmapAdvice is a kernel access hint for mmap-backed storage.
type MmapAdvice = mmap.AccessPattern

// Access hints accepted by WithMmapAdvice.
const (
	AdviceNormal     MmapAdvice = mmap.AccessDefault
	AdviceSequential MmapAdvice = mmap.AccessSequential
	AdviceRandom     MmapAdvice = mmap.AccessRandom
	AdviceWillNeed   MmapAdvice = mmap.AccessWillNeed
)

type options struct {
	zeroFill   bool
	allocator  Allocator
	useMmap    bool
	mmapAdvice MmapAdvice
	maxAlloc   int
	budget     *MemoryBudget
	logger     *slog.Logger
	metrics    metrics.Collector
}

func defaultOptions() options {
	return options{
		zeroFill: true,
		metrics:  metrics.Noop{},
	}
}

func (o *options) buildAllocator() Allocator {
	base := o.allocator
	if base == nil {
		if o.useMmap {
			base = mem.NewMmap(o.mmapAdvice)
		} else {
			base = mem.Heap{MaxAllocBytes: o.maxAlloc}
		}
	}
	if o.budget != nil {
		return mem.NewBudgeted(base, o.budget)
	}
	return base
}

// Option configures a Vector.
type Option func(*options)

// WithZeroFill controls whether Resize zeroes the elements it exposes when
// growing. It is enabled by default. Disable it only when every exposed
// element is overwritten immediately: regrowing within capacity then exposes
// whatever bytes were left behind by an earlier shrink.
//
// Storage obtained by New is zeroed regardless of this setting.
func WithZeroFill(enabled bool) Option {
	return func(o *options) {
		o.zeroFill = enabled
	}
}

// WithAllocator configures a custom allocator. It takes precedence over WithMmap.
func WithAllocator(a Allocator) Option {
	return func(o *options) {
		o.allocator = a
	}
}

// WithMmap backs the vector with off-heap anonymous mappings instead of the
// Go heap. Free must be called to return the memory to the operating system.
func WithMmap() Option {
	return func(o *options) {
		o.useMmap = true
	}
}

// WithMmapAdvice backs the vector with anonymous mappings like WithMmap and
// passes advice to the kernel for every new mapping.
func WithMmapAdvice(advice MmapAdvice) Option {
	return func(o *options) {
		o.useMmap = true
		o.mmapAdvice = advice
	}
}

// WithMaxAllocBytes caps a single heap allocation. Growing past the cap
// fails with ErrAllocationFailed instead of asking the runtime for memory
// it may not have. Zero or less restores the default, the GOMEMLIMIT soft
// limit or else the machine's physical memory. It has no effect on mmap
// or custom allocators.
func WithMaxAllocBytes(n int) Option {
	return func(o *options) {
		o.maxAlloc = max(n, 0)
	}
}

// WithMemoryBudget charges all storage of the vector against b.
func WithMemoryBudget(b *MemoryBudget) Option {
	return func(o *options) {
		o.budget = b
	}
}

// WithMemoryLimit gives the vector a private budget of limitBytes.
// If limitBytes <= 0, no budget is applied.
func WithMemoryLimit(limitBytes int64) Option {
	return func(o *options) {
		if limitBytes <= 0 {
			o.budget = nil
			return
		}
		o.budget = NewMemoryBudget(limitBytes)
	}
}

// WithLogger configures structured logging of reallocations and failures.
// If nil is passed, logging is disabled.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics configures the metrics collector.
// If nil is passed, metrics.Noop is used.
func WithMetrics(c metrics.Collector) Option {
	return func(o *options) {
		if c == nil {
			c = metrics.Noop{}
		}
		o.metrics = c
	}
}
