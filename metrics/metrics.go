// Package metrics collects allocation metrics from containers.
package metrics

import (
	"sync/atomic"
)

// Collector defines an interface for collecting container allocation metrics.
// Implement this interface to integrate with monitoring systems; see
// Prometheus for a ready-made implementation.
//
// Implementations must be safe for concurrent use: one collector is
// typically shared by many containers.
type Collector interface {
	// RecordAlloc is called after every attempt to obtain a backing
	// allocation. err is nil if successful.
	RecordAlloc(bytes int, err error)

	// RecordFree is called after a backing allocation is released.
	RecordFree(bytes int)

	// RecordGrow is called after the capacity of a container changed.
	RecordGrow(oldCap, newCap int)
}

// Noop is a no-op implementation of Collector.
type Noop struct{}

// RecordAlloc implements Collector.
func (Noop) RecordAlloc(int, error) {}

// RecordFree implements Collector.
func (Noop) RecordFree(int) {}

// RecordGrow implements Collector.
func (Noop) RecordGrow(int, int) {}

// Basic provides simple in-memory metrics collection.
// Useful for debugging and tests without external dependencies.
type Basic struct {
	Allocs      atomic.Int64
	AllocErrors atomic.Int64
	AllocBytes  atomic.Int64
	Frees       atomic.Int64
	FreedBytes  atomic.Int64
	Grows       atomic.Int64
}

// RecordAlloc implements Collector.
func (b *Basic) RecordAlloc(bytes int, err error) {
	if err != nil {
		b.AllocErrors.Add(1)
		return
	}
	b.Allocs.Add(1)
	b.AllocBytes.Add(int64(bytes))
}

// RecordFree implements Collector.
func (b *Basic) RecordFree(bytes int) {
	b.Frees.Add(1)
	b.FreedBytes.Add(int64(bytes))
}

// RecordGrow implements Collector.
func (b *Basic) RecordGrow(oldCap, newCap int) {
	if newCap > oldCap {
		b.Grows.Add(1)
	}
}

// Stats returns a snapshot of current metrics.
func (b *Basic) Stats() Stats {
	allocated := b.AllocBytes.Load()
	freed := b.FreedBytes.Load()
	return Stats{
		Allocs:      b.Allocs.Load(),
		AllocErrors: b.AllocErrors.Load(),
		AllocBytes:  allocated,
		Frees:       b.Frees.Load(),
		FreedBytes:  freed,
		LiveBytes:   allocated - freed,
		Grows:       b.Grows.Load(),
	}
}

// Stats is a snapshot of Basic state.
type Stats struct {
	Allocs      int64
	AllocErrors int64
	AllocBytes  int64
	Frees       int64
	FreedBytes  int64
	LiveBytes   int64
	Grows       int64
}
