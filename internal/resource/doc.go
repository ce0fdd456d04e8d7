// Package resource implements a memory budget shared between containers.
//
// A Controller tracks bytes held by every container that was configured
// with it and, when a limit is set, refuses reservations that would exceed
// it. Reservation is non-blocking: AcquireMemory returns
// ErrMemoryLimitExceeded immediately and the allocation layer reports the
// failure to the caller as an ordinary allocation error.
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 30, // 1GB limit
//	})
//
//	if err := rc.AcquireMemory(4096); err != nil {
//	    // ErrMemoryLimitExceeded
//	}
//	defer rc.ReleaseMemory(4096)
//
// # Thread Safety
//
// All Controller methods are safe for concurrent use, so one budget may
// span containers owned by different goroutines.
//
// # Nil Safety
//
// A nil *Controller tracks nothing and never refuses.
package resource
