// Package mem provides the allocators behind the containers.
//
// # Allocators
//
//   - Heap: 64-byte aligned Go heap memory (cache-line friendly)
//   - Mmap: page-aligned off-heap anonymous mappings
//   - Budgeted: wraps another allocator and charges a shared
//     resource.Controller, failing fast when the budget is spent
//
// Every failure to obtain memory is reported as ErrAllocationFailed so that
// callers can handle it with errors.Is regardless of the cause.
package mem
