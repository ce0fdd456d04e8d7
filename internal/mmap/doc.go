// Package mmap provides anonymous memory mappings for off-heap buffers.
//
// MapAnon returns read-write, zero-filled, page-aligned memory obtained
// directly from the operating system. The memory is outside the Go heap,
// so it must never hold Go pointers and must be released with Close.
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with MAP_ANON|MAP_PRIVATE and madvise(2)
//   - Other platforms: MapAnon returns ErrUnsupported
package mmap
