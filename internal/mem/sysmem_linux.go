//go:build linux

package mem

import "golang.org/x/sys/unix"

func physicalMemory() (uint64, bool) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, false
	}
	return uint64(info.Totalram) * uint64(info.Unit), true //nolint:unconvert // Totalram is uint32 on 32-bit platforms
}
