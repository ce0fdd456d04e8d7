//go:build !linux

package mem

func physicalMemory() (uint64, bool) {
	return 0, false
}
