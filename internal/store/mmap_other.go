//go:build !linux

package store

import "fmt"

// NewMMap creates a memory-mapped DataAccess. The mmap backend is only
// implemented for Linux; other platforms should use NewRAM.
func NewMMap(path string) (DataAccess, error) {
	return nil, fmt.Errorf("store: mmap backend not supported on this platform, use the RAM backend")
}
