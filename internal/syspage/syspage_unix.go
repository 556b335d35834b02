//go:build unix

// Package syspage reports the host's virtual-memory page size, used
// by the buffer pool to sanity-check its fixed on-disk page size
// against the platform it is running on.
package syspage

import "golang.org/x/sys/unix"

// Size returns the host's VM page size in bytes.
func Size() int {
	return unix.Getpagesize()
}
