//go:build windows

package syspage

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

type systemInfo struct {
	ProcessorArchitecture     uint16
	Reserved                  uint16
	PageSize                  uint32
	MinimumApplicationAddress uintptr
	MaximumApplicationAddress uintptr
	ActiveProcessorMask       uintptr
	NumberOfProcessors        uint32
	ProcessorType             uint32
	AllocationGranularity     uint32
	ProcessorLevel            uint16
	ProcessorRevision         uint16
}

var getSystemInfoProc = windows.NewLazySystemDLL("kernel32").NewProc("GetSystemInfo")

// Size returns the host's VM page size in bytes, falling back to the
// common default of 4096 if the Win32 call fails.
func Size() int {
	var si systemInfo
	r1, _, _ := getSystemInfoProc.Call(uintptr(unsafe.Pointer(&si)))
	if r1 == 0 {
		return 4096
	}
	return int(si.PageSize)
}
