//go:build !unix && !windows

package syspage

// Size returns 0 on platforms without a known page-size probe,
// signalling callers to skip the sanity check.
func Size() int {
	return 0
}
