package bufferpool

import "errors"

var (
	// ErrPageNotPinned is returned by UnpinPage when the target page
	// has no outstanding pin.
	ErrPageNotPinned = errors.New("bufferpool: page not pinned")

	// ErrPagePinned is returned by FlushFile when a tracked page is
	// still pinned.
	ErrPagePinned = errors.New("bufferpool: page pinned")
)
