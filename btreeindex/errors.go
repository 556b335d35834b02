package btreeindex

import "errors"

var (
	// ErrBadIndexInfo is returned by Open when an existing index
	// file's stored metadata disagrees with the constructor arguments.
	ErrBadIndexInfo = errors.New("btreeindex: bad index info")

	// ErrBadOpcodes is returned by StartScan when the operator pair
	// is not in {GT,GTE}x{LT,LTE}.
	ErrBadOpcodes = errors.New("btreeindex: bad opcodes")

	// ErrBadScanrange is returned by StartScan when low > high.
	ErrBadScanrange = errors.New("btreeindex: bad scan range")

	// ErrNoSuchKeyFound is returned by StartScan when no key in the
	// tree satisfies the requested predicate.
	ErrNoSuchKeyFound = errors.New("btreeindex: no such key found")

	// ErrScanNotInitialized is returned by ScanNext and EndScan when
	// no scan is currently executing.
	ErrScanNotInitialized = errors.New("btreeindex: scan not initialized")

	// ErrIndexScanCompleted is returned by ScanNext once no further
	// key satisfies the scan's predicate.
	ErrIndexScanCompleted = errors.New("btreeindex: index scan completed")
)
