package btreeindex

import (
	"errors"

	"github.com/alex-panda/cs564-btreeindex/bufferpool"
	"github.com/alex-panda/cs564-btreeindex/relation"
)

// StartScan positions a new ordered scan at the first leaf entry
// satisfying (lowVal lowOp key) and (key highOp highVal). A scan
// already in progress is ended first.
func (idx *Index) StartScan(lowVal int32, lowOp Operator, highVal int32, highOp Operator) error {
	if lowOp != GT && lowOp != GTE {
		return ErrBadOpcodes
	}
	if highOp != LT && highOp != LTE {
		return ErrBadOpcodes
	}
	if lowVal > highVal {
		return ErrBadScanrange
	}

	if idx.scanExecuting {
		if err := idx.EndScan(); err != nil {
			return err
		}
	}

	idx.lowVal, idx.highVal = lowVal, highVal
	idx.lowOp, idx.highOp = lowOp, highOp
	idx.scanExecuting = true

	pageID := idx.rootPageID
	page, err := idx.bpm.ReadPage(pageID)
	if err != nil {
		idx.scanExecuting = false
		return err
	}

	if idx.rootPageID != idx.initialRootPageID {
		for {
			data := page.Data()
			level := interiorGetLevel(data)

			i := interiorLastOccupiedChild(data)
			for i > 0 && interiorGetKey(data, i-1) >= lowVal {
				i--
			}
			nextID := interiorGetChild(data, i)

			if err := idx.bpm.UnpinPage(pageID, false); err != nil {
				idx.scanExecuting = false
				return err
			}
			pageID = nextID
			page, err = idx.bpm.ReadPage(pageID)
			if err != nil {
				idx.scanExecuting = false
				return err
			}
			if level == 1 {
				break
			}
		}
	}

	for {
		data := page.Data()
		if !leafIsOccupied(data, 0) {
			idx.bpm.UnpinPage(pageID, false)
			idx.scanExecuting = false
			return ErrNoSuchKeyFound
		}

		moved := false
		for i := 0; i < LeafCapacity; i++ {
			if !leafIsOccupied(data, i) {
				break
			}
			key := leafGetKey(data, i)
			if idx.validKey(key) {
				idx.currentPage = page
				idx.currentPageID = pageID
				idx.nextEntry = i
				return nil
			}
			if idx.pastHighBound(key) {
				idx.bpm.UnpinPage(pageID, false)
				idx.scanExecuting = false
				return ErrNoSuchKeyFound
			}
			if i == LeafCapacity-1 || !leafIsOccupied(data, i+1) {
				rightSib := leafGetRightSib(data)
				if err := idx.bpm.UnpinPage(pageID, false); err != nil {
					idx.scanExecuting = false
					return err
				}
				if rightSib == 0 {
					idx.scanExecuting = false
					return ErrNoSuchKeyFound
				}
				pageID = rightSib
				page, err = idx.bpm.ReadPage(pageID)
				if err != nil {
					idx.scanExecuting = false
					return err
				}
				moved = true
				break
			}
		}
		if !moved {
			idx.scanExecuting = false
			return ErrNoSuchKeyFound
		}
	}
}

// ScanNext returns the next entry in the current scan's key order, or
// ErrIndexScanCompleted once the high bound or the end of the leaf
// chain is reached.
func (idx *Index) ScanNext() (relation.RID, error) {
	if !idx.scanExecuting {
		return relation.RID{}, ErrScanNotInitialized
	}

	data := idx.currentPage.Data()
	if idx.nextEntry >= LeafCapacity || !leafIsOccupied(data, idx.nextEntry) {
		if err := idx.bpm.UnpinPage(idx.currentPageID, false); err != nil {
			return relation.RID{}, err
		}
		rightSib := leafGetRightSib(data)
		if rightSib == 0 {
			return relation.RID{}, ErrIndexScanCompleted
		}
		page, err := idx.bpm.ReadPage(rightSib)
		if err != nil {
			return relation.RID{}, err
		}
		idx.currentPage = page
		idx.currentPageID = rightSib
		idx.nextEntry = 0
		data = page.Data()
	}

	key := leafGetKey(data, idx.nextEntry)
	if !idx.validKey(key) {
		return relation.RID{}, ErrIndexScanCompleted
	}

	rid := leafGetRID(data, idx.nextEntry)
	idx.nextEntry++
	return rid, nil
}

// EndScan releases the scan's pinned leaf and clears its state. It is
// a no-op error if no scan is in progress.
func (idx *Index) EndScan() error {
	if !idx.scanExecuting {
		return ErrScanNotInitialized
	}
	err := idx.bpm.UnpinPage(idx.currentPageID, false)
	if err != nil && !errors.Is(err, bufferpool.ErrPageNotPinned) {
		return err
	}
	idx.scanExecuting = false
	idx.currentPage = nil
	idx.currentPageID = 0
	idx.nextEntry = 0
	return nil
}

func (idx *Index) validKey(key int32) bool {
	var lowOK, highOK bool
	if idx.lowOp == GTE {
		lowOK = key >= idx.lowVal
	} else {
		lowOK = key > idx.lowVal
	}
	if idx.highOp == LTE {
		highOK = key <= idx.highVal
	} else {
		highOK = key < idx.highVal
	}
	return lowOK && highOK
}

func (idx *Index) pastHighBound(key int32) bool {
	if idx.highOp == LT {
		return key >= idx.highVal
	}
	return key > idx.highVal
}
