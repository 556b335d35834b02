package btreeindex

import (
	"github.com/alex-panda/cs564-btreeindex/bufferpool"
	"github.com/alex-panda/cs564-btreeindex/relation"
)

// pendingEntry is the (key, childPageId) pair a split hands up to its
// parent, to be routed right of the existing child it split from.
type pendingEntry struct {
	key         int32
	childPageID bufferpool.PageID
}

// InsertEntry adds one (key, rid) pair to the index, descending from
// the current root and propagating any split back up.
func (idx *Index) InsertEntry(key int32, rid relation.RID) error {
	rootPage, err := idx.bpm.ReadPage(idx.rootPageID)
	if err != nil {
		return err
	}
	isLeaf := idx.rootPageID == idx.initialRootPageID
	_, err = idx.insert(rootPage, idx.rootPageID, isLeaf, key, rid)
	return err
}

// insert descends into the subtree rooted at (page, pageID), inserts
// (key, rid), and returns the pending entry its own split (if any)
// produced for its caller to absorb. The page is unpinned before
// returning in every path.
func (idx *Index) insert(page *bufferpool.Page, pageID bufferpool.PageID, isLeaf bool, key int32, rid relation.RID) (*pendingEntry, error) {
	if isLeaf {
		data := page.Data()
		if leafHasRoom(data) {
			leafInsertNoSplit(data, key, rid)
			return nil, idx.bpm.UnpinPage(pageID, true)
		}
		return idx.splitLeaf(page, pageID, key, rid)
	}

	data := page.Data()
	childID := interiorFindNextChild(data, key)
	childIsLeaf := interiorGetLevel(data) == 1

	childPage, err := idx.bpm.ReadPage(childID)
	if err != nil {
		idx.bpm.UnpinPage(pageID, false)
		return nil, err
	}

	pending, err := idx.insert(childPage, childID, childIsLeaf, key, rid)
	if err != nil {
		idx.bpm.UnpinPage(pageID, false)
		return nil, err
	}
	if pending == nil {
		return nil, idx.bpm.UnpinPage(pageID, false)
	}

	if interiorHasRoom(data) {
		interiorInsertNoSplit(data, pending.key, pending.childPageID)
		return nil, idx.bpm.UnpinPage(pageID, true)
	}
	return idx.splitInterior(page, pageID, pending.key, pending.childPageID)
}

// splitLeaf splits a full leaf to make room for (key, rid), per
// spec.md §4.2's copy-up rule: the new leaf's smallest key is copied
// up to the parent as the separator and also stays in the new leaf,
// since a leaf must remain a complete record of every key beneath it.
func (idx *Index) splitLeaf(page *bufferpool.Page, pageID bufferpool.PageID, key int32, rid relation.RID) (*pendingEntry, error) {
	newPage, err := idx.bpm.AllocPage()
	if err != nil {
		idx.bpm.UnpinPage(pageID, false)
		return nil, err
	}

	data := page.Data()
	newData := newPage.Data()
	leafInit(newData)

	mid := leafSplitMid()
	lastOldKey := leafGetKey(data, mid-1)
	for i := mid; i < LeafCapacity; i++ {
		j := i - mid
		leafSetKey(newData, j, leafGetKey(data, i))
		leafSetRID(newData, j, leafGetRID(data, i))
		leafClearSlot(data, i)
	}

	if key > lastOldKey {
		leafInsertNoSplit(newData, key, rid)
	} else {
		leafInsertNoSplit(data, key, rid)
	}

	leafSetRightSib(newData, leafGetRightSib(data))
	leafSetRightSib(data, newPage.ID())

	pending := &pendingEntry{key: leafGetKey(newData, 0), childPageID: newPage.ID()}

	var promoteErr error
	if pageID == idx.rootPageID {
		promoteErr = idx.promoteRoot(pageID, pending)
	}
	unpinOld := idx.bpm.UnpinPage(pageID, true)
	unpinNew := idx.bpm.UnpinPage(newPage.ID(), true)
	if err := firstErr(promoteErr, unpinOld, unpinNew); err != nil {
		return nil, err
	}
	return pending, nil
}

// splitInterior splits a full interior node to make room for
// (key, childPageID), per spec.md §4.2's push-up rule: unlike a leaf
// split, the median key is removed from both halves and handed to the
// parent, since an interior node's keys are routing separators, not a
// record of data.
func (idx *Index) splitInterior(page *bufferpool.Page, pageID bufferpool.PageID, key int32, childPageID bufferpool.PageID) (*pendingEntry, error) {
	newPage, err := idx.bpm.AllocPage()
	if err != nil {
		idx.bpm.UnpinPage(pageID, false)
		return nil, err
	}

	data := page.Data()
	newData := newPage.Data()
	level := interiorGetLevel(data)
	interiorInit(newData, level)

	mid := InteriorCapacity / 2
	pushupIndex := mid
	if InteriorCapacity%2 == 0 {
		if key < interiorGetKey(data, mid) {
			pushupIndex = mid - 1
		}
	}
	pushKey := interiorGetKey(data, pushupIndex)

	start := pushupIndex + 1
	for i := start; i < InteriorCapacity; i++ {
		interiorSetKey(newData, i-start, interiorGetKey(data, i))
	}
	for i := start; i <= InteriorCapacity; i++ {
		interiorSetChild(newData, i-start, interiorGetChild(data, i))
	}
	for i := pushupIndex; i < InteriorCapacity; i++ {
		interiorSetKey(data, i, 0)
	}
	for i := pushupIndex + 1; i <= InteriorCapacity; i++ {
		interiorSetChild(data, i, 0)
	}

	if key < interiorGetKey(newData, 0) {
		interiorInsertNoSplit(data, key, childPageID)
	} else {
		interiorInsertNoSplit(newData, key, childPageID)
	}

	pending := &pendingEntry{key: pushKey, childPageID: newPage.ID()}

	var promoteErr error
	if pageID == idx.rootPageID {
		promoteErr = idx.promoteRoot(pageID, pending)
	}
	unpinOld := idx.bpm.UnpinPage(pageID, true)
	unpinNew := idx.bpm.UnpinPage(newPage.ID(), true)
	if err := firstErr(promoteErr, unpinOld, unpinNew); err != nil {
		return nil, err
	}
	return pending, nil
}

// promoteRoot allocates a new root above the node that just split,
// wiring it to the old root and the split's new sibling, and persists
// the new root page number to the header.
func (idx *Index) promoteRoot(oldRootPageID bufferpool.PageID, pending *pendingEntry) error {
	newRootPage, err := idx.bpm.AllocPage()
	if err != nil {
		return err
	}

	data := newRootPage.Data()
	level := int32(0)
	if oldRootPageID == idx.initialRootPageID {
		level = 1
	}
	interiorInit(data, level)
	interiorSetKey(data, 0, pending.key)
	interiorSetChild(data, 0, oldRootPageID)
	interiorSetChild(data, 1, pending.childPageID)

	headerPage, err := idx.bpm.ReadPage(idx.headerPageID)
	if err != nil {
		idx.bpm.UnpinPage(newRootPage.ID(), true)
		return err
	}
	writeHeaderRootPageNo(headerPage.Data(), newRootPage.ID())
	if err := idx.bpm.UnpinPage(idx.headerPageID, true); err != nil {
		idx.bpm.UnpinPage(newRootPage.ID(), true)
		return err
	}

	idx.rootPageID = newRootPage.ID()
	return idx.bpm.UnpinPage(newRootPage.ID(), true)
}
