package btreeindex

import (
	"testing"

	"github.com/alex-panda/cs564-btreeindex/bufferpool"
	"github.com/alex-panda/cs564-btreeindex/relation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fillFullInterior builds a synthetic, fully-occupied interior node
// with InteriorCapacity keys i*10 and children 1000+i, the way a real
// node would look just before it needs to split.
func fillFullInterior(data []byte, level int32) {
	interiorInit(data, level)
	for i := 0; i <= InteriorCapacity; i++ {
		interiorSetChild(data, i, bufferpool.PageID(1000+i))
	}
	for i := 0; i < InteriorCapacity; i++ {
		interiorSetKey(data, i, int32(i*10))
	}
}

// TestSplitInteriorPushUp directly drives splitInterior on a
// hand-built, fully-occupied interior node (InteriorCapacity is 511,
// far more than any build in btreeindex_test.go ever grows a single
// node to) and checks the push-up key and the resulting key/child
// counts on both halves, since nothing short of a multi-hundred-
// thousand-key build would ever reach this path through InsertEntry
// alone.
func TestSplitInteriorPushUp(t *testing.T) {
	dir := t.TempDir()
	idx := buildIndex(t, dir, nil)

	fullNode, err := idx.bpm.AllocPage()
	require.NoError(t, err)
	fillFullInterior(fullNode.Data(), 0)

	const pushupIndex = InteriorCapacity / 2 // InteriorCapacity is odd: always mid, regardless of the incoming key.
	wantPushKey := int32(pushupIndex * 10)

	pending, err := idx.splitInterior(fullNode, fullNode.ID(), 105, bufferpool.PageID(9999))
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, wantPushKey, pending.key)

	oldPage, err := idx.bpm.ReadPage(fullNode.ID())
	require.NoError(t, err)
	newPage, err := idx.bpm.ReadPage(pending.childPageID)
	require.NoError(t, err)

	oldKeyCount := interiorLastOccupiedChild(oldPage.Data())
	newKeyCount := interiorLastOccupiedChild(newPage.Data())
	// InteriorCapacity keys in, one pushed up, one incoming: the two
	// halves' key counts must still sum to InteriorCapacity.
	assert.Equal(t, InteriorCapacity, oldKeyCount+newKeyCount)

	assert.Less(t, interiorGetKey(oldPage.Data(), oldKeyCount-1), pending.key)
	assert.GreaterOrEqual(t, interiorGetKey(newPage.Data(), 0), pending.key)

	// key=105 is less than the new node's smallest surviving key, so
	// it must have landed in the old (left) node.
	assert.Equal(t, pushupIndex+1, oldKeyCount)
	assert.Equal(t, InteriorCapacity-pushupIndex-1, newKeyCount)

	require.NoError(t, idx.bpm.UnpinPage(fullNode.ID(), false))
	require.NoError(t, idx.bpm.UnpinPage(pending.childPageID, false))
}

// TestSplitInteriorRoutesIncomingToNewNode is the mirror case: an
// incoming key larger than everything in the old node must land in
// the new node instead.
func TestSplitInteriorRoutesIncomingToNewNode(t *testing.T) {
	dir := t.TempDir()
	idx := buildIndex(t, dir, nil)

	fullNode, err := idx.bpm.AllocPage()
	require.NoError(t, err)
	fillFullInterior(fullNode.Data(), 0)

	const pushupIndex = InteriorCapacity / 2
	pending, err := idx.splitInterior(fullNode, fullNode.ID(), 999999, bufferpool.PageID(9999))
	require.NoError(t, err)

	oldPage, err := idx.bpm.ReadPage(fullNode.ID())
	require.NoError(t, err)
	newPage, err := idx.bpm.ReadPage(pending.childPageID)
	require.NoError(t, err)

	oldKeyCount := interiorLastOccupiedChild(oldPage.Data())
	newKeyCount := interiorLastOccupiedChild(newPage.Data())
	assert.Equal(t, InteriorCapacity, oldKeyCount+newKeyCount)
	assert.Equal(t, pushupIndex, oldKeyCount)
	assert.Equal(t, InteriorCapacity-pushupIndex, newKeyCount)

	require.NoError(t, idx.bpm.UnpinPage(fullNode.ID(), false))
	require.NoError(t, idx.bpm.UnpinPage(pending.childPageID, false))
}

// TestSplitInteriorAtRootPromotes exercises splitInterior at the
// root, the only place it triggers promoteRoot: the old root becomes
// a plain interior child, a new root is allocated above it, and the
// header's rootPageNo follows it.
func TestSplitInteriorAtRootPromotes(t *testing.T) {
	dir := t.TempDir()
	idx := buildIndex(t, dir, nil)

	fullRoot, err := idx.bpm.AllocPage()
	require.NoError(t, err)
	fillFullInterior(fullRoot.Data(), 0)
	idx.rootPageID = fullRoot.ID()

	oldRootID := idx.rootPageID
	pending, err := idx.splitInterior(fullRoot, fullRoot.ID(), 105, bufferpool.PageID(9999))
	require.NoError(t, err)

	assert.NotEqual(t, oldRootID, idx.rootPageID)

	newRoot, err := idx.bpm.ReadPage(idx.rootPageID)
	require.NoError(t, err)
	assert.Equal(t, int32(0), interiorGetLevel(newRoot.Data()))
	assert.Equal(t, oldRootID, interiorGetChild(newRoot.Data(), 0))
	assert.Equal(t, pending.childPageID, interiorGetChild(newRoot.Data(), 1))
	assert.Equal(t, pending.key, interiorGetKey(newRoot.Data(), 0))
	require.NoError(t, idx.bpm.UnpinPage(idx.rootPageID, false))

	headerPage, err := idx.bpm.ReadPage(idx.headerPageID)
	require.NoError(t, err)
	meta := readHeader(headerPage.Data())
	assert.Equal(t, idx.rootPageID, meta.rootPageNo)
	require.NoError(t, idx.bpm.UnpinPage(idx.headerPageID, false))

	// splitInterior unpins oldRootID and pending.childPageID itself, as
	// it does on every split; nothing left to release here.
}

// TestScanDescendsThroughMultipleInteriorLevels hand-builds a
// root -> interior -> leaf chain (two interior levels above the
// leaves) so StartScan's descent loop runs more than once, a shape no
// build in btreeindex_test.go grows large enough to reach on its own.
func TestScanDescendsThroughMultipleInteriorLevels(t *testing.T) {
	dir := t.TempDir()
	idx := buildIndex(t, dir, nil)

	leafA, err := idx.bpm.AllocPage()
	require.NoError(t, err)
	leafInit(leafA.Data())
	for i, key := range []int32{0, 10, 20, 30, 40} {
		leafInsertNoSplit(leafA.Data(), key, relation.RID{PageNum: 1, SlotNum: uint16(i)})
	}

	leafB, err := idx.bpm.AllocPage()
	require.NoError(t, err)
	leafInit(leafB.Data())
	for i, key := range []int32{100, 110, 120, 130, 140} {
		leafInsertNoSplit(leafB.Data(), key, relation.RID{PageNum: 1, SlotNum: uint16(i + 10)})
	}
	leafSetRightSib(leafA.Data(), leafB.ID())

	midNode, err := idx.bpm.AllocPage()
	require.NoError(t, err)
	interiorInit(midNode.Data(), 1) // level 1: children are leaves.
	interiorSetChild(midNode.Data(), 0, leafA.ID())
	interiorInsertNoSplit(midNode.Data(), 100, leafB.ID())

	root, err := idx.bpm.AllocPage()
	require.NoError(t, err)
	interiorInit(root.Data(), 2) // level 2: children are interior nodes, not leaves.
	interiorSetChild(root.Data(), 0, midNode.ID())

	require.NoError(t, idx.bpm.UnpinPage(leafA.ID(), true))
	require.NoError(t, idx.bpm.UnpinPage(leafB.ID(), true))
	require.NoError(t, idx.bpm.UnpinPage(midNode.ID(), true))
	require.NoError(t, idx.bpm.UnpinPage(root.ID(), true))

	idx.rootPageID = root.ID()

	assert.Equal(t, 10, scanCount(t, idx, int32(0), GTE, int32(150), LT))

	require.NoError(t, idx.StartScan(105, GTE, 135, LTE))
	var gotSlots []uint16
	for {
		rid, err := idx.ScanNext()
		if err != nil {
			require.ErrorIs(t, err, ErrIndexScanCompleted)
			break
		}
		gotSlots = append(gotSlots, rid.SlotNum)
	}
	require.NoError(t, idx.EndScan())
	// keys 110, 120, 130 live in leafB at slots 11, 12, 13; the scan
	// must route straight to leafB via midNode without ever touching
	// leafA.
	assert.Equal(t, []uint16{11, 12, 13}, gotSlots)
}
