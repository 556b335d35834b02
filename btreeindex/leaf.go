package btreeindex

import (
	"encoding/binary"

	"github.com/alex-panda/cs564-btreeindex/bufferpool"
	"github.com/alex-panda/cs564-btreeindex/relation"
)

const (
	leafKeySize   = 4 // int32
	leafRIDSize   = 6 // RID.PageNum (4) + RID.SlotNum (2)
	leafEntrySize = leafKeySize + leafRIDSize
)

// LeafCapacity is L: the largest number of (key, rid) slots that,
// together with the trailing sibling pointer, fits in
// bufferpool.PageSize bytes.
const LeafCapacity = (bufferpool.PageSize - pageIDSize) / leafEntrySize

func leafKeyOffset(i int) int { return i * leafEntrySize }
func leafRIDOffset(i int) int { return i*leafEntrySize + leafKeySize }
func leafRightSibOffset() int { return LeafCapacity * leafEntrySize }

func leafGetKey(data []byte, i int) int32 {
	return int32(binary.LittleEndian.Uint32(data[leafKeyOffset(i):]))
}

func leafSetKey(data []byte, i int, key int32) {
	binary.LittleEndian.PutUint32(data[leafKeyOffset(i):], uint32(key))
}

func leafGetRID(data []byte, i int) relation.RID {
	off := leafRIDOffset(i)
	return relation.RID{
		PageNum: binary.LittleEndian.Uint32(data[off:]),
		SlotNum: binary.LittleEndian.Uint16(data[off+4:]),
	}
}

func leafSetRID(data []byte, i int, rid relation.RID) {
	off := leafRIDOffset(i)
	binary.LittleEndian.PutUint32(data[off:], rid.PageNum)
	binary.LittleEndian.PutUint16(data[off+4:], rid.SlotNum)
}

func leafClearSlot(data []byte, i int) {
	leafSetKey(data, i, 0)
	leafSetRID(data, i, relation.RID{})
}

func leafGetRightSib(data []byte) bufferpool.PageID {
	return bufferpool.PageID(int32(binary.LittleEndian.Uint32(data[leafRightSibOffset():])))
}

func leafSetRightSib(data []byte, id bufferpool.PageID) {
	binary.LittleEndian.PutUint32(data[leafRightSibOffset():], uint32(int32(id)))
}

func leafIsOccupied(data []byte, i int) bool {
	return leafGetRID(data, i).PageNum != 0
}

// leafInit zeroes a freshly allocated page into an empty leaf.
func leafInit(data []byte) {
	for i := 0; i < LeafCapacity; i++ {
		leafClearSlot(data, i)
	}
	leafSetRightSib(data, 0)
}

// leafInsertNoSplit inserts (key, rid) into a leaf known to have at
// least one free slot, shifting larger keys right to keep the
// occupied prefix sorted ascending. Among equal keys, the new entry
// is placed after all existing copies (spec.md's duplicate-ordering
// rule).
func leafInsertNoSplit(data []byte, key int32, rid relation.RID) {
	if leafIsOccupied(data, 0) {
		for i := LeafCapacity - 1; i >= 0; i-- {
			if !leafIsOccupied(data, i) {
				continue
			}
			if leafGetKey(data, i) > key {
				leafSetKey(data, i+1, leafGetKey(data, i))
				leafSetRID(data, i+1, leafGetRID(data, i))
				continue
			}
			leafSetKey(data, i+1, key)
			leafSetRID(data, i+1, rid)
			return
		}
	}
	leafSetKey(data, 0, key)
	leafSetRID(data, 0, rid)
}

// leafHasRoom reports whether the leaf has a free slot.
func leafHasRoom(data []byte) bool {
	return !leafIsOccupied(data, LeafCapacity-1)
}

// leafSplitMid returns the index at which a full leaf splits: the
// lower half (the old leaf's keys after the split) keeps [0, mid),
// the new leaf gets [mid, LeafCapacity).
func leafSplitMid() int {
	if LeafCapacity%2 != 0 {
		return LeafCapacity / 2
	}
	return LeafCapacity/2 + 1
}
