package btreeindex

import (
	"encoding/binary"

	"github.com/alex-panda/cs564-btreeindex/bufferpool"
)

const (
	interiorKeySize   = 4 // int32
	interiorLevelSize = 4 // int32
)

// InteriorCapacity is N: the number of keys an interior page holds
// (it holds N+1 children), chosen so level + N keys + (N+1) children
// exactly fits bufferpool.PageSize.
const InteriorCapacity = (bufferpool.PageSize - interiorLevelSize - pageIDSize) / (interiorKeySize + pageIDSize)

const (
	interiorLevelOffset    = 0
	interiorKeysOffset     = interiorLevelOffset + interiorLevelSize
	interiorChildrenOffset = interiorKeysOffset + InteriorCapacity*interiorKeySize
)

func interiorGetLevel(data []byte) int32 {
	return int32(binary.LittleEndian.Uint32(data[interiorLevelOffset:]))
}

func interiorSetLevel(data []byte, level int32) {
	binary.LittleEndian.PutUint32(data[interiorLevelOffset:], uint32(level))
}

func interiorGetKey(data []byte, i int) int32 {
	return int32(binary.LittleEndian.Uint32(data[interiorKeysOffset+i*interiorKeySize:]))
}

func interiorSetKey(data []byte, i int, key int32) {
	binary.LittleEndian.PutUint32(data[interiorKeysOffset+i*interiorKeySize:], uint32(key))
}

func interiorGetChild(data []byte, i int) bufferpool.PageID {
	return bufferpool.PageID(int32(binary.LittleEndian.Uint32(data[interiorChildrenOffset+i*pageIDSize:])))
}

func interiorSetChild(data []byte, i int, id bufferpool.PageID) {
	binary.LittleEndian.PutUint32(data[interiorChildrenOffset+i*pageIDSize:], uint32(int32(id)))
}

func interiorInit(data []byte, level int32) {
	interiorSetLevel(data, level)
	for i := 0; i < InteriorCapacity; i++ {
		interiorSetKey(data, i, 0)
	}
	for i := 0; i < InteriorCapacity+1; i++ {
		interiorSetChild(data, i, 0)
	}
}

// interiorHasRoom reports whether the node has a free trailing child
// slot.
func interiorHasRoom(data []byte) bool {
	return interiorGetChild(data, InteriorCapacity) == 0
}

// interiorInsertNoSplit inserts (key, childPageID) into an interior
// node known to have at least one free child slot, shifting existing
// entries right by the same right-to-left scan leafInsertNoSplit
// uses, so that entry.key becomes keys[i] with its right child at
// children[i+1].
func interiorInsertNoSplit(data []byte, key int32, childPageID bufferpool.PageID) {
	for i := InteriorCapacity; i >= 1; i-- {
		if interiorGetChild(data, i) == 0 {
			continue
		}
		if interiorGetKey(data, i-1) > key {
			interiorSetKey(data, i, interiorGetKey(data, i-1))
			interiorSetChild(data, i+1, interiorGetChild(data, i))
			continue
		}
		interiorSetKey(data, i, key)
		interiorSetChild(data, i+1, childPageID)
		return
	}
	interiorSetKey(data, 0, key)
	interiorSetChild(data, 1, childPageID)
}

// interiorFindNextChild chooses the child subtree for key, per
// spec.md §4.2: the largest i with children[i] != 0 and
// keys[i-1] < key, else children[0].
func interiorFindNextChild(data []byte, key int32) bufferpool.PageID {
	for i := InteriorCapacity; i > 0; i-- {
		if interiorGetChild(data, i) != 0 && interiorGetKey(data, i-1) < key {
			return interiorGetChild(data, i)
		}
	}
	return interiorGetChild(data, 0)
}

// interiorLastOccupiedChild returns the largest i with
// children[i] != 0.
func interiorLastOccupiedChild(data []byte) int {
	for i := InteriorCapacity; i > 0; i-- {
		if interiorGetChild(data, i) != 0 {
			return i
		}
	}
	return 0
}
