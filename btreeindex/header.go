package btreeindex

import (
	"bytes"
	"encoding/binary"

	"github.com/alex-panda/cs564-btreeindex/bufferpool"
)

const (
	relationNameSize = 20

	headerRelationNameOffset      = 0
	headerAttrByteOffsetOffset    = headerRelationNameOffset + relationNameSize
	headerAttrTypeOffset          = headerAttrByteOffsetOffset + 4
	headerRootPageNoOffset        = headerAttrTypeOffset + 4
	headerInitialRootPageNoOffset = headerRootPageNoOffset + 4
)

// indexMetaInfo is the header page's decoded contents: the index's
// identity (relation name, attribute offset and type) plus the
// engine's root tracking: the current root page (rewritten on every
// root promotion) and the initial root page (written once at creation).
type indexMetaInfo struct {
	relationName       string
	attrByteOffset     int32
	attrType           int32
	rootPageNo         bufferpool.PageID
	initialRootPageNo  bufferpool.PageID
}

func readHeader(data []byte) indexMetaInfo {
	nameBytes := data[headerRelationNameOffset : headerRelationNameOffset+relationNameSize]
	name := nameBytes
	if i := bytes.IndexByte(nameBytes, 0); i >= 0 {
		name = nameBytes[:i]
	}
	return indexMetaInfo{
		relationName:      string(name),
		attrByteOffset:    int32(binary.LittleEndian.Uint32(data[headerAttrByteOffsetOffset:])),
		attrType:          int32(binary.LittleEndian.Uint32(data[headerAttrTypeOffset:])),
		rootPageNo:        bufferpool.PageID(int32(binary.LittleEndian.Uint32(data[headerRootPageNoOffset:]))),
		initialRootPageNo: bufferpool.PageID(int32(binary.LittleEndian.Uint32(data[headerInitialRootPageNoOffset:]))),
	}
}

func writeHeader(data []byte, meta indexMetaInfo) {
	name := meta.relationName
	if len(name) > relationNameSize-1 {
		name = name[:relationNameSize-1]
	}
	var nameBuf [relationNameSize]byte
	copy(nameBuf[:], name)
	copy(data[headerRelationNameOffset:headerRelationNameOffset+relationNameSize], nameBuf[:])

	binary.LittleEndian.PutUint32(data[headerAttrByteOffsetOffset:], uint32(meta.attrByteOffset))
	binary.LittleEndian.PutUint32(data[headerAttrTypeOffset:], uint32(meta.attrType))
	binary.LittleEndian.PutUint32(data[headerRootPageNoOffset:], uint32(int32(meta.rootPageNo)))
	binary.LittleEndian.PutUint32(data[headerInitialRootPageNoOffset:], uint32(int32(meta.initialRootPageNo)))
}

func writeHeaderRootPageNo(data []byte, id bufferpool.PageID) {
	binary.LittleEndian.PutUint32(data[headerRootPageNoOffset:], uint32(int32(id)))
}
