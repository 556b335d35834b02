// Package btreeindex implements an on-disk B+ tree secondary index
// over a base relation: fixed-width int32 keys, an append-only
// insert path, and ordered range scans. It has no delete and no
// concurrency control; building one from a relation and inserting
// into it are expected to be serialized by the caller.
package btreeindex

import (
	"encoding/binary"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/alex-panda/cs564-btreeindex/bufferpool"
	"github.com/alex-panda/cs564-btreeindex/relation"
)

const rootHeaderPageID bufferpool.PageID = 0

// Index is a single open B+ tree secondary index file.
type Index struct {
	bpm  *bufferpool.Pool
	disk *bufferpool.DiskManager

	Name           string
	relationName   string
	attrByteOffset int32
	attrType       int32

	headerPageID      bufferpool.PageID
	rootPageID        bufferpool.PageID
	initialRootPageID bufferpool.PageID

	scanExecuting bool
	lowVal        int32
	highVal       int32
	lowOp         Operator
	highOp        Operator
	currentPage   *bufferpool.Page
	currentPageID bufferpool.PageID
	nextEntry     int
}

// IndexFileName deterministically names an index over relationName's
// attribute at attrByteOffset, the same name Open returns.
func IndexFileName(relationName string, attrByteOffset int32) string {
	return fmt.Sprintf("%s.%d", relationName, attrByteOffset)
}

// Open opens the index file for (relationName, attrByteOffset) inside
// dir, creating and populating it from scan if it does not yet exist.
// scan is only consulted on the creation path; it may be nil when the
// caller knows the file already exists. It returns the index together
// with the exact file name the constructor used.
func Open(dir string, poolSize int, relationName string, attrByteOffset int32, attrType int32, scan relation.Scanner) (idx *Index, indexName string, err error) {
	indexName = IndexFileName(relationName, attrByteOffset)
	path := filepath.Join(dir, indexName)

	disk, existed, err := bufferpool.NewDiskManager(path)
	if err != nil {
		return nil, indexName, err
	}
	bpm := bufferpool.NewPool(poolSize, disk)

	idx = &Index{
		bpm:            bpm,
		disk:           disk,
		Name:           indexName,
		relationName:   relationName,
		attrByteOffset: attrByteOffset,
		attrType:       attrType,
		headerPageID:   rootHeaderPageID,
	}

	if existed {
		if err := idx.loadExisting(); err != nil {
			return nil, indexName, err
		}
		return idx, indexName, nil
	}

	if err := idx.buildNew(scan); err != nil {
		return nil, indexName, err
	}
	return idx, indexName, nil
}

func (idx *Index) loadExisting() error {
	headerPage, err := idx.bpm.ReadPage(idx.headerPageID)
	if err != nil {
		return err
	}
	meta := readHeader(headerPage.Data())
	if err := idx.bpm.UnpinPage(idx.headerPageID, false); err != nil {
		return err
	}

	if meta.relationName != idx.relationName || meta.attrByteOffset != idx.attrByteOffset || meta.attrType != idx.attrType {
		return ErrBadIndexInfo
	}
	idx.rootPageID = meta.rootPageNo
	idx.initialRootPageID = meta.initialRootPageNo
	return nil
}

func (idx *Index) buildNew(scan relation.Scanner) error {
	headerPage, err := idx.bpm.AllocPage()
	if err != nil {
		return err
	}
	rootPage, err := idx.bpm.AllocPage()
	if err != nil {
		idx.bpm.UnpinPage(headerPage.ID(), false)
		return err
	}

	leafInit(rootPage.Data())
	idx.rootPageID = rootPage.ID()
	idx.initialRootPageID = rootPage.ID()

	meta := indexMetaInfo{
		relationName:      idx.relationName,
		attrByteOffset:    idx.attrByteOffset,
		attrType:          idx.attrType,
		rootPageNo:        idx.rootPageID,
		initialRootPageNo: idx.initialRootPageID,
	}
	writeHeader(headerPage.Data(), meta)

	unpinHeader := idx.bpm.UnpinPage(headerPage.ID(), true)
	unpinRoot := idx.bpm.UnpinPage(rootPage.ID(), true)
	if err := firstErr(unpinHeader, unpinRoot); err != nil {
		return err
	}

	if scan == nil {
		return nil
	}

	for {
		rid, record, err := scan.Next()
		if err != nil {
			if errors.Is(err, relation.ErrEndOfFile) {
				break
			}
			return err
		}
		key := int32(binary.LittleEndian.Uint32(record[idx.attrByteOffset:]))
		if err := idx.InsertEntry(key, rid); err != nil {
			return err
		}
	}
	return idx.bpm.FlushFile()
}

// Close ends any in-progress scan, flushes every dirty page, and
// closes the underlying file. A scan that was never started is not an
// error.
func (idx *Index) Close() error {
	if idx.scanExecuting {
		if err := idx.EndScan(); err != nil && !errors.Is(err, ErrScanNotInitialized) {
			return err
		}
	}
	if err := idx.bpm.FlushFile(); err != nil {
		return err
	}
	return idx.disk.Close()
}
