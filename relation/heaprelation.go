package relation

import (
	"fmt"

	"github.com/alex-panda/cs564-btreeindex/bufferpool"
)

// HeapRelation is an in-memory, append-only, fixed-record-size base
// relation. It exists to drive index-build tests without a real
// heap-file manager; every record it stores can be retrieved through
// a Scanner in RID order. Page numbering starts at 1 so that no
// record's RID can collide with the "unused slot" sentinel
// (PageNum == 0) that leaf arrays rely on.
type HeapRelation struct {
	recordSize int
	perPage    int
	pages      [][]byte
	slotsUsed  []int
}

// NewHeapRelation creates an empty relation whose records are all
// exactly recordSize bytes.
func NewHeapRelation(recordSize int) *HeapRelation {
	perPage := bufferpool.PageSize / recordSize
	if perPage < 1 {
		perPage = 1
	}
	return &HeapRelation{recordSize: recordSize, perPage: perPage}
}

// Insert appends data, which must be exactly recordSize bytes, as a
// new record and returns its RID.
func (r *HeapRelation) Insert(data []byte) (RID, error) {
	if len(data) != r.recordSize {
		return RID{}, fmt.Errorf("relation: record must be %d bytes, got %d", r.recordSize, len(data))
	}

	if len(r.pages) == 0 || r.slotsUsed[len(r.pages)-1] == r.perPage {
		r.pages = append(r.pages, make([]byte, r.perPage*r.recordSize))
		r.slotsUsed = append(r.slotsUsed, 0)
	}

	pageIdx := len(r.pages) - 1
	slot := r.slotsUsed[pageIdx]
	copy(r.pages[pageIdx][slot*r.recordSize:(slot+1)*r.recordSize], data)
	r.slotsUsed[pageIdx]++

	return RID{PageNum: uint32(pageIdx) + 1, SlotNum: uint16(slot)}, nil
}

// NewScan returns an independent Scanner positioned before the first record.
func (r *HeapRelation) NewScan() Scanner {
	return &heapScanner{rel: r}
}

type heapScanner struct {
	rel      *HeapRelation
	pageIdx  int
	slotIdx  int
}

func (s *heapScanner) Next() (RID, []byte, error) {
	rel := s.rel
	for s.pageIdx < len(rel.pages) {
		if s.slotIdx < rel.slotsUsed[s.pageIdx] {
			rs := rel.recordSize
			data := rel.pages[s.pageIdx][s.slotIdx*rs : (s.slotIdx+1)*rs]
			rid := RID{PageNum: uint32(s.pageIdx) + 1, SlotNum: uint16(s.slotIdx)}
			s.slotIdx++
			return rid, data, nil
		}
		s.pageIdx++
		s.slotIdx = 0
	}
	return RID{}, nil, ErrEndOfFile
}

func (s *heapScanner) Close() error {
	return nil
}
