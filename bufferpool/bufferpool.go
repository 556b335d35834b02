// Package bufferpool implements the paged-file and buffer-manager
// collaborators consumed by the B+ tree index engine: stable page
// identifiers, page-sized byte buffers, and a pin-counted cache with
// LRU victim selection backed by disk.
package bufferpool

import (
	"container/list"
	"fmt"
	"sync"
)

// PageID identifies a page within a single on-disk file. Page 0 is
// reserved for the file's header page; 0 also serves as the "no
// page" sentinel wherever a PageID field may be unset.
type PageID int32

const invalidPageID PageID = -1

// PageSize is the fixed size, in bytes, of every page in the file.
const PageSize = 4096

// Page is a pinned view into one frame of the pool. Callers must
// read and write Data() only while holding a pin acquired from
// AllocPage or ReadPage, and must release that pin with exactly one
// call to Pool.UnpinPage.
type Page struct {
	frameID  int
	id       PageID
	pinCount int
	data     []byte
	dirty    bool
	mu       *sync.RWMutex
}

// ID returns the page's stable identifier.
func (p *Page) ID() PageID {
	return p.id
}

// Data returns the page's backing byte buffer, always PageSize long.
func (p *Page) Data() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.data
}

func (p *Page) reset() {
	p.data = make([]byte, PageSize)
	p.dirty = false
	p.id = invalidPageID
}

func (p *Page) assignNew(id PageID, frameID int) {
	p.id = id
	p.frameID = frameID
	p.data = make([]byte, PageSize)
	p.dirty = false
}

func (p *Page) pin() {
	p.pinCount++
}

// Pool is the buffer manager: it multiplexes a fixed number of
// in-memory frames over a (usually larger) on-disk file, evicting an
// unpinned frame via an LRU replacement policy when no free frame is
// left. Allocation fails when every frame is pinned.
type Pool struct {
	size        int
	disk        *DiskManager
	pages       []Page
	pageTable   map[PageID]*Page
	replacer    Replacer
	freeList    *list.List
	mu          *sync.Mutex
	nextPageID  PageID
}

// NewPool creates a buffer pool of the given frame count backed by disk.
func NewPool(size int, disk *DiskManager) *Pool {
	pages := make([]Page, size)
	freeList := list.New()
	for idx := range pages {
		pages[idx].mu = &sync.RWMutex{}
		pages[idx].frameID = idx
		pages[idx].id = invalidPageID
		freeList.PushFront(idx)
	}
	// Continue page numbering after the pages already in the file.
	var nextPageID PageID
	if info, err := disk.f.Stat(); err == nil {
		nextPageID = PageID(info.Size() / PageSize)
	}
	return &Pool{
		size:       size,
		disk:       disk,
		pages:      pages,
		replacer:   NewLRUReplacer(size),
		freeList:   freeList,
		mu:         &sync.Mutex{},
		pageTable:  map[PageID]*Page{},
		nextPageID: nextPageID,
	}
}

func locked(m sync.Locker, h func()) {
	m.Lock()
	defer m.Unlock()
	h()
}

// takeFrame finds a frame from the free list first, falling back to
// the replacer's victim. Returns ok=false if the pool is exhausted
// (every frame pinned).
func (p *Pool) takeFrame() (frameID int, victimed bool, ok bool) {
	if p.freeList.Len() != 0 {
		free := p.freeList.Front()
		p.freeList.Remove(free)
		return free.Value.(int), false, true
	}
	frameID, found := p.replacer.Victim()
	if !found {
		return 0, false, false
	}
	return frameID, true, true
}

func (p *Pool) flushVictimIfDirty(page *Page) error {
	if page.dirty {
		if err := p.disk.WritePage(page.id, page.data); err != nil {
			return fmt.Errorf("bufferpool: flush victim page %d: %w", page.id, err)
		}
	}
	return nil
}

// AllocPage allocates a fresh, pinned page. Corresponds to the
// "allocPage" collaborator call in the engine's contract.
func (p *Pool) AllocPage() (*Page, error) {
	var (
		page      *Page
		id        PageID
		unavail   bool
		victimed  bool
		freeFrame int
	)
	locked(p.mu, func() {
		frameID, isVictim, ok := p.takeFrame()
		if !ok {
			unavail = true
			return
		}
		freeFrame, victimed = frameID, isVictim
		page = &p.pages[freeFrame]
		if page.id != invalidPageID {
			delete(p.pageTable, page.id)
		}
		id = p.nextPageID
		p.nextPageID++
		p.pageTable[id] = page
		page.mu.Lock()
	})
	if unavail {
		return nil, fmt.Errorf("bufferpool: pool exhausted, every frame pinned")
	}
	defer page.mu.Unlock()
	if victimed {
		if err := p.flushVictimIfDirty(page); err != nil {
			return nil, err
		}
	}
	page.assignNew(id, freeFrame)
	page.pin()
	return page, nil
}

// ReadPage pins and returns the page with the given id, reading it
// from disk if it is not already cached. Corresponds to "readPage".
func (p *Pool) ReadPage(id PageID) (*Page, error) {
	var (
		page      *Page
		unavail   bool
		inPool    bool
		victimed  bool
		freeFrame int
	)
	locked(p.mu, func() {
		if cached := p.pageTable[id]; cached != nil {
			locked(cached.mu, func() { cached.pinCount++ })
			p.replacer.Pin(cached.frameID)
			page, inPool = cached, true
			return
		}
		frameID, isVictim, ok := p.takeFrame()
		if !ok {
			unavail = true
			return
		}
		freeFrame, victimed = frameID, isVictim
		page = &p.pages[freeFrame]
		if page.id != invalidPageID {
			delete(p.pageTable, page.id)
		}
		p.pageTable[id] = page
		page.mu.Lock()
	})
	if unavail {
		return nil, fmt.Errorf("bufferpool: pool exhausted, every frame pinned")
	}
	if inPool {
		return page, nil
	}
	defer page.mu.Unlock()
	if victimed {
		if err := p.flushVictimIfDirty(page); err != nil {
			return nil, err
		}
	}
	page.assignNew(id, freeFrame)
	if err := p.disk.ReadPage(id, page.data); err != nil {
		return nil, fmt.Errorf("bufferpool: read page %d: %w", id, err)
	}
	page.pin()
	return page, nil
}

// UnpinPage releases one pin on the page, marking it dirty if dirty
// is true. Corresponds to "unPinPage(dirty)". Returns ErrPageNotPinned
// if the page has no outstanding pin.
func (p *Pool) UnpinPage(id PageID, dirty bool) error {
	var page *Page
	locked(p.mu, func() { page = p.pageTable[id] })
	if page == nil {
		return fmt.Errorf("bufferpool: unpin page %d: %w", id, ErrPageNotPinned)
	}

	var (
		frameID  int
		prevPin  int
	)
	locked(page.mu, func() {
		prevPin = page.pinCount
		if prevPin > 0 {
			page.pinCount--
		}
		frameID = page.frameID
		if dirty {
			page.dirty = true
		}
	})
	if prevPin <= 0 {
		return fmt.Errorf("bufferpool: unpin page %d: %w", id, ErrPageNotPinned)
	}
	if prevPin == 1 {
		p.replacer.Unpin(frameID)
	}
	return nil
}

// FlushFile writes every dirty page to disk. It returns ErrPagePinned
// without writing anything if any tracked page is still pinned.
// Corresponds to "flushFile".
func (p *Pool) FlushFile() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for id, page := range p.pageTable {
		var pinned bool
		locked(page.mu, func() { pinned = page.pinCount > 0 })
		if pinned {
			return fmt.Errorf("bufferpool: flush file: page %d: %w", id, ErrPagePinned)
		}
	}
	for id, page := range p.pageTable {
		var (
			dirty bool
			data  []byte
		)
		locked(page.mu, func() {
			dirty = page.dirty
			data = page.data
		})
		if !dirty {
			continue
		}
		if err := p.disk.WritePage(id, data); err != nil {
			return fmt.Errorf("bufferpool: flush file: page %d: %w", id, err)
		}
		locked(page.mu, func() { page.dirty = false })
	}
	return nil
}
