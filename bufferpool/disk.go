package bufferpool

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/alex-panda/cs564-btreeindex/internal/syspage"
)

// DiskManager reads and writes fixed-size pages of a single backing
// file at their page-aligned offsets.
type DiskManager struct {
	mu *sync.Mutex
	f  *os.File
}

// NewDiskManager opens (creating if necessary) the file at path and
// returns a manager over it. existed reports whether the file was
// already present before this call.
func NewDiskManager(path string) (dm *DiskManager, existed bool, err error) {
	_, statErr := os.Stat(path)
	existed = statErr == nil

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0666)
	if err != nil {
		return nil, false, fmt.Errorf("bufferpool: open %s: %w", path, err)
	}

	if hostPageSize := syspage.Size(); hostPageSize > 0 && hostPageSize%PageSize != 0 && PageSize%hostPageSize != 0 {
		log.Printf("bufferpool: on-disk page size %d does not evenly divide host VM page size %d", PageSize, hostPageSize)
	}

	return &DiskManager{mu: &sync.Mutex{}, f: f}, existed, nil
}

// WritePage writes data, which must be exactly PageSize bytes, to the
// page-aligned offset for id.
func (d *DiskManager) WritePage(id PageID, data []byte) error {
	if len(data) != PageSize {
		return fmt.Errorf("bufferpool: write page %d: buffer must be %d bytes, got %d", id, PageSize, len(data))
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	offset := int64(id) * PageSize
	if _, err := d.f.Seek(offset, 0); err != nil {
		return err
	}
	n, err := d.f.Write(data)
	if err != nil {
		return err
	}
	if n != PageSize {
		return fmt.Errorf("bufferpool: write page %d: wrote %d of %d bytes", id, n, PageSize)
	}
	return d.f.Sync()
}

// ReadPage reads the page-aligned bytes for id into data, which must
// be exactly PageSize bytes.
func (d *DiskManager) ReadPage(id PageID, data []byte) error {
	if len(data) != PageSize {
		return fmt.Errorf("bufferpool: read page %d: buffer must be %d bytes, got %d", id, PageSize, len(data))
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	offset := int64(id) * PageSize
	if _, err := d.f.Seek(offset, 0); err != nil {
		return err
	}
	n, err := d.f.Read(data[:PageSize])
	if err != nil {
		return err
	}
	if n != PageSize {
		return fmt.Errorf("bufferpool: read page %d: read %d of %d bytes", id, n, PageSize)
	}
	return nil
}

// Close closes the underlying file handle.
func (d *DiskManager) Close() error {
	return d.f.Close()
}

// Remove closes and deletes the underlying file. Used by tests and by
// callers that want to discard an index file entirely.
func (d *DiskManager) Remove(path string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.f.Close(); err != nil {
		return err
	}
	return os.Remove(path)
}
