package disk

import (
	"errors"
	"fmt"
	"os"

	"github.com/arraydb/bufferpool/internal/common"
	"github.com/arraydb/bufferpool/internal/storage/page"
)

// FileManager is a Manager backed by an mmap'd, growable heap file: pages
// are addressed by a flat PageID*page.FramedSize offset (each logical
// page occupies page.FramedSize bytes on disk, header included), and the
// mapping is doubled (or grown to fit, whichever is larger) when a write
// lands past the current mapping, mirroring the teacher's
// internal/storage/file growth policy.
type FileManager struct {
	File *os.File
	Data []byte
	Size int64
}

// NewFileManager opens (creating if absent) path and maps in at least
// initialPages worth of framed page slots.
func NewFileManager(path string, initialPages int) (*FileManager, error) {
	if initialPages <= 0 {
		return nil, common.ErrInvalidInitialSize
	}

	initialSize := int64(initialPages) * int64(page.FramedSize)

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o666)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	fm := &FileManager{File: f}
	if err := mmap(fm, initialSize); err != nil {
		f.Close()
		return nil, fmt.Errorf("map file: %w", err)
	}
	return fm, nil
}

// ReadPage fills dest (which must be common.PageSize bytes) with the
// on-disk contents of id, unframing the stored header and verifying its
// checksum.
func (fm *FileManager) ReadPage(id common.PageID, dest []byte) error {
	offset := int64(id) * int64(page.FramedSize)
	if offset+int64(page.FramedSize) > fm.Size {
		return common.ErrPageOutOfBounds
	}

	p, err := page.Deserialize(fm.Data[offset : offset+int64(page.FramedSize)])
	if err != nil {
		return fmt.Errorf("read_page %d: %w", id, err)
	}
	copy(dest, p.Payload[:])
	return nil
}

// WritePage writes src (which must be common.PageSize bytes) as page id
// into the shared mapping, framing it with a header and checksum and
// growing the mapping first if necessary. It does not sync; the mapping
// is synced to the file when it is unmapped (on growth or Close).
func (fm *FileManager) WritePage(id common.PageID, src []byte) error {
	offset := int64(id) * int64(page.FramedSize)
	if offset+int64(page.FramedSize) > fm.Size {
		newSize := offset + int64(page.FramedSize)
		if doubled := fm.Size * 2; doubled > newSize {
			newSize = doubled
		}
		if newSize > common.MaxMapSize {
			return common.ErrMaxMapSizeExceeded
		}
		if err := munmap(fm); err != nil {
			return fmt.Errorf("unmap for grow: %w", err)
		}
		if err := mmap(fm, newSize); err != nil {
			return fmt.Errorf("remap for grow: %w", err)
		}
	}

	p := page.New(id)
	copy(p.Payload[:], src)
	copy(fm.Data[offset:], p.Serialize())
	return nil
}

// Close unmaps and closes the underlying file, syncing first.
func (fm *FileManager) Close() error {
	if fm == nil {
		return nil
	}
	var err error
	if e := munmap(fm); e != nil {
		err = errors.Join(err, fmt.Errorf("unmap: %w", e))
	}
	if fm.File != nil {
		if e := fm.File.Sync(); e != nil {
			err = errors.Join(err, fmt.Errorf("sync: %w", e))
		}
		if e := fm.File.Close(); e != nil {
			err = errors.Join(err, fmt.Errorf("close: %w", e))
		}
		fm.File = nil
	}
	return err
}
