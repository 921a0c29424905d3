//go:build !windows

package disk

import (
	"fmt"

	"github.com/arraydb/bufferpool/internal/common"
	"golang.org/x/sys/unix"
)

// mmap maps size bytes of fm.File, growing the file first if it is
// smaller. Grounded on mjm918-tur/pkg/pager/mmap_unix.go's use of
// golang.org/x/sys/unix for the map/sync calls.
func mmap(fm *FileManager, size int64) error {
	if fm.File == nil {
		return common.ErrFileManagerNil
	}
	if size <= 0 {
		return common.ErrInvalidInitialSize
	}
	if size > common.MaxMapSize {
		return common.ErrMaxMapSizeExceeded
	}

	if err := fm.File.Truncate(size); err != nil {
		return fmt.Errorf("truncate to %d: %w", size, err)
	}

	data, err := unix.Mmap(int(fm.File.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return fmt.Errorf("mmap: %w", err)
	}

	fm.Data = data
	fm.Size = size
	return nil
}

// munmap syncs and unmaps fm's current mapping.
func munmap(fm *FileManager) error {
	if fm.File == nil {
		return common.ErrFileManagerNil
	}
	if fm.Data == nil {
		return nil
	}

	if err := unix.Msync(fm.Data, unix.MS_SYNC); err != nil {
		return fmt.Errorf("msync: %w", err)
	}
	if err := unix.Munmap(fm.Data); err != nil {
		return fmt.Errorf("munmap: %w", err)
	}

	fm.Data = nil
	fm.Size = 0
	return nil
}
