//go:build windows

package disk

import (
	"fmt"
	"unsafe"

	"github.com/arraydb/bufferpool/internal/common"
	"golang.org/x/sys/windows"
)

// mapHandles holds each FileManager's Windows mapping handle, kept alongside
// FileManager.Data so munmap can tear it down. Grounded on the teacher's
// internal/storage/file/db_windows.go, rebuilt against golang.org/x/sys/windows
// (the dependency mjm918-tur/pkg/pager/mmap_windows.go already uses for
// the same CreateFileMapping/MapViewOfFile sequence) instead of raw
// syscall.Handle.
var mapHandles = map[*FileManager]windows.Handle{}

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

	h, err := windows.CreateFileMapping(windows.Handle(fm.File.Fd()), nil, windows.PAGE_READWRITE,
		uint32(size>>32), uint32(size&0xFFFFFFFF), nil)
	if err != nil {
		return fmt.Errorf("create file mapping: %w", err)
	}

	addr, err := windows.MapViewOfFile(h, windows.FILE_MAP_READ|windows.FILE_MAP_WRITE, 0, 0, uintptr(size))
	if err != nil {
		windows.CloseHandle(h)
		return fmt.Errorf("map view of file: %w", err)
	}

	fm.Data = unsafe.Slice((*byte)(unsafe.Pointer(addr)), size)
	fm.Size = size
	mapHandles[fm] = h
	return nil
}

func munmap(fm *FileManager) error {
	if fm.File == nil {
		return common.ErrFileManagerNil
	}
	if fm.Data == nil {
		return nil
	}

	addr := uintptr(unsafe.Pointer(&fm.Data[0]))
	if err := windows.FlushViewOfFile(addr, uintptr(len(fm.Data))); err != nil {
		return fmt.Errorf("flush view: %w", err)
	}
	if err := windows.UnmapViewOfFile(addr); err != nil {
		return fmt.Errorf("unmap view: %w", err)
	}
	if h, ok := mapHandles[fm]; ok {
		windows.CloseHandle(h)
		delete(mapHandles, fm)
	}

	fm.Data = nil
	fm.Size = 0
	return nil
}
