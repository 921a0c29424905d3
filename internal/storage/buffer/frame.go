package buffer

import "github.com/arraydb/bufferpool/internal/common"

// frame is one slot of the pool's fixed-size array. It tracks the page
// currently resident in it (if any), the pin count that keeps it out of
// the evictable partition, and whether its contents have diverged from
// disk since the last flush.
type frame struct {
	pageID   common.PageID
	pinCount int
	dirty    bool
	data     [common.PageSize]byte
}

func (f *frame) reset(pageID common.PageID) {
	f.pageID = pageID
	f.pinCount = 0
	f.dirty = false
	for i := range f.data {
		f.data[i] = 0
	}
}
