// Package buffer implements the buffer pool manager: a fixed-size cache of
// disk pages addressed by page id, backed by a pluggable eviction
// Replacer and an extendible hash table page table (package eht). It is
// the component the rest of a storage engine calls to pin, read, and
// write back pages without touching the disk manager directly.
package buffer

import (
	"fmt"
	"sync"

	"github.com/arraydb/bufferpool/internal/common"
	"github.com/arraydb/bufferpool/internal/eht"
	"github.com/arraydb/bufferpool/internal/replacer"
	"github.com/arraydb/bufferpool/internal/storage/disk"
	"github.com/dustin/go-humanize"
	"github.com/golang/glog"
)

// Stats is a point-in-time snapshot of pool activity counters, taken
// under the pool's latch.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Pool is the buffer pool manager described in spec.md §4.4: a frame
// array, a free list, one page-table EHT, one replacer, and a monotone
// page-id allocator, all guarded by a single coarse latch.
type Pool struct {
	mu sync.Mutex

	frames   []frame
	nextFree []int // teacher's int-linked free list idiom; -1 terminates
	freeHead int

	pageTable *eht.Table[common.PageID, common.FrameID]
	replacer  replacer.Replacer
	disk      disk.Manager

	nextPageID common.PageID
	logManager any // reserved, never dereferenced

	stats Stats
}

// Option configures a Pool at construction time.
type Option func(*common.Options)

// WithReplacerK selects LRU-K (with the given k) instead of the default
// CLOCK replacer.
func WithReplacerK(k int) Option {
	return func(o *common.Options) { o.ReplacerK = k }
}

// WithLogManager attaches a reserved log-manager handle. The Pool stores
// it but never reads it, and exposes no accessor for it.
func WithLogManager(lm any) Option {
	return func(o *common.Options) { o.LogManager = lm }
}

// NewPool builds a pool of poolSize frames over dm. With no options (or
// ReplacerK == 0) it uses CLOCK; WithReplacerK(k) selects LRU-K.
func NewPool(poolSize int, dm disk.Manager, opts ...Option) *Pool {
	if poolSize <= 0 {
		panic(common.ErrInvalidPoolSize)
	}

	cfg := common.DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	var rep replacer.Replacer
	if cfg.ReplacerK > 0 {
		rep = replacer.NewLRUKReplacer(poolSize, cfg.ReplacerK)
	} else {
		rep = replacer.NewClockReplacer(poolSize)
	}

	p := &Pool{
		frames:     make([]frame, poolSize),
		nextFree:   make([]int, poolSize),
		pageTable:  eht.New[common.PageID, common.FrameID](0, eht.Uint64Hasher[common.PageID]()),
		replacer:   rep,
		disk:       dm,
		logManager: cfg.LogManager,
	}
	for i := 0; i < poolSize; i++ {
		p.nextFree[i] = i + 1
		p.frames[i].pageID = common.InvalidPageID
	}
	p.nextFree[poolSize-1] = -1

	glog.V(1).Infof("buffer: new pool, %d frames (%s)", poolSize, humanize.Bytes(uint64(poolSize)*common.PageSize))
	return p
}

func (p *Pool) checkBounds(id common.FrameID) {
	if int(id) < 0 || int(id) >= len(p.frames) {
		panic(fmt.Sprintf("[pool] frame index out of bound: %d", id))
	}
}

// popFree removes and returns a frame id from the free list, or (0,
// false) if it's empty.
func (p *Pool) popFree() (common.FrameID, bool) {
	if p.freeHead == -1 {
		return 0, false
	}
	id := common.FrameID(p.freeHead)
	p.freeHead = p.nextFree[p.freeHead]
	return id, true
}

func (p *Pool) pushFree(id common.FrameID) {
	p.checkBounds(id)
	p.nextFree[id] = p.freeHead
	p.freeHead = int(id)
}

// acquireFrame obtains a frame for a new resident page: the free list
// first, else a replacer victim. The victim's prior resident (if dirty)
// is written back and its page-table entry removed before reuse. If that
// write-back fails, the victim stays resident and evictable and no frame
// is returned.
func (p *Pool) acquireFrame() (common.FrameID, bool) {
	if id, ok := p.popFree(); ok {
		return id, true
	}

	id, ok := p.replacer.Evict()
	if !ok {
		glog.Warningf("buffer: pool exhausted, no free or evictable frame")
		return 0, false
	}

	f := &p.frames[id]
	if f.dirty {
		glog.V(1).Infof("buffer: writeback of dirty victim frame %d (page %d)", id, f.pageID)
		if err := p.disk.WritePage(f.pageID, f.data[:]); err != nil {
			glog.Errorf("buffer: writeback of page %d failed: %v", f.pageID, err)
			p.replacer.SetEvictable(id, true)
			return 0, false
		}
	}
	p.stats.Evictions++
	p.pageTable.Remove(f.pageID)
	p.replacer.Remove(id)
	return id, true
}

// NewPage allocates a fresh page id, obtains a frame for it, and returns
// the new page's id and its pinned frame's buffer. Returns (0, nil, false)
// on exhaustion.
func (p *Pool) NewPage() (common.PageID, []byte, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id, ok := p.acquireFrame()
	if !ok {
		return 0, nil, false
	}

	pid := p.nextPageID
	p.nextPageID++

	f := &p.frames[id]
	f.reset(pid)
	f.pinCount = 1
	p.pageTable.Insert(pid, id)
	p.replacer.SetEvictable(id, false)
	p.replacer.RecordAccess(id)

	p.stats.Misses++
	glog.V(2).Infof("buffer: new_page %d -> frame %d", pid, id)
	return pid, f.data[:], true
}

// FetchPage returns the buffer for pageID, loading it from disk if it is
// not already resident. Returns (nil, false) on exhaustion.
func (p *Pool) FetchPage(pageID common.PageID) ([]byte, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if id, ok := p.pageTable.Find(pageID); ok {
		f := &p.frames[id]
		f.pinCount++
		p.replacer.SetEvictable(id, false)
		p.replacer.RecordAccess(id)
		p.stats.Hits++
		return f.data[:], true
	}

	id, ok := p.acquireFrame()
	if !ok {
		return nil, false
	}

	f := &p.frames[id]
	f.reset(pageID)
	if err := p.disk.ReadPage(pageID, f.data[:]); err != nil {
		glog.Errorf("buffer: read_page %d into frame %d failed: %v", pageID, id, err)
		f.reset(common.InvalidPageID)
		p.pushFree(id)
		return nil, false
	}
	f.pinCount = 1
	p.pageTable.Insert(pageID, id)
	p.replacer.SetEvictable(id, false)
	p.replacer.RecordAccess(id)

	p.stats.Misses++
	glog.V(2).Infof("buffer: fetch_page %d -> frame %d (miss)", pageID, id)
	return f.data[:], true
}

// UnpinPage decrements pageID's pin count and ORs isDirty into its dirty
// flag. Once the pin count reaches zero the frame becomes evictable.
// Returns false if the page is absent or already unpinned.
func (p *Pool) UnpinPage(pageID common.PageID, isDirty bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	id, ok := p.pageTable.Find(pageID)
	if !ok {
		return false
	}
	f := &p.frames[id]
	if f.pinCount == 0 {
		return false
	}

	f.pinCount--
	if isDirty {
		f.dirty = true
	}
	if f.pinCount == 0 {
		p.replacer.SetEvictable(id, true)
	}
	return true
}

// FlushPage writes pageID's buffer to disk (ignoring pin count) and
// clears its dirty flag. Returns false if the page is not resident.
func (p *Pool) FlushPage(pageID common.PageID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	id, ok := p.pageTable.Find(pageID)
	if !ok {
		return false
	}
	return p.flushFrameLocked(id)
}

func (p *Pool) flushFrameLocked(id common.FrameID) bool {
	f := &p.frames[id]
	if err := p.disk.WritePage(f.pageID, f.data[:]); err != nil {
		glog.Errorf("buffer: flush of page %d failed: %v", f.pageID, err)
		return false
	}
	f.dirty = false
	return true
}

// FlushAllPages writes back and clears the dirty flag of every frame
// currently holding a valid page id.
func (p *Pool) FlushAllPages() {
	p.mu.Lock()
	defer p.mu.Unlock()

	flushed := 0
	for id := range p.frames {
		if p.frames[id].pageID == common.InvalidPageID {
			continue
		}
		if p.flushFrameLocked(common.FrameID(id)) {
			flushed++
		}
	}
	glog.V(1).Infof("buffer: flush_all_pages wrote back %d frames", flushed)
}

// DeletePage removes pageID from the pool, returning its frame to the
// free list. Absent pages are a no-op success; pinned pages fail.
func (p *Pool) DeletePage(pageID common.PageID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	id, ok := p.pageTable.Find(pageID)
	if !ok {
		return true
	}
	f := &p.frames[id]
	if f.pinCount > 0 {
		return false
	}

	p.replacer.Remove(id)
	p.pageTable.Remove(pageID)
	f.reset(common.InvalidPageID)
	p.pushFree(id)
	p.DeallocatePage(pageID)
	return true
}

// AllocatePage reserves the next page id without attaching it to a
// frame. Exposed for callers that need an id ahead of first use.
func (p *Pool) AllocatePage() common.PageID {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextPageID
	p.nextPageID++
	return id
}

// DeallocatePage is a reserved hook for a future free-space manager; it
// currently does nothing.
func (p *Pool) DeallocatePage(pageID common.PageID) {}

// Stats returns a snapshot of hit/miss/eviction counters.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// PinCount returns pageID's current pin count and whether it is
// resident.
func (p *Pool) PinCount(pageID common.PageID) (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id, ok := p.pageTable.Find(pageID)
	if !ok {
		return 0, false
	}
	return p.frames[id].pinCount, true
}
