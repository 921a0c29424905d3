package replacer

import (
	"fmt"
	"sync"

	"github.com/arraydb/bufferpool/internal/common"
	"github.com/golang/glog"
)

type lrukEntry struct {
	// history holds up to k timestamps, oldest first, most recent last.
	history   []int64
	evictable bool
}

// LRUKReplacer implements spec.md §4.3: victims are chosen by k-distance
// (time since the k-th most recent access, or +infinity with fewer than
// k accesses), with infinite-distance frames preferred and ties broken by
// earliest most-recent access.
type LRUKReplacer struct {
	mu sync.Mutex

	k              int
	clock          int64
	frames         []lrukEntry
	evictableCount int
}

// NewLRUKReplacer builds an LRU-K replacer over numFrames frame ids with
// the given k (a k below 1 is treated as 1).
func NewLRUKReplacer(numFrames, k int) *LRUKReplacer {
	if numFrames <= 0 {
		panic(fmt.Sprintf("[lruk] invalid num_frames: %d", numFrames))
	}
	if k < 1 {
		k = 1
	}
	return &LRUKReplacer{k: k, frames: make([]lrukEntry, numFrames)}
}

func (r *LRUKReplacer) checkBounds(frameID common.FrameID) {
	if int(frameID) < 0 || int(frameID) >= len(r.frames) {
		panic(fmt.Sprintf("[lruk] frame id out of range: %d", frameID))
	}
}

// RecordAccess appends the current logical timestamp to frameID's
// history, discarding the oldest entry once more than k are held.
// Timestamps only advance inside the replacer's latch, guaranteeing each
// is unique (spec.md §4.3 "Thread safety").
func (r *LRUKReplacer) RecordAccess(frameID common.FrameID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkBounds(frameID)

	r.clock++
	e := &r.frames[frameID]
	e.history = append(e.history, r.clock)
	if len(e.history) > r.k {
		e.history = e.history[len(e.history)-r.k:]
	}
}

// SetEvictable marks or unmarks frameID as an eviction candidate.
func (r *LRUKReplacer) SetEvictable(frameID common.FrameID, evictable bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkBounds(frameID)

	e := &r.frames[frameID]
	if evictable && !e.evictable {
		r.evictableCount++
	} else if !evictable && e.evictable {
		r.evictableCount--
	}
	e.evictable = evictable
}

// Evict picks the victim with the algorithm of spec.md §4.3: infinite
// k-distance (fewer than k accesses) beats any finite k-distance; within
// either group the frame with the earliest most-recent access wins a tie
// (and, among finite distances, the largest distance wins outright).
func (r *LRUKReplacer) Evict() (common.FrameID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.evictableCount == 0 {
		return 0, false
	}

	now := r.clock
	var (
		victim       common.FrameID
		victimInf    bool
		victimDist   int64
		victimRecent int64
		found        bool
	)

	for id := range r.frames {
		e := &r.frames[id]
		if !e.evictable {
			continue
		}
		inf := len(e.history) < r.k
		var mostRecent int64
		if len(e.history) > 0 {
			mostRecent = e.history[len(e.history)-1]
		}
		var dist int64
		if !inf {
			dist = now - e.history[0]
		}

		if !found {
			victim, victimInf, victimDist, victimRecent = common.FrameID(id), inf, dist, mostRecent
			found = true
			continue
		}

		better := false
		switch {
		case inf && !victimInf:
			better = true
		case inf == victimInf && inf:
			better = mostRecent < victimRecent
		case !inf && !victimInf:
			better = dist > victimDist || (dist == victimDist && mostRecent < victimRecent)
		}
		if better {
			victim, victimInf, victimDist, victimRecent = common.FrameID(id), inf, dist, mostRecent
		}
	}

	if !found {
		return 0, false
	}

	e := &r.frames[victim]
	e.evictable = false
	e.history = nil
	r.evictableCount--
	glog.V(2).Infof("lruk: evicted frame %d", victim)
	return victim, true
}

// Remove forgets frameID's access history and marks it non-evictable,
// used when its frame is recycled for a different page.
func (r *LRUKReplacer) Remove(frameID common.FrameID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkBounds(frameID)

	e := &r.frames[frameID]
	if e.evictable {
		r.evictableCount--
	}
	e.evictable = false
	e.history = nil
}

// Size reports the number of currently evictable frames.
func (r *LRUKReplacer) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.evictableCount
}
