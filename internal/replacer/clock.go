package replacer

import (
	"fmt"
	"sync"

	"github.com/arraydb/bufferpool/internal/common"
	"github.com/golang/glog"
)

type clockEntry struct {
	member bool
	ref    bool
}

// ClockReplacer is the second-chance ring described in spec.md §4.2.
// SetEvictable(id, false) is the spec's "pin"; SetEvictable(id, true) is
// "unpin" (sets member=true, ref=true); Evict is "victim".
type ClockReplacer struct {
	mu sync.Mutex

	ring        []clockEntry
	hand        int
	memberCount int
}

// NewClockReplacer builds a CLOCK replacer over numFrames frame ids.
func NewClockReplacer(numFrames int) *ClockReplacer {
	if numFrames <= 0 {
		panic(fmt.Sprintf("[clock] invalid num_frames: %d", numFrames))
	}
	return &ClockReplacer{ring: make([]clockEntry, numFrames)}
}

func (c *ClockReplacer) checkBounds(frameID common.FrameID) {
	if int(frameID) < 0 || int(frameID) >= len(c.ring) {
		panic(fmt.Sprintf("[clock] frame id out of range: %d", frameID))
	}
}

// RecordAccess sets the ref bit on an already-member frame; a second
// "visit" before eviction gives it another chance. No-op on a non-member
// (pinned) frame.
func (c *ClockReplacer) RecordAccess(frameID common.FrameID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checkBounds(frameID)
	if c.ring[frameID].member {
		c.ring[frameID].ref = true
	}
}

// SetEvictable implements pin (false) and unpin (true).
func (c *ClockReplacer) SetEvictable(frameID common.FrameID, evictable bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checkBounds(frameID)

	e := &c.ring[frameID]
	if evictable {
		if !e.member {
			c.memberCount++
		}
		e.member = true
		e.ref = true
		return
	}
	if e.member {
		c.memberCount--
	}
	e.member = false
	e.ref = false
}

// Evict runs the second-chance sweep of spec.md §4.2: advance the
// persistent hand, skipping non-members; a member with ref=true has its
// ref bit cleared and is passed over; a member with ref=false is the
// victim. Bounding the sweep at twice the ring size guarantees
// termination — a frame whose ref bit was just cleared is guaranteed to
// be re-examined with ref=false within one more lap.
func (c *ClockReplacer) Evict() (common.FrameID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.memberCount == 0 {
		return 0, false
	}

	steps := 2 * len(c.ring)
	for i := 0; i < steps; i++ {
		idx := c.hand
		c.hand = (c.hand + 1) % len(c.ring)

		e := &c.ring[idx]
		if !e.member {
			continue
		}
		if e.ref {
			e.ref = false
			continue
		}

		e.member = false
		c.memberCount--
		glog.V(2).Infof("clock: evicted frame %d", idx)
		return common.FrameID(idx), true
	}
	return 0, false
}

// Remove forgets frameID's state entirely, used when its frame is being
// recycled for a different page.
func (c *ClockReplacer) Remove(frameID common.FrameID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checkBounds(frameID)

	e := &c.ring[frameID]
	if e.member {
		c.memberCount--
	}
	e.member = false
	e.ref = false
}

// Size returns the number of frames currently evictable.
func (c *ClockReplacer) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.memberCount
}
