// Package replacer implements the buffer pool's two victim-selection
// strategies: a CLOCK (second-chance) replacer and an LRU-K replacer.
// Both satisfy the same Replacer contract so the buffer pool manager can
// be built against either without branching on which one it holds.
package replacer

import "github.com/arraydb/bufferpool/internal/common"

// Replacer tracks the set of currently-evictable frames and picks a
// victim among them. Frames the buffer pool has pinned are never passed
// to SetEvictable(true), so they never become eviction candidates
// (spec.md invariant P2).
//
// Out-of-range frame ids are a fatal condition (spec.md §7,
// "Bad-frame-id") and panic rather than returning an error, matching the
// teacher's own bounds-check panics in its free/LRU list helpers.
type Replacer interface {
	// RecordAccess notes that frameID was just accessed, advancing its
	// recency/usage bookkeeping. It does not change evictability.
	RecordAccess(frameID common.FrameID)

	// SetEvictable marks frameID as a candidate for eviction (true) or
	// removes it from consideration (false).
	SetEvictable(frameID common.FrameID, evictable bool)

	// Evict selects and removes a victim from the evictable set.
	// Returns (0, false) if no frame is evictable.
	Evict() (common.FrameID, bool)

	// Remove forgets all history for frameID and marks it non-evictable.
	// Used when a frame is being recycled for a different page.
	Remove(frameID common.FrameID)

	// Size reports the number of currently evictable frames.
	Size() int
}
