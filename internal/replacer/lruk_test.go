package replacer

import (
	"testing"

	"github.com/arraydb/bufferpool/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLRUKTieBreak encodes spec.md's S3 literally: pool_size=3, k=2.
// Frame 0 accessed at logical times 1,2; frame 1 at 3,4; frame 2 only at
// 5. All marked evictable. Evict() must return frame 2 (infinite
// k-distance, fewer than k accesses). Then frame 0 is accessed twice
// more; Evict() must now return frame 1 (larger k-distance).
func TestLRUKTieBreak(t *testing.T) {
	r := NewLRUKReplacer(3, 2)

	r.RecordAccess(0)
	r.RecordAccess(0)
	r.RecordAccess(1)
	r.RecordAccess(1)
	r.RecordAccess(2)

	for _, f := range []common.FrameID{0, 1, 2} {
		r.SetEvictable(f, true)
	}
	require.Equal(t, 3, r.Size())

	victim, ok := r.Evict()
	require.True(t, ok)
	assert.Equal(t, common.FrameID(2), victim, "frame with fewer than k accesses has infinite k-distance")

	r.RecordAccess(0)
	r.RecordAccess(0)

	victim2, ok2 := r.Evict()
	require.True(t, ok2)
	assert.Equal(t, common.FrameID(1), victim2, "frame 1's k-distance is larger once frame 0 has been touched recently")
}

func TestLRUKPinnedFrameNeverEvictable(t *testing.T) {
	r := NewLRUKReplacer(2, 1)
	r.RecordAccess(0)
	r.RecordAccess(1)
	r.SetEvictable(1, true) // frame 0 stays non-evictable (pinned)

	victim, ok := r.Evict()
	require.True(t, ok)
	assert.Equal(t, common.FrameID(1), victim)
}

func TestLRUKEmptyReturnsNone(t *testing.T) {
	r := NewLRUKReplacer(2, 2)
	_, ok := r.Evict()
	assert.False(t, ok)
}

func TestLRUKRemoveForgetsHistory(t *testing.T) {
	r := NewLRUKReplacer(2, 2)
	r.RecordAccess(0)
	r.RecordAccess(0)
	r.SetEvictable(0, true)
	r.Remove(0)

	assert.Equal(t, 0, r.Size())
	_, ok := r.Evict()
	assert.False(t, ok)
}

func TestLRUKInvalidFrameIDPanics(t *testing.T) {
	r := NewLRUKReplacer(2, 2)
	assert.Panics(t, func() { r.RecordAccess(9) })
	assert.Panics(t, func() { r.SetEvictable(-1, true) })
}

func TestLRUKHistoryCappedAtK(t *testing.T) {
	r := NewLRUKReplacer(1, 2)
	for i := 0; i < 10; i++ {
		r.RecordAccess(0)
	}
	assert.Len(t, r.frames[0].history, 2)
}
