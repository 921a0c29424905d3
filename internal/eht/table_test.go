package eht

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identityHasher() Hasher[uint64] {
	return func(k uint64) uint64 { return k }
}

func TestFindInsertRemove(t *testing.T) {
	tbl := New[uint64, string](2, identityHasher())

	_, ok := tbl.Find(1)
	assert.False(t, ok, "empty table has no entries")

	tbl.Insert(1, "a")
	v, ok := tbl.Find(1)
	require.True(t, ok)
	assert.Equal(t, "a", v)

	tbl.Insert(1, "b")
	v, ok = tbl.Find(1)
	require.True(t, ok)
	assert.Equal(t, "b", v, "insert upserts an existing key")

	assert.True(t, tbl.Remove(1))
	_, ok = tbl.Find(1)
	assert.False(t, ok, "removed key is gone")

	assert.False(t, tbl.Remove(1), "removing an absent key reports false")
}

func TestDirectoryLengthIsPowerOfTwo(t *testing.T) {
	tbl := New[uint64, int](2, identityHasher())
	for i := uint64(0); i < 64; i++ {
		tbl.Insert(i, int(i))
		depth := tbl.GlobalDepth()
		assert.Equal(t, 1<<uint(depth), len(tbl.directory), "directory length == 2^global_depth")
	}
}

// TestSplitCascade encodes spec.md's S5: bucket_size=2, global_depth=0,
// three keys whose hashes share their low bits force a multi-level split.
func TestSplitCascade(t *testing.T) {
	// hash chosen so keys 1 and 2 collide on every low bit up to bit 1,
	// forcing the split to recurse past a single level.
	hash := func(k uint64) uint64 {
		switch k {
		case 1:
			return 0b001
		case 2:
			return 0b101
		case 3:
			return 0b011
		default:
			return k
		}
	}
	tbl := New[uint64, int](2, Hasher[uint64](hash))

	tbl.Insert(1, 1)
	tbl.Insert(2, 2)
	tbl.Insert(3, 3) // 1 and 2 share their low two bits; inserting 3 must cascade through two splits

	assert.GreaterOrEqual(t, tbl.GlobalDepth(), 2, "colliding low bits force the directory past a single split")
	for _, k := range []uint64{1, 2, 3} {
		v, ok := tbl.Find(k)
		require.True(t, ok, "key %d present after split cascade", k)
		assert.Equal(t, int(k), v)
	}
	assert.Equal(t, 1<<uint(tbl.GlobalDepth()), len(tbl.directory))
}

func TestNoSplitWhileBucketHasRoom(t *testing.T) {
	tbl := New[uint64, int](4, identityHasher())
	tbl.Insert(1, 1)
	tbl.Insert(2, 2)
	// globalDepth is 0 until something splits; NumBuckets stays 1.
	assert.Equal(t, 1, tbl.NumBuckets())
	assert.Equal(t, 0, tbl.GlobalDepth())
}

func TestManyKeysRoundTrip(t *testing.T) {
	tbl := New[uint64, uint64](4, Uint64Hasher[uint64]())
	const n = 500
	for i := uint64(0); i < n; i++ {
		tbl.Insert(i, i*2)
	}
	for i := uint64(0); i < n; i++ {
		v, ok := tbl.Find(i)
		require.True(t, ok)
		assert.Equal(t, i*2, v)
	}
	for i := uint64(0); i < n; i += 2 {
		assert.True(t, tbl.Remove(i))
	}
	for i := uint64(0); i < n; i++ {
		v, ok := tbl.Find(i)
		if i%2 == 0 {
			assert.False(t, ok)
		} else {
			require.True(t, ok)
			assert.Equal(t, i*2, v)
		}
	}
}
