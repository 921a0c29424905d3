// Package eht implements an extendible hash table: a dynamically growing
// associative array whose directory length is always a power of two, and
// whose buckets split individually (incrementing a local depth) with the
// directory doubling only when a bucket's local depth catches up to the
// global depth. It is the buffer pool's page table (spec.md §2, §4.1) and
// is also usable standalone as a generic key/value container.
package eht

import (
	"sync"

	"github.com/golang/glog"
)

const defaultBucketSize = 4

// Table is a thread-safe extendible hash table from K to V.
type Table[K comparable, V any] struct {
	mu sync.Mutex

	hash       Hasher[K]
	bucketSize int

	globalDepth int
	directory   []*bucket[K, V]
	numBuckets  int
}

// New builds an extendible hash table with the given per-bucket capacity
// and hash function. A bucketSize below 1 selects the default capacity
// of 4.
func New[K comparable, V any](bucketSize int, hash Hasher[K]) *Table[K, V] {
	if bucketSize < 1 {
		bucketSize = defaultBucketSize
	}
	b := newBucket[K, V](0, bucketSize)
	return &Table[K, V]{
		hash:        hash,
		bucketSize:  bucketSize,
		globalDepth: 0,
		directory:   []*bucket[K, V]{b},
		numBuckets:  1,
	}
}

// indexOf resolves the directory slot for k: the low global_depth bits of
// hash(k), per spec.md §4.1.
func (t *Table[K, V]) indexOf(k K) int {
	mask := uint64(1)<<uint(t.globalDepth) - 1
	return int(t.hash(k) & mask)
}

// Find returns (value, true) if k is present.
func (t *Table[K, V]) Find(k K) (V, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	b := t.directory[t.indexOf(k)]
	return b.find(k)
}

// Insert upserts (k, v): overwrites k's value if present, otherwise
// inserts it, splitting buckets (and doubling the directory, as needed)
// until it fits. See spec.md §4.1 for the algorithm.
func (t *Table[K, V]) Insert(k K, v V) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.insertLocked(k, v)
}

func (t *Table[K, V]) insertLocked(k K, v V) {
	idx := t.indexOf(k)
	b := t.directory[idx]

	if b.upsert(k, v) {
		return
	}
	if b.insert(k, v, t.bucketSize) {
		return
	}

	t.split(idx, b)
	// The key may still not fit if every colliding key shares the new
	// low bit too; recurse, each recursion increasing a local depth or
	// the global depth, per spec.md §4.1 step 5.
	t.insertLocked(k, v)
}

// split grows the directory (if the overflowing bucket's local depth has
// caught up to the global depth) and redistributes the overflowing
// bucket's entries between it and a freshly allocated sibling.
func (t *Table[K, V]) split(idx int, b *bucket[K, V]) {
	if b.localDepth == t.globalDepth {
		t.doubleDirectory()
	}

	b.localDepth++
	sibling := newBucket[K, V](b.localDepth, t.bucketSize)
	t.numBuckets++

	newBit := uint64(1) << uint(b.localDepth-1)

	kept := b.entries[:0:0]
	for _, e := range b.entries {
		if t.hash(e.key)&newBit != 0 {
			sibling.entries = append(sibling.entries, e)
		} else {
			kept = append(kept, e)
		}
	}
	b.entries = kept

	for i := range t.directory {
		if t.directory[i] == b && uint64(i)&newBit != 0 {
			t.directory[i] = sibling
		}
	}

	glog.V(2).Infof("eht: split bucket at dir[%d], local_depth=%d global_depth=%d num_buckets=%d",
		idx, b.localDepth, t.globalDepth, t.numBuckets)
}

// doubleDirectory doubles the directory length and increments the global
// depth, per spec.md §4.1 step 4: for every existing slot i, the mirrored
// slot i+2^old points at the same bucket.
func (t *Table[K, V]) doubleDirectory() {
	old := len(t.directory)
	grown := make([]*bucket[K, V], old*2)
	copy(grown, t.directory)
	copy(grown[old:], t.directory)
	t.directory = grown
	t.globalDepth++
	glog.V(2).Infof("eht: doubled directory to %d slots, global_depth=%d", len(t.directory), t.globalDepth)
}

// Remove erases k if present and reports whether anything was erased.
// Bucket merging / directory shrinking is not implemented, per spec.md §9.
func (t *Table[K, V]) Remove(k K) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	b := t.directory[t.indexOf(k)]
	return b.remove(k)
}

// GlobalDepth returns the number of directory bits currently in use.
func (t *Table[K, V]) GlobalDepth() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.globalDepth
}

// LocalDepth returns the local depth of the bucket referenced by
// directory index dirIndex.
func (t *Table[K, V]) LocalDepth(dirIndex int) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.directory[dirIndex].localDepth
}

// NumBuckets returns the number of distinct buckets currently allocated
// (directory slots may alias a shared bucket, so this can be smaller than
// the directory length).
func (t *Table[K, V]) NumBuckets() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.numBuckets
}
