package eht

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Hasher produces a 64-bit hash for a key. Only the low global_depth bits
// are ever consulted (see Table.indexOf), so callers do not need a
// cryptographic or even particularly uniform hash; xxhash is fast and
// well distributed, though not cryptographic.
type Hasher[K comparable] func(K) uint64

// Uint64Hasher builds a Hasher for any key whose underlying type converts
// to uint64 (PageID, FrameID, or a plain uint64/int key). The key is
// encoded little-endian and hashed with xxhash, which is the hash this
// module uses everywhere a fast, well-distributed digest is needed.
func Uint64Hasher[K ~uint64 | ~int | ~int64 | ~uint | ~uint32]() Hasher[K] {
	return func(k K) uint64 {
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], uint64(k))
		return xxhash.Sum64(buf[:])
	}
}

// StringHasher hashes string keys directly with xxhash.
func StringHasher() Hasher[string] {
	return func(k string) uint64 {
		return xxhash.Sum64String(k)
	}
}
