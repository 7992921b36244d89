package keyorder

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

/*
sequence is the canonical backing storage of a KeyOrder.

================================================================================
DESIGN PURPOSE
================================================================================

Every distinct ordered list of keys is stored exactly once per Pool. A
KeyOrder is only a pointer to one of these, which is what lets identity
stand in for structural equality.

STRUCTURE

keys -> the ordered keys, owned by the pool and never mutated.
hash -> order-sensitive hash over the key hashes (bucket selector).
id   -> arena index, assigned in insertion order, unique within the pool.
pool -> owning pool; construction operations re-intern through it.
*/

type sequence struct {
	keys []*Key
	hash uint64
	id   uint64
	pool *Pool
}

// sameKeys compares element-wise by key identity.
func (s *sequence) sameKeys(keys []*Key) bool {
	if len(s.keys) != len(keys) {
		return false
	}
	for i, k := range keys {
		if s.keys[i] != k {
			return false
		}
	}
	return true
}

// hashKeys folds the per-key hashes in order, so ["a","b"] and ["b","a"]
// land in different buckets.
func hashKeys(keys []*Key) uint64 {
	d := xxhash.New()
	var buf [8]byte
	for _, k := range keys {
		binary.LittleEndian.PutUint64(buf[:], k.Hash())
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}
