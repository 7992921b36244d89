// Package keyorder tracks, interns and prunes the ordered key sets observed
// on dictionaries, so a runtime can decide whether a dictionary shape fits a
// fixed-layout struct representation.
//
// A KeyOrder is an immutable reference into a Pool. Structurally equal
// orders built from the same pool are the same value, so KeyOrder can be
// compared with == and used as a map key.
package keyorder

import (
	"iter"
	"strings"
)

// MaxTrackedKeyOrderSize is the hard tracking ceiling. An order longer than
// this is not valid and refuses to grow.
const MaxTrackedKeyOrderSize = 256

// KeyOrder is an interned ordered list of unique keys, or Invalid.
// The zero value is Invalid.
type KeyOrder struct {
	seq *sequence
}

// Invalid returns the "not trackable" order.
func Invalid() KeyOrder {
	return KeyOrder{}
}

// Insert appends k. Transient keys poison the result to Invalid. A full
// order (MaxStructKeys keys) gets the overflow marker instead of k, after
// which nothing new can be added.
func (o KeyOrder) Insert(k *Key) KeyOrder {
	if !k.Static() || o.seq == nil {
		return Invalid()
	}
	if o.index(k) >= 0 {
		return o
	}
	if o.TooLong() {
		return o
	}
	keys := make([]*Key, len(o.seq.keys), len(o.seq.keys)+1)
	copy(keys, o.seq.keys)
	if len(keys) == o.seq.pool.maxStructKeys {
		keys = append(keys, OverflowKey)
	} else {
		keys = append(keys, k)
	}
	return o.seq.pool.Make(keys)
}

// Remove drops k by identity. The overflow marker is removable like any
// other key.
func (o KeyOrder) Remove(k *Key) KeyOrder {
	if !o.Valid() {
		return o
	}
	keys := make([]*Key, 0, len(o.seq.keys))
	for _, key := range o.seq.keys {
		if key != k {
			keys = append(keys, key)
		}
	}
	return o.seq.pool.Make(keys)
}

// Pop drops the last key.
func (o KeyOrder) Pop() KeyOrder {
	if o.Empty() || !o.Valid() {
		return o
	}
	return o.seq.pool.Make(o.seq.keys[:len(o.seq.keys)-1])
}

// Contains reports identity membership. o must be valid.
func (o KeyOrder) Contains(k *Key) bool {
	o.mustBeValid("Contains")
	return o.index(k) >= 0
}

func (o KeyOrder) index(k *Key) int {
	for i, key := range o.seq.keys {
		if key == k {
			return i
		}
	}
	return -1
}

// Size returns the number of keys, overflow marker included. o must be valid.
func (o KeyOrder) Size() int {
	o.mustBeValid("Size")
	return len(o.seq.keys)
}

func (o KeyOrder) Empty() bool {
	return o.seq != nil && len(o.seq.keys) == 0
}

func (o KeyOrder) Valid() bool {
	return o.seq != nil && !o.TooLong()
}

// TooLong reports whether the order is past the hard tracking ceiling.
func (o KeyOrder) TooLong() bool {
	return o.seq != nil && len(o.seq.keys) > MaxTrackedKeyOrderSize
}

// Overflowed reports whether the order ends with the overflow marker.
func (o KeyOrder) Overflowed() bool {
	if o.seq == nil || len(o.seq.keys) == 0 {
		return false
	}
	return o.seq.keys[len(o.seq.keys)-1] == OverflowKey
}

// Equal is identity of the interned backing storage.
func (o KeyOrder) Equal(other KeyOrder) bool {
	return o.seq == other.seq
}

// ID is the arena index of the backing storage within its pool; Invalid
// returns 0 and every interned order returns a positive value.
func (o KeyOrder) ID() uint64 {
	if o.seq == nil {
		return 0
	}
	return o.seq.id
}

// At returns the i-th key.
func (o KeyOrder) At(i int) *Key {
	o.mustHaveKeys("At")
	return o.seq.keys[i]
}

// Keys yields the keys in stored order, overflow marker included.
func (o KeyOrder) Keys() iter.Seq[*Key] {
	o.mustHaveKeys("Keys")
	return func(yield func(*Key) bool) {
		for _, k := range o.seq.keys {
			if !yield(k) {
				return
			}
		}
	}
}

func (o KeyOrder) All() iter.Seq2[int, *Key] {
	o.mustHaveKeys("All")
	return func(yield func(int, *Key) bool) {
		for i, k := range o.seq.keys {
			if !yield(i, k) {
				return
			}
		}
	}
}

// Slice returns a copy of the keys, or nil for Invalid.
func (o KeyOrder) Slice() []*Key {
	if o.seq == nil {
		return nil
	}
	out := make([]*Key, len(o.seq.keys))
	copy(out, o.seq.keys)
	return out
}

// String renders the order for diagnostics, e.g. ["a","b"].
func (o KeyOrder) String() string {
	if o.seq == nil {
		return "<invalid>"
	}
	var sb strings.Builder
	sb.WriteByte('[')
	for i, k := range o.seq.keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('"')
		sb.WriteString(k.text)
		sb.WriteByte('"')
	}
	sb.WriteByte(']')
	return sb.String()
}

func (o KeyOrder) mustBeValid(op string) {
	if !o.Valid() {
		panic("keyorder: " + op + " called on an invalid KeyOrder")
	}
}

func (o KeyOrder) mustHaveKeys(op string) {
	if o.seq == nil {
		panic("keyorder: " + op + " called on an invalid KeyOrder")
	}
}
