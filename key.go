package keyorder

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

/*
Key is an opaque handle to a dictionary key string.

================================================================================
IDENTITY MODEL
================================================================================

Two keys denote the same dictionary key iff they are the same *Key.
Membership, removal and interning only ever compare pointers.

Keys come in two flavours:

1. Static keys
   - Produced by a SymbolTable.
   - Live for the lifetime of the process.
   - Safe to store inside an interned KeyOrder.

2. Transient keys
   - Produced by NewTransientKey.
   - Model per-request strings whose identity is not stable.
   - Never tracked: inserting one poisons the order to Invalid.

The text hash is computed once at construction so that the intern pool can
hash a sequence without touching the key bytes again.
*/

type Key struct {
	text   string
	hash   uint64
	static bool
}

// OverflowKey marks a trimmed KeyOrder: more keys existed past the tracked
// prefix. It is static but belongs to no SymbolTable, so it never collides
// with a real "..." key.
var OverflowKey = newKey("...", true)

func newKey(text string, static bool) *Key {
	return &Key{
		text:   text,
		hash:   xxhash.Sum64String(text),
		static: static,
	}
}

// NewTransientKey returns a key without process-lifetime identity.
func NewTransientKey(text string) *Key {
	return newKey(text, false)
}

func (k *Key) Text() string {
	return k.text
}

func (k *Key) Hash() uint64 {
	return k.hash
}

// Static reports whether the key has process-lifetime identity.
func (k *Key) Static() bool {
	return k != nil && k.static
}

// IsOverflow reports whether k is the overflow marker.
func (k *Key) IsOverflow() bool {
	return k == OverflowKey
}

func (k *Key) String() string {
	return strconv.Quote(k.text)
}
