package keyorder

import (
	"slices"
	"strings"
)

// Empty returns the pool's empty order.
func (p *Pool) Empty() KeyOrder {
	return p.Make(nil)
}

// ForArray returns the order of a's keys. A single integer or transient
// key makes the whole array untrackable.
func (p *Pool) ForArray(a Array) KeyOrder {
	var keys []*Key
	trackable := true
	a.IterateKeys(func(k ArrayKey) bool {
		if !k.trackable() {
			trackable = false
			return true
		}
		keys = append(keys, k.Key())
		return false
	})
	if !trackable {
		return Invalid()
	}
	return p.Make(keys)
}

/*
Collect collapses every order in m into one.

BEHAVIOR:

1. Any order that is not valid poisons the result to Invalid.
2. The union of all keys is gathered.
3. A union larger than MaxStructKeys cannot be one struct layout: Invalid.
4. The union is sorted by key text, so the same key set always yields the
   same order no matter which observation contributed a key first.

Counts are ignored; an empty map yields the empty order.
*/

func (p *Pool) Collect(m FrequencyMap) KeyOrder {
	seen := make(map[*Key]struct{})
	var union []*Key
	for _, o := range m.Orders() {
		if !o.Valid() {
			return Invalid()
		}
		for _, k := range o.seq.keys {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			union = append(union, k)
		}
	}

	if len(union) > p.maxStructKeys {
		return Invalid()
	}

	slices.SortStableFunc(union, compareKeys)
	return p.Make(union)
}

// compareKeys orders keys byte-wise by text. The overflow marker sorts
// after a real "..." key; other keys sharing a text keep first-seen order.
func compareKeys(a, b *Key) int {
	if c := strings.Compare(a.text, b.text); c != 0 {
		return c
	}
	switch {
	case a == b:
		return 0
	case a.IsOverflow():
		return 1
	case b.IsOverflow():
		return -1
	}
	return 0
}
