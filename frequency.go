package keyorder

import (
	"cmp"
	"slices"
)

// FrequencyMap counts how many dictionaries were observed with each order.
// Orders are keyed by identity. A FrequencyMap is not safe for concurrent
// mutation.
type FrequencyMap map[KeyOrder]uint64

// Add records n more observations of o.
func (m FrequencyMap) Add(o KeyOrder, n uint64) {
	m[o] += n
}

// Total is the sum of all counts.
func (m FrequencyMap) Total() uint64 {
	var total uint64
	for _, n := range m {
		total += n
	}
	return total
}

func (m FrequencyMap) Clone() FrequencyMap {
	out := make(FrequencyMap, len(m))
	for o, n := range m {
		out[o] = n
	}
	return out
}

// Orders returns the map's orders sorted by arena index, Invalid first.
func (m FrequencyMap) Orders() []KeyOrder {
	orders := make([]KeyOrder, 0, len(m))
	for o := range m {
		orders = append(orders, o)
	}
	slices.SortFunc(orders, func(a, b KeyOrder) int {
		return cmp.Compare(a.ID(), b.ID())
	})
	return orders
}

// Merge adds every count in src into m.
func (m FrequencyMap) Merge(src FrequencyMap) {
	Merge(m, src)
}

// Merge adds every count in src into dst. Merging is commutative and
// associative.
func Merge(dst, src FrequencyMap) {
	for o, n := range src {
		dst[o] += n
	}
}

// Observe records one observation of a's order in m using pool p.
func (p *Pool) Observe(m FrequencyMap, a Array) KeyOrder {
	o := p.ForArray(a)
	m.Add(o, 1)
	return o
}
