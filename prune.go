package keyorder

import (
	"fmt"
	"slices"
)

// PruneResult is the outcome of PruneDetailed.
type PruneResult struct {
	// Order is the collapsed canonical order, or Invalid.
	Order KeyOrder
	// Total is the number of observations in the input map.
	Total uint64
	// Accepted is the number of observations the final working set covers.
	Accepted uint64
	// Banned lists the keys removed from the layout, in removal order.
	Banned []*Key
}

// Coverage is Accepted/Total, or 0 for an empty map.
func (r PruneResult) Coverage() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Accepted) / float64(r.Total)
}

type orderCount struct {
	order KeyOrder
	count uint64
}

// Prune reconciles the observations in m into one canonical order that
// still covers at least cutoff of them, or returns Invalid if none does.
func (p *Pool) Prune(m FrequencyMap, cutoff float64) KeyOrder {
	return p.PruneDetailed(m, cutoff).Order
}

/*
PruneDetailed runs the greedy pruning pass and reports what it did.

ALGORITHM:

1. Invalid orders are rejected outright. If the remaining observations are
   already below total*cutoff, the result is Invalid.
2. Repeatedly pick the key present in the fewest observations (first one
   found in scan order on ties). Banning it drops every order containing it.
   Stop before a ban would take the accepted count below total*cutoff.
3. Collect the surviving orders.

The pass is greedy and makes no claim of finding the largest surviving set.
Scan order follows arena index, so equal inputs built in the same order
prune the same way.

cutoff must be in (0, 1].
*/

func (p *Pool) PruneDetailed(m FrequencyMap, cutoff float64) PruneResult {
	if !(cutoff > 0 && cutoff <= 1) {
		panic(fmt.Sprintf("keyorder: prune cutoff %v outside (0, 1]", cutoff))
	}

	var res PruneResult
	working := make([]orderCount, 0, len(m))
	var rejected uint64
	for _, o := range m.Orders() {
		n := m[o]
		res.Total += n
		if !o.Valid() {
			rejected += n
			continue
		}
		if n > 0 {
			working = append(working, orderCount{order: o, count: n})
		}
	}

	accepted := res.Total - rejected
	threshold := float64(res.Total) * cutoff
	p.log.Debug("prune invalid", "remain", accepted, "total", res.Total)

	if float64(accepted) < threshold {
		res.Accepted = accepted
		p.observePrune(pruneBelowCutoff, 0)
		return res
	}

	counts := countKeyInstances(working)
	for !counts.empty() {
		key, n := counts.min()
		if float64(accepted-n) < threshold {
			break
		}
		accepted -= n
		res.Banned = append(res.Banned, key)
		p.log.Debug("prune key", "key", key.Text(), "remain", accepted, "total", res.Total)

		kept := working[:0]
		for _, oc := range working {
			if oc.order.index(key) < 0 {
				kept = append(kept, oc)
				continue
			}
			for _, k := range oc.order.seq.keys {
				counts.sub(k, oc.count)
			}
		}
		clear(working[len(kept):])
		working = kept
		counts.compact()
	}
	res.Accepted = accepted

	if len(working) == 0 {
		p.observePrune(pruneEmpty, len(res.Banned))
		return res
	}

	final := make(FrequencyMap, len(working))
	for _, oc := range working {
		final[oc.order] = oc.count
	}
	res.Order = p.Collect(final)
	if res.Order.Valid() {
		p.observePrune(pruneAccepted, len(res.Banned))
	} else {
		p.observePrune(pruneUnrepresented, len(res.Banned))
	}
	return res
}

// keyCounts maps each key to the number of observations that would be
// dropped by banning it. order keeps first-seen order for the min scan.
type keyCounts struct {
	order []*Key
	count map[*Key]uint64
}

func countKeyInstances(working []orderCount) *keyCounts {
	kc := &keyCounts{count: make(map[*Key]uint64)}
	for _, oc := range working {
		for _, k := range oc.order.seq.keys {
			if _, ok := kc.count[k]; !ok {
				kc.order = append(kc.order, k)
			}
			kc.count[k] += oc.count
		}
	}
	return kc
}

func (kc *keyCounts) empty() bool {
	return len(kc.count) == 0
}

// min returns the first key with the smallest count.
func (kc *keyCounts) min() (*Key, uint64) {
	var best *Key
	var bestN uint64
	for _, k := range kc.order {
		n, ok := kc.count[k]
		if !ok {
			continue
		}
		if best == nil || n < bestN {
			best, bestN = k, n
		}
	}
	return best, bestN
}

func (kc *keyCounts) sub(k *Key, n uint64) {
	c, ok := kc.count[k]
	if !ok {
		panic("keyorder: key instance count missing for " + k.String())
	}
	if c <= n {
		delete(kc.count, k)
		return
	}
	kc.count[k] = c - n
}

func (kc *keyCounts) compact() {
	kc.order = slices.DeleteFunc(kc.order, func(k *Key) bool {
		_, ok := kc.count[k]
		return !ok
	})
}
