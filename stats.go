package keyorder

/*
Stats is a snapshot of pool activity.

Hits    -> Make calls answered under the read lock.
Misses  -> Make calls that inserted a new canonical sequence.
Races   -> Make calls that missed under the read lock but found the
           sequence already inserted once they held the write lock.
Entries -> Canonical sequences currently held (never decreases).

Counters are updated atomically; Stats() reads each one independently, so
a snapshot taken during concurrent Make calls is approximate.

    hit_ratio = Hits / (Hits + Misses + Races)
*/

type Stats struct {
	Hits    uint64
	Misses  uint64
	Races   uint64
	Entries uint64
}

// Lookups is the total number of Make calls counted in the snapshot.
func (s Stats) Lookups() uint64 {
	return s.Hits + s.Misses + s.Races
}

// HitRate returns the hit ratio in [0, 1], or 0 when nothing was looked up.
func (s Stats) HitRate() float64 {
	total := s.Lookups()
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}
