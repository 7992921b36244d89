package keyorder

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

/*
Pool is the intern pool: a concurrency-safe deduplication table that maps
every distinct key sequence to one canonical backing instance.

================================================================================
ARCHITECTURAL OVERVIEW
================================================================================

1. Hash buckets (map[uint64][]*sequence)
   - Keyed by an order-sensitive hash over the key hashes.
   - Each bucket holds the sequences sharing that hash; candidates are
     compared element-wise by key identity.

2. Arena counter (nextID)
   - Every inserted sequence gets the next index.
   - Gives callers a deterministic ordering over interned orders.

================================================================================
CONCURRENCY MODEL
================================================================================

- sync.RWMutex protects the buckets.
- Lookups take RLock().
- Inserts take Lock() and re-check the bucket before appending, because
  another goroutine may have inserted the same sequence between the two
  lock acquisitions. Exactly one instance survives per sequence.
- Sequences are immutable once published, so KeyOrder values are shared
  across goroutines without further locking.

================================================================================
LIFETIME
================================================================================

Entries are never evicted. The pool grows by one entry per distinct
sequence ever observed; the length of each sequence is bounded by the
trimming rule in Make.
*/

type Pool struct {
	buckets       map[uint64][]*sequence
	mu            sync.RWMutex
	nextID        uint64
	maxStructKeys int
	log           *slog.Logger
	metrics       bool
	interval      time.Duration
	stopChan      chan struct{}
	stopOnce      sync.Once
	stats         poolCounters
}

type poolCounters struct {
	hits   atomic.Uint64
	misses atomic.Uint64
	races  atomic.Uint64
}

/*
New initializes and returns a configured Pool.

INITIALIZATION STEPS:
1. Allocate the bucket map.
2. Apply defaults (DefaultMaxStructKeys, package logger, metrics on).
3. Apply user-provided options.
4. Start the stats reporter (if a report interval is set).
*/

func New(opts ...Option) *Pool {
	p := &Pool{
		buckets:       make(map[uint64][]*sequence),
		maxStructKeys: DefaultMaxStructKeys,
		log:           slog.Default().With("system", "keyorder"),
		metrics:       true,
		stopChan:      make(chan struct{}),
	}

	for _, opt := range opts {
		opt(p)
	}

	p.startReporter()

	return p
}

// MaxStructKeys is the configured struct-layout key limit.
func (p *Pool) MaxStructKeys() int {
	return p.maxStructKeys
}

/*
Make returns the canonical KeyOrder for keys.

BEHAVIOR:

1. Trim: more than MaxStructKeys keys are cut to MaxStructKeys and the
   overflow marker is appended.
2. Look the trimmed sequence up under RLock(); return it on a hit.
3. On a miss, take Lock() and insert idempotently.

keys is never retained; the pool stores its own copy.
*/

func (p *Pool) Make(keys []*Key) KeyOrder {
	trimmed := p.trim(keys)
	hash := hashKeys(trimmed)

	p.mu.RLock()
	seq := p.find(hash, trimmed)
	p.mu.RUnlock()
	if seq != nil {
		p.stats.hits.Add(1)
		p.observeLookup(lookupHit)
		return KeyOrder{seq: seq}
	}

	return KeyOrder{seq: p.insert(hash, trimmed)}
}

func (p *Pool) trim(keys []*Key) []*Key {
	if len(keys) > p.maxStructKeys {
		out := make([]*Key, p.maxStructKeys, p.maxStructKeys+1)
		copy(out, keys)
		return append(out, OverflowKey)
	}
	out := make([]*Key, len(keys))
	copy(out, keys)
	return out
}

// find must be called with mu held.
func (p *Pool) find(hash uint64, keys []*Key) *sequence {
	for _, seq := range p.buckets[hash] {
		if seq.sameKeys(keys) {
			return seq
		}
	}
	return nil
}

func (p *Pool) insert(hash uint64, keys []*Key) *sequence {
	p.mu.Lock()
	defer p.mu.Unlock()

	// re-check after upgrading to the write lock
	if seq := p.find(hash, keys); seq != nil {
		p.stats.races.Add(1)
		p.observeLookup(lookupRace)
		return seq
	}

	p.nextID++
	seq := &sequence{
		keys: keys,
		hash: hash,
		id:   p.nextID,
		pool: p,
	}
	p.buckets[hash] = append(p.buckets[hash], seq)
	p.stats.misses.Add(1)
	p.observeLookup(lookupMiss)
	p.observeEntries()
	return seq
}

// Len returns the number of canonical sequences.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return int(p.nextID)
}

func (p *Pool) Stats() Stats {
	return Stats{
		Hits:    p.stats.hits.Load(),
		Misses:  p.stats.misses.Load(),
		Races:   p.stats.races.Load(),
		Entries: uint64(p.Len()),
	}
}
