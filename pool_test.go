package keyorder

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
pool_test.go validates the intern pool.

================================================================================
TESTING OBJECTIVES
================================================================================

1. Canonicalization
   - Equal sequences map to one instance.
   - Trimming to MaxStructKeys happens before lookup.

2. Concurrency Safety
   - Concurrent Make calls for the same sequence agree on one instance.
   - Run with `go test -race`.

3. Metrics Accuracy
   - Stats() and the Prometheus counters track hits and misses.
*/

func TestMakeCanonicalizes(t *testing.T) {
	assert := assert.New(t)
	p, syms := newTestPool(t)

	first := p.Make(syms.InternAll("a", "b"))
	second := p.Make(syms.InternAll("a", "b"))

	assert.Equal(first, second)
	assert.Equal(1, p.Len())

	stats := p.Stats()
	assert.Equal(uint64(1), stats.Misses)
	assert.Equal(uint64(1), stats.Hits)
	assert.Equal(uint64(1), stats.Entries)
	assert.InDelta(0.5, stats.HitRate(), 1e-9)
}

func TestMakeTrims(t *testing.T) {
	p, syms := newTestPool(t, WithMaxStructKeys(2))
	o := p.Make(syms.InternAll("a", "b", "c", "d"))

	assert.Equal(t, 3, o.Size())
	assert.Equal(t, p.Make(syms.InternAll("a", "b", "x")), o)
	assert.Equal(t, `["a","b","..."]`, o.String())
}

func TestMakeDoesNotRetainInput(t *testing.T) {
	p, syms := newTestPool(t)
	keys := syms.InternAll("a", "b")
	o := p.Make(keys)

	keys[0] = syms.Intern("z")
	assert.Equal(t, "a", o.At(0).Text())
}

func TestPoolsAreIsolated(t *testing.T) {
	p1, syms := newTestPool(t)
	p2, _ := newTestPool(t)
	keys := syms.InternAll("a")

	assert.False(t, p1.Make(keys).Equal(p2.Make(keys)))
	assert.Equal(t, 1, p1.Len())
	assert.Equal(t, 1, p2.Len())
}

func TestArenaIndexIncreases(t *testing.T) {
	p, syms := newTestPool(t)

	a := p.Make(syms.InternAll("a"))
	b := p.Make(syms.InternAll("b"))
	again := p.Make(syms.InternAll("a"))

	assert.Equal(t, uint64(1), a.ID())
	assert.Equal(t, uint64(2), b.ID())
	assert.Equal(t, a.ID(), again.ID())
}

/*
TestConcurrentMake spawns 100 goroutines that intern the same sequence.
Every goroutine must get the same instance and the pool must hold exactly
one entry per prefix, whichever of the read-path hit, write-path insert or
write-path race each goroutine took.
*/

func TestConcurrentMake(t *testing.T) {
	p, syms := newTestPool(t)
	keys := syms.InternAll("x", "y", "z")

	const workers = 100
	results := make([]KeyOrder, workers)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			o := p.Empty()
			for _, k := range keys {
				o = o.Insert(k)
			}
			results[i] = o
		}(i)
	}

	wg.Wait()

	want := p.Make(keys)
	for _, got := range results {
		require.Equal(t, want, got)
	}
	// empty, [x], [x y], [x y z]
	assert.Equal(t, 4, p.Len())

	stats := p.Stats()
	assert.Equal(t, uint64(4), stats.Misses)
	assert.Equal(t, uint64(workers*4+1), stats.Lookups())
}

func TestConcurrentDistinctSequences(t *testing.T) {
	p, syms := newTestPool(t)
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		for j := 0; j < 2; j++ {
			go func(i int) {
				defer wg.Done()
				p.Make(syms.InternAll(fmt.Sprintf("k%d", i)))
			}(i)
		}
	}

	wg.Wait()
	assert.Equal(t, 50, p.Len())
}

func TestPoolMetrics(t *testing.T) {
	p := New()
	t.Cleanup(p.Stop)
	syms := NewSymbolTable()

	hits := testutil.ToFloat64(poolLookups.WithLabelValues(lookupHit))
	misses := testutil.ToFloat64(poolLookups.WithLabelValues(lookupMiss))
	entries := testutil.ToFloat64(poolEntries)

	p.Make(syms.InternAll("metric"))
	p.Make(syms.InternAll("metric"))

	assert.Equal(t, hits+1, testutil.ToFloat64(poolLookups.WithLabelValues(lookupHit)))
	assert.Equal(t, misses+1, testutil.ToFloat64(poolLookups.WithLabelValues(lookupMiss)))
	assert.Equal(t, entries+1, testutil.ToFloat64(poolEntries))
}

func TestMetricsDisabled(t *testing.T) {
	p, syms := newTestPool(t)
	misses := testutil.ToFloat64(poolLookups.WithLabelValues(lookupMiss))

	p.Make(syms.InternAll("quiet"))

	assert.Equal(t, misses, testutil.ToFloat64(poolLookups.WithLabelValues(lookupMiss)))
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestReporterLogsStats(t *testing.T) {
	var out syncBuffer
	logger := slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug}))

	p, syms := newTestPool(t, WithLogger(logger), WithReportInterval(time.Millisecond))
	p.Make(syms.InternAll("a"))

	assert.Eventually(t, func() bool {
		s := out.String()
		return strings.Contains(s, "key order pool stats") && strings.Contains(s, "entries=1")
	}, time.Second, time.Millisecond)

	p.Stop()
	p.Stop()
}

func TestOptionsIgnoreBadValues(t *testing.T) {
	p, _ := newTestPool(t, WithMaxStructKeys(0), WithMaxStructKeys(-3), WithLogger(nil))

	assert.Equal(t, DefaultMaxStructKeys, p.MaxStructKeys())
	assert.NotNil(t, p.log)
}
