package keyorder

import "sync"

var (
	defaultMu   sync.Mutex
	defaultPool *Pool
)

// Default returns the process-wide pool, creating it with default options
// on first use.
func Default() *Pool {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultPool == nil {
		defaultPool = New()
	}
	return defaultPool
}

// SetDefault installs p as the process-wide pool. It panics if the default
// pool has already been created, since orders from the old pool would then
// never compare equal to new ones.
func SetDefault(p *Pool) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultPool != nil {
		panic("keyorder: default pool already initialized")
	}
	defaultPool = p
}

// Make interns keys in the default pool.
func Make(keys []*Key) KeyOrder {
	return Default().Make(keys)
}

// Empty returns the empty order of the default pool.
func Empty() KeyOrder {
	return Default().Empty()
}

// ForArray builds the order of a using the default pool.
func ForArray(a Array) KeyOrder {
	return Default().ForArray(a)
}

// Collect collapses m to one order using the default pool.
func Collect(m FrequencyMap) KeyOrder {
	return Default().Collect(m)
}

// Prune prunes m with the default pool.
func Prune(m FrequencyMap, cutoff float64) KeyOrder {
	return Default().Prune(m, cutoff)
}
