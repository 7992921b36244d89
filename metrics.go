package keyorder

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	lookupHit  = "hit"
	lookupMiss = "miss"
	lookupRace = "race"
)

const (
	pruneAccepted      = "accepted"
	pruneBelowCutoff   = "below_cutoff"
	pruneEmpty         = "empty"
	pruneUnrepresented = "unrepresentable"
)

var poolLookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "keyorder_pool_lookups_total",
	Help: "Number of key order intern lookups by result",
}, []string{"result"})

var poolEntries = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "keyorder_pool_entries",
	Help: "Number of canonical key orders held by metric-enabled pools",
})

var pruneResults = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "keyorder_prune_results_total",
	Help: "Number of key order prune calls by outcome",
}, []string{"result"})

var prunedKeys = promauto.NewCounter(prometheus.CounterOpts{
	Name: "keyorder_pruned_keys_total",
	Help: "Number of keys banned by pruning",
})

func (p *Pool) observeLookup(result string) {
	if p.metrics {
		poolLookups.WithLabelValues(result).Inc()
	}
}

func (p *Pool) observeEntries() {
	if p.metrics {
		poolEntries.Inc()
	}
}

func (p *Pool) observePrune(result string, banned int) {
	if !p.metrics {
		return
	}
	pruneResults.WithLabelValues(result).Inc()
	prunedKeys.Add(float64(banned))
}
