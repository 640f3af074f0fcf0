// Package metrics exposes prometheus instrumentation for the working
// memory. promauto registers everything on the default registry, so
// importing packages just bump the variables.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SignaturesResident tracks how many nodes are held in working memory.
	SignaturesResident = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mapmem_signatures_resident",
		Help: "Number of signatures currently held in working memory",
	})

	// ComparisonsTotal counts similarity comparisons between two nodes.
	ComparisonsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mapmem_comparisons_total",
		Help: "Total number of signature similarity comparisons",
	})

	// PersistedTotal counts signatures written by dirty-sweep persistence.
	PersistedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mapmem_signatures_persisted_total",
		Help: "Total number of signatures persisted by dirty sweeps",
	})

	// WordRemapsTotal counts vocabulary word merges fanned out to nodes.
	WordRemapsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mapmem_word_remaps_total",
		Help: "Total number of per-node word reference remaps applied",
	})
)
