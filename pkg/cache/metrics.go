package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// cacheHits tracks resolved-host cache hits
	cacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "newswire_cache_hits_total",
			Help: "Total number of resolved-host cache hits",
		},
	)

	// cacheMisses tracks resolved-host cache misses
	cacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "newswire_cache_misses_total",
			Help: "Total number of resolved-host cache misses",
		},
	)

	// cacheErrors tracks cache operation errors
	cacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newswire_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)
)
