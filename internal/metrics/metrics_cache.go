package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	IncludeCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fractal_include_cache_hits_total",
			Help: "Number of include specifications served from the parse cache",
		},
	)

	IncludeCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fractal_include_cache_misses_total",
			Help: "Number of include specifications parsed from scratch",
		},
	)
)
