package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ResolveFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fractal_resolve_failed_total",
			Help: "Number of times a resource has failed to resolve",
		},
		[]string{"resource_type", "error_type"},
	)

	ResolveCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fractal_resolve_count_total",
			Help: "Total number of resource resolutions",
		},
		[]string{"resource_type"},
	)

	ResolveDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fractal_resolve_duration_seconds",
			Help:    "Resource resolution duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"resource_type"},
	)

	IncludesResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fractal_includes_resolved_total",
			Help: "Total number of embedded relations resolved",
		},
		[]string{"include"},
	)
)
