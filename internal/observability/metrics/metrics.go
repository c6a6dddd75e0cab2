package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics owns the process registry and the storefront counters. A single
// instance is shared through fx; the HTTP layer exposes the registry on
// /metrics.
type Metrics struct {
	Registry *prometheus.Registry

	// Calculations counts pricing runs by strategy and outcome
	// (ok, on_request, selection_error, bounds_error, config_error, error).
	Calculations *prometheus.CounterVec

	// CacheLookups counts pricing-config cache hits and misses.
	CacheLookups *prometheus.CounterVec

	// RequestDuration observes HTTP handler latency by route and status.
	RequestDuration *prometheus.HistogramVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		Registry: registry,
		Calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "pricing",
			Name:      "calculations_total",
			Help:      "Price calculations by strategy and outcome.",
		}, []string{"strategy", "outcome"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "pricing",
			Name:      "config_cache_lookups_total",
			Help:      "Pricing configuration cache lookups by result.",
		}, []string{"result"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "storefront",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
	}
	registry.MustRegister(m.Calculations, m.CacheLookups, m.RequestDuration)
	return m
}
