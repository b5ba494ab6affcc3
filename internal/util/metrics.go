package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CatalogRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_requests_total",
		Help: "Requests issued to the external catalog service",
	}, []string{"op", "outcome"})

	CatalogRequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_request_latency_seconds",
		Help:    "Latency of requests to the external catalog service",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})

	CacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "query_cache_lookups_total",
		Help: "Query cache lookups by result (hit, miss, shared, store_hit)",
	}, []string{"op", "result"})

	CacheEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "query_cache_entries",
		Help: "Number of entries currently held by the query cache",
	})

	CacheEvictionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "query_cache_evictions_total",
		Help: "Entries removed after their last subscriber left",
	})

	StaleResponsesDiscarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "detail_stale_responses_discarded_total",
		Help: "Product detail resolutions dropped because the routed id changed",
	})

	LoginSubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "login_submissions_total",
		Help: "Login form submissions by outcome",
	}, []string{"outcome"})

	CatalogEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_events_total",
		Help: "Catalog change events consumed",
	}, []string{"type"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
