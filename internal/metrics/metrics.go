// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Store Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "runstats_db_query_duration_seconds",
			Help:    "Duration of event store queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "driver"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "runstats_db_query_errors_total",
			Help: "Total number of event store query errors",
		},
		[]string{"operation", "driver", "error_type"},
	)

	// Report Metrics
	ReportGenerations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "runstats_report_generations_total",
			Help: "Total number of usage report computations by result",
		},
		[]string{"result"}, // success, config_error, ingestion_error
	)

	ReportGenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "runstats_report_generation_duration_seconds",
			Help:    "Duration of successful usage report computations",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	RecordsIngested = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "runstats_records_ingested_total",
			Help: "Total number of raw run events read from the store",
		},
	)

	RecordsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "runstats_records_skipped_total",
			Help: "Total number of raw run events rejected by validation",
		},
		[]string{"reason"},
	)

	// Report Cache Metrics
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "runstats_report_cache_hits_total",
			Help: "Total number of report cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "runstats_report_cache_misses_total",
			Help: "Total number of report cache misses",
		},
	)

	CacheStaleServed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "runstats_report_cache_stale_served_total",
			Help: "Total number of stale reports served after a failed recompute",
		},
	)

	CacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "runstats_report_cache_entries",
			Help: "Current number of cached reports",
		},
	)

	CacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "runstats_report_cache_evictions_total",
			Help: "Total number of report cache evictions (TTL expiry)",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "runstats_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "runstats_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "runstats_api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "runstats_api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "runstats_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "runstats_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // success, failure, rejected, canceled
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "runstats_circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "runstats_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordDBQuery records a store query metric
func RecordDBQuery(operation, driver string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, driver).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, driver, errorType(err)).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// errorType keeps label cardinality bounded.
func errorType(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		msg := err.Error()
		if len(msg) > 50 {
			msg = msg[:50]
		}
		return msg
	}
}
