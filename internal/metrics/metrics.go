// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Like Engine Metrics
	LikesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "baselike_likes_total",
			Help: "Like registrations by outcome and identity kind",
		},
		[]string{"outcome", "identity"}, // outcome: "added", "already_given", "error"
	)

	LikeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "baselike_like_duration_seconds",
			Help:    "Duration of like registrations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	SeedsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "baselike_seeds_total",
			Help: "Seed attempts by outcome",
		},
		[]string{"outcome"}, // "seeded", "already_seeded", "error"
	)

	ReconciledRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "baselike_reconciled_records_total",
			Help: "Records updated by identity reconciliation",
		},
		[]string{"direction"}, // "user", "session"
	)

	ReconcileFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "baselike_reconcile_failures_total",
			Help: "Identity reconciliation passes that failed",
		},
	)

	HookFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "baselike_after_write_hook_failures_total",
			Help: "After-write hook failures by hook name",
		},
		[]string{"hook"},
	)

	GroupsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "baselike_grouped_results_skipped_total",
			Help: "Grouped results dropped because the entity could not be resolved",
		},
		[]string{"reason"}, // "not_found", "resolve_error"
	)

	// Store Metrics
	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "baselike_store_query_duration_seconds",
			Help:    "Duration of store queries in seconds",
			Buckets: prometheus.DefBuckets, // 0.005s, 0.01s, 0.025s, 0.05s, 0.1s, 0.25s, 0.5s, 1s, 2.5s, 5s, 10s
		},
		[]string{"backend", "operation"},
	)

	StoreQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "baselike_store_query_errors_total",
			Help: "Total number of store query errors",
		},
		[]string{"backend", "operation", "error_type"},
	)

	StoreConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "baselike_store_conflicts_total",
			Help: "Inserts rejected by a uniqueness constraint",
		},
		[]string{"backend", "kind"}, // kind: "like", "seed"
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "baselike_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "baselike_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache"},
	)

	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "baselike_cache_errors_total",
			Help: "Total number of cache backend errors",
		},
		[]string{"cache", "operation"},
	)

	// Entity Resolution Metrics
	ResolveTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "baselike_resolve_total",
			Help: "Entity resolutions by resolver and result",
		},
		[]string{"resolver", "result"}, // result: "found", "not_found", "error"
	)

	ResolveDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "baselike_resolve_duration_seconds",
			Help:    "Duration of entity resolution requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"resolver"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)

	SessionsIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "baselike_sessions_issued_total",
			Help: "Anonymous session keys minted for visitors without one",
		},
	)

	DependencyUp = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "baselike_dependency_up",
			Help: "Whether a backing dependency answered its last ping (1 = up)",
		},
		[]string{"dependency"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordLike records the outcome of one like registration.
func RecordLike(outcome, identity string, duration time.Duration) {
	LikesTotal.WithLabelValues(outcome, identity).Inc()
	LikeDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordSeed records the outcome of one seed attempt.
func RecordSeed(outcome string) {
	SeedsTotal.WithLabelValues(outcome).Inc()
}

// RecordReconcile records how many records one reconciliation pass updated.
func RecordReconcile(usersAttached, sessionsAttached int64) {
	if usersAttached > 0 {
		ReconciledRecords.WithLabelValues("user").Add(float64(usersAttached))
	}
	if sessionsAttached > 0 {
		ReconciledRecords.WithLabelValues("session").Add(float64(sessionsAttached))
	}
}

// RecordReconcileFailure counts a failed reconciliation pass.
func RecordReconcileFailure() {
	ReconcileFailures.Inc()
}

// RecordHookFailure counts a failed after-write hook.
func RecordHookFailure(hook string) {
	HookFailures.WithLabelValues(hook).Inc()
}

// RecordGroupSkipped counts a grouped result dropped during resolution.
func RecordGroupSkipped(reason string) {
	GroupsSkipped.WithLabelValues(reason).Inc()
}

// RecordStoreQuery records a store query metric
func RecordStoreQuery(backend, operation string, duration time.Duration, err error) {
	StoreQueryDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		StoreQueryErrors.WithLabelValues(backend, operation, errorType).Inc()
	}
}

// RecordStoreConflict counts an insert rejected by a uniqueness constraint.
func RecordStoreConflict(backend, kind string) {
	StoreConflicts.WithLabelValues(backend, kind).Inc()
}

// RecordCacheResult records a cache lookup
func RecordCacheResult(cache string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cache).Inc()
	} else {
		CacheMisses.WithLabelValues(cache).Inc()
	}
}

// RecordCacheError counts a cache backend error.
func RecordCacheError(cache, operation string) {
	CacheErrors.WithLabelValues(cache, operation).Inc()
}

// RecordResolve records an entity resolution.
func RecordResolve(resolver, result string, duration time.Duration) {
	ResolveTotal.WithLabelValues(resolver, result).Inc()
	ResolveDuration.WithLabelValues(resolver).Observe(duration.Seconds())
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

// RecordSessionIssued counts a newly minted anonymous session.
func RecordSessionIssued() {
	SessionsIssued.Inc()
}

// SetDependencyUp records the result of a dependency ping.
func SetDependencyUp(dependency string, up bool) {
	v := 0.0
	if up {
		v = 1
	}
	DependencyUp.WithLabelValues(dependency).Set(v)
}

// SetAppInfo publishes the running version.
func SetAppInfo(version string) {
	AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
}
