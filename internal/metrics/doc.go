// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered on the default registry through promauto and
exposed at /metrics by the API router:

	curl http://localhost:8080/metrics

# Available Metrics

Like engine:
  - baselike_likes_total: registrations (counter), labels: outcome, identity
  - baselike_like_duration_seconds: registration latency (histogram)
  - baselike_seeds_total: seed attempts (counter), labels: outcome
  - baselike_reconciled_records_total: reconciled rows (counter), labels: direction
  - baselike_reconcile_failures_total: failed reconciliation passes (counter)
  - baselike_after_write_hook_failures_total: labels: hook
  - baselike_grouped_results_skipped_total: labels: reason

Storage and caches:
  - baselike_store_query_duration_seconds: labels: backend, operation
  - baselike_store_query_errors_total: labels: backend, operation, error_type
  - baselike_store_conflicts_total: labels: backend, kind
  - baselike_cache_hits_total / baselike_cache_misses_total: labels: cache

Entity resolution:
  - baselike_resolve_total, baselike_resolve_duration_seconds
  - circuit_breaker_state, circuit_breaker_requests_total,
    circuit_breaker_state_transitions_total

HTTP:
  - http_requests_total, http_request_duration_seconds, http_requests_in_flight

# Usage

Record helpers never fail and are safe for concurrent use:

	start := time.Now()
	_, err := store.InsertLike(ctx, rec)
	metrics.RecordStoreQuery("duckdb", "insert_like", time.Since(start), err)
*/
package metrics
