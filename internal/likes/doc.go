// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

// Package likes implements the like counting engine: identities, target
// normalization, synthetic seed baselines, idempotent registration,
// identity reconciliation and grouped reporting.
//
// The package owns no storage. A Store implementation (DuckDB in
// internal/database, PostgreSQL in internal/pgstore) provides the atomic
// insert-or-detect-conflict primitives that every exactly-once guarantee
// rests on; nothing here takes an in-process lock.
//
// # Write Pipeline
//
// Service.Add runs an explicit pipeline:
//
//	normalize -> seed (optional) -> check duplicate -> insert -> after-write hooks
//
// After-write hooks (reconciliation, cache invalidation) are best effort.
// Their failures are logged and never returned to the caller.
//
// # Counts
//
// Every record and every group exposes three counts through Count:
//
//	real     genuine like events
//	fake     synthetic seed baseline
//	virtual  real + fake, the only figure shown to end users
package likes
