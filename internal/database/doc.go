// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

// Package database implements the embedded DuckDB like store.
//
// # Overview
//
// DB satisfies likes.Store on top of a single DuckDB file (or ":memory:"
// in tests) through database/sql and github.com/duckdb/duckdb-go/v2.
//
// # Files
//
//   - database.go: lifecycle (open, pool, initialize, ping, close)
//   - database_schema.go: the likes table and its unique constraints
//   - migrations.go: versioned migrations tracked in schema_migrations
//   - crud_likes.go: inserts, existence checks, aggregates, listings
//   - reconcile.go: attaching a user id or session key to earlier rows
//   - analytics_grouped.go: grouped sums and system totals
//   - database_utils.go: default timeouts, checkpoints, query metrics
//
// # Exactly-once writes
//
// Like rows and seed rows live in one table. Three unique constraints
// enforce one row per (model, foreign_key, user_id), per
// (model, foreign_key, session_key) and per (model, foreign_key, seed_key).
// Inserts use INSERT ... ON CONFLICT DO NOTHING and report a conflict as
// "not inserted". When a concurrent writer surfaces as a constraint error
// or transaction conflict instead, the store re-checks for the competing
// row and retries a bounded number of times if it is not visible yet.
//
// # Context Handling
//
// Every operation accepts a context. Without a deadline, a 30 second
// timeout applies.
package database
