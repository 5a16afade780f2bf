// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package database

import (
	"context"
	"fmt"
	"time"
)

// seedKeyValue marks the single seed row of a target. Like rows leave
// seed_key NULL so the seed uniqueness constraint never applies to them.
const seedKeyValue = "seed"

// likesTable holds both like rows and seed rows. NULLs are distinct under
// the unique constraints, so a row constrains only the identifiers it
// carries.
const likesTable = `
CREATE TABLE IF NOT EXISTS likes (
	id TEXT PRIMARY KEY,
	model TEXT NOT NULL,
	foreign_key TEXT NOT NULL,
	user_id TEXT,
	session_key TEXT,
	count_real BIGINT NOT NULL DEFAULT 0,
	count_seed BIGINT NOT NULL DEFAULT 0,
	seed_key TEXT,
	created_at TIMESTAMP NOT NULL,
	UNIQUE (model, foreign_key, user_id),
	UNIQUE (model, foreign_key, session_key),
	UNIQUE (model, foreign_key, seed_key),
	CHECK (seed_key IS NOT NULL OR user_id IS NOT NULL OR session_key IS NOT NULL)
)`

// schemaContext bounds schema statements, which may replay a WAL.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// getTableCreationQueries returns the base schema in creation order.
func (db *DB) getTableCreationQueries() []string {
	return []string{
		likesTable,
		schemaMigrationsTable,
	}
}

// createTables creates the core database tables.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range db.getTableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}
