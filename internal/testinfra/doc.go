// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

// Package testinfra provides test infrastructure for integration testing
// with containers.
//
// Container helpers (build tag integration) use testcontainers-go to run
// the real backing services:
//
//	func TestPostgresStore(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    pg, err := testinfra.NewPostgresContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, pg)
//	    // connect with pg.DSN
//	}
//
// NewRedisContainer does the same for the shared count cache.
//
// MockEntityServer is available without the tag. It stands in for the
// entity service consulted by the HTTP resolver.
//
// Tests are skipped gracefully if Docker is unavailable. The first run may
// need to download container images.
package testinfra
