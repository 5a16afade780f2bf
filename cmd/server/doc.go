// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

/*
Package main is the entry point for the Baselike server.

Baselike counts likes on arbitrary {type, id} targets. Every visitor gets
an anonymous session cookie, a signed-in user is identified by a header set
by the host application's auth proxy, and each identity can like a target
at most once. Targets can carry a seeded baseline that is added to the
public count but never exposed on its own.

# Process Layout

	baselike (root supervisor)
	├── data-layer
	│   ├── storage-monitor
	│   └── redis-monitor   (REDIS_ENABLED=true)
	└── api-layer
	    └── http-server

Startup order:

 1. Configuration: koanf (defaults, config.yaml, environment)
 2. Logging: zerolog, JSON or console
 3. Like store: DuckDB (default) or PostgreSQL via GORM
 4. Count cache: Redis, or an in-process LRU when Redis is off or down
 5. Entity resolver: none, static titles, or the host app over HTTP
 6. Like service and reporter
 7. Chi router and supervisor tree

# Configuration

	HTTP_PORT=8080
	LOG_LEVEL=info              # trace, debug, info, warn, error
	LOG_FORMAT=json             # json or console

	DATABASE_DRIVER=duckdb      # duckdb or postgres
	DUCKDB_PATH=/data/baselike.duckdb
	DATABASE_DSN=postgres://... # postgres only

	REDIS_ENABLED=false
	REDIS_ADDR=localhost:6379

	RESOLVER_MODE=none          # none, static or http
	RESOLVER_BASE_URL=http://app.internal/entities

	IDENTITY_USER_HEADER=       # e.g. X-User-ID, only behind an auth proxy
	SESSION_COOKIE_NAME=baselike_session

	REPORTS_TOKEN=              # bearer token for /api/v1/reports, empty disables

	LIKES_SEED=[5,10]           # false, an integer or a [min,max] range
	LIKES_SEED_ON_ADD=false
	LIKES_TYPE_ALIASES=post=Article

# Signal Handling

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server stops
accepting connections and waits up to SHUTDOWN_TIMEOUT for in-flight
requests, then the like store and Redis client are closed.
*/
package main
