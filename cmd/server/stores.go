// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tomtom215/baselike/internal/cache"
	"github.com/tomtom215/baselike/internal/config"
	"github.com/tomtom215/baselike/internal/database"
	"github.com/tomtom215/baselike/internal/likes"
	"github.com/tomtom215/baselike/internal/logging"
	"github.com/tomtom215/baselike/internal/pgstore"
)

// memoryCountsSize bounds the in-process count cache used without Redis.
const memoryCountsSize = 10_000

// likeStore is a like storage backend that can be monitored and closed.
type likeStore interface {
	likes.Store
	Ping(ctx context.Context) error
	Close() error
}

// openStore opens the backend selected by database.driver.
func openStore(cfg *config.Config) (likeStore, error) {
	switch cfg.Database.Driver {
	case "", config.DriverDuckDB:
		db, err := database.New(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("open duckdb store: %w", err)
		}
		logging.Info().Str("path", cfg.Database.Path).Msg("DuckDB like store initialized")
		return db, nil
	case config.DriverPostgres:
		s, err := pgstore.New(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		logging.Info().Msg("PostgreSQL like store initialized")
		return s, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

// countCache is the count cache chosen at startup. redis is nil when the
// in-process cache is used.
type countCache struct {
	cache  likes.CountCache
	redis  *cache.RedisCounts
	client *redis.Client
}

func (c *countCache) close() {
	if c.client != nil {
		closeWithLog(c.client, "redis")
	}
}

// initCounts connects to Redis when enabled. If Redis cannot be reached at
// startup the server falls back to the in-process cache.
func initCounts(ctx context.Context, cfg *config.Config) (*countCache, error) {
	ttl := cfg.Redis.TTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	memory := &countCache{cache: cache.NewMemoryCounts(memoryCountsSize, ttl)}

	if !cfg.Redis.Enabled {
		return memory, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client, err := cache.NewRedisClient(connectCtx, &cfg.Redis)
	if err != nil {
		logging.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unavailable, using in-process count cache")
		return memory, nil
	}

	counts := cache.NewRedisCounts(client, cfg.Redis.KeyPrefix, ttl)
	logging.Info().Str("addr", cfg.Redis.Addr).Msg("Redis count cache connected")
	return &countCache{cache: counts, redis: counts, client: client}, nil
}
