// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tomtom215/baselike/internal/config"
	"github.com/tomtom215/baselike/internal/likes"
	"github.com/tomtom215/baselike/internal/logging"
	"github.com/tomtom215/baselike/internal/metrics"
)

const (
	fieldReal = "real"
	fieldSeed = "seed"
)

// RedisCounts is a likes.CountCache shared by all replicas. Each target is
// a hash {real, seed} under "<prefix>count:<Type>/<ID>" with a TTL.
//
// Cache failures never fail a request: Get reports a miss, Set is dropped
// and Invalidate returns the error for the write hook to log.
type RedisCounts struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

var _ likes.CountCache = (*RedisCounts)(nil)

// NewRedisClient builds a client from cfg and checks it with PING.
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// NewRedisCounts wraps client. A non-positive ttl means one minute.
func NewRedisCounts(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisCounts {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisCounts{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisCounts) key(t likes.Target) string {
	return r.prefix + "count:" + t.String()
}

func (r *RedisCounts) Get(ctx context.Context, t likes.Target) (likes.GroupResult, bool) {
	vals, err := r.client.HMGet(ctx, r.key(t), fieldReal, fieldSeed).Result()
	if err != nil {
		metrics.RecordCacheError("redis", "get")
		logging.Ctx(ctx).Warn().Err(err).Str("target", t.String()).Msg("Count cache read failed")
		metrics.RecordCacheResult("redis", false)
		return likes.GroupResult{}, false
	}

	g, ok := parseCounts(t, vals)
	metrics.RecordCacheResult("redis", ok)
	return g, ok
}

// parseCounts decodes an HMGET reply. A missing or malformed field is a
// miss.
func parseCounts(t likes.Target, vals []any) (likes.GroupResult, bool) {
	if len(vals) != 2 {
		return likes.GroupResult{}, false
	}
	nums := [2]int64{}
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			return likes.GroupResult{}, false
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return likes.GroupResult{}, false
		}
		nums[i] = n
	}
	return likes.GroupResult{Target: t, Real: nums[0], Seed: nums[1]}, true
}

func (r *RedisCounts) Set(ctx context.Context, g likes.GroupResult) {
	key := r.key(g.Target)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fieldReal, g.Real, fieldSeed, g.Seed)
		pipe.Expire(ctx, key, r.ttl)
		return nil
	})
	if err != nil {
		metrics.RecordCacheError("redis", "set")
		logging.Ctx(ctx).Warn().Err(err).Str("target", g.Target.String()).Msg("Count cache write failed")
	}
}

func (r *RedisCounts) Invalidate(ctx context.Context, t likes.Target) error {
	err := r.client.Del(ctx, r.key(t)).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		metrics.RecordCacheError("redis", "invalidate")
		return fmt.Errorf("invalidate %s: %w", t, err)
	}
	return nil
}

// Ping checks the Redis connection.
func (r *RedisCounts) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
