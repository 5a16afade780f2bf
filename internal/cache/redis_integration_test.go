// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/baselike/internal/config"
	"github.com/tomtom215/baselike/internal/likes"
	"github.com/tomtom215/baselike/internal/testinfra"
)

func TestRedisCounts_Integration(t *testing.T) {
	testinfra.SkipIfNoDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	rc, err := testinfra.NewRedisContainer(ctx)
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}
	defer testinfra.CleanupContainer(t, ctx, rc)

	client, err := NewRedisClient(ctx, &config.RedisConfig{Addr: rc.Addr})
	if err != nil {
		t.Fatalf("NewRedisClient: %v", err)
	}
	defer client.Close()

	counts := NewRedisCounts(client, "test:", time.Minute)
	if err := counts.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	if _, ok := counts.Get(ctx, article42); ok {
		t.Fatal("Expected miss before Set")
	}

	counts.Set(ctx, likes.GroupResult{Target: article42, Real: 2, Seed: 7})
	got, ok := counts.Get(ctx, article42)
	if !ok {
		t.Fatal("Expected hit after Set")
	}
	if got.Real != 2 || got.Seed != 7 {
		t.Errorf("Expected (2, 7), got (%d, %d)", got.Real, got.Seed)
	}

	ttl, err := client.TTL(ctx, counts.key(article42)).Result()
	if err != nil {
		t.Fatalf("TTL: %v", err)
	}
	if ttl <= 0 || ttl > time.Minute {
		t.Errorf("Expected TTL within (0, 1m], got %v", ttl)
	}

	if err := counts.Invalidate(ctx, article42); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, ok := counts.Get(ctx, article42); ok {
		t.Error("Expected miss after Invalidate")
	}
	// Invalidating a missing key is not an error.
	if err := counts.Invalidate(ctx, article42); err != nil {
		t.Errorf("second Invalidate: %v", err)
	}
}
