// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/baselike/internal/likes"
)

var article42 = likes.Target{Type: "Article", ID: "42"}

func TestMemoryCounts(t *testing.T) {
	ctx := context.Background()
	counts := NewMemoryCounts(10, time.Minute)

	if _, ok := counts.Get(ctx, article42); ok {
		t.Fatal("Expected miss on empty cache")
	}

	counts.Set(ctx, likes.GroupResult{Target: article42, Real: 3, Seed: 5})

	got, ok := counts.Get(ctx, article42)
	if !ok {
		t.Fatal("Expected hit after Set")
	}
	if got.Real != 3 || got.Seed != 5 {
		t.Errorf("Expected (3, 5), got (%d, %d)", got.Real, got.Seed)
	}

	if err := counts.Invalidate(ctx, article42); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, ok := counts.Get(ctx, article42); ok {
		t.Error("Expected miss after Invalidate")
	}
	if counts.Len() != 0 {
		t.Errorf("Expected empty cache, got %d", counts.Len())
	}
}

func TestMemoryCounts_InvalidateIsPerTarget(t *testing.T) {
	ctx := context.Background()
	counts := NewMemoryCounts(10, time.Minute)
	counts.Set(ctx, likes.GroupResult{Target: article42, Real: 100})

	if err := counts.Invalidate(ctx, likes.Target{Type: "Article", ID: "43"}); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, ok := counts.Get(ctx, article42); !ok {
		t.Error("Invalidating another target must keep this one")
	}
}

func TestParseCounts(t *testing.T) {
	tests := []struct {
		name string
		vals []any
		ok   bool
		real int64
		seed int64
	}{
		{"hit", []any{"3", "5"}, true, 3, 5},
		{"missing key", []any{nil, nil}, false, 0, 0},
		{"partial", []any{"3", nil}, false, 0, 0},
		{"malformed", []any{"x", "5"}, false, 0, 0},
		{"short reply", []any{"3"}, false, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, ok := parseCounts(article42, tt.vals)
			if ok != tt.ok {
				t.Fatalf("Expected ok=%v, got %v", tt.ok, ok)
			}
			if g.Real != tt.real || g.Seed != tt.seed {
				t.Errorf("Expected (%d, %d), got (%d, %d)", tt.real, tt.seed, g.Real, g.Seed)
			}
		})
	}
}

func TestRedisCountsKey(t *testing.T) {
	r := NewRedisCounts(nil, "baselike:", 0)
	if got := r.key(article42); got != "baselike:count:Article/42" {
		t.Errorf("unexpected key %q", got)
	}
	if r.ttl != time.Minute {
		t.Errorf("Expected default TTL 1m, got %v", r.ttl)
	}
}
