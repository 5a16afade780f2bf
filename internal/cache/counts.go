// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package cache

import (
	"context"
	"time"

	"github.com/tomtom215/baselike/internal/likes"
	"github.com/tomtom215/baselike/internal/metrics"
)

// MemoryCounts is an in-process likes.CountCache. Each replica keeps its
// own copy, so a write on one replica leaves others stale until the TTL.
type MemoryCounts struct {
	lru *LRU[likes.GroupResult]
}

var _ likes.CountCache = (*MemoryCounts)(nil)

// NewMemoryCounts creates a count cache holding up to capacity targets.
func NewMemoryCounts(capacity int, ttl time.Duration) *MemoryCounts {
	return &MemoryCounts{lru: NewLRU[likes.GroupResult](capacity, ttl)}
}

func (m *MemoryCounts) Get(_ context.Context, t likes.Target) (likes.GroupResult, bool) {
	g, ok := m.lru.Get(t.String())
	metrics.RecordCacheResult("memory", ok)
	return g, ok
}

func (m *MemoryCounts) Set(_ context.Context, g likes.GroupResult) {
	m.lru.Add(g.Target.String(), g)
}

func (m *MemoryCounts) Invalidate(_ context.Context, t likes.Target) error {
	m.lru.Remove(t.String())
	return nil
}

// Len returns the number of cached targets.
func (m *MemoryCounts) Len() int {
	return m.lru.Len()
}
