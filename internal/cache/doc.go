// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

// Package cache provides the count caches placed in front of the like
// store's per-target aggregate, plus the generic LRU they and the entity
// resolver build on.
//
// # Count caches
//
//   - MemoryCounts: per-process LRU with TTL
//   - RedisCounts: shared Redis hashes with TTL (github.com/redis/go-redis/v9)
//
// Both satisfy likes.CountCache. The like service invalidates a target
// after every successful write, so a cached count is stale by at most one
// concurrent write or one TTL.
//
// # LRU
//
//	c := cache.NewLRU[likes.Entity](1000, 5*time.Minute)
//	c.Add("Article/42", entity)
//	if e, ok := c.Get("Article/42"); ok {
//	    // use e
//	}
//
// Get, Add and Remove are O(1). Entries expire lazily on access;
// CleanupExpired sweeps them explicitly.
package cache
