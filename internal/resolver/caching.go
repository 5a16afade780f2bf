// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package resolver

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/baselike/internal/cache"
	"github.com/tomtom215/baselike/internal/likes"
	"github.com/tomtom215/baselike/internal/metrics"
)

// cachedEntity remembers found and not-found answers alike.
type cachedEntity struct {
	entity likes.Entity
	found  bool
}

// Caching memoizes another resolver in an LRU. Transient errors are not
// cached.
type Caching struct {
	next likes.Resolver
	lru  *cache.LRU[cachedEntity]
}

// NewCaching wraps next with a cache of size entries kept for ttl.
func NewCaching(next likes.Resolver, size int, ttl time.Duration) *Caching {
	return &Caching{next: next, lru: cache.NewLRU[cachedEntity](size, ttl)}
}

func (c *Caching) Resolve(ctx context.Context, t likes.Target) (likes.Entity, error) {
	key := t.String()
	if hit, ok := c.lru.Get(key); ok {
		metrics.RecordCacheResult("entity", true)
		if !hit.found {
			return likes.Entity{}, fmt.Errorf("%w: %s", likes.ErrEntityNotFound, t)
		}
		return hit.entity, nil
	}
	metrics.RecordCacheResult("entity", false)

	e, err := c.next.Resolve(ctx, t)
	switch {
	case err == nil:
		c.lru.Add(key, cachedEntity{entity: e, found: true})
	case isNotFound(err):
		c.lru.Add(key, cachedEntity{})
	}
	return e, err
}
