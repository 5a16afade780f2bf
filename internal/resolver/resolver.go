// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

// Package resolver maps like targets to displayable entities for reports.
//
// Modes:
//   - none: the title is "Type/ID"
//   - static: titles come from configuration
//   - http: titles are fetched from {base}/{type}/{id}, behind a circuit
//     breaker and an LRU cache
//
// Every resolver reports a missing entity as likes.ErrEntityNotFound so
// the reporter can skip it quietly.
package resolver

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/baselike/internal/config"
	"github.com/tomtom215/baselike/internal/likes"
	"github.com/tomtom215/baselike/internal/metrics"
)

// New builds the resolver selected by cfg.Mode.
func New(cfg *config.ResolverConfig, n *likes.Normalizer) (likes.Resolver, error) {
	switch cfg.Mode {
	case "", config.ResolverNone:
		return Passthrough{}, nil
	case config.ResolverStatic:
		return NewStatic(cfg.Entities, n)
	case config.ResolverHTTP:
		client, err := NewHTTP(cfg.BaseURL, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		return NewCaching(NewBreaker("entity-resolver", client), cfg.CacheSize, cfg.CacheTTL), nil
	default:
		return nil, fmt.Errorf("%w: unknown resolver mode %q", likes.ErrInvalidArgument, cfg.Mode)
	}
}

// Passthrough resolves every target to itself.
type Passthrough struct{}

func (Passthrough) Resolve(_ context.Context, t likes.Target) (likes.Entity, error) {
	return likes.Entity{Target: t, Title: t.String()}, nil
}

// resultLabel classifies a resolution for metrics.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "found"
	case isNotFound(err):
		return "not_found"
	default:
		return "error"
	}
}

func observe(resolver string, start time.Time, err error) {
	metrics.RecordResolve(resolver, resultLabel(err), time.Since(start))
}
