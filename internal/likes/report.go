// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package likes

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/tomtom215/baselike/internal/logging"
	"github.com/tomtom215/baselike/internal/metrics"
)

// DefaultTopLimit is the size of the top liked list when none is given.
const DefaultTopLimit = 10

// Entity is a resolved target.
type Entity struct {
	Target Target `json:"target"`
	Title  string `json:"title"`
}

// Resolver looks up the entity behind a target. It returns
// ErrEntityNotFound when the entity no longer exists.
type Resolver interface {
	Resolve(ctx context.Context, t Target) (Entity, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, t Target) (Entity, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, t Target) (Entity, error) {
	return f(ctx, t)
}

// Entry is a grouped result with its resolved entity.
type Entry struct {
	Result GroupResult
	Entity Entity
}

// Reporter runs read-only aggregations for dashboards.
type Reporter struct {
	store      Store
	resolver   Resolver
	normalizer *Normalizer
}

// NewReporter creates a reporter. A nil normalizer applies NormalizeType
// without aliases.
func NewReporter(store Store, resolver Resolver, normalizer *Normalizer) *Reporter {
	if normalizer == nil {
		normalizer = &Normalizer{}
	}
	return &Reporter{store: store, resolver: resolver, normalizer: normalizer}
}

// Grouped streams grouped results matching q with their entities attached.
// Results whose entity cannot be resolved are skipped. The sequence is
// restartable: ranging over it again re-runs the query.
func (r *Reporter) Grouped(ctx context.Context, q GroupQuery) iter.Seq2[Entry, error] {
	q, err := r.prepare(q)
	if err != nil {
		return func(yield func(Entry, error) bool) { yield(Entry{}, err) }
	}

	return func(yield func(Entry, error) bool) {
		for g, err := range r.store.Grouped(ctx, q) {
			if err != nil {
				yield(Entry{}, err)
				return
			}
			entity, err := r.resolver.Resolve(ctx, g.Target)
			if err != nil {
				r.skip(ctx, g.Target, err)
				continue
			}
			if !yield(Entry{Result: g, Entity: entity}, nil) {
				return
			}
		}
	}
}

// TopLiked returns up to n resolved targets with the most real likes.
func (r *Reporter) TopLiked(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		n = DefaultTopLimit
	}
	q := GroupQuery{OrderBy: CountReal, Limit: n}
	entries := make([]Entry, 0, n)
	for e, err := range r.Grouped(ctx, q) {
		if err != nil {
			return nil, fmt.Errorf("top liked: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Totals returns the number of liked targets and the sum of real likes.
func (r *Reporter) Totals(ctx context.Context) (Totals, error) {
	t, err := r.store.Totals(ctx)
	if err != nil {
		return Totals{}, fmt.Errorf("totals: %w", err)
	}
	return t, nil
}

func (r *Reporter) prepare(q GroupQuery) (GroupQuery, error) {
	q, err := q.Normalize()
	if err != nil {
		return q, err
	}
	types := make([]string, 0, len(q.Types))
	for _, t := range q.Types {
		if n := r.normalizer.Type(t); n != "" {
			types = append(types, n)
		}
	}
	q.Types = types
	return q, nil
}

func (r *Reporter) skip(ctx context.Context, t Target, err error) {
	if errors.Is(err, ErrEntityNotFound) {
		metrics.RecordGroupSkipped("not_found")
		logging.Ctx(ctx).Debug().Str("target", t.String()).Msg("Skipping grouped result for missing entity")
		return
	}
	metrics.RecordGroupSkipped("resolve_error")
	logging.Ctx(ctx).Warn().Err(err).Str("target", t.String()).Msg("Skipping grouped result, entity resolution failed")
}
