// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package likes

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/baselike/internal/logging"
	"github.com/tomtom215/baselike/internal/metrics"
)

// AddOutcome is the non-error result of Add.
type AddOutcome string

const (
	Added        AddOutcome = "added"
	AlreadyGiven AddOutcome = "already_given"
)

// AddOptions controls a single Add call.
type AddOptions struct {
	// Seed establishes the target's synthetic baseline before the like
	// is registered.
	Seed bool
}

// AddResult reports an Add call. Record is set when Outcome is Added.
type AddResult struct {
	Outcome AddOutcome
	Record  *Record
}

// AfterWrite runs after a record has been inserted. Errors are logged and
// never fail the write.
type AfterWrite func(ctx context.Context, rec *Record) error

type namedHook struct {
	name string
	fn   AfterWrite
}

// CountCache holds per-target aggregates in front of the store. Stale
// entries are acceptable; Invalidate is called after every write to the
// target.
type CountCache interface {
	Get(ctx context.Context, t Target) (GroupResult, bool)
	Set(ctx context.Context, g GroupResult)
	Invalidate(ctx context.Context, t Target) error
}

// Service is the like registration and lookup API.
type Service struct {
	store      Store
	seeder     *Seeder
	normalizer *Normalizer
	reconciler *Reconciler
	counts     CountCache
	seedOnRead bool
	hooks      []namedHook
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithSeed sets the raw seed configuration: false, an integer or [min, max].
func WithSeed(raw any) Option {
	return func(s *Service) { s.seeder = NewSeeder(s.store, raw) }
}

// WithNormalizer replaces the default alias-free normalizer.
func WithNormalizer(n *Normalizer) Option {
	return func(s *Service) { s.normalizer = n }
}

// WithCountCache puts a cache in front of Aggregate and registers the
// matching invalidation hook.
func WithCountCache(c CountCache) Option {
	return func(s *Service) { s.counts = c }
}

// WithSeedOnRead makes Get seed unseen targets before counting.
func WithSeedOnRead(enabled bool) Option {
	return func(s *Service) { s.seedOnRead = enabled }
}

// WithAfterWrite appends a hook run after reconciliation and cache
// invalidation.
func WithAfterWrite(name string, fn AfterWrite) Option {
	return func(s *Service) { s.hooks = append(s.hooks, namedHook{name: name, fn: fn}) }
}

// NewService wires the write pipeline around store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:      store,
		normalizer: &Normalizer{},
		reconciler: NewReconciler(store),
		now:        time.Now,
	}
	s.seeder = NewSeeder(store, false)

	var extra []namedHook
	for _, opt := range opts {
		opt(s)
	}
	extra, s.hooks = s.hooks, nil

	s.hooks = append(s.hooks, namedHook{name: "reconcile", fn: s.reconciler.AfterWrite})
	if s.counts != nil {
		s.hooks = append(s.hooks, namedHook{name: "invalidate_counts", fn: s.invalidate})
	}
	s.hooks = append(s.hooks, extra...)
	return s
}

// Normalizer returns the normalizer used for every target.
func (s *Service) Normalizer() *Normalizer {
	return s.normalizer
}

// Add registers a like by id on the target. A repeat by the same identity
// returns AlreadyGiven. Storage conflicts under concurrent callers are
// reported the same way.
func (s *Service) Add(ctx context.Context, targetType, targetID string, id Identity, opts AddOptions) (AddResult, error) {
	start := time.Now()
	res, err := s.add(ctx, targetType, targetID, id, opts)
	outcome := string(res.Outcome)
	if err != nil {
		outcome = "error"
	}
	metrics.RecordLike(outcome, string(id.Kind()), time.Since(start))
	return res, err
}

func (s *Service) add(ctx context.Context, targetType, targetID string, id Identity, opts AddOptions) (AddResult, error) {
	if err := id.Validate(); err != nil {
		return AddResult{}, err
	}
	t, err := s.normalizer.Target(targetType, targetID)
	if err != nil {
		return AddResult{}, err
	}

	if opts.Seed {
		if _, err := s.seed(ctx, t); err != nil {
			return AddResult{}, err
		}
	}

	given, err := s.store.HasGiven(ctx, t, id)
	if err != nil {
		return AddResult{}, fmt.Errorf("check like on %s: %w", t, err)
	}
	if given {
		return AddResult{Outcome: AlreadyGiven}, nil
	}

	rec := &Record{
		ID:         uuid.New().String(),
		Target:     t,
		UserID:     id.UserID,
		SessionKey: id.SessionKey,
		CountReal:  1,
		CreatedAt:  s.now().UTC(),
	}
	inserted, err := s.store.InsertLike(ctx, rec)
	if err != nil {
		return AddResult{}, fmt.Errorf("insert like on %s: %w", t, err)
	}
	if !inserted {
		return AddResult{Outcome: AlreadyGiven}, nil
	}

	s.afterWrite(ctx, rec)
	return AddResult{Outcome: Added, Record: rec}, nil
}

// Seed establishes the synthetic baseline of a target once.
func (s *Service) Seed(ctx context.Context, targetType, targetID string) (SeedResult, error) {
	t, err := s.normalizer.Target(targetType, targetID)
	if err != nil {
		return SeedResult{}, err
	}
	return s.seed(ctx, t)
}

func (s *Service) seed(ctx context.Context, t Target) (SeedResult, error) {
	res, err := s.seeder.Seed(ctx, t)
	if err != nil {
		return SeedResult{}, err
	}
	if res.Outcome == Seeded && s.counts != nil {
		if err := s.counts.Invalidate(ctx, t); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("target", t.String()).Msg("Failed to invalidate cached count after seeding")
		}
	}
	return res, nil
}

// Get returns the virtual count of the target and whether id has liked
// it. A target without records yields {0, false}.
func (s *Service) Get(ctx context.Context, targetType, targetID string, id Identity) (Summary, error) {
	if err := id.Validate(); err != nil {
		return Summary{}, err
	}
	t, err := s.normalizer.Target(targetType, targetID)
	if err != nil {
		return Summary{}, err
	}

	if s.seedOnRead {
		if _, err := s.seed(ctx, t); err != nil {
			return Summary{}, err
		}
	}

	g, err := s.aggregate(ctx, t)
	if err != nil {
		return Summary{}, err
	}
	given, err := s.store.HasGiven(ctx, t, id)
	if err != nil {
		return Summary{}, fmt.Errorf("check like on %s: %w", t, err)
	}
	return Summary{Count: g.Real + g.Seed, Given: given}, nil
}

// List returns the likes attributable to any identifier id carries.
func (s *Service) List(ctx context.Context, id Identity) ([]Record, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	recs, err := s.store.ListByIdentity(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list likes for %s: %w", id.Kind(), err)
	}
	return recs, nil
}

func (s *Service) aggregate(ctx context.Context, t Target) (GroupResult, error) {
	if s.counts != nil {
		if g, ok := s.counts.Get(ctx, t); ok {
			return g, nil
		}
	}
	g, err := s.store.Aggregate(ctx, t)
	if err != nil {
		return GroupResult{}, fmt.Errorf("aggregate %s: %w", t, err)
	}
	if s.counts != nil {
		s.counts.Set(ctx, g)
	}
	return g, nil
}

func (s *Service) invalidate(ctx context.Context, rec *Record) error {
	return s.counts.Invalidate(ctx, rec.Target)
}

func (s *Service) afterWrite(ctx context.Context, rec *Record) {
	for _, h := range s.hooks {
		if err := h.fn(ctx, rec); err != nil {
			metrics.RecordHookFailure(h.name)
			logging.Ctx(ctx).Warn().
				Err(err).
				Str("hook", h.name).
				Str("record_id", rec.ID).
				Str("target", rec.Target.String()).
				Msg("After-write hook failed")
		}
	}
}
