// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package likes

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/baselike/internal/logging"
	"github.com/tomtom215/baselike/internal/metrics"
)

// SeedOutcome is the non-error result of a seed attempt.
type SeedOutcome string

const (
	Seeded        SeedOutcome = "seeded"
	AlreadySeeded SeedOutcome = "already_seeded"
)

// SeedResult reports a seed attempt. Count is set when Outcome is Seeded.
type SeedResult struct {
	Outcome SeedOutcome
	Count   int64
}

// SeedSpec is a parsed seed setting. A disabled spec yields a baseline of 0.
type SeedSpec struct {
	Enabled bool
	Min     int64
	Max     int64
}

// String renders the seed setting in its configured form.
func (s SeedSpec) String() string {
	switch {
	case !s.Enabled:
		return "false"
	case s.Min == s.Max:
		return strconv.FormatInt(s.Min, 10)
	default:
		return fmt.Sprintf("[%d, %d]", s.Min, s.Max)
	}
}

// Baseline draws a baseline within the configured bounds.
func (s SeedSpec) Baseline() int64 {
	if !s.Enabled {
		return 0
	}
	if s.Min == s.Max {
		return s.Min
	}
	return s.Min + int64(rand.Uint64N(uint64(s.Max-s.Min)+1))
}

// ParseSeedSpec accepts false, a non-negative integer or a two element
// inclusive range, in any of the shapes configuration loaders produce:
// Go numbers, []any, []int, or strings such as "false", "7", "3,10" and
// "[3, 10]". nil is treated as false. Every other shape, including true,
// returns ErrInvalidSeedConfiguration.
func ParseSeedSpec(raw any) (SeedSpec, error) {
	switch v := raw.(type) {
	case nil:
		return SeedSpec{}, nil
	case SeedSpec:
		return v, v.validate()
	case bool:
		if !v {
			return SeedSpec{}, nil
		}
		return SeedSpec{}, fmt.Errorf("%w: true is not a valid seed", ErrInvalidSeedConfiguration)
	case string:
		return parseSeedString(v)
	case []any:
		return seedRange(v)
	case []int:
		return seedRange(toAnySlice(v))
	case []int64:
		return seedRange(toAnySlice(v))
	case []string:
		return seedRange(toAnySlice(v))
	case [2]int:
		return seedRange([]any{v[0], v[1]})
	}
	n, err := seedInt(raw)
	if err != nil {
		return SeedSpec{}, err
	}
	return fixedSeed(n)
}

func toAnySlice[T any](in []T) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

func parseSeedString(s string) (SeedSpec, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "false":
		return SeedSpec{}, nil
	}
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	if strings.Contains(s, ",") {
		parts := strings.Split(s, ",")
		return seedRange(toAnySlice(parts))
	}
	n, err := seedInt(s)
	if err != nil {
		return SeedSpec{}, err
	}
	return fixedSeed(n)
}

func fixedSeed(n int64) (SeedSpec, error) {
	spec := SeedSpec{Enabled: true, Min: n, Max: n}
	return spec, spec.validate()
}

func seedRange(vals []any) (SeedSpec, error) {
	if len(vals) != 2 {
		return SeedSpec{}, fmt.Errorf("%w: range needs exactly 2 values, got %d", ErrInvalidSeedConfiguration, len(vals))
	}
	lo, err := seedInt(vals[0])
	if err != nil {
		return SeedSpec{}, err
	}
	hi, err := seedInt(vals[1])
	if err != nil {
		return SeedSpec{}, err
	}
	spec := SeedSpec{Enabled: true, Min: lo, Max: hi}
	return spec, spec.validate()
}

func seedInt(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint:
		if uint64(n) > math.MaxInt64 {
			break
		}
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case float64:
		if n == math.Trunc(n) && math.Abs(n) < math.MaxInt64 {
			return int64(n), nil
		}
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err == nil {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %v (%T) is not an integer", ErrInvalidSeedConfiguration, v, v)
}

func (s SeedSpec) validate() error {
	if !s.Enabled {
		return nil
	}
	if s.Min < 0 || s.Max < 0 {
		return fmt.Errorf("%w: seed must not be negative", ErrInvalidSeedConfiguration)
	}
	if s.Min > s.Max {
		return fmt.Errorf("%w: range minimum %d exceeds maximum %d", ErrInvalidSeedConfiguration, s.Min, s.Max)
	}
	return nil
}

// SeedStore is the storage subset the seeder needs.
type SeedStore interface {
	HasRecords(ctx context.Context, t Target) (bool, error)
	InsertSeed(ctx context.Context, rec *Record) (bool, error)
}

// Seeder establishes the synthetic baseline of a target exactly once.
type Seeder struct {
	store SeedStore
	raw   any
	now   func() time.Time
}

// NewSeeder creates a seeder for the given raw seed setting. The setting
// is parsed on every attempt.
func NewSeeder(store SeedStore, raw any) *Seeder {
	return &Seeder{store: store, raw: raw, now: time.Now}
}

// Spec parses the configured seed setting.
func (s *Seeder) Spec() (SeedSpec, error) {
	return ParseSeedSpec(s.raw)
}

// Seed persists a seed row for t unless t already has any record, seed or
// like. The target must already be normalized. A concurrent seeder losing
// the insert race gets AlreadySeeded.
func (s *Seeder) Seed(ctx context.Context, t Target) (SeedResult, error) {
	exists, err := s.store.HasRecords(ctx, t)
	if err != nil {
		metrics.RecordSeed("error")
		return SeedResult{}, fmt.Errorf("check seed for %s: %w", t, err)
	}
	if exists {
		metrics.RecordSeed(string(AlreadySeeded))
		return SeedResult{Outcome: AlreadySeeded}, nil
	}

	spec, err := s.Spec()
	if err != nil {
		metrics.RecordSeed("error")
		return SeedResult{}, err
	}

	rec := &Record{
		ID:        uuid.New().String(),
		Target:    t,
		CountSeed: spec.Baseline(),
		CreatedAt: s.now().UTC(),
	}
	inserted, err := s.store.InsertSeed(ctx, rec)
	if err != nil {
		metrics.RecordSeed("error")
		return SeedResult{}, fmt.Errorf("insert seed for %s: %w", t, err)
	}
	if !inserted {
		metrics.RecordSeed(string(AlreadySeeded))
		return SeedResult{Outcome: AlreadySeeded}, nil
	}

	metrics.RecordSeed(string(Seeded))
	logging.Ctx(ctx).Debug().
		Str("target", t.String()).
		Int64("count_seed", rec.CountSeed).
		Msg("Seeded target")
	return SeedResult{Outcome: Seeded, Count: rec.CountSeed}, nil
}
