// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package likes

import (
	"fmt"
	"time"
)

// CountKind selects which count Count returns.
type CountKind string

const (
	CountReal    CountKind = "real"
	CountFake    CountKind = "fake"
	CountVirtual CountKind = "virtual"
)

// ParseCountKind validates a count kind name.
func ParseCountKind(s string) (CountKind, error) {
	switch k := CountKind(s); k {
	case CountReal, CountFake, CountVirtual:
		return k, nil
	default:
		return "", fmt.Errorf("%w: unknown count kind %q", ErrInvalidArgument, s)
	}
}

// Counter is anything carrying a real and a seed count.
type Counter interface {
	RealCount() int64
	SeedCount() int64
}

// Count returns the real, fake (seed) or virtual (real + seed) count of c.
func Count(c Counter, kind string) (int64, error) {
	k, err := ParseCountKind(kind)
	if err != nil {
		return 0, err
	}
	switch k {
	case CountReal:
		return c.RealCount(), nil
	case CountFake:
		return c.SeedCount(), nil
	default:
		return c.RealCount() + c.SeedCount(), nil
	}
}

// Record is one persisted row: either a like by one identity or the single
// seed row of a target.
type Record struct {
	ID         string    `json:"id"`
	Target     Target    `json:"target"`
	UserID     string    `json:"user_id,omitempty"`
	SessionKey string    `json:"session_key,omitempty"`
	CountReal  int64     `json:"count_real"`
	CountSeed  int64     `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

func (r *Record) RealCount() int64 { return r.CountReal }
func (r *Record) SeedCount() int64 { return r.CountSeed }

// Count returns the requested count of the record.
func (r *Record) Count(kind string) (int64, error) {
	return Count(r, kind)
}

// Identity returns the identifiers stored on the record.
func (r *Record) Identity() Identity {
	return Identity{UserID: r.UserID, SessionKey: r.SessionKey}
}

// IsSeed reports whether the record is a seed row.
func (r *Record) IsSeed() bool {
	return r.UserID == "" && r.SessionKey == ""
}

// GroupResult is the per-target sum of real and seed counts.
type GroupResult struct {
	Target Target `json:"target"`
	Real   int64  `json:"count_real"`
	Seed   int64  `json:"-"`
}

func (g GroupResult) RealCount() int64 { return g.Real }
func (g GroupResult) SeedCount() int64 { return g.Seed }

// Count returns the requested count of the group.
func (g GroupResult) Count(kind string) (int64, error) {
	return Count(g, kind)
}

// Summary is the public view of a target for one identity. Only the
// virtual count is exposed.
type Summary struct {
	Count int64 `json:"count"`
	Given bool  `json:"given"`
}

// Totals holds system wide figures: how many distinct targets have records
// and the sum of real likes.
type Totals struct {
	Things int64 `json:"things"`
	Likes  int64 `json:"likes"`
}
