// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package likes

import (
	"context"
	"fmt"
	"iter"
)

// Store persists like records. Implementations must enforce, at the
// storage level, one seed row per target and one like per target for each
// user id and each session key. InsertLike and InsertSeed report a
// uniqueness conflict as (false, nil), never as an error.
type Store interface {
	SeedStore

	// InsertLike inserts rec, or reports false if the identity already
	// has a like on the target.
	InsertLike(ctx context.Context, rec *Record) (bool, error)

	// HasGiven reports whether any record on t carries the identity's
	// user id or session key.
	HasGiven(ctx context.Context, t Target, id Identity) (bool, error)

	// Aggregate sums real and seed counts across all records of t.
	Aggregate(ctx context.Context, t Target) (GroupResult, error)

	// ListByIdentity returns like records carrying the identity's user id
	// or session key, newest first.
	ListByIdentity(ctx context.Context, id Identity) ([]Record, error)

	// AttachUser sets userID on records with sessionKey and no user,
	// skipping targets the user already has a record on and excludeID.
	AttachUser(ctx context.Context, sessionKey, userID, excludeID string) (int64, error)

	// AttachSession sets sessionKey on records with userID and no session,
	// skipping targets the session already has a record on and excludeID.
	AttachSession(ctx context.Context, userID, sessionKey, excludeID string) (int64, error)

	// Grouped streams per-target sums matching q. Each iteration runs the
	// query again.
	Grouped(ctx context.Context, q GroupQuery) iter.Seq2[GroupResult, error]

	// Totals returns the number of distinct targets and the sum of real
	// counts.
	Totals(ctx context.Context) (Totals, error)
}

// DefaultGroupLimit caps grouped queries when no limit is given.
const DefaultGroupLimit = 100

// MaxGroupLimit is the largest accepted grouped limit.
const MaxGroupLimit = 1000

// GroupQuery filters and orders a grouped aggregation. Empty filters match
// everything. Types must already be normalized.
type GroupQuery struct {
	Types     []string
	TargetIDs []string
	OrderBy   CountKind
	Ascending bool
	Limit     int
}

// Normalize fills defaults and validates the order and limit.
func (q GroupQuery) Normalize() (GroupQuery, error) {
	if q.OrderBy == "" {
		q.OrderBy = CountReal
	}
	if _, err := ParseCountKind(string(q.OrderBy)); err != nil {
		return q, err
	}
	if q.Limit < 0 || q.Limit > MaxGroupLimit {
		return q, fmt.Errorf("%w: limit must be between 0 and %d", ErrInvalidArgument, MaxGroupLimit)
	}
	if q.Limit == 0 {
		q.Limit = DefaultGroupLimit
	}
	return q, nil
}
