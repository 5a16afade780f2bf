// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package likes

import (
	"context"
	"testing"
)

func seedRecords(t *testing.T, store *memStore, recs ...Record) {
	t.Helper()
	for i := range recs {
		ok, err := store.InsertLike(context.Background(), &recs[i])
		checkNoError(t, err)
		if !ok {
			t.Fatalf("record %s was not inserted", recs[i].ID)
		}
	}
}

func TestReconcileIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	seedRecords(t, store,
		Record{ID: "a", Target: Target{Type: "Article", ID: "1"}, SessionKey: "s1", CountReal: 1},
		Record{ID: "b", Target: Target{Type: "Article", ID: "2"}, UserID: "7", CountReal: 1},
		Record{ID: "c", Target: Target{Type: "Article", ID: "3"}, UserID: "7", SessionKey: "s1", CountReal: 1},
	)
	r := NewReconciler(store)
	trigger := &Record{ID: "c", UserID: "7", SessionKey: "s1"}

	res, err := r.Reconcile(ctx, trigger)
	checkNoError(t, err)
	checkEqual(t, "first", res, ReconcileResult{UsersAttached: 1, SessionsAttached: 1})

	res, err = r.Reconcile(ctx, trigger)
	checkNoError(t, err)
	checkEqual(t, "second", res, ReconcileResult{})
}

func TestReconcileSkipsConflictingTargets(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	// The user already liked Article/1 from another device, so the
	// anonymous like on the same target must not be attributed to them.
	seedRecords(t, store,
		Record{ID: "anon", Target: Target{Type: "Article", ID: "1"}, SessionKey: "s1", CountReal: 1},
		Record{ID: "other", Target: Target{Type: "Article", ID: "1"}, UserID: "7", SessionKey: "s2", CountReal: 1},
	)

	res, err := NewReconciler(store).Reconcile(ctx, &Record{ID: "new", UserID: "7", SessionKey: "s1"})
	checkNoError(t, err)
	checkEqual(t, "users attached", res.UsersAttached, int64(0))

	for _, rec := range store.snapshot() {
		if rec.ID == "anon" {
			checkEqual(t, "anonymous like user", rec.UserID, "")
		}
	}
}

func TestReconcileLeavesOtherUsersAlone(t *testing.T) {
	store := newMemStore()
	seedRecords(t, store,
		Record{ID: "x", Target: Target{Type: "Article", ID: "1"}, UserID: "8", SessionKey: "s1", CountReal: 1},
	)

	res, err := NewReconciler(store).Reconcile(context.Background(), &Record{ID: "new", UserID: "7", SessionKey: "s1"})
	checkNoError(t, err)
	checkEqual(t, "result", res, ReconcileResult{})
	checkEqual(t, "user", store.snapshot()[0].UserID, "8")
}

func TestReconcileSingleIdentifierNoop(t *testing.T) {
	store := newMemStore()
	store.failAttach = errBoom

	res, err := NewReconciler(store).Reconcile(context.Background(), &Record{ID: "a", SessionKey: "s1"})
	checkNoError(t, err)
	checkEqual(t, "result", res, ReconcileResult{})
}

func TestReconcileReportsFailure(t *testing.T) {
	store := newMemStore()
	store.failAttach = errBoom

	_, err := NewReconciler(store).Reconcile(context.Background(), &Record{ID: "a", UserID: "7", SessionKey: "s1"})
	checkErrorIs(t, err, errBoom)
}
