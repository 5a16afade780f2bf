// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/baselike/internal/likes"
)

var article42 = likes.Target{Type: "Article", ID: "42"}

func TestInsertLike_UniquePerIdentifier(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	mustInsertLike(t, db, newLike(article42, "u1", ""))
	mustInsertLike(t, db, newLike(article42, "", "s1"))

	tests := []struct {
		name string
		rec  *likes.Record
		want bool
	}{
		{"same user", newLike(article42, "u1", ""), false},
		{"same session", newLike(article42, "", "s1"), false},
		{"same user new session", newLike(article42, "u1", "s9"), false},
		{"new user same session", newLike(article42, "u9", "s1"), false},
		{"new session", newLike(article42, "", "s2"), true},
		{"same user other target", newLike(likes.Target{Type: "Article", ID: "43"}, "u1", ""), true},
		{"same user other type", newLike(likes.Target{Type: "Comment", ID: "42"}, "u1", ""), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inserted, err := db.InsertLike(ctx, tt.rec)
			checkNoError(t, err)
			checkBool(t, "inserted", inserted, tt.want)
		})
	}
}

func TestInsertSeed_OncePerTarget(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	found, err := db.HasRecords(ctx, article42)
	checkNoError(t, err)
	checkBool(t, "records before insert", found, false)

	inserted, err := db.InsertSeed(ctx, newSeed(article42, 5))
	checkNoError(t, err)
	checkBool(t, "first seed", inserted, true)

	inserted, err = db.InsertSeed(ctx, newSeed(article42, 9))
	checkNoError(t, err)
	checkBool(t, "second seed", inserted, false)

	found, err = db.HasRecords(ctx, article42)
	checkNoError(t, err)
	checkBool(t, "records after insert", found, true)

	agg, err := db.Aggregate(ctx, article42)
	checkNoError(t, err)
	checkInt64Equal(t, "seed count", agg.Seed, 5)
	checkInt64Equal(t, "real count", agg.Real, 0)
}

func TestInsertSeed_DoesNotBlockLikes(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	_, err := db.InsertSeed(ctx, newSeed(article42, 0))
	checkNoError(t, err)
	mustInsertLike(t, db, newLike(article42, "", "s1"))
	mustInsertLike(t, db, newLike(article42, "", "s2"))

	likeRows, seedRows, err := db.CountRecords(ctx)
	checkNoError(t, err)
	checkInt64Equal(t, "like rows", likeRows, 2)
	checkInt64Equal(t, "seed rows", seedRows, 1)
}

func TestHasRecords_CountsLikeRows(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	mustInsertLike(t, db, newLike(article42, "", "s1"))

	found, err := db.HasRecords(ctx, article42)
	checkNoError(t, err)
	checkBool(t, "liked target has records", found, true)

	found, err = db.HasRecords(ctx, likes.Target{Type: "Article", ID: "43"})
	checkNoError(t, err)
	checkBool(t, "other target has records", found, false)
}

func TestHasGiven_MatchesEitherIdentifier(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	mustInsertLike(t, db, newLike(article42, "u1", "s1"))
	_, err := db.InsertSeed(ctx, newSeed(article42, 3))
	checkNoError(t, err)

	tests := []struct {
		name string
		id   likes.Identity
		want bool
	}{
		{"user", likes.User("u1"), true},
		{"session", likes.Session("s1"), true},
		{"other user with known session", likes.Identity{UserID: "u2", SessionKey: "s1"}, true},
		{"stranger", likes.Identity{UserID: "u2", SessionKey: "s2"}, false},
		{"anonymous", likes.Anonymous(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := db.HasGiven(ctx, article42, tt.id)
			checkNoError(t, err)
			checkBool(t, "given", found, tt.want)
		})
	}

	found, err := db.HasGiven(ctx, likes.Target{Type: "Article", ID: "43"}, likes.User("u1"))
	checkNoError(t, err)
	checkBool(t, "other target", found, false)
}

func TestAggregate_EmptyTarget(t *testing.T) {
	db := setupTestDB(t)

	agg, err := db.Aggregate(context.Background(), article42)
	checkNoError(t, err)
	checkInt64Equal(t, "real", agg.Real, 0)
	checkInt64Equal(t, "seed", agg.Seed, 0)
	checkStringEqual(t, "target", agg.Target.String(), "Article/42")
}

func TestListByIdentity_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"1", "2", "3"} {
		rec := newLike(likes.Target{Type: "Article", ID: id}, "", "s1")
		rec.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		mustInsertLike(t, db, rec)
	}
	mustInsertLike(t, db, newLike(likes.Target{Type: "Article", ID: "9"}, "", "other"))
	_, err := db.InsertSeed(ctx, newSeed(likes.Target{Type: "Article", ID: "1"}, 4))
	checkNoError(t, err)

	records, err := db.ListByIdentity(ctx, likes.Session("s1"))
	checkNoError(t, err)
	checkLen(t, "records", len(records), 3)
	checkStringEqual(t, "newest", records[0].Target.ID, "3")
	checkStringEqual(t, "oldest", records[2].Target.ID, "1")
	checkStringEqual(t, "session", records[0].SessionKey, "s1")
	checkStringEqual(t, "user", records[0].UserID, "")
	checkInt64Equal(t, "real", records[0].CountReal, 1)
	if !records[2].CreatedAt.Equal(base) {
		t.Errorf("created_at: expected %v, got %v", base, records[2].CreatedAt)
	}

	records, err = db.ListByIdentity(ctx, likes.Anonymous())
	checkNoError(t, err)
	checkLen(t, "anonymous records", len(records), 0)
}

func TestStorageErrorsWrapSentinel(t *testing.T) {
	db := setupTestDB(t)
	checkNoError(t, db.conn.Close())

	_, err := db.Aggregate(context.Background(), article42)
	checkErrorIs(t, err, likes.ErrStorage)

	_, err = db.InsertLike(context.Background(), newLike(article42, "u1", ""))
	checkErrorIs(t, err, likes.ErrStorage)

	db.conn = nil
}

func TestConflictClassification(t *testing.T) {
	tests := []struct {
		err        error
		constraint bool
		conflict   bool
	}{
		{nil, false, false},
		{errors.New(`Constraint Error: Duplicate key "model: Article" violates unique constraint`), true, false},
		{errors.New("TransactionContext Error: Failed to commit: Transaction conflict"), false, true},
		{errors.New("Conflict on tuple deletion!"), false, true},
		{errors.New("IO Error: disk full"), false, false},
	}
	for _, tt := range tests {
		if got := isConstraintError(tt.err); got != tt.constraint {
			t.Errorf("isConstraintError(%v) = %v, want %v", tt.err, got, tt.constraint)
		}
		if got := isTransactionConflict(tt.err); got != tt.conflict {
			t.Errorf("isTransactionConflict(%v) = %v, want %v", tt.err, got, tt.conflict)
		}
	}
}
