// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/baselike/internal/database/query"
	"github.com/tomtom215/baselike/internal/likes"
	"github.com/tomtom215/baselike/internal/metrics"
)

var errConflictRetriesExhausted = errors.New("insert kept conflicting without a visible row")

const insertRecordSQL = `
INSERT INTO likes (id, model, foreign_key, user_id, session_key, count_real, count_seed, seed_key, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT DO NOTHING`

const recordColumns = `id, model, foreign_key, user_id, session_key, count_real, count_seed, created_at`

// nullString maps "" to SQL NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// HasRecords reports whether t has any row, seed or like.
func (db *DB) HasRecords(ctx context.Context, t likes.Target) (found bool, err error) {
	start := time.Now()
	defer func() { observe("has_records", start, err) }()

	return db.exists(ctx, "has records", query.NewWhereBuilder().
		AddEq("model", t.Type).
		AddEq("foreign_key", t.ID))
}

func (db *DB) hasSeed(ctx context.Context, t likes.Target) (bool, error) {
	return db.exists(ctx, "has seed", query.NewWhereBuilder().
		AddEq("model", t.Type).
		AddEq("foreign_key", t.ID).
		AddEq("seed_key", seedKeyValue))
}

// InsertSeed inserts the seed row of rec.Target unless one exists.
func (db *DB) InsertSeed(ctx context.Context, rec *likes.Record) (inserted bool, err error) {
	start := time.Now()
	defer func() { observe("insert_seed", start, err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return db.insertRecord(ctx, "seed", rec, seedKeyValue, func(ctx context.Context) (bool, error) {
		return db.hasSeed(ctx, rec.Target)
	})
}

// InsertLike inserts rec unless the target already has a record for its
// user id or session key.
func (db *DB) InsertLike(ctx context.Context, rec *likes.Record) (inserted bool, err error) {
	start := time.Now()
	defer func() { observe("insert_like", start, err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	return db.insertRecord(ctx, "like", rec, nil, func(ctx context.Context) (bool, error) {
		return db.HasGiven(ctx, rec.Target, rec.Identity())
	})
}

// insertRecord runs the insert-or-ignore statement. A constraint error or a
// transaction conflict from a concurrent writer is resolved by checking
// whether the competing row is visible; if not, the insert is retried.
func (db *DB) insertRecord(ctx context.Context, kind string, rec *likes.Record, seedKey any,
	exists func(context.Context) (bool, error)) (bool, error) {
	for attempt := 0; ; attempt++ {
		res, err := db.conn.ExecContext(ctx, insertRecordSQL,
			rec.ID, rec.Target.Type, rec.Target.ID,
			nullString(rec.UserID), nullString(rec.SessionKey),
			rec.CountReal, rec.CountSeed, seedKey, rec.CreatedAt.UTC())
		if err == nil {
			n, err := res.RowsAffected()
			if err != nil {
				return false, storageError("insert "+kind+" rows affected", err)
			}
			if n == 0 {
				metrics.RecordStoreConflict(backend, kind)
			}
			return n > 0, nil
		}

		if !isConstraintError(err) && !isTransactionConflict(err) {
			return false, storageError("insert "+kind, err)
		}
		metrics.RecordStoreConflict(backend, kind)

		found, cerr := exists(ctx)
		if cerr != nil {
			return false, cerr
		}
		if found {
			return false, nil
		}
		if attempt >= db.conflictRetries {
			return false, storageError("insert "+kind, errConflictRetriesExhausted)
		}

		select {
		case <-ctx.Done():
			return false, storageError("insert "+kind, ctx.Err())
		case <-time.After(db.retryDelay * time.Duration(attempt+1)):
		}
	}
}

// identityConditions matches rows carrying any identifier of id.
func identityConditions(id likes.Identity) []query.Condition {
	var conds []query.Condition
	if id.UserID != "" {
		conds = append(conds, query.Eq("user_id", id.UserID))
	}
	if id.SessionKey != "" {
		conds = append(conds, query.Eq("session_key", id.SessionKey))
	}
	return conds
}

// HasGiven reports whether t has a record carrying the identity's user id
// or session key.
func (db *DB) HasGiven(ctx context.Context, t likes.Target, id likes.Identity) (found bool, err error) {
	start := time.Now()
	defer func() { observe("has_given", start, err) }()

	conds := identityConditions(id)
	if len(conds) == 0 {
		return false, nil
	}
	return db.exists(ctx, "has given", query.NewWhereBuilder().
		AddEq("model", t.Type).
		AddEq("foreign_key", t.ID).
		AddAnyOf(conds...))
}

func (db *DB) exists(ctx context.Context, op string, wb *query.WhereBuilder) (bool, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	whereClause, args := wb.BuildWithPrefix()
	var one int
	err := db.conn.QueryRowContext(ctx, "SELECT 1 FROM likes "+whereClause+" LIMIT 1", args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, storageError(op, err)
	}
	return true, nil
}

// Aggregate sums real and seed counts across all records of t. A target
// without records yields zero sums.
func (db *DB) Aggregate(ctx context.Context, t likes.Target) (result likes.GroupResult, err error) {
	start := time.Now()
	defer func() { observe("aggregate", start, err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	result.Target = t
	err = db.conn.QueryRowContext(ctx, `
		SELECT
			CAST(COALESCE(SUM(count_real), 0) AS BIGINT),
			CAST(COALESCE(SUM(count_seed), 0) AS BIGINT)
		FROM likes
		WHERE model = ? AND foreign_key = ?`,
		t.Type, t.ID).Scan(&result.Real, &result.Seed)
	if err != nil {
		return likes.GroupResult{}, storageError("aggregate", err)
	}
	return result, nil
}

// ListByIdentity returns like rows carrying any identifier of id, newest
// first.
func (db *DB) ListByIdentity(ctx context.Context, id likes.Identity) (records []likes.Record, err error) {
	start := time.Now()
	defer func() { observe("list_by_identity", start, err) }()

	conds := identityConditions(id)
	if len(conds) == 0 {
		return []likes.Record{}, nil
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	whereClause, args := query.NewWhereBuilder().
		AddClause("seed_key IS NULL").
		AddAnyOf(conds...).
		BuildWithPrefix()

	rows, err := db.conn.QueryContext(ctx,
		fmt.Sprintf("SELECT %s FROM likes %s ORDER BY created_at DESC, id", recordColumns, whereClause),
		args...)
	if err != nil {
		return nil, storageError("list by identity", err)
	}
	defer closeWithLog(rows, "like rows")

	records = []likes.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, storageError("scan like row", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("iterate like rows", err)
	}
	return records, nil
}

func scanRecord(rows *sql.Rows) (likes.Record, error) {
	var (
		rec        likes.Record
		userID     sql.NullString
		sessionKey sql.NullString
	)
	err := rows.Scan(&rec.ID, &rec.Target.Type, &rec.Target.ID, &userID, &sessionKey,
		&rec.CountReal, &rec.CountSeed, &rec.CreatedAt)
	if err != nil {
		return likes.Record{}, err
	}
	rec.UserID = userID.String
	rec.SessionKey = sessionKey.String
	rec.CreatedAt = rec.CreatedAt.UTC()
	return rec, nil
}
