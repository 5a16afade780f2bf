// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package database

import (
	"context"
	"time"
)

// attachUserSQL fills user_id on rows of a session, skipping targets the
// user already has a row on.
const attachUserSQL = `
UPDATE likes SET user_id = ?
WHERE session_key = ?
	AND user_id IS NULL
	AND seed_key IS NULL
	AND id <> ?
	AND NOT EXISTS (
		SELECT 1 FROM likes o
		WHERE o.model = likes.model
			AND o.foreign_key = likes.foreign_key
			AND o.user_id = ?
	)`

// attachSessionSQL fills session_key on rows of a user, skipping targets
// the session already has a row on.
const attachSessionSQL = `
UPDATE likes SET session_key = ?
WHERE user_id = ?
	AND session_key IS NULL
	AND seed_key IS NULL
	AND id <> ?
	AND NOT EXISTS (
		SELECT 1 FROM likes o
		WHERE o.model = likes.model
			AND o.foreign_key = likes.foreign_key
			AND o.session_key = ?
	)`

// AttachUser sets userID on records with sessionKey and no user.
func (db *DB) AttachUser(ctx context.Context, sessionKey, userID, excludeID string) (n int64, err error) {
	start := time.Now()
	defer func() { observe("attach_user", start, err) }()

	return db.attach(ctx, "attach user", attachUserSQL, userID, sessionKey, excludeID, userID)
}

// AttachSession sets sessionKey on records with userID and no session.
func (db *DB) AttachSession(ctx context.Context, userID, sessionKey, excludeID string) (n int64, err error) {
	start := time.Now()
	defer func() { observe("attach_session", start, err) }()

	return db.attach(ctx, "attach session", attachSessionSQL, sessionKey, userID, excludeID, sessionKey)
}

func (db *DB) attach(ctx context.Context, op, stmt string, args ...any) (int64, error) {
	if args[0] == "" || args[1] == "" {
		return 0, nil
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	res, err := db.conn.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, storageError(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storageError(op+" rows affected", err)
	}
	return n, nil
}
