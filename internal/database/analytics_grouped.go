// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package database

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/tomtom215/baselike/internal/database/query"
	"github.com/tomtom215/baselike/internal/likes"
)

// orderColumns maps a count kind to its grouped sort expression. Values
// are fixed SQL; user input never reaches the ORDER BY clause directly.
var orderColumns = map[likes.CountKind]string{
	likes.CountReal:    "real_count",
	likes.CountFake:    "seed_count",
	likes.CountVirtual: "real_count + seed_count",
}

// groupedSQL builds the grouped aggregation for q, which must be
// normalized.
func groupedSQL(q likes.GroupQuery) (string, []any, error) {
	order, ok := orderColumns[q.OrderBy]
	if !ok {
		return "", nil, fmt.Errorf("%w: unknown order %q", likes.ErrInvalidArgument, q.OrderBy)
	}
	direction := "DESC"
	if q.Ascending {
		direction = "ASC"
	}

	whereClause, args := query.NewWhereBuilder().
		AddIn("model", q.Types).
		AddIn("foreign_key", q.TargetIDs).
		BuildWithPrefix()

	stmt := fmt.Sprintf(`
		SELECT
			model,
			foreign_key,
			CAST(SUM(count_real) AS BIGINT) AS real_count,
			CAST(SUM(count_seed) AS BIGINT) AS seed_count
		FROM likes
		%s
		GROUP BY model, foreign_key
		ORDER BY %s %s, model, foreign_key
		LIMIT ?`, whereClause, order, direction)

	return stmt, append(args, q.Limit), nil
}

// Grouped streams per-target sums. The query runs when the sequence is
// ranged over, once per range.
func (db *DB) Grouped(ctx context.Context, q likes.GroupQuery) iter.Seq2[likes.GroupResult, error] {
	return func(yield func(likes.GroupResult, error) bool) {
		var err error
		start := time.Now()
		defer func() { observe("grouped", start, err) }()

		q, err = q.Normalize()
		if err != nil {
			yield(likes.GroupResult{}, err)
			return
		}
		stmt, args, err := groupedSQL(q)
		if err != nil {
			yield(likes.GroupResult{}, err)
			return
		}

		qctx, cancel := db.ensureContext(ctx)
		defer cancel()

		rows, err := db.conn.QueryContext(qctx, stmt, args...)
		if err != nil {
			err = storageError("grouped", err)
			yield(likes.GroupResult{}, err)
			return
		}
		defer closeWithLog(rows, "grouped rows")

		for rows.Next() {
			var g likes.GroupResult
			if err = rows.Scan(&g.Target.Type, &g.Target.ID, &g.Real, &g.Seed); err != nil {
				err = storageError("scan grouped row", err)
				yield(likes.GroupResult{}, err)
				return
			}
			if !yield(g, nil) {
				return
			}
		}
		if err = rows.Err(); err != nil {
			err = storageError("iterate grouped rows", err)
			yield(likes.GroupResult{}, err)
		}
	}
}

// Totals returns the number of targets with at least one real like and
// the sum of real likes.
func (db *DB) Totals(ctx context.Context) (totals likes.Totals, err error) {
	start := time.Now()
	defer func() { observe("totals", start, err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	err = db.conn.QueryRowContext(ctx, `
		SELECT
			CAST(COUNT(*) AS BIGINT),
			CAST(COALESCE(SUM(real_count), 0) AS BIGINT)
		FROM (
			SELECT SUM(count_real) AS real_count
			FROM likes
			GROUP BY model, foreign_key
			HAVING SUM(count_real) > 0
		) t`).Scan(&totals.Things, &totals.Likes)
	if err != nil {
		return likes.Totals{}, storageError("totals", err)
	}
	return totals, nil
}
