// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package pgstore

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tomtom215/baselike/internal/config"
	"github.com/tomtom215/baselike/internal/database/query"
	"github.com/tomtom215/baselike/internal/likes"
	"github.com/tomtom215/baselike/internal/logging"
	"github.com/tomtom215/baselike/internal/metrics"
)

const backend = "postgres"

// defaultQueryTimeout applies when the caller's context has no deadline.
const defaultQueryTimeout = 30 * time.Second

// Store implements likes.Store on PostgreSQL through gorm.
type Store struct {
	db *gorm.DB
}

var _ likes.Store = (*Store)(nil)

// New connects to cfg.DSN, applies the connection pool settings and
// migrates the likes table.
func New(cfg *config.DatabaseConfig) (*Store, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(gormlogger.Warn),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get connection pool: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	s := &Store{db: db}
	if err := s.Migrate(context.Background()); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	logging.Info().Int("max_open_conns", cfg.MaxOpenConns).Msg("PostgreSQL like store ready")
	return s, nil
}

// Migrate creates or updates the likes table and its indexes.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&likeRow{}); err != nil {
		return fmt.Errorf("failed to migrate likes table: %w", err)
	}
	return nil
}

// Ping checks if the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		return context.WithTimeout(context.Background(), defaultQueryTimeout)
	}
	if _, ok := ctx.Deadline(); !ok {
		return context.WithTimeout(ctx, defaultQueryTimeout)
	}
	return ctx, func() {}
}

func observe(op string, start time.Time, err error) {
	metrics.RecordStoreQuery(backend, op, time.Since(start), err)
}

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", likes.ErrStorage, op, err)
}

// HasRecords reports whether t has any row, seed or like.
func (s *Store) HasRecords(ctx context.Context, t likes.Target) (found bool, err error) {
	start := time.Now()
	defer func() { observe("has_records", start, err) }()

	return s.exists(ctx, "has records", query.NewWhereBuilder().
		AddEq("model", t.Type).
		AddEq("foreign_key", t.ID))
}

// InsertSeed inserts the seed row of rec.Target unless one exists.
func (s *Store) InsertSeed(ctx context.Context, rec *likes.Record) (inserted bool, err error) {
	start := time.Now()
	defer func() { observe("insert_seed", start, err) }()

	return s.insert(ctx, "seed", toRow(rec, true))
}

// InsertLike inserts rec unless the target already has a record for its
// user id or session key.
func (s *Store) InsertLike(ctx context.Context, rec *likes.Record) (inserted bool, err error) {
	start := time.Now()
	defer func() { observe("insert_like", start, err) }()

	return s.insert(ctx, "like", toRow(rec, false))
}

// insert runs INSERT ... ON CONFLICT DO NOTHING. PostgreSQL serializes
// concurrent inserts of the same key, so the loser sees zero rows.
func (s *Store) insert(ctx context.Context, kind string, row likeRow) (bool, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
		metrics.RecordStoreConflict(backend, kind)
		return false, nil
	}
	if res.Error != nil {
		return false, storageError("insert "+kind, res.Error)
	}
	if res.RowsAffected == 0 {
		metrics.RecordStoreConflict(backend, kind)
		return false, nil
	}
	return true, nil
}

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
func (s *Store) HasGiven(ctx context.Context, t likes.Target, id likes.Identity) (found bool, err error) {
	start := time.Now()
	defer func() { observe("has_given", start, err) }()

	conds := identityConditions(id)
	if len(conds) == 0 {
		return false, nil
	}
	return s.exists(ctx, "has given", query.NewWhereBuilder().
		AddEq("model", t.Type).
		AddEq("foreign_key", t.ID).
		AddAnyOf(conds...))
}

func (s *Store) exists(ctx context.Context, op string, wb *query.WhereBuilder) (bool, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	whereClause, args := wb.Build()
	var ids []string
	err := s.db.WithContext(ctx).Model(&likeRow{}).
		Where(whereClause, args...).
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return false, storageError(op, err)
	}
	return len(ids) > 0, nil
}

// Aggregate sums real and seed counts across all records of t.
func (s *Store) Aggregate(ctx context.Context, t likes.Target) (result likes.GroupResult, err error) {
	start := time.Now()
	defer func() { observe("aggregate", start, err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var g groupRow
	err = s.db.WithContext(ctx).Model(&likeRow{}).
		Select("CAST(COALESCE(SUM(count_real), 0) AS BIGINT) AS real_count, CAST(COALESCE(SUM(count_seed), 0) AS BIGINT) AS seed_count").
		Where("model = ? AND foreign_key = ?", t.Type, t.ID).
		Scan(&g).Error
	if err != nil {
		return likes.GroupResult{}, storageError("aggregate", err)
	}
	g.Model, g.ForeignKey = t.Type, t.ID
	return g.result(), nil
}

// ListByIdentity returns like rows carrying any identifier of id, newest
// first.
func (s *Store) ListByIdentity(ctx context.Context, id likes.Identity) (records []likes.Record, err error) {
	start := time.Now()
	defer func() { observe("list_by_identity", start, err) }()

	conds := identityConditions(id)
	if len(conds) == 0 {
		return []likes.Record{}, nil
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	whereClause, args := query.NewWhereBuilder().
		AddClause("seed_key IS NULL").
		AddAnyOf(conds...).
		Build()

	var rows []likeRow
	err = s.db.WithContext(ctx).
		Where(whereClause, args...).
		Order("created_at DESC, id").
		Find(&rows).Error
	if err != nil {
		return nil, storageError("list by identity", err)
	}

	records = make([]likes.Record, len(rows))
	for i, r := range rows {
		records[i] = r.record()
	}
	return records, nil
}

// AttachUser sets userID on records with sessionKey and no user.
func (s *Store) AttachUser(ctx context.Context, sessionKey, userID, excludeID string) (n int64, err error) {
	start := time.Now()
	defer func() { observe("attach_user", start, err) }()

	if sessionKey == "" || userID == "" {
		return 0, nil
	}
	return s.attach(ctx, "attach user", "user_id", userID,
		s.db.Where("session_key = ? AND user_id IS NULL", sessionKey).
			Where("NOT EXISTS (SELECT 1 FROM likes o WHERE o.model = likes.model AND o.foreign_key = likes.foreign_key AND o.user_id = ?)", userID),
		excludeID)
}

// AttachSession sets sessionKey on records with userID and no session.
func (s *Store) AttachSession(ctx context.Context, userID, sessionKey, excludeID string) (n int64, err error) {
	start := time.Now()
	defer func() { observe("attach_session", start, err) }()

	if sessionKey == "" || userID == "" {
		return 0, nil
	}
	return s.attach(ctx, "attach session", "session_key", sessionKey,
		s.db.Where("user_id = ? AND session_key IS NULL", userID).
			Where("NOT EXISTS (SELECT 1 FROM likes o WHERE o.model = likes.model AND o.foreign_key = likes.foreign_key AND o.session_key = ?)", sessionKey),
		excludeID)
}

func (s *Store) attach(ctx context.Context, op, column, value string, scope *gorm.DB, excludeID string) (int64, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	res := s.db.WithContext(ctx).Model(&likeRow{}).
		Where(scope).
		Where("seed_key IS NULL AND id <> ?", excludeID).
		Update(column, value)
	if res.Error != nil {
		return 0, storageError(op, res.Error)
	}
	return res.RowsAffected, nil
}

// orderColumns maps a count kind to its grouped sort expression.
var orderColumns = map[likes.CountKind]string{
	likes.CountReal:    "real_count",
	likes.CountFake:    "seed_count",
	likes.CountVirtual: "real_count + seed_count",
}

func orderClause(q likes.GroupQuery) (string, error) {
	order, ok := orderColumns[q.OrderBy]
	if !ok {
		return "", fmt.Errorf("%w: unknown order %q", likes.ErrInvalidArgument, q.OrderBy)
	}
	direction := "DESC"
	if q.Ascending {
		direction = "ASC"
	}
	return fmt.Sprintf("%s %s, model, foreign_key", order, direction), nil
}

// Grouped streams per-target sums. The query runs when the sequence is
// ranged over, once per range.
func (s *Store) Grouped(ctx context.Context, q likes.GroupQuery) iter.Seq2[likes.GroupResult, error] {
	return func(yield func(likes.GroupResult, error) bool) {
		var err error
		start := time.Now()
		defer func() { observe("grouped", start, err) }()

		q, err = q.Normalize()
		if err != nil {
			yield(likes.GroupResult{}, err)
			return
		}
		order, err := orderClause(q)
		if err != nil {
			yield(likes.GroupResult{}, err)
			return
		}

		qctx, cancel := ensureContext(ctx)
		defer cancel()

		whereClause, args := query.NewWhereBuilder().
			AddIn("model", q.Types).
			AddIn("foreign_key", q.TargetIDs).
			Build()

		tx := s.db.WithContext(qctx)
		rows, err := tx.Model(&likeRow{}).
			Select("model, foreign_key, CAST(SUM(count_real) AS BIGINT) AS real_count, CAST(SUM(count_seed) AS BIGINT) AS seed_count").
			Where(whereClause, args...).
			Group("model, foreign_key").
			Order(order).
			Limit(q.Limit).
			Rows()
		if err != nil {
			err = storageError("grouped", err)
			yield(likes.GroupResult{}, err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			var g groupRow
			if err = tx.ScanRows(rows, &g); err != nil {
				err = storageError("scan grouped row", err)
				yield(likes.GroupResult{}, err)
				return
			}
			if !yield(g.result(), nil) {
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
func (s *Store) Totals(ctx context.Context) (totals likes.Totals, err error) {
	start := time.Now()
	defer func() { observe("totals", start, err) }()

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	err = s.db.WithContext(ctx).Raw(`
		SELECT
			CAST(COUNT(*) AS BIGINT) AS things,
			CAST(COALESCE(SUM(real_count), 0) AS BIGINT) AS likes
		FROM (
			SELECT SUM(count_real) AS real_count
			FROM likes
			GROUP BY model, foreign_key
			HAVING SUM(count_real) > 0
		) t`).Scan(&totals).Error
	if err != nil {
		return likes.Totals{}, storageError("totals", err)
	}
	return totals, nil
}
