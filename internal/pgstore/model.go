// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package pgstore

import (
	"time"

	"github.com/tomtom215/baselike/internal/likes"
)

// seedKeyValue marks the single seed row of a target.
const seedKeyValue = "seed"

// likeRow is the gorm model of the likes table. Nil pointers are stored as
// NULL, which PostgreSQL treats as distinct under the unique indexes.
type likeRow struct {
	ID         string    `gorm:"type:text;primaryKey"`
	Model      string    `gorm:"type:text;not null;uniqueIndex:idx_likes_user,priority:1;uniqueIndex:idx_likes_session,priority:1;uniqueIndex:idx_likes_seed,priority:1;index:idx_likes_model"`
	ForeignKey string    `gorm:"type:text;not null;uniqueIndex:idx_likes_user,priority:2;uniqueIndex:idx_likes_session,priority:2;uniqueIndex:idx_likes_seed,priority:2"`
	UserID     *string   `gorm:"type:text;uniqueIndex:idx_likes_user,priority:3"`
	SessionKey *string   `gorm:"type:text;uniqueIndex:idx_likes_session,priority:3"`
	CountReal  int64     `gorm:"not null;default:0"`
	CountSeed  int64     `gorm:"not null;default:0"`
	SeedKey    *string   `gorm:"type:text;uniqueIndex:idx_likes_seed,priority:3"`
	CreatedAt  time.Time `gorm:"not null;index:idx_likes_created_at"`
}

func (likeRow) TableName() string {
	return "likes"
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// toRow maps a record to its row. Seed rows carry the seed key.
func toRow(rec *likes.Record, seed bool) likeRow {
	row := likeRow{
		ID:         rec.ID,
		Model:      rec.Target.Type,
		ForeignKey: rec.Target.ID,
		UserID:     optional(rec.UserID),
		SessionKey: optional(rec.SessionKey),
		CountReal:  rec.CountReal,
		CountSeed:  rec.CountSeed,
		CreatedAt:  rec.CreatedAt.UTC(),
	}
	if seed {
		row.SeedKey = optional(seedKeyValue)
	}
	return row
}

func (r likeRow) record() likes.Record {
	return likes.Record{
		ID:         r.ID,
		Target:     likes.Target{Type: r.Model, ID: r.ForeignKey},
		UserID:     deref(r.UserID),
		SessionKey: deref(r.SessionKey),
		CountReal:  r.CountReal,
		CountSeed:  r.CountSeed,
		CreatedAt:  r.CreatedAt.UTC(),
	}
}

// groupRow receives grouped aggregation rows.
type groupRow struct {
	Model      string
	ForeignKey string
	RealCount  int64
	SeedCount  int64
}

func (g groupRow) result() likes.GroupResult {
	return likes.GroupResult{
		Target: likes.Target{Type: g.Model, ID: g.ForeignKey},
		Real:   g.RealCount,
		Seed:   g.SeedCount,
	}
}
