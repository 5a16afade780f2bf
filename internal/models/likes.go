// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package models

import (
	"time"

	"github.com/tomtom215/baselike/internal/likes"
)

// LikeResponse is returned by POST /api/v1/likes/{type}/{id}.
type LikeResponse struct {
	Target  likes.Target `json:"target"`
	Outcome string       `json:"outcome"`
	Count   int64        `json:"count"`
	Given   bool         `json:"given"`
}

// LikeViewResponse is returned by GET /api/v1/likes/{type}/{id}. Count is
// the virtual count: real likes plus the synthetic baseline.
type LikeViewResponse struct {
	Target likes.Target `json:"target"`
	Count  int64        `json:"count"`
	Given  bool         `json:"given"`
}

// MyLike is one entry of GET /api/v1/likes/mine.
type MyLike struct {
	Target    likes.Target `json:"target"`
	CreatedAt time.Time    `json:"created_at"`
}

// ReportEntry is one row of the top and grouped reports. Count is the
// real count only.
type ReportEntry struct {
	Target likes.Target `json:"target"`
	Title  string       `json:"title"`
	Count  int64        `json:"count"`
}

// TotalsResponse is the liked-things widget.
type TotalsResponse struct {
	Things int64 `json:"things"`
	Likes  int64 `json:"likes"`
}

// NewReportEntry flattens a resolved reporter entry.
func NewReportEntry(e likes.Entry) ReportEntry {
	return ReportEntry{Target: e.Result.Target, Title: e.Entity.Title, Count: e.Result.Real}
}

// NewMyLike hides storage details of a record.
func NewMyLike(r likes.Record) MyLike {
	return MyLike{Target: r.Target, CreatedAt: r.CreatedAt}
}
