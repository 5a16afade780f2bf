// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package api

import (
	"net/http"
	"strconv"

	"github.com/tomtom215/baselike/internal/likes"
)

// targetParams are the {type}/{id} path segments.
type targetParams struct {
	Type string `json:"type" validate:"required,targetref,max=255"`
	ID   string `json:"id" validate:"required,targetref,max=255"`
}

func targetFromPath(r *http.Request) targetParams {
	return targetParams{Type: urlParam(r, "type"), ID: urlParam(r, "id")}
}

// addLikeRequest is POST /api/v1/likes/{type}/{id}.
type addLikeRequest struct {
	targetParams
	Seed string `query:"seed" validate:"omitempty,oneof=true false 1 0"`
}

// seed resolves the optional ?seed flag against the configured default.
func (req addLikeRequest) seed(def bool) bool {
	if req.Seed == "" {
		return def
	}
	b, _ := strconv.ParseBool(req.Seed)
	return b
}

// topRequest is GET /api/v1/reports/top.
type topRequest struct {
	Limit int `query:"limit" validate:"gte=1,lte=100"`
}

// groupedRequest is GET /api/v1/reports/grouped.
type groupedRequest struct {
	Types []string `query:"type" validate:"max=50,dive,targetref,max=255"`
	IDs   []string `query:"id" validate:"max=1000,dive,targetref,max=255"`
	Order string   `query:"order" validate:"omitempty,oneof=real fake virtual"`
	Dir   string   `query:"dir" validate:"omitempty,oneof=asc desc"`
	Limit int      `query:"limit" validate:"gte=1,lte=1000"`
}

func (req groupedRequest) query() likes.GroupQuery {
	return likes.GroupQuery{
		Types:     req.Types,
		TargetIDs: req.IDs,
		OrderBy:   likes.CountKind(req.Order),
		Ascending: req.Dir == "asc",
		Limit:     req.Limit,
	}
}
