// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/baselike/internal/likes"
	"github.com/tomtom215/baselike/internal/models"
)

// ReportTotals returns the number of liked targets and the sum of real likes.
//
// @Summary Liked totals widget
// @Tags Reports
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.TotalsResponse}
// @Router /reports/totals [get]
func (h *Handler) ReportTotals(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	t, err := h.reporter.Totals(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, models.TotalsResponse{Things: t.Things, Likes: t.Likes}, start, 0)
}

// ReportTop returns the most liked targets by real likes.
//
// @Summary Top liked widget
// @Tags Reports
// @Produce json
// @Param limit query int false "Number of entries (1-100)" default(10)
// @Success 200 {object} models.APIResponse{data=[]models.ReportEntry}
// @Failure 400 {object} models.APIResponse "Invalid limit"
// @Router /reports/top [get]
func (h *Handler) ReportTop(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := topRequest{Limit: getIntParam(r, "limit", likes.DefaultTopLimit)}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	entries, err := h.reporter.TopLiked(r.Context(), req.Limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, toReportEntries(entries), start, len(entries))
}

// ReportGrouped returns real like counts per target, filtered and ordered.
//
// @Summary Grouped like counts
// @Tags Reports
// @Produce json
// @Param type query string false "Comma-separated target types"
// @Param id query string false "Comma-separated target ids"
// @Param order query string false "Order by count kind" Enums(real, fake, virtual)
// @Param dir query string false "Sort direction" Enums(asc, desc)
// @Param limit query int false "Maximum rows (1-1000)" default(100)
// @Success 200 {object} models.APIResponse{data=[]models.ReportEntry}
// @Failure 400 {object} models.APIResponse "Invalid filter"
// @Router /reports/grouped [get]
func (h *Handler) ReportGrouped(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := r.URL.Query()

	req := groupedRequest{
		Types: parseCommaSeparated(q.Get("type")),
		IDs:   parseCommaSeparated(q.Get("id")),
		Order: q.Get("order"),
		Dir:   q.Get("dir"),
		Limit: getIntParam(r, "limit", likes.DefaultGroupLimit),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	out := make([]models.ReportEntry, 0)
	for e, err := range h.reporter.Grouped(r.Context(), req.query()) {
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		out = append(out, models.NewReportEntry(e))
	}
	respondSuccess(w, http.StatusOK, out, start, len(out))
}

func toReportEntries(entries []likes.Entry) []models.ReportEntry {
	out := make([]models.ReportEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, models.NewReportEntry(e))
	}
	return out
}
