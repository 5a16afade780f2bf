// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/baselike/internal/identity"
	"github.com/tomtom215/baselike/internal/likes"
	"github.com/tomtom215/baselike/internal/logging"
	"github.com/tomtom215/baselike/internal/models"
)

// AddLike registers a like by the caller on a target.
//
// @Summary Like a target
// @Description Registers one like per identity. Repeats answer 200 with outcome already_given.
// @Tags Likes
// @Produce json
// @Param type path string true "Target type"
// @Param id path string true "Target id"
// @Param seed query bool false "Seed the target's baseline before liking"
// @Success 201 {object} models.APIResponse{data=models.LikeResponse} "Like registered"
// @Success 200 {object} models.APIResponse{data=models.LikeResponse} "Already liked"
// @Failure 400 {object} models.APIResponse "Invalid target or missing identity"
// @Router /likes/{type}/{id} [post]
func (h *Handler) AddLike(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := addLikeRequest{targetParams: targetFromPath(r), Seed: r.URL.Query().Get("seed")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	ctx := r.Context()
	id := identity.FromContext(ctx)

	res, err := h.likes.Add(ctx, req.Type, req.ID, id, likes.AddOptions{Seed: req.seed(h.seedOnAdd())})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	view, err := h.likes.Get(ctx, req.Type, req.ID, id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	target, err := h.likes.Normalizer().Target(req.Type, req.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	status := http.StatusOK
	if res.Outcome == likes.Added {
		status = http.StatusCreated
		logging.Ctx(ctx).Debug().
			Str("target", target.String()).
			Str("identity", string(id.Kind())).
			Msg("Like registered")
	}

	respondSuccess(w, status, models.LikeResponse{
		Target:  target,
		Outcome: string(res.Outcome),
		Count:   view.Count,
		Given:   view.Given,
	}, start, 0)
}

// ViewLike returns the public count of a target and whether the caller
// liked it.
//
// @Summary View likes of a target
// @Tags Likes
// @Produce json
// @Param type path string true "Target type"
// @Param id path string true "Target id"
// @Success 200 {object} models.APIResponse{data=models.LikeViewResponse}
// @Failure 400 {object} models.APIResponse "Invalid target"
// @Router /likes/{type}/{id} [get]
func (h *Handler) ViewLike(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := targetFromPath(r)
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	ctx := r.Context()
	view, err := h.likes.Get(ctx, req.Type, req.ID, identity.FromContext(ctx))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	target, err := h.likes.Normalizer().Target(req.Type, req.ID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondSuccess(w, http.StatusOK, models.LikeViewResponse{
		Target: target,
		Count:  view.Count,
		Given:  view.Given,
	}, start, 0)
}

// MyLikes lists the targets the caller has liked, newest first.
//
// @Summary List the caller's likes
// @Tags Likes
// @Produce json
// @Success 200 {object} models.APIResponse{data=[]models.MyLike}
// @Router /likes/mine [get]
func (h *Handler) MyLikes(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	recs, err := h.likes.List(ctx, identity.FromContext(ctx))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	out := make([]models.MyLike, 0, len(recs))
	for _, rec := range recs {
		out = append(out, models.NewMyLike(rec))
	}
	respondSuccess(w, http.StatusOK, out, start, len(out))
}
