// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package api

import (
	"context"
	"time"

	"github.com/tomtom215/baselike/internal/config"
	"github.com/tomtom215/baselike/internal/likes"
)

// Version is reported by the health endpoints.
var Version = "dev"

// Pinger is a dependency the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

type readinessCheck struct {
	name     string
	pinger   Pinger
	required bool
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: response and error helpers
//   - handlers_likes.go: like registration and views
//   - handlers_reports.go: aggregate reports
//   - handlers_health.go: liveness and readiness probes
type Handler struct {
	likes     *likes.Service
	reporter  *likes.Reporter
	config    *config.Config
	checks    []readinessCheck
	startTime time.Time
}

// NewHandler creates a handler. storage is the like store and must answer
// pings for the service to be ready.
//
// Example:
//
//	handler := api.NewHandler(svc, reporter, store, cfg)
//	router := api.NewRouter(handler, chiMw, identityMw)
//	http.ListenAndServe(":8080", router.SetupChi())
func NewHandler(svc *likes.Service, reporter *likes.Reporter, storage Pinger, cfg *config.Config) *Handler {
	h := &Handler{
		likes:     svc,
		reporter:  reporter,
		config:    cfg,
		startTime: time.Now(),
	}
	if storage != nil {
		h.checks = append(h.checks, readinessCheck{name: "storage", pinger: storage, required: true})
	}
	return h
}

// AddReadinessCheck registers an optional dependency. A failing optional
// check is reported but does not make the service unready.
func (h *Handler) AddReadinessCheck(name string, p Pinger) {
	h.checks = append(h.checks, readinessCheck{name: name, pinger: p})
}

func (h *Handler) reportsToken() string {
	if h.config == nil {
		return ""
	}
	return h.config.Reports.Token
}

func (h *Handler) seedOnAdd() bool {
	return h.config != nil && h.config.Likes.SeedOnAdd
}
