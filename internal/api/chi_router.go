// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/baselike/internal/identity"
	"github.com/tomtom215/baselike/internal/middleware"
)

// Router wires handlers and middleware into a chi tree.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	identity      *identity.Middleware
}

// NewRouter creates a router. Nil middleware factories fall back to
// defaults.
func NewRouter(handler *Handler, chiMw *ChiMiddleware, identityMw *identity.Middleware) *Router {
	if chiMw == nil {
		chiMw = NewChiMiddleware(nil)
	}
	if identityMw == nil {
		identityMw = identity.NewMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: chiMw, identity: identityMw}
}

// SetupChi configures all HTTP routes using Chi router.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusNotFound, "NOT_FOUND", "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	// ========================
	// Health Endpoints
	// ========================
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// ========================
	// Like Endpoints
	// ========================
	// Every like route needs an identity; the middleware issues a session
	// cookie to first-time visitors.
	r.Route("/api/v1/likes", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Use(router.identity.Handler)

		r.Get("/mine", router.handler.MyLikes)
		r.Get("/{type}/{id}", router.handler.ViewLike)
		r.Post("/{type}/{id}", router.handler.AddLike)
	})

	// ========================
	// Report Endpoints
	// ========================
	// Reports carry real counts and are restricted to operators.
	r.Route("/api/v1/reports", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Use(RequireReportsToken(router.handler.reportsToken()))
		r.Use(chimiddleware.Compress(5, "application/json"))

		r.Get("/totals", router.handler.ReportTotals)
		r.Get("/top", router.handler.ReportTop)
		r.Get("/grouped", router.handler.ReportGrouped)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
