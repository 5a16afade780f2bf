// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/baselike/internal/config"
	"github.com/tomtom215/baselike/internal/database"
	"github.com/tomtom215/baselike/internal/likes"
	"github.com/tomtom215/baselike/internal/models"
)

const (
	testSession      = "3f1c2d4e-5a6b-4c7d-8e9f-0a1b2c3d4e5f"
	testReportsToken = "operator-token-0123456789"
)

type testServer struct {
	handler http.Handler
	api     *Handler
	store   *database.DB
	cfg     *config.Config
}

func testConfig() *config.Config {
	return &config.Config{
		Identity: config.IdentityConfig{
			UserHeader:   "X-User-ID",
			CookieName:   "baselike_session",
			CookieMaxAge: time.Hour,
		},
		Likes:   config.LikesConfig{Seed: []any{5, 5}},
		Reports: config.ReportsConfig{Token: testReportsToken},
		CORS:    config.CORSConfig{Origins: []string{"https://example.com"}},
	}
}

func newTestServer(t *testing.T, mutate func(*config.Config)) *testServer {
	t.Helper()

	cfg := testConfig()
	if mutate != nil {
		mutate(cfg)
	}

	store, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "256MB"})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Logf("close test database: %v", err)
		}
	})

	normalizer, err := likes.NewNormalizer(cfg.Likes.TypeAliases)
	if err != nil {
		t.Fatalf("normalizer: %v", err)
	}
	svc := likes.NewService(store,
		likes.WithSeed(cfg.Likes.Seed),
		likes.WithNormalizer(normalizer),
	)
	resolver := likes.ResolverFunc(func(_ context.Context, target likes.Target) (likes.Entity, error) {
		if target.ID == "gone" {
			return likes.Entity{}, likes.ErrEntityNotFound
		}
		return likes.Entity{Target: target, Title: "Title of " + target.String()}, nil
	})
	reporter := likes.NewReporter(store, resolver, normalizer)

	h := NewHandler(svc, reporter, store, cfg)
	router := NewRouter(h, NewChiMiddleware(ChiMiddlewareConfigFrom(cfg)), nil)

	return &testServer{handler: router.SetupChi(), api: h, store: store, cfg: cfg}
}

type requestOption func(*http.Request)

func withSession(key string) requestOption {
	return func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "baselike_session", Value: key})
	}
}

func withUser(id string) requestOption {
	return func(r *http.Request) { r.Header.Set("X-User-ID", id) }
}

func withReportsToken(token string) requestOption {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func (s *testServer) do(t *testing.T, method, target string, opts ...requestOption) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for _, opt := range opts {
		opt(req)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, rec.Body.String())
	}
	if data != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, data); err != nil {
			t.Fatalf("decode data: %v (data %s)", err, env.Data)
		}
	}
	return env
}

func checkStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, want, rec.Body.String())
	}
}

func checkErrorCode(t *testing.T, rec *httptest.ResponseRecorder, want string) {
	t.Helper()
	env := decodeEnvelope(t, rec, nil)
	if env.Status != "error" || env.Error == nil {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
	if env.Error.Code != want {
		t.Errorf("error code = %q, want %q", env.Error.Code, want)
	}
}

type failingPinger struct{ err error }

func (p failingPinger) Ping(context.Context) error { return p.err }
