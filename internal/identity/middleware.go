// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package identity

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/baselike/internal/config"
	"github.com/tomtom215/baselike/internal/likes"
	"github.com/tomtom215/baselike/internal/logging"
	"github.com/tomtom215/baselike/internal/metrics"
)

type contextKey string

// IdentityContextKey holds the caller's likes.Identity.
const IdentityContextKey contextKey = "identity"

// MaxUserIDLength bounds the trusted user header value.
const MaxUserIDLength = 255

// Config holds configuration for the identity middleware.
type Config struct {
	// UserHeader carries the authenticated user id. Empty disables users.
	// Only set it behind a proxy that strips the header from clients.
	UserHeader string

	// CookieName is the name of the anonymous session cookie.
	CookieName string

	// CookieMaxAge is the session cookie lifetime.
	CookieMaxAge time.Duration

	// CookiePath is the path for the session cookie.
	CookiePath string

	// CookieSecure sets the Secure flag on the cookie.
	CookieSecure bool
}

// DefaultConfig returns sensible defaults. User identities are off until
// a trusted header is configured.
func DefaultConfig() *Config {
	return &Config{
		CookieName:   "baselike_session",
		CookieMaxAge: 365 * 24 * time.Hour,
		CookiePath:   "/",
	}
}

// FromAppConfig maps the application identity section.
func FromAppConfig(cfg *config.IdentityConfig) *Config {
	return &Config{
		UserHeader:   cfg.UserHeader,
		CookieName:   cfg.CookieName,
		CookieMaxAge: cfg.CookieMaxAge,
		CookiePath:   "/",
		CookieSecure: cfg.CookieSecure,
	}
}

// Middleware resolves the caller's identity for every request.
type Middleware struct {
	config *Config
	newKey func() string
}

// NewMiddleware creates the identity middleware.
func NewMiddleware(cfg *Config) *Middleware {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Middleware{config: cfg, newKey: func() string { return uuid.NewString() }}
}

// Handler reads the user id from the trusted header and the session key
// from the cookie. A missing or malformed cookie gets a fresh session key,
// set on the response before the handler runs.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := likes.Identity{
			UserID:     m.userID(r),
			SessionKey: m.sessionKey(r),
		}

		if id.SessionKey == "" {
			id.SessionKey = m.newKey()
			http.SetCookie(w, m.cookie(id.SessionKey))
			metrics.RecordSessionIssued()
			logging.Ctx(r.Context()).Debug().Msg("Issued anonymous session")
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

func (m *Middleware) userID(r *http.Request) string {
	if m.config.UserHeader == "" {
		return ""
	}
	v := strings.TrimSpace(r.Header.Get(m.config.UserHeader))
	if len(v) > MaxUserIDLength {
		logging.Ctx(r.Context()).Warn().Int("length", len(v)).Msg("Ignoring oversized user header")
		return ""
	}
	return v
}

// sessionKey returns the cookie value when it is a UUID.
func (m *Middleware) sessionKey(r *http.Request) string {
	c, err := r.Cookie(m.config.CookieName)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return ""
	}
	return c.Value
}

func (m *Middleware) cookie(key string) *http.Cookie {
	return &http.Cookie{
		Name:     m.config.CookieName,
		Value:    key,
		Path:     m.config.CookiePath,
		MaxAge:   int(m.config.CookieMaxAge / time.Second),
		Secure:   m.config.CookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// WithIdentity stores id in ctx.
func WithIdentity(ctx context.Context, id likes.Identity) context.Context {
	return context.WithValue(ctx, IdentityContextKey, id)
}

// FromContext returns the identity stored by the middleware, or the
// anonymous identity.
func FromContext(ctx context.Context) likes.Identity {
	if id, ok := ctx.Value(IdentityContextKey).(likes.Identity); ok {
		return id
	}
	return likes.Anonymous()
}
