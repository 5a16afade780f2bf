// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package api

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/tomtom215/baselike/internal/logging"
)

// reportsRealm is sent in WWW-Authenticate on rejected report requests.
const reportsRealm = `Bearer realm="baselike-reports"`

// RequireReportsToken guards the report routes. Reports expose real counts
// next to the public virtual count, so they are for operators only. An
// empty token disables reports entirely.
func RequireReportsToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				respondError(w, r, http.StatusForbidden, "FORBIDDEN", "Reports are disabled", nil)
				return
			}

			provided, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok || subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
				logging.Ctx(r.Context()).Warn().
					Str("path", sanitizeLogValue(r.URL.Path)).
					Msg("Rejected report request without a valid token")
				w.Header().Set("WWW-Authenticate", reportsRealm)
				respondError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "A valid reports token is required", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the token of an "Authorization: Bearer <token>"
// header.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
