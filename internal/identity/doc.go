// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

// Package identity resolves who is liking from an HTTP request.
//
// The user id comes from a trusted header set by the host application's
// auth proxy. No header is trusted by default: any client can send one, so
// it is only configured when a proxy in front sets it and strips it from
// incoming requests. Every caller also gets an anonymous
// session key kept in an HttpOnly cookie, so a visitor who later signs in
// carries both identifiers and reconciliation can merge their likes.
//
//	mw := identity.NewMiddleware(identity.FromAppConfig(&cfg.Identity))
//	r.Use(mw.Handler)
//
//	id := identity.FromContext(r.Context())
package identity
