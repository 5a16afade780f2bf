// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package likes

import "strings"

// IdentityKind classifies who is liking.
type IdentityKind string

const (
	KindUser      IdentityKind = "user"
	KindSession   IdentityKind = "session"
	KindAnonymous IdentityKind = "anonymous"
)

// Identity is the liker. A request may carry both an authenticated user id
// and an anonymous session key; a persisted record keeps both once known.
type Identity struct {
	UserID     string `json:"user_id,omitempty"`
	SessionKey string `json:"session_key,omitempty"`
}

// User returns an identity for an authenticated user.
func User(id string) Identity {
	return Identity{UserID: strings.TrimSpace(id)}
}

// Session returns an identity for an anonymous session.
func Session(key string) Identity {
	return Identity{SessionKey: strings.TrimSpace(key)}
}

// Anonymous returns the empty identity.
func Anonymous() Identity {
	return Identity{}
}

// Kind reports user when a user id is present, session when only a session
// key is present and anonymous otherwise.
func (i Identity) Kind() IdentityKind {
	switch {
	case i.UserID != "":
		return KindUser
	case i.SessionKey != "":
		return KindSession
	default:
		return KindAnonymous
	}
}

// IsAnonymous reports whether neither identifier is present.
func (i Identity) IsAnonymous() bool {
	return i.Kind() == KindAnonymous
}

// HasBoth reports whether both identifiers are present.
func (i Identity) HasBoth() bool {
	return i.UserID != "" && i.SessionKey != ""
}

// Validate returns ErrMissingIdentity for the anonymous identity.
func (i Identity) Validate() error {
	if i.IsAnonymous() {
		return ErrMissingIdentity
	}
	return nil
}
