// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package likes

import "errors"

// Sentinel errors. Callers match them with errors.Is; implementations wrap
// them with fmt.Errorf("...: %w", err) to add context.
var (
	// ErrMissingIdentity is returned when neither a user id nor a session
	// key is available for an operation that needs one.
	ErrMissingIdentity = errors.New("missing identity")

	// ErrInvalidArgument is returned for malformed targets and unknown
	// count kinds.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidSeedConfiguration is returned when the seed setting is not
	// false, a non-negative integer, or an inclusive [min, max] range.
	ErrInvalidSeedConfiguration = errors.New("invalid seed configuration")

	// ErrStorage wraps failures reported by the underlying store.
	ErrStorage = errors.New("storage failure")

	// ErrEntityNotFound is returned by a Resolver when the liked entity no
	// longer exists.
	ErrEntityNotFound = errors.New("entity not found")
)
