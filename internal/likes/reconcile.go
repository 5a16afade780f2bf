// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package likes

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/baselike/internal/logging"
	"github.com/tomtom215/baselike/internal/metrics"
)

// ReconcileStore is the storage subset the reconciler needs.
type ReconcileStore interface {
	AttachUser(ctx context.Context, sessionKey, userID, excludeID string) (int64, error)
	AttachSession(ctx context.Context, userID, sessionKey, excludeID string) (int64, error)
}

// ReconcileResult counts the records updated by one pass.
type ReconcileResult struct {
	UsersAttached    int64
	SessionsAttached int64
}

// Reconciler links a visitor's anonymous and authenticated records once a
// write carries both identifiers. Records already attributed to someone
// else are left alone, and a second pass with the same input changes
// nothing.
type Reconciler struct {
	store ReconcileStore
}

// NewReconciler creates a reconciler over store.
func NewReconciler(store ReconcileStore) *Reconciler {
	return &Reconciler{store: store}
}

// Reconcile propagates rec's user id to records sharing its session key and
// its session key to records sharing its user id. Records without both
// identifiers are a no-op. Both directions are attempted even if one fails.
func (r *Reconciler) Reconcile(ctx context.Context, rec *Record) (ReconcileResult, error) {
	var res ReconcileResult
	if rec == nil || !rec.Identity().HasBoth() {
		return res, nil
	}

	var errs []error
	n, err := r.store.AttachUser(ctx, rec.SessionKey, rec.UserID, rec.ID)
	if err != nil {
		errs = append(errs, fmt.Errorf("attach user to session records: %w", err))
	}
	res.UsersAttached = n

	n, err = r.store.AttachSession(ctx, rec.UserID, rec.SessionKey, rec.ID)
	if err != nil {
		errs = append(errs, fmt.Errorf("attach session to user records: %w", err))
	}
	res.SessionsAttached = n

	metrics.RecordReconcile(res.UsersAttached, res.SessionsAttached)
	if len(errs) > 0 {
		metrics.RecordReconcileFailure()
		return res, errors.Join(errs...)
	}
	if res.UsersAttached > 0 || res.SessionsAttached > 0 {
		logging.Ctx(ctx).Debug().
			Str("record_id", rec.ID).
			Int64("users_attached", res.UsersAttached).
			Int64("sessions_attached", res.SessionsAttached).
			Msg("Reconciled identities")
	}
	return res, nil
}

// AfterWrite adapts Reconcile to the Service hook signature.
func (r *Reconciler) AfterWrite(ctx context.Context, rec *Record) error {
	_, err := r.Reconcile(ctx, rec)
	return err
}
