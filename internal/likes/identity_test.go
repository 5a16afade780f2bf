// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package likes

import (
	"testing"
)

func TestIdentityKind(t *testing.T) {
	tests := []struct {
		name string
		id   Identity
		want IdentityKind
	}{
		{"user", User("7"), KindUser},
		{"session", Session("s1"), KindSession},
		{"both prefers user", Identity{UserID: "7", SessionKey: "s1"}, KindUser},
		{"anonymous", Anonymous(), KindAnonymous},
		{"whitespace only", User("   "), KindAnonymous},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.id.Kind(); got != tt.want {
				t.Errorf("Kind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIdentityValidate(t *testing.T) {
	checkErrorIs(t, Anonymous().Validate(), ErrMissingIdentity)
	checkNoError(t, User("7").Validate())
	checkNoError(t, Session("s1").Validate())
	checkEqual(t, "both", Identity{UserID: "7", SessionKey: "s1"}.HasBoth(), true)
	checkEqual(t, "user only", User("7").HasBoth(), false)
}
