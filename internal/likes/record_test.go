// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package likes

import (
	"testing"
)

func TestCountKinds(t *testing.T) {
	rec := &Record{CountReal: 3, CountSeed: 5}

	realCount, err := rec.Count("real")
	checkNoError(t, err)
	fakeCount, err := rec.Count("fake")
	checkNoError(t, err)
	virtual, err := rec.Count("virtual")
	checkNoError(t, err)

	checkEqual(t, "real", realCount, int64(3))
	checkEqual(t, "fake", fakeCount, int64(5))
	checkEqual(t, "virtual", virtual, realCount+fakeCount)
}

func TestCountComposition(t *testing.T) {
	for _, c := range []Counter{
		&Record{},
		&Record{CountReal: 1},
		&Record{CountSeed: 9},
		GroupResult{Real: 12, Seed: 30},
	} {
		r, _ := Count(c, "real")
		f, _ := Count(c, "fake")
		v, _ := Count(c, "virtual")
		if r+f != v {
			t.Errorf("%+v: real %d + fake %d != virtual %d", c, r, f, v)
		}
	}
}

func TestCountUnknownKind(t *testing.T) {
	_, err := (&Record{CountReal: 1}).Count("bogus")
	checkErrorIs(t, err, ErrInvalidArgument)

	_, err = GroupResult{}.Count("")
	checkErrorIs(t, err, ErrInvalidArgument)
}

func TestRecordIsSeed(t *testing.T) {
	checkEqual(t, "seed row", (&Record{CountSeed: 4}).IsSeed(), true)
	checkEqual(t, "like row", (&Record{SessionKey: "s1", CountReal: 1}).IsSeed(), false)
}
