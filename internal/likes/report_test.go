// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package likes

import (
	"context"
	"fmt"
	"slices"
	"testing"
)

func titleResolver(missing ...string) Resolver {
	gone := map[string]bool{}
	for _, id := range missing {
		gone[id] = true
	}
	return ResolverFunc(func(_ context.Context, t Target) (Entity, error) {
		if gone[t.ID] {
			return Entity{}, ErrEntityNotFound
		}
		if t.ID == "broken" {
			return Entity{}, errBoom
		}
		return Entity{Target: t, Title: fmt.Sprintf("%s #%s", t.Type, t.ID)}, nil
	})
}

func populate(t *testing.T, svc *Service, likes map[string]int) {
	t.Helper()
	for id, n := range likes {
		for i := range n {
			_, err := svc.Add(context.Background(), "Article", id, Session(fmt.Sprintf("s%d", i)), AddOptions{})
			checkNoError(t, err)
		}
	}
}

func TestReporterTopLiked(t *testing.T) {
	store := newMemStore()
	populate(t, NewService(store), map[string]int{"1": 3, "2": 5, "3": 1, "4": 4})
	r := NewReporter(store, titleResolver("2"), nil)

	top, err := r.TopLiked(context.Background(), 3)
	checkNoError(t, err)

	// Article/2 is missing and skipped, so only two of the three remain.
	checkLen(t, "top", len(top), 2)
	checkEqual(t, "first title", top[0].Entity.Title, "Article #4")
	checkEqual(t, "first real", top[0].Result.Real, int64(4))
	checkEqual(t, "second title", top[1].Entity.Title, "Article #1")
}

func TestReporterGroupedSkipsResolveErrors(t *testing.T) {
	store := newMemStore()
	populate(t, NewService(store), map[string]int{"1": 1, "broken": 2})
	r := NewReporter(store, titleResolver(), nil)

	var ids []string
	for e, err := range r.Grouped(context.Background(), GroupQuery{}) {
		checkNoError(t, err)
		ids = append(ids, e.Result.Target.ID)
	}
	if !slices.Equal(ids, []string{"1"}) {
		t.Errorf("ids = %v, want [1]", ids)
	}
}

func TestReporterGroupedRestartable(t *testing.T) {
	store := newMemStore()
	svc := NewService(store)
	populate(t, svc, map[string]int{"1": 2})
	r := NewReporter(store, titleResolver(), nil)

	seq := r.Grouped(context.Background(), GroupQuery{Types: []string{"article"}})
	count := func() int {
		n := 0
		for _, err := range seq {
			checkNoError(t, err)
			n++
		}
		return n
	}
	checkEqual(t, "first pass", count(), 1)

	populate(t, svc, map[string]int{"2": 1})
	checkEqual(t, "second pass", count(), 2)
}

func TestReporterGroupedInvalidOrder(t *testing.T) {
	r := NewReporter(newMemStore(), titleResolver(), nil)
	var got error
	for _, err := range r.Grouped(context.Background(), GroupQuery{OrderBy: "bogus"}) {
		got = err
	}
	checkErrorIs(t, got, ErrInvalidArgument)
}

func TestReporterGroupedStoreError(t *testing.T) {
	store := newMemStore()
	store.failQuery = errBoom
	_, err := NewReporter(store, titleResolver(), nil).TopLiked(context.Background(), 0)
	checkErrorIs(t, err, errBoom)
}

func TestReporterTotals(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, WithSeed(10))
	populate(t, svc, map[string]int{"1": 2, "2": 1})
	_, err := svc.Seed(context.Background(), "Article", "3")
	checkNoError(t, err)

	totals, err := NewReporter(store, titleResolver(), nil).Totals(context.Background())
	checkNoError(t, err)
	// the seed-only target is not counted
	checkEqual(t, "totals", totals, Totals{Things: 2, Likes: 3})
}
