// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package likes

import (
	"context"
	"slices"
	"sync"
	"testing"
)

func TestServiceSeedThenLikeScenario(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemStore(), WithSeed([]int{5, 5}))

	seed, err := svc.Seed(ctx, "Article", "42")
	checkNoError(t, err)
	checkEqual(t, "seed", seed, SeedResult{Outcome: Seeded, Count: 5})

	sum, err := svc.Get(ctx, "Article", "42", Session("s1"))
	checkNoError(t, err)
	checkEqual(t, "summary before", sum, Summary{Count: 5, Given: false})

	res, err := svc.Add(ctx, "Article", "42", Session("s1"), AddOptions{})
	checkNoError(t, err)
	checkEqual(t, "outcome", res.Outcome, Added)
	if res.Record == nil {
		t.Fatal("Added result should carry the record")
	}
	checkEqual(t, "count_real", res.Record.CountReal, int64(1))

	sum, err = svc.Get(ctx, "Article", "42", Session("s1"))
	checkNoError(t, err)
	checkEqual(t, "summary after", sum, Summary{Count: 6, Given: true})
}

func TestServiceSeedAfterLike(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewService(store, WithSeed([]int{5, 5}))

	_, err := svc.Add(ctx, "Article", "9", Session("s1"), AddOptions{})
	checkNoError(t, err)

	seed, err := svc.Seed(ctx, "Article", "9")
	checkNoError(t, err)
	checkEqual(t, "seed outcome", seed.Outcome, AlreadySeeded)

	res, err := svc.Add(ctx, "Article", "9", Session("s2"), AddOptions{Seed: true})
	checkNoError(t, err)
	checkEqual(t, "outcome", res.Outcome, Added)

	sum, err := svc.Get(ctx, "Article", "9", Session("s3"))
	checkNoError(t, err)
	checkEqual(t, "count", sum.Count, int64(2))
	checkLen(t, "records", len(store.snapshot()), 2)
}

func TestServiceAddIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewService(store)

	first, err := svc.Add(ctx, "article", "42", User("7"), AddOptions{})
	checkNoError(t, err)
	checkEqual(t, "first", first.Outcome, Added)

	second, err := svc.Add(ctx, "Article", "42", User("7"), AddOptions{})
	checkNoError(t, err)
	checkEqual(t, "second", second.Outcome, AlreadyGiven)
	if second.Record != nil {
		t.Errorf("AlreadyGiven should not carry a record, got %+v", second.Record)
	}

	g, err := store.Aggregate(ctx, Target{Type: "Article", ID: "42"})
	checkNoError(t, err)
	checkEqual(t, "real", g.Real, int64(1))
}

func TestServiceAddWithSeedOption(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewService(store, WithSeed(3))

	_, err := svc.Add(ctx, "Article", "1", Session("s1"), AddOptions{Seed: true})
	checkNoError(t, err)
	_, err = svc.Add(ctx, "Article", "1", Session("s2"), AddOptions{Seed: true})
	checkNoError(t, err)

	sum, err := svc.Get(ctx, "Article", "1", Session("s3"))
	checkNoError(t, err)
	checkEqual(t, "summary", sum, Summary{Count: 5, Given: false})
	checkLen(t, "records", len(store.snapshot()), 3)
}

func TestServiceAddSeedFailurePropagates(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, WithSeed("not-a-number"))

	_, err := svc.Add(context.Background(), "Article", "1", Session("s1"), AddOptions{Seed: true})
	checkErrorIs(t, err, ErrInvalidSeedConfiguration)
	checkLen(t, "records", len(store.snapshot()), 0)
}

func TestServiceMissingIdentity(t *testing.T) {
	svc := NewService(newMemStore())

	_, err := svc.Add(context.Background(), "Article", "1", Anonymous(), AddOptions{})
	checkErrorIs(t, err, ErrMissingIdentity)

	_, err = svc.Get(context.Background(), "Article", "1", Anonymous())
	checkErrorIs(t, err, ErrMissingIdentity)

	_, err = svc.List(context.Background(), Anonymous())
	checkErrorIs(t, err, ErrMissingIdentity)
}

func TestServiceInvalidTarget(t *testing.T) {
	_, err := NewService(newMemStore()).Add(context.Background(), "", "1", User("7"), AddOptions{})
	checkErrorIs(t, err, ErrInvalidArgument)
}

func TestServiceGetEmptyTarget(t *testing.T) {
	sum, err := NewService(newMemStore()).Get(context.Background(), "Article", "404", User("7"))
	checkNoError(t, err)
	checkEqual(t, "summary", sum, Summary{})
}

func TestServiceSeedOnRead(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemStore(), WithSeed(8), WithSeedOnRead(true))

	sum, err := svc.Get(ctx, "Article", "9", Session("s1"))
	checkNoError(t, err)
	checkEqual(t, "first view", sum.Count, int64(8))

	sum, err = svc.Get(ctx, "Article", "9", Session("s1"))
	checkNoError(t, err)
	checkEqual(t, "second view", sum.Count, int64(8))
}

func TestServiceNormalizesTypeVariants(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemStore())

	res, err := svc.Add(ctx, "product-groups", "1", User("7"), AddOptions{})
	checkNoError(t, err)
	checkEqual(t, "type", res.Record.Target.Type, "ProductGroups")

	res, err = svc.Add(ctx, "ProductGroups", "1", User("7"), AddOptions{})
	checkNoError(t, err)
	checkEqual(t, "outcome", res.Outcome, AlreadyGiven)
}

// racingLikeStore hides existing likes from the existence check so that
// only the insert can detect the duplicate.
type racingLikeStore struct {
	*memStore
}

func (racingLikeStore) HasGiven(context.Context, Target, Identity) (bool, error) { return false, nil }

func TestServiceConcurrentAddSameIdentity(t *testing.T) {
	store := racingLikeStore{newMemStore()}
	svc := NewService(store)

	const workers = 2
	outcomes := make(chan AddOutcome, workers)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.Add(context.Background(), "Article", "42", User("7"), AddOptions{})
			if err != nil {
				t.Errorf("Add() error: %v", err)
			}
			outcomes <- res.Outcome
		}()
	}
	wg.Wait()
	close(outcomes)

	counts := map[AddOutcome]int{}
	for o := range outcomes {
		counts[o]++
	}
	if counts[Added] != 1 || counts[AlreadyGiven] != 1 {
		t.Errorf("outcomes = %v, want one added and one already given", counts)
	}

	g, err := store.Aggregate(context.Background(), Target{Type: "Article", ID: "42"})
	checkNoError(t, err)
	checkEqual(t, "real", g.Real, int64(1))
}

func TestServiceReconciliationConvergence(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewService(store)

	_, err := svc.Add(ctx, "Article", "1", Session("s1"), AddOptions{})
	checkNoError(t, err)
	_, err = svc.Add(ctx, "Article", "2", User("7"), AddOptions{})
	checkNoError(t, err)
	_, err = svc.Add(ctx, "Article", "3", Identity{UserID: "7", SessionKey: "s1"}, AddOptions{})
	checkNoError(t, err)

	bySession, err := svc.List(ctx, Session("s1"))
	checkNoError(t, err)
	byUser, err := svc.List(ctx, User("7"))
	checkNoError(t, err)

	want := []string{"1", "2", "3"}
	checkTargetIDs(t, "by session", bySession, want)
	checkTargetIDs(t, "by user", byUser, want)
}

func TestServiceHookFailureDoesNotFailAdd(t *testing.T) {
	store := newMemStore()
	store.failAttach = errBoom
	var called bool
	svc := NewService(store, WithAfterWrite("notify", func(context.Context, *Record) error {
		called = true
		return errBoom
	}))

	res, err := svc.Add(context.Background(), "Article", "1", Identity{UserID: "7", SessionKey: "s1"}, AddOptions{})
	checkNoError(t, err)
	checkEqual(t, "outcome", res.Outcome, Added)
	checkEqual(t, "hook called", called, true)
}

func TestServiceStorageFailure(t *testing.T) {
	store := newMemStore()
	store.failQuery = errBoom
	_, err := NewService(store).Add(context.Background(), "Article", "1", User("7"), AddOptions{})
	checkErrorIs(t, err, errBoom)
}

type recordingCache struct {
	mu          sync.Mutex
	entries     map[Target]GroupResult
	invalidated []Target
}

func (c *recordingCache) Get(_ context.Context, t Target) (GroupResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	g, ok := c.entries[t]
	return g, ok
}

func (c *recordingCache) Set(_ context.Context, g GroupResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = map[Target]GroupResult{}
	}
	c.entries[g.Target] = g
}

func (c *recordingCache) Invalidate(_ context.Context, t Target) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, t)
	c.invalidated = append(c.invalidated, t)
	return nil
}

func TestServiceCountCache(t *testing.T) {
	ctx := context.Background()
	cache := &recordingCache{}
	svc := NewService(newMemStore(), WithCountCache(cache))
	target := Target{Type: "Article", ID: "1"}

	sum, err := svc.Get(ctx, "Article", "1", Session("s1"))
	checkNoError(t, err)
	checkEqual(t, "empty count", sum.Count, int64(0))
	if _, cached := cache.Get(ctx, target); !cached {
		t.Error("Get should populate the count cache")
	}

	_, err = svc.Add(ctx, "Article", "1", Session("s1"), AddOptions{})
	checkNoError(t, err)
	if !slices.Contains(cache.invalidated, target) {
		t.Errorf("invalidated = %v, want %v", cache.invalidated, target)
	}

	sum, err = svc.Get(ctx, "Article", "1", Session("s1"))
	checkNoError(t, err)
	checkEqual(t, "summary", sum, Summary{Count: 1, Given: true})
}

// checkTargetIDs compares target ids regardless of order.
func checkTargetIDs(t *testing.T, name string, recs []Record, want []string) {
	t.Helper()
	got := make([]string, 0, len(recs))
	for _, r := range recs {
		got = append(got, r.Target.ID)
	}
	slices.Sort(got)
	want = slices.Clone(want)
	slices.Sort(want)
	if !slices.Equal(got, want) {
		t.Errorf("%s: target ids = %v, want %v", name, got, want)
	}
}
