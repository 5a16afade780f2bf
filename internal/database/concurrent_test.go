// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package database

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/tomtom215/baselike/internal/likes"
)

func TestConcurrentInsertLike_SameIdentity(t *testing.T) {
	db := setupTestDB(t)
	const workers = 16

	var (
		wg       sync.WaitGroup
		inserted atomic.Int64
		failures atomic.Int64
	)
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			ok, err := db.InsertLike(context.Background(), newLike(article42, "u1", ""))
			if err != nil {
				failures.Add(1)
				t.Errorf("insert like: %v", err)
				return
			}
			if ok {
				inserted.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	checkInt64Equal(t, "failures", failures.Load(), 0)
	checkInt64Equal(t, "inserted", inserted.Load(), 1)

	agg, err := db.Aggregate(context.Background(), article42)
	checkNoError(t, err)
	checkInt64Equal(t, "real count", agg.Real, 1)
}

func TestConcurrentSeed_OncePerTarget(t *testing.T) {
	db := setupTestDB(t)
	seeder := likes.NewSeeder(db, []int{3, 10})
	const workers = 12

	var (
		wg     sync.WaitGroup
		seeded atomic.Int64
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := seeder.Seed(context.Background(), article42)
			if err != nil {
				t.Errorf("seed: %v", err)
				return
			}
			if res.Outcome == likes.Seeded {
				seeded.Add(1)
			}
		}()
	}
	wg.Wait()

	checkInt64Equal(t, "seeded", seeded.Load(), 1)

	_, seedRows, err := db.CountRecords(context.Background())
	checkNoError(t, err)
	checkInt64Equal(t, "seed rows", seedRows, 1)

	agg, err := db.Aggregate(context.Background(), article42)
	checkNoError(t, err)
	if agg.Seed < 3 || agg.Seed > 10 {
		t.Errorf("seed count %d outside [3, 10]", agg.Seed)
	}
}

func TestConcurrentInsertLike_DistinctSessions(t *testing.T) {
	db := setupTestDB(t)
	const workers = 10

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ok, err := db.InsertLike(context.Background(), newLike(article42, "", fmt.Sprintf("s%d", i)))
			if err != nil {
				t.Errorf("insert like s%d: %v", i, err)
				return
			}
			if !ok {
				t.Errorf("expected session s%d to be inserted", i)
			}
		}(i)
	}
	wg.Wait()

	agg, err := db.Aggregate(context.Background(), article42)
	checkNoError(t, err)
	checkInt64Equal(t, "real count", agg.Real, workers)
}
