// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package likes

import (
	"cmp"
	"context"
	"errors"
	"iter"
	"slices"
	"sync"
)

// memStore is an in-memory Store enforcing the same uniqueness rules as the
// SQL backends.
type memStore struct {
	mu      sync.Mutex
	records []Record

	failAttach error
	failQuery  error
}

func newMemStore() *memStore {
	return &memStore{}
}

func (m *memStore) HasRecords(_ context.Context, t Target) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.Target == t {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) InsertSeed(_ context.Context, rec *Record) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.Target == rec.Target && r.IsSeed() {
			return false, nil
		}
	}
	m.records = append(m.records, *rec)
	return true, nil
}

func (m *memStore) InsertLike(_ context.Context, rec *Record) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hasGivenLocked(rec.Target, rec.Identity()) {
		return false, nil
	}
	m.records = append(m.records, *rec)
	return true, nil
}

func (m *memStore) HasGiven(_ context.Context, t Target, id Identity) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failQuery != nil {
		return false, m.failQuery
	}
	return m.hasGivenLocked(t, id), nil
}

func (m *memStore) hasGivenLocked(t Target, id Identity) bool {
	for _, r := range m.records {
		if r.Target != t {
			continue
		}
		if id.UserID != "" && r.UserID == id.UserID {
			return true
		}
		if id.SessionKey != "" && r.SessionKey == id.SessionKey {
			return true
		}
	}
	return false
}

func (m *memStore) Aggregate(_ context.Context, t Target) (GroupResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g := GroupResult{Target: t}
	for _, r := range m.records {
		if r.Target == t {
			g.Real += r.CountReal
			g.Seed += r.CountSeed
		}
	}
	return g, nil
}

func (m *memStore) ListByIdentity(_ context.Context, id Identity) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Record
	for _, r := range m.records {
		if r.IsSeed() {
			continue
		}
		if (id.UserID != "" && r.UserID == id.UserID) || (id.SessionKey != "" && r.SessionKey == id.SessionKey) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) AttachUser(_ context.Context, sessionKey, userID, excludeID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAttach != nil {
		return 0, m.failAttach
	}
	var n int64
	for i := range m.records {
		r := &m.records[i]
		if r.ID == excludeID || r.SessionKey != sessionKey || r.UserID != "" {
			continue
		}
		if m.hasGivenLocked(r.Target, User(userID)) {
			continue
		}
		r.UserID = userID
		n++
	}
	return n, nil
}

func (m *memStore) AttachSession(_ context.Context, userID, sessionKey, excludeID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAttach != nil {
		return 0, m.failAttach
	}
	var n int64
	for i := range m.records {
		r := &m.records[i]
		if r.ID == excludeID || r.UserID != userID || r.SessionKey != "" {
			continue
		}
		if m.hasGivenLocked(r.Target, Session(sessionKey)) {
			continue
		}
		r.SessionKey = sessionKey
		n++
	}
	return n, nil
}

func (m *memStore) Grouped(_ context.Context, q GroupQuery) iter.Seq2[GroupResult, error] {
	return func(yield func(GroupResult, error) bool) {
		if m.failQuery != nil {
			yield(GroupResult{}, m.failQuery)
			return
		}
		m.mu.Lock()
		groups := map[Target]*GroupResult{}
		var order []Target
		for _, r := range m.records {
			if len(q.Types) > 0 && !slices.Contains(q.Types, r.Target.Type) {
				continue
			}
			if len(q.TargetIDs) > 0 && !slices.Contains(q.TargetIDs, r.Target.ID) {
				continue
			}
			g, ok := groups[r.Target]
			if !ok {
				g = &GroupResult{Target: r.Target}
				groups[r.Target] = g
				order = append(order, r.Target)
			}
			g.Real += r.CountReal
			g.Seed += r.CountSeed
		}
		m.mu.Unlock()

		results := make([]GroupResult, 0, len(order))
		for _, t := range order {
			results = append(results, *groups[t])
		}
		slices.SortStableFunc(results, func(a, b GroupResult) int {
			x, _ := a.Count(string(q.OrderBy))
			y, _ := b.Count(string(q.OrderBy))
			if q.Ascending {
				return cmp.Compare(x, y)
			}
			return cmp.Compare(y, x)
		})
		if q.Limit > 0 && len(results) > q.Limit {
			results = results[:q.Limit]
		}
		for _, g := range results {
			if !yield(g, nil) {
				return
			}
		}
	}
}

func (m *memStore) Totals(_ context.Context) (Totals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sums := map[Target]int64{}
	var t Totals
	for _, r := range m.records {
		sums[r.Target] += r.CountReal
		t.Likes += r.CountReal
	}
	for _, n := range sums {
		if n > 0 {
			t.Things++
		}
	}
	return t, nil
}

func (m *memStore) snapshot() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.records)
}

var errBoom = errors.New("boom")
