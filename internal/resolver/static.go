// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/baselike/internal/likes"
)

func isNotFound(err error) bool {
	return errors.Is(err, likes.ErrEntityNotFound)
}

// Static resolves titles from a fixed table.
type Static struct {
	titles map[likes.Target]string
}

// NewStatic builds a table from "Type/ID" keys. Types are normalized with
// n, so "blog_post/1" and "BlogPost/1" name the same entity.
func NewStatic(entries map[string]string, n *likes.Normalizer) (*Static, error) {
	s := &Static{titles: make(map[likes.Target]string, len(entries))}
	for key, title := range entries {
		typ, id, ok := strings.Cut(key, "/")
		if !ok {
			return nil, fmt.Errorf("%w: entity key %q must be Type/ID", likes.ErrInvalidArgument, key)
		}
		t, err := n.Target(typ, id)
		if err != nil {
			return nil, fmt.Errorf("entity key %q: %w", key, err)
		}
		s.titles[t] = title
	}
	return s, nil
}

func (s *Static) Resolve(_ context.Context, t likes.Target) (e likes.Entity, err error) {
	start := time.Now()
	defer func() { observe("static", start, err) }()

	title, ok := s.titles[t]
	if !ok {
		return likes.Entity{}, fmt.Errorf("%w: %s", likes.ErrEntityNotFound, t)
	}
	return likes.Entity{Target: t, Title: title}, nil
}
