// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package likes

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxTargetLength bounds both parts of a target reference.
const MaxTargetLength = 255

// Target is a weak reference to a liked entity: a type name plus an id
// within that type. It is resolved on demand through a Resolver.
type Target struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// String renders the target as "Type/ID".
func (t Target) String() string {
	return t.Type + "/" + t.ID
}

// NormalizeType converts a type name to its canonical form. Separator
// characters split the name into segments and each segment gets an upper
// case first rune, so "product-groups", "product_groups" and
// "ProductGroups" all become "ProductGroups". Applying it twice yields the
// same value.
func NormalizeType(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	upper := true
	for _, r := range strings.TrimSpace(s) {
		if isTypeSeparator(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isTypeSeparator(r rune) bool {
	switch r {
	case '-', '_', ' ', '.', '/', '\\', '\t':
		return true
	}
	return false
}

// Normalizer canonicalizes targets, applying configured type aliases after
// NormalizeType.
type Normalizer struct {
	aliases map[string]string
}

// NewNormalizer builds a Normalizer. Alias keys and values are normalized
// up front. An alias pointing at another alias key is rejected so that
// normalization stays idempotent.
func NewNormalizer(aliases map[string]string) (*Normalizer, error) {
	n := &Normalizer{aliases: make(map[string]string, len(aliases))}
	for from, to := range aliases {
		k, v := NormalizeType(from), NormalizeType(to)
		if k == "" || v == "" {
			return nil, fmt.Errorf("%w: empty type alias %q -> %q", ErrInvalidArgument, from, to)
		}
		if k == v {
			continue
		}
		n.aliases[k] = v
	}
	for k, v := range n.aliases {
		if _, chained := n.aliases[v]; chained {
			return nil, fmt.Errorf("%w: type alias %q -> %q points at another alias", ErrInvalidArgument, k, v)
		}
	}
	return n, nil
}

// Type returns the canonical form of a type name.
func (n *Normalizer) Type(s string) string {
	t := NormalizeType(s)
	if n == nil {
		return t
	}
	if alias, ok := n.aliases[t]; ok {
		return alias
	}
	return t
}

// Target validates and canonicalizes a target reference.
func (n *Normalizer) Target(targetType, targetID string) (Target, error) {
	t := Target{Type: n.Type(targetType), ID: strings.TrimSpace(targetID)}
	if err := t.Validate(); err != nil {
		return Target{}, err
	}
	return t, nil
}

// Validate checks that both parts are present and within bounds.
func (t Target) Validate() error {
	if t.Type == "" {
		return fmt.Errorf("%w: target type is required", ErrInvalidArgument)
	}
	if t.ID == "" {
		return fmt.Errorf("%w: target id is required", ErrInvalidArgument)
	}
	if utf8.RuneCountInString(t.Type) > MaxTargetLength || utf8.RuneCountInString(t.ID) > MaxTargetLength {
		return fmt.Errorf("%w: target reference exceeds %d characters", ErrInvalidArgument, MaxTargetLength)
	}
	return nil
}
