// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package query

import (
	"strings"
)

// WhereBuilder constructs SQL WHERE clauses with parameterized arguments.
//
// Example usage:
//
//	wb := query.NewWhereBuilder()
//	wb.AddIn("model", []string{"Article", "Comment"})
//	wb.AddAnyOf(query.Eq("user_id", "u1"), query.Eq("session_key", "s1"))
//	whereClause, args := wb.Build()
//	// model IN (?, ?) AND (user_id = ? OR session_key = ?)
type WhereBuilder struct {
	clauses []string
	args    []any
}

// Condition is a single parameterized predicate.
type Condition struct {
	Clause string
	Args   []any
}

// Eq returns the condition "column = ?".
func Eq(column string, value any) Condition {
	return Condition{Clause: column + " = ?", Args: []any{value}}
}

// NewWhereBuilder creates a new WhereBuilder instance.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{
		clauses: []string{},
		args:    []any{},
	}
}

// AddClause adds a raw WHERE clause with its arguments.
func (wb *WhereBuilder) AddClause(clause string, args ...any) *WhereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// AddEq adds "column = ?".
func (wb *WhereBuilder) AddEq(column string, value any) *WhereBuilder {
	c := Eq(column, value)
	return wb.AddClause(c.Clause, c.Args...)
}

// AddIn adds "column IN (?, ...)". An empty values slice is skipped.
func (wb *WhereBuilder) AddIn(column string, values []string) *WhereBuilder {
	if len(values) == 0 {
		return wb
	}
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return wb.AddClause(column+" IN ("+Placeholders(len(values))+")", args...)
}

// AddAnyOf adds the disjunction of conds. With no conditions the builder
// is unchanged; a single condition is added without parentheses.
func (wb *WhereBuilder) AddAnyOf(conds ...Condition) *WhereBuilder {
	switch len(conds) {
	case 0:
		return wb
	case 1:
		return wb.AddClause(conds[0].Clause, conds[0].Args...)
	}
	parts := make([]string, len(conds))
	var args []any
	for i, c := range conds {
		parts[i] = c.Clause
		args = append(args, c.Args...)
	}
	return wb.AddClause("("+strings.Join(parts, " OR ")+")", args...)
}

// Build constructs the final WHERE clause and returns it with arguments.
// Clauses are joined with "AND". Returns ("1=1", []) if no clauses were added.
func (wb *WhereBuilder) Build() (string, []any) {
	if len(wb.clauses) == 0 {
		return "1=1", []any{}
	}
	return strings.Join(wb.clauses, " AND "), wb.args
}

// BuildWithPrefix returns the WHERE clause with "WHERE " prefix.
func (wb *WhereBuilder) BuildWithPrefix() (string, []any) {
	whereClause, args := wb.Build()
	return "WHERE " + whereClause, args
}

// Count returns the number of clauses added to the builder.
func (wb *WhereBuilder) Count() int {
	return len(wb.clauses)
}

// IsEmpty returns true if no clauses have been added.
func (wb *WhereBuilder) IsEmpty() bool {
	return len(wb.clauses) == 0
}

// Placeholders returns n comma-separated "?" markers.
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
