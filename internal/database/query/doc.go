// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

// Package query provides SQL query building utilities for the storage
// backends.
//
// The WhereBuilder assembles parameterized WHERE clauses from filters:
//
//	wb := query.NewWhereBuilder()
//	wb.AddEq("model", "Article")
//	wb.AddIn("foreign_key", []string{"1", "2"})
//	whereClause, args := wb.Build()
//	// Result: "model = ? AND foreign_key IN (?, ?)"
//	// Args: ["Article", "1", "2"]
//
// Markers are written as "?", which both database/sql with DuckDB and
// gorm's Where accept.
package query
