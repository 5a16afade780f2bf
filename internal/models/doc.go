// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

/*
Package models defines the HTTP response shapes of the like API.

Every endpoint answers with an APIResponse envelope. The payload types in
this package are the only views of like data that leave the process:

  - LikeResponse and LikeViewResponse carry the virtual count
  - ReportEntry and TotalsResponse carry real counts
  - MyLike lists a caller's own likes

None of them exposes the synthetic seed count or the identifiers of other
callers.
*/
package models
