// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

/*
Package api provides the HTTP REST API for the like engine.

Routes (chi):

	POST /api/v1/likes/{type}/{id}   register a like (?seed=true seeds first)
	GET  /api/v1/likes/{type}/{id}   virtual count and whether the caller liked it
	GET  /api/v1/likes/mine          the caller's likes
	GET  /api/v1/reports/totals      liked things and total real likes
	GET  /api/v1/reports/top         most liked targets (?limit=)
	GET  /api/v1/reports/grouped     real counts per target (?type=&id=&order=&dir=&limit=)
	GET  /api/v1/health/live         liveness
	GET  /api/v1/health/ready        storage ping
	GET  /metrics                    Prometheus

Every JSON response uses the models.APIResponse envelope. Like routes run
behind the identity middleware, which issues an anonymous session cookie
when the caller has none. Report routes require the operator bearer token
(REPORTS_TOKEN) and are disabled when none is configured.

Error mapping:

  - missing identity, invalid target or parameter: 400 VALIDATION_ERROR
  - missing or wrong reports token: 401 UNAUTHORIZED
  - reports disabled: 403 FORBIDDEN
  - storage failure: 500 DATABASE_ERROR
  - invalid seed configuration: 500 INTERNAL_ERROR
*/
package api
