// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

// Package services adapts the server's long-lived components to
// suture.Service.
//
// HTTPServerService runs the HTTP API with graceful shutdown.
// DependencyMonitor pings the like store or the Redis count cache on an
// interval and exports baselike_dependency_up.
//
// Both implement fmt.Stringer so supervisor logs name them.
package services
