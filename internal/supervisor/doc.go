// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

/*
Package supervisor runs the server's long-lived services under a
suture v4 supervisor tree.

# Tree Layout

	baselike (root)
	├── data-layer
	│   ├── storage-monitor
	│   └── redis-monitor (when Redis is enabled)
	└── api-layer
	    └── http-server

Each layer is its own supervisor, so restart backoff in the data layer
never tears down the HTTP server. Supervisor events are logged through
sutureslog, which is fed by the zerolog-backed slog logger from the
logging package.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewDependencyMonitor("storage", store, 30*time.Second))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	err = tree.Serve(ctx)

Service implementations live in the services subpackage.
*/
package supervisor
