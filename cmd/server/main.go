// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/baselike/internal/api"
	"github.com/tomtom215/baselike/internal/config"
	"github.com/tomtom215/baselike/internal/identity"
	"github.com/tomtom215/baselike/internal/likes"
	"github.com/tomtom215/baselike/internal/logging"
	"github.com/tomtom215/baselike/internal/metrics"
	"github.com/tomtom215/baselike/internal/resolver"
	"github.com/tomtom215/baselike/internal/supervisor"
	"github.com/tomtom215/baselike/internal/supervisor/services"
)

// monitorInterval is how often the data layer pings storage and Redis.
const monitorInterval = 30 * time.Second

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Server failed")
	}
	logging.Info().Msg("Application stopped gracefully")
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	metrics.SetAppInfo(api.Version)

	logging.Info().
		Str("version", api.Version).
		Str("driver", cfg.Database.Driver).
		Str("resolver", cfg.Resolver.Mode).
		Bool("redis", cfg.Redis.Enabled).
		Msg("Starting Baselike")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeWithLog(store, "like store")

	counts, err := initCounts(ctx, cfg)
	if err != nil {
		return err
	}
	defer counts.close()

	normalizer, err := likes.NewNormalizer(cfg.Likes.TypeAliases)
	if err != nil {
		return fmt.Errorf("type aliases: %w", err)
	}
	entityResolver, err := resolver.New(&cfg.Resolver, normalizer)
	if err != nil {
		return fmt.Errorf("entity resolver: %w", err)
	}

	svc := likes.NewService(store,
		likes.WithSeed(cfg.Likes.Seed),
		likes.WithNormalizer(normalizer),
		likes.WithCountCache(counts.cache),
		likes.WithSeedOnRead(cfg.Likes.SeedOnRead),
	)
	reporter := likes.NewReporter(store, entityResolver, normalizer)

	handler := api.NewHandler(svc, reporter, store, cfg)
	if counts.redis != nil {
		handler.AddReadinessCheck("redis", counts.redis)
	}

	if cfg.Reports.Token == "" {
		logging.Info().Msg("REPORTS_TOKEN not set, report endpoints are disabled")
	}
	if cfg.Identity.UserHeader != "" {
		logging.Info().Str("header", cfg.Identity.UserHeader).Msg("Trusting user id header; it must be set by an auth proxy")
	}

	router := api.NewRouter(handler,
		api.NewChiMiddleware(api.ChiMiddlewareConfigFrom(cfg)),
		identity.NewMiddleware(identity.FromAppConfig(&cfg.Identity)),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("supervisor tree: %w", err)
	}

	tree.AddDataService(services.NewDependencyMonitor("storage", store, monitorInterval))
	if counts.redis != nil {
		tree.AddDataService(services.NewDependencyMonitor("redis", counts.redis, monitorInterval))
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for supervisor to finish")
		serveErr = <-errCh
	case serveErr = <-errCh:
	}

	if unstopped, err := tree.UnstoppedServiceReport(); err == nil {
		for _, u := range unstopped {
			logging.Warn().Str("service", u.Name).Msg("Service failed to stop within timeout")
		}
	}

	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", serveErr)
	}
	return nil
}

func closeWithLog(c interface{ Close() error }, name string) {
	if err := c.Close(); err != nil {
		logging.Error().Err(err).Str("component", name).Msg("Error closing")
	}
}
