// TE Report - Teacher Edition Usage Reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tereport

// Package main is the Teacher Edition report server.
//
// The Portal's report page POSTs a signed log request here; the server pulls
// the matching events from the log puller, resolves modules against LARA and
// teacher names against the Portal, and answers with a usage or session CSV.
//
// # Configuration
//
// Koanf v2 layers, highest priority last:
//   - built-in defaults
//   - config.yaml (or CONFIG_PATH)
//   - environment variables
//
// The variables the server has always read keep their names:
//
//	PORT=3000
//	AUTHORING_SERVER=authoring.concord.org
//	AUTHORING_API_KEY=...
//	LEARN_SERVER=learn.concord.org
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the supervisor tree. The HTTP service stops
// accepting connections and gives in-flight reports the write timeout to
// finish; the cache service stops its sweepers.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/tereport/internal/api"
	"github.com/tomtom215/tereport/internal/config"
	"github.com/tomtom215/tereport/internal/logging"
	"github.com/tomtom215/tereport/internal/supervisor"
	"github.com/tomtom215/tereport/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("authoring", cfg.Authoring.Server).
		Str("portal", cfg.Portal.Server).
		Bool("authoring_key_set", cfg.Authoring.APIKey != "").
		Bool("cache_enabled", cfg.Cache.Enabled).
		Int("prefetch_concurrency", cfg.Build.PrefetchConcurrency).
		Msg("Configuration loaded")

	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS_ORIGINS allows any origin; set it to the Portal report host in production")
	}

	wiring, err := buildServer(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize report server")
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   5 * time.Second,
		ShutdownTimeout:  cfg.Server.WriteTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	router := api.NewRouter(wiring.handler, api.NewChiMiddleware(api.NewChiMiddlewareConfig(cfg.Security)))
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	if len(wiring.caches) > 0 {
		tree.AddCacheService(services.NewCacheService(time.Minute, wiring.caches))
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.WriteTimeout))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", server.Addr).Str("name", cfg.Server.Name).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Report server stopped")
}
