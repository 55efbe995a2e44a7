// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/runstats/internal/analytics"
	"github.com/tomtom215/runstats/internal/api"
	"github.com/tomtom215/runstats/internal/cache"
	"github.com/tomtom215/runstats/internal/config"
	"github.com/tomtom215/runstats/internal/database"
	"github.com/tomtom215/runstats/internal/logging"
	"github.com/tomtom215/runstats/internal/snapshot"
	"github.com/tomtom215/runstats/internal/supervisor"
	"github.com/tomtom215/runstats/internal/supervisor/services"
	"github.com/tomtom215/runstats/internal/sync"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the usage API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("driver", cfg.Database.Driver).
		Msg("Starting runstats with supervisor tree")

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore(db)

	if cfg.Database.SeedMockData {
		if err := seedIfEmpty(ctx, db); err != nil {
			return err
		}
	}

	var source analytics.Source = db
	var breaker *sync.CircuitBreakerSource
	if cfg.Breaker.Enabled {
		breaker = sync.NewCircuitBreakerSource(db, &cfg.Breaker)
		source = breaker
		logging.Info().
			Dur("timeout", cfg.Breaker.Timeout).
			Float64("failure_ratio", cfg.Breaker.FailureRatio).
			Msg("Circuit breaker enabled for event store reads")
	}

	engine := newEngine(cfg, source)
	cacheOpts := cache.Options{
		TTL:        cfg.Analytics.CacheTTL,
		MaxEntries: cfg.Analytics.CacheMaxEntries,
		StaleFor:   cfg.Analytics.CacheStaleFor,
	}

	var snapshots *snapshot.Store
	if cfg.Analytics.SnapshotPath != "" {
		snapshots, err = snapshot.Open(snapshot.Config{
			Path: cfg.Analytics.SnapshotPath,
			TTL:  cfg.Analytics.CacheTTL + cfg.Analytics.CacheStaleFor,
		})
		if err != nil {
			return fmt.Errorf("failed to open snapshot store: %w", err)
		}
		defer func() {
			if err := snapshots.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing snapshot store")
			}
		}()
		cacheOpts.Snapshots = snapshots
	}
	reports := cache.NewReportCache(cacheOpts)

	handler := api.NewHandler(engine, reports, db, &cfg.Analytics)
	if breaker != nil {
		handler.SetBreaker(breaker)
	}

	warnInsecureDefaults(cfg)

	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security)))
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return fmt.Errorf("failed to create supervisor tree: %w", err)
	}
	tree.AddMaintenanceService(services.NewCacheJanitorService(reports, cfg.Analytics.JanitorInterval))
	if cfg.Analytics.WarmInterval > 0 {
		tree.AddMaintenanceService(services.NewReportWarmerService(handler, cfg.Analytics.WarmInterval))
	}
	if snapshots != nil {
		tree.AddMaintenanceService(services.NewSnapshotGCService(snapshots, services.DefaultSnapshotGCInterval))
	}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	logging.Info().Msg("Starting supervisor tree...")
	if err := <-tree.ServeBackground(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("runstats stopped gracefully")
	return nil
}

// seedIfEmpty fills an empty store with the demo dataset.
func seedIfEmpty(ctx context.Context, db *database.DB) error {
	n, err := db.CountRuns(ctx)
	if err != nil {
		return fmt.Errorf("failed to count runs: %w", err)
	}
	if n > 0 {
		logging.Info().Int("runs", n).Msg("Event store not empty, skipping mock data (SEED_MOCK_DATA=true)")
		return nil
	}
	if err := db.SeedMockData(ctx, database.DefaultSeedOptions(time.Now())); err != nil {
		return fmt.Errorf("failed to seed mock data: %w", err)
	}
	return nil
}

func warnInsecureDefaults(cfg *config.Config) {
	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	if cfg.Server.IsProduction() && slices.Contains(cfg.Security.CORSOrigins, "*") {
		logging.Warn().Msg("CORS allows any origin (CORS_ORIGINS=*); set explicit origins in production")
	}
}
