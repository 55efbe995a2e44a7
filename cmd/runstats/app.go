// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package main

import (
	"fmt"
	"os"

	"github.com/tomtom215/runstats/internal/analytics"
	"github.com/tomtom215/runstats/internal/config"
	"github.com/tomtom215/runstats/internal/database"
	"github.com/tomtom215/runstats/internal/logging"
)

// loadConfig loads the layered configuration and initializes logging.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	if o.configPath != "" {
		if err := os.Setenv(config.ConfigPathEnvVar, o.configPath); err != nil {
			return nil, fmt.Errorf("set %s: %w", config.ConfigPathEnvVar, err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if o.logLevel != "" {
		if !logging.ValidLevel(o.logLevel) {
			return nil, fmt.Errorf("invalid --log-level %q", o.logLevel)
		}
		cfg.Logging.Level = o.logLevel
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})
	return cfg, nil
}

func openStore(cfg *config.Config) (*database.DB, error) {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open event store: %w", err)
	}
	logging.Info().
		Str("driver", db.Driver()).
		Str("path", cfg.Database.Path).
		Msg("Event store opened")
	return db, nil
}

func closeStore(db *database.DB) {
	if err := db.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing event store")
	}
}

func newEngine(cfg *config.Config, source analytics.Source) *analytics.Engine {
	return analytics.NewEngine(source, analytics.WithIngestTimeout(cfg.Analytics.IngestTimeout))
}
