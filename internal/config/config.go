// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package config

import (
	"time"

	"github.com/tomtom215/runstats/internal/analytics"
	"github.com/tomtom215/runstats/internal/models"
)

// Config holds all application configuration
type Config struct {
	Database  DatabaseConfig  `koanf:"database"`
	Server    ServerConfig    `koanf:"server"`
	Analytics AnalyticsConfig `koanf:"analytics"`
	Security  SecurityConfig  `koanf:"security"`
	Breaker   BreakerConfig   `koanf:"breaker"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// DatabaseConfig holds event store settings
type DatabaseConfig struct {
	Driver       string        `koanf:"driver"`
	Path         string        `koanf:"path"`
	MaxMemory    string        `koanf:"max_memory"`
	Threads      int           `koanf:"threads"`
	QueryTimeout time.Duration `koanf:"query_timeout"`
	SeedMockData bool          `koanf:"seed_mock_data"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// AnalyticsConfig holds report defaults and report cache settings.
// Request parameters override the report fields per call.
type AnalyticsConfig struct {
	Window           time.Duration `koanf:"window"`
	Lookback         time.Duration `koanf:"lookback"`
	GrowthPeriod     time.Duration `koanf:"growth_period"`
	TopLevelTiers    int           `koanf:"top_level_tiers"`
	Timezone         string        `koanf:"timezone"`
	RegularMin       int           `koanf:"regular_min"`
	RegularMax       int           `koanf:"regular_max"`
	ChargeBoundaries []int         `koanf:"charge_boundaries"`
	IngestTimeout    time.Duration `koanf:"ingest_timeout"`

	CacheTTL        time.Duration `koanf:"cache_ttl"`
	CacheMaxEntries int           `koanf:"cache_max_entries"`
	CacheStaleFor   time.Duration `koanf:"cache_stale_for"`
	ServeStale      bool          `koanf:"serve_stale"`
	JanitorInterval time.Duration `koanf:"janitor_interval"`

	// WarmInterval recomputes the default report in the background. Zero
	// disables warming.
	WarmInterval time.Duration `koanf:"warm_interval"`

	// SnapshotPath is the BadgerDB directory for persisted reports. Empty
	// disables snapshots.
	SnapshotPath string `koanf:"snapshot_path"`
}

// SecurityConfig holds CORS and rate limiting settings
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// BreakerConfig holds circuit breaker settings for store reads
type BreakerConfig struct {
	Enabled      bool          `koanf:"enabled"`
	MaxRequests  uint32        `koanf:"max_requests"`
	Interval     time.Duration `koanf:"interval"`
	Timeout      time.Duration `koanf:"timeout"`
	MinRequests  uint32        `koanf:"min_requests"`
	FailureRatio float64       `koanf:"failure_ratio"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// BucketConfig returns the configured report bucketing as the analytics
// model. The boundary slice is copied.
func (a *AnalyticsConfig) BucketConfig() models.BucketConfig {
	return models.BucketConfig{
		ChargeBoundaries: append([]int(nil), a.ChargeBoundaries...),
		TopLevelTiers:    a.TopLevelTiers,
		Timezone:         a.Timezone,
		RegularMin:       a.RegularMin,
		RegularMax:       a.RegularMax,
		GrowthPeriod:     a.GrowthPeriod,
	}
}

// ReportRequest returns the default report request derived from configuration.
func (a *AnalyticsConfig) ReportRequest() analytics.ReportRequest {
	return analytics.ReportRequest{
		Window:   a.Window,
		Lookback: a.Lookback,
		Buckets:  a.BucketConfig(),
	}
}

// IsProduction reports whether the server runs with production checks.
func (s *ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}
