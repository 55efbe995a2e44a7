// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package config

import (
	"fmt"
	"strings"

	"github.com/tomtom215/runstats/internal/logging"
)

// Validate checks that the loaded configuration is usable. Report
// bucketing is validated with the same rules the engine applies per
// request, so a bad config file fails at startup instead of on the first
// dashboard call.
func (c *Config) Validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateAnalytics(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateBreaker(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateDatabase() error {
	switch c.Database.Driver {
	case "duckdb", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be duckdb or sqlite, got %q", c.Database.Driver)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must not be negative, got %d", c.Database.Threads)
	}
	if c.Database.QueryTimeout <= 0 {
		return fmt.Errorf("DB_QUERY_TIMEOUT must be positive, got %v", c.Database.QueryTimeout)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.Server.Timeout)
	}
	switch c.Server.Environment {
	case "development", "production":
	default:
		return fmt.Errorf("ENVIRONMENT must be development or production, got %q", c.Server.Environment)
	}
	return nil
}

func (c *Config) validateAnalytics() error {
	a := &c.Analytics
	req := a.ReportRequest()
	if err := req.Validate(); err != nil {
		return fmt.Errorf("analytics: %w", err)
	}
	if a.IngestTimeout <= 0 {
		return fmt.Errorf("ANALYTICS_INGEST_TIMEOUT must be positive, got %v", a.IngestTimeout)
	}
	if a.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive, got %v", a.CacheTTL)
	}
	if a.CacheMaxEntries < 1 {
		return fmt.Errorf("CACHE_MAX_ENTRIES must be at least 1, got %d", a.CacheMaxEntries)
	}
	if a.CacheStaleFor < 0 {
		return fmt.Errorf("CACHE_STALE_FOR must not be negative, got %v", a.CacheStaleFor)
	}
	if a.JanitorInterval <= 0 {
		return fmt.Errorf("CACHE_JANITOR_INTERVAL must be positive, got %v", a.JanitorInterval)
	}
	if a.WarmInterval < 0 {
		return fmt.Errorf("CACHE_WARM_INTERVAL must not be negative, got %v", a.WarmInterval)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", c.Security.RateLimitWindow)
	}
	return nil
}

func (c *Config) validateBreaker() error {
	if !c.Breaker.Enabled {
		return nil
	}
	if c.Breaker.FailureRatio <= 0 || c.Breaker.FailureRatio > 1 {
		return fmt.Errorf("BREAKER_FAILURE_RATIO must be in (0, 1], got %v", c.Breaker.FailureRatio)
	}
	if c.Breaker.Timeout <= 0 {
		return fmt.Errorf("BREAKER_TIMEOUT must be positive, got %v", c.Breaker.Timeout)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
