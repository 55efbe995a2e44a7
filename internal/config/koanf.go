// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/runstats/internal/analytics"
	"github.com/tomtom215/runstats/internal/cache"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/runstats/config.yaml",
	"/etc/runstats/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:       "duckdb",
			Path:         "/data/runstats.duckdb",
			MaxMemory:    "1GB",
			Threads:      0, // 0 = use runtime.NumCPU()
			QueryTimeout: 15 * time.Second,
			SeedMockData: false,
		},
		Server: ServerConfig{
			Port:        3860,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Analytics: AnalyticsConfig{
			Window:           analytics.DefaultWindow,
			Lookback:         analytics.DefaultLookback,
			GrowthPeriod:     analytics.DefaultGrowthPeriod,
			TopLevelTiers:    0,
			Timezone:         analytics.DefaultTimezone,
			RegularMin:       analytics.DefaultRegularMin,
			RegularMax:       analytics.DefaultRegularMax,
			ChargeBoundaries: append([]int(nil), analytics.DefaultChargeBoundaries...),
			IngestTimeout:    analytics.DefaultIngestTimeout,
			CacheTTL:         cache.DefaultTTL,
			CacheMaxEntries:  cache.DefaultMaxEntries,
			CacheStaleFor:    cache.DefaultStaleFor,
			ServeStale:       false,
			JanitorInterval:  time.Minute,
			WarmInterval:     2 * time.Minute,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Breaker: BreakerConfig{
			Enabled:      true,
			MaxRequests:  3,
			Interval:     time.Minute,
			Timeout:      30 * time.Second,
			MinRequests:  10,
			FailureRatio: 0.6,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load reads .env (when present) and then loads the layered configuration.
func Load() (*Config, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}
	return LoadWithKoanf()
}

// LoadWithKoanf loads configuration using Koanf with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
//
// Precedence is ENV > File > Defaults.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// HTTP_PORT -> server.port
	// CHARGE_BOUNDARIES -> analytics.charge_boundaries
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
	"analytics.charge_boundaries",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Element types are converted during Unmarshal, so "0,5,10" decodes into []int.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps flat environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Database
	"db_driver":         "database.driver",
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",
	"db_query_timeout":  "database.query_timeout",
	"seed_mock_data":    "database.seed_mock_data",

	// Server
	"http_host":    "server.host",
	"http_port":    "server.port",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	// Analytics
	"analytics_window":          "analytics.window",
	"analytics_lookback":        "analytics.lookback",
	"analytics_growth_period":   "analytics.growth_period",
	"analytics_top_level_tiers": "analytics.top_level_tiers",
	"analytics_timezone":        "analytics.timezone",
	"analytics_regular_min":     "analytics.regular_min",
	"analytics_regular_max":     "analytics.regular_max",
	"analytics_ingest_timeout":  "analytics.ingest_timeout",
	"charge_boundaries":         "analytics.charge_boundaries",
	"cache_ttl":                 "analytics.cache_ttl",
	"cache_max_entries":         "analytics.cache_max_entries",
	"cache_stale_for":           "analytics.cache_stale_for",
	"serve_stale":               "analytics.serve_stale",
	"cache_janitor_interval":    "analytics.janitor_interval",
	"cache_warm_interval":       "analytics.warm_interval",
	"snapshot_path":             "analytics.snapshot_path",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Circuit breaker
	"breaker_enabled":       "breaker.enabled",
	"breaker_max_requests":  "breaker.max_requests",
	"breaker_interval":      "breaker.interval",
	"breaker_timeout":       "breaker.timeout",
	"breaker_min_requests":  "breaker.min_requests",
	"breaker_failure_ratio": "breaker.failure_ratio",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped variables return an empty key and are skipped, so unrelated
// environment variables never pollute the configuration.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
