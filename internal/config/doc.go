// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

/*
Package config provides centralized configuration management for Runstats.

Configuration is layered with koanf:

 1. Struct defaults (defaultConfig)
 2. An optional YAML file (CONFIG_PATH, config.yaml, /etc/runstats/config.yaml)
 3. Environment variables, mapped from their flat names to nested paths

A .env file in the working directory is loaded into the process
environment before the layers are read, so local development can keep
settings next to the binary without exporting them.

# Environment Variables

Database (DatabaseConfig):
  - DB_DRIVER: duckdb or sqlite (default: duckdb)
  - DUCKDB_PATH: Database file path (default: /data/runstats.duckdb)
  - DUCKDB_MAX_MEMORY: DuckDB memory limit (default: 1GB)
  - DUCKDB_THREADS: DuckDB worker threads, 0 = runtime.NumCPU()
  - DB_QUERY_TIMEOUT: Per-query timeout (default: 15s)
  - SEED_MOCK_DATA: Insert mock runs into an empty store on startup

HTTP Server (ServerConfig):
  - HTTP_HOST: Bind address (default: 0.0.0.0)
  - HTTP_PORT: Listen port (default: 3860)
  - HTTP_TIMEOUT: Read/write timeout (default: 30s)
  - ENVIRONMENT: development or production

Analytics (AnalyticsConfig):
  - ANALYTICS_WINDOW: Reporting window (default: 168h)
  - ANALYTICS_LOOKBACK: User segmentation lookback (default: 672h)
  - ANALYTICS_GROWTH_PERIOD: Growth-rate comparison period (default: 24h)
  - ANALYTICS_TOP_LEVEL_TIERS: Keep the N busiest level/tier pairs, 0 = all
  - ANALYTICS_TIMEZONE: IANA zone for hour-of-day bucketing (default: UTC)
  - ANALYTICS_REGULAR_MIN / ANALYTICS_REGULAR_MAX: Regular user segment bounds
  - CHARGE_BOUNDARIES: Comma-separated charge range lower bounds (default: 0,5,10,20)
  - ANALYTICS_INGEST_TIMEOUT: Upper bound on one store read (default: 30s)
  - CACHE_TTL: Report cache freshness (default: 3m)
  - CACHE_MAX_ENTRIES: Report cache capacity (default: 256)
  - CACHE_STALE_FOR: How long an expired report may be served on failure (default: 30m)
  - SERVE_STALE: Serve the last good report when ingestion fails
  - CACHE_JANITOR_INTERVAL: Expired entry sweep interval (default: 1m)
  - CACHE_WARM_INTERVAL: Default report warm-up interval, 0 disables (default: 2m)
  - SNAPSHOT_PATH: BadgerDB directory for report snapshots, empty disables (default: "")

Security (SecurityConfig):
  - CORS_ORIGINS: Comma-separated allowed origins
  - RATE_LIMIT_REQUESTS / RATE_LIMIT_WINDOW / DISABLE_RATE_LIMIT

Circuit Breaker (BreakerConfig):
  - BREAKER_ENABLED, BREAKER_MAX_REQUESTS, BREAKER_INTERVAL,
    BREAKER_TIMEOUT, BREAKER_MIN_REQUESTS, BREAKER_FAILURE_RATIO

Logging (LoggingConfig):
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Usage Example

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
	fmt.Printf("Server listening on %s:%d\n", cfg.Server.Host, cfg.Server.Port)

# Thread Safety

Config structs are read-only after loading and safe for concurrent access.
*/
package config
