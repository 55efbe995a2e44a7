// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

// Package api exposes usage reports over HTTP.
//
// Routes (all JSON, wrapped in models.APIResponse):
//
//	GET    /api/v1/health/live                 liveness probe
//	GET    /api/v1/health/ready                readiness probe (event store ping, breaker state)
//	GET    /api/v1/analytics/usage             full usage report
//	GET    /api/v1/analytics/usage/{section}   one report section
//	GET    /api/v1/analytics/cache             report cache statistics
//	DELETE /api/v1/analytics/cache             drop every cached report
//	GET    /metrics                            Prometheus exposition
//
// Report endpoints accept the query parameters window, lookback, top,
// charge_bounds and allow_stale. Durations take Go syntax or whole days
// ("7d"). Reports are served through cache.ReportCache, so concurrent
// identical requests share one computation.
package api
