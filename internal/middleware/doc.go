// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

/*
Package middleware provides HTTP middleware shared by the API router.

All middleware uses the chi signature func(http.Handler) http.Handler so it
can be mounted with r.Use.

Key Components:

  - RequestID: X-Request-ID propagation into the logging context
  - PrometheusMetrics: request count, latency and in-flight gauges labelled
    by route pattern
  - Compression: gzip for clients that accept it

Typical stack:

	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.Compression)
*/
package middleware
