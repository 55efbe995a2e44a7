// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

/*
Package sync protects event ingestion from a failing store.

CircuitBreakerSource wraps any analytics.Source with sony/gobreaker. While
the store keeps failing, report requests are rejected immediately with
analytics.ErrSourceUnavailable instead of each one waiting for its own
timeout, and the API can fall back to the last good cached report.

Breaker state is exported through the runstats_circuit_breaker_* metrics.

Caller cancellation is not counted as a store failure: a dashboard that
navigates away must not trip the breaker for everyone else.
*/
package sync
