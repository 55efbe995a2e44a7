// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

/*
Package cache holds computed usage reports between dashboard polls.

ReportCache is a TTL cache bounded by entry count with least-recently-used
eviction. Concurrent misses for the same key share one computation through
singleflight, and the computation runs without the cache lock held. Reports
are immutable, so entries are only ever replaced whole.

An expired entry is kept for a grace period as the last good report for its
key. When a recompute fails and the caller opted in, that report is served
with Stale set instead of the error:

	c := cache.NewReportCache(cache.Options{TTL: 3 * time.Minute})
	res, err := c.Get(ctx, cache.GenerateKey("usage", req), allowStale, func(ctx context.Context) (*models.Report, error) {
	    return engine.Generate(ctx, req)
	})

Prune drops entries past their grace period; the supervisor runs it on a
ticker. With Options.Snapshots set, every computed report is also persisted
and the persisted copy backs the stale fallback after a restart.
*/
package cache
