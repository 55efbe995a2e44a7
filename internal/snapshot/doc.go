// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

/*
Package snapshot persists the last good usage report per cache key in an
embedded BadgerDB so that the stale fallback survives a restart.

The report cache writes a snapshot after every successful computation and
reads one back only when a recompute fails and no in-memory fallback is
left. Entries carry a BadgerDB TTL, so snapshots older than the cache's
fresh period plus grace period disappear on their own.

Key layout:

	report:<cache key>  ->  JSON {"storedAt": ..., "report": {...}}

Snapshots are disabled unless SNAPSHOT_PATH is set.
*/
package snapshot
