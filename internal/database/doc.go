// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

/*
Package database stores raw farming-run events and serves them to the
analytics engine.

Two drivers are supported behind the same DB type:

  - duckdb (github.com/duckdb/duckdb-go/v2): the production event store
  - sqlite (modernc.org/sqlite): pure Go, used for tests and small installs

Events are stored as received. Validation happens in the analytics
package, so malformed payloads are persisted and counted as skipped at
report time instead of being rejected on write.

# Schema

	run_events(
	    id            TEXT PRIMARY KEY,  -- UUID
	    logged_at_ms  BIGINT NOT NULL,   -- arrival time, Unix milliseconds
	    user_id       TEXT,
	    ts            TEXT,              -- payload timestamp, unparsed
	    map_size      TEXT,
	    level, tier, charge_cost, tokens_earned, luck  DOUBLE  -- nullable
	)

FetchRuns filters on logged_at_ms so that events with an unparseable
payload timestamp still reach the validator and are reported as skipped.

# Thread Safety

DB is safe for concurrent use. The in-memory SQLite database is pinned to
a single connection so every query sees the same data.
*/
package database
