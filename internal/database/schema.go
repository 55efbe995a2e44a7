// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package database

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS run_events (
		id            TEXT PRIMARY KEY,
		logged_at_ms  BIGINT NOT NULL,
		user_id       TEXT,
		ts            TEXT,
		map_size      TEXT,
		level         DOUBLE,
		tier          DOUBLE,
		charge_cost   DOUBLE,
		tokens_earned DOUBLE,
		luck          DOUBLE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_run_events_logged_at ON run_events (logged_at_ms)`,
}

// createTables creates the schema. Statements are idempotent.
func (db *DB) createTables(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}
