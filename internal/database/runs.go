// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/runstats/internal/metrics"
	"github.com/tomtom215/runstats/internal/models"
)

// RunRow is one stored event: the raw payload plus the time it was logged.
type RunRow struct {
	ID       string
	LoggedAt time.Time
	Event    models.RawEvent
}

// FetchRuns returns the raw events logged within [from, to], oldest first.
// It implements analytics.Source.
func (db *DB) FetchRuns(ctx context.Context, from, to time.Time) (events []models.RawEvent, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("fetch_runs", db.driver, time.Since(start), err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT user_id, ts, map_size, level, tier, charge_cost, tokens_earned, luck
		FROM run_events
		WHERE logged_at_ms >= ? AND logged_at_ms <= ?
		ORDER BY logged_at_ms, id`,
		from.UnixMilli(), to.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer closeQuietly(rows)

	events = make([]models.RawEvent, 0, 256)
	for rows.Next() {
		var (
			userID, ts, mapSize               sql.NullString
			level, tier, charge, tokens, luck sql.NullFloat64
		)
		if err := rows.Scan(&userID, &ts, &mapSize, &level, &tier, &charge, &tokens, &luck); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		events = append(events, models.RawEvent{
			UserID:       userID.String,
			Timestamp:    ts.String,
			MapSize:      mapSize.String,
			Level:        floatPtr(level),
			Tier:         floatPtr(tier),
			ChargeCost:   floatPtr(charge),
			TokensEarned: floatPtr(tokens),
			Luck:         floatPtr(luck),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return events, nil
}

// InsertRuns stores rows in a single transaction. Rows without an ID get a
// new UUID.
func (db *DB) InsertRuns(ctx context.Context, rows []RunRow) (err error) {
	if len(rows) == 0 {
		return nil
	}
	start := time.Now()
	defer func() { metrics.RecordDBQuery("insert_runs", db.driver, time.Since(start), err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_events (id, logged_at_ms, user_id, ts, map_size, level, tier, charge_cost, tokens_earned, luck)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer closeQuietly(stmt)

	for i := range rows {
		row := &rows[i]
		id := row.ID
		if id == "" {
			id = uuid.New().String()
		}
		ev := &row.Event
		if _, err = stmt.ExecContext(ctx,
			id, row.LoggedAt.UnixMilli(),
			nullString(ev.UserID), nullString(ev.Timestamp), nullString(ev.MapSize),
			nullFloat(ev.Level), nullFloat(ev.Tier), nullFloat(ev.ChargeCost),
			nullFloat(ev.TokensEarned), nullFloat(ev.Luck),
		); err != nil {
			return fmt.Errorf("failed to insert run %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit runs: %w", err)
	}
	return nil
}

// CountRuns returns the number of stored events.
func (db *DB) CountRuns(ctx context.Context) (n int, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("count_runs", db.driver, time.Since(start), err) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if err = db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM run_events").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return n, nil
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
