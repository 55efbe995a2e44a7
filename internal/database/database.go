// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package database

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // registers the "duckdb" driver
	_ "modernc.org/sqlite"             // registers the "sqlite" driver

	"github.com/tomtom215/runstats/internal/config"
	"github.com/tomtom215/runstats/internal/logging"
)

// Supported driver names.
const (
	DriverDuckDB = "duckdb"
	DriverSQLite = "sqlite"
)

const memoryPath = ":memory:"

// defaultQueryTimeout applies when the config leaves QueryTimeout unset.
const defaultQueryTimeout = 30 * time.Second

// DB wraps the event store connection.
type DB struct {
	conn   *sql.DB
	cfg    *config.DatabaseConfig
	driver string
}

// New opens the store described by cfg and creates the schema.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverDuckDB
	}

	if cfg.Path != memoryPath {
		dbDir := filepath.Dir(cfg.Path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
	}

	var connStr string
	switch driver {
	case DriverDuckDB:
		numThreads := cfg.Threads
		if numThreads <= 0 {
			numThreads = runtime.NumCPU()
		}
		maxMemory := cfg.MaxMemory
		if maxMemory == "" {
			maxMemory = "1GB"
		}
		// Extensions are not needed; disabling autoload avoids network
		// lookups in restricted environments.
		connStr = fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
			cfg.Path, numThreads, maxMemory)
	case DriverSQLite:
		connStr = cfg.Path
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	conn, err := sql.Open(driver, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{conn: conn, cfg: cfg, driver: driver}
	db.configureConnectionPool()

	ctx, cancel := db.ensureContext(context.Background())
	defer cancel()

	if err := conn.PingContext(ctx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.configure(ctx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}
	if err := db.createTables(ctx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	logging.Info().Str("driver", driver).Str("path", cfg.Path).Msg("Event store opened")
	return db, nil
}

// configureConnectionPool sizes the pool per driver. An in-memory SQLite
// database exists per connection, so it must stay on exactly one.
func (db *DB) configureConnectionPool() {
	if db.driver == DriverSQLite {
		if db.cfg.Path == memoryPath {
			db.conn.SetMaxOpenConns(1)
			db.conn.SetMaxIdleConns(1)
			db.conn.SetConnMaxLifetime(0)
			db.conn.SetConnMaxIdleTime(0)
			return
		}
		db.conn.SetMaxOpenConns(4)
		db.conn.SetMaxIdleConns(2)
		return
	}

	db.conn.SetMaxOpenConns(runtime.NumCPU())
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(time.Hour)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)
}

// configure applies driver pragmas.
func (db *DB) configure(ctx context.Context) error {
	if db.driver != DriverSQLite {
		return nil
	}
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	if db.cfg.Path != memoryPath {
		pragmas = append(pragmas, "PRAGMA journal_mode=WAL")
	}
	for _, pragma := range pragmas {
		if _, err := db.conn.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to execute %s: %w", pragma, err)
		}
	}
	return nil
}

// Driver returns the driver name the store was opened with.
func (db *DB) Driver() string {
	return db.driver
}

// Conn returns the underlying SQL database connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Ping verifies the store is reachable.
func (db *DB) Ping(ctx context.Context) error {
	if db.conn == nil {
		return fmt.Errorf("database connection is nil")
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	return db.conn.PingContext(ctx)
}

// Close checkpoints a DuckDB file and closes the connection pool.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	if db.driver == DriverDuckDB && db.cfg.Path != memoryPath {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if _, err := db.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
			logging.Warn().Err(err).Msg("Failed to checkpoint database before close")
		}
		cancel()
	}
	return db.conn.Close()
}

// ensureContext bounds ctx by the configured query timeout when the caller
// did not set a deadline.
func (db *DB) ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	timeout := db.cfg.QueryTimeout
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// closeQuietly closes a resource and explicitly ignores any error.
// Use this for cleanup in error paths where Close() errors are not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
