// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package snapshot

import (
	"errors"
	"time"
)

// Defaults applied by Open for zero Config fields.
const (
	DefaultTTL          = 33 * time.Minute
	DefaultGCRatio      = 0.5
	DefaultCloseTimeout = 10 * time.Second
)

// Config configures a Store.
type Config struct {
	// Path is the BadgerDB directory. Ignored when InMemory is set.
	Path string

	// TTL bounds how long a snapshot can be served after it was stored.
	TTL time.Duration

	// SyncWrites fsyncs every write.
	SyncWrites bool

	// InMemory keeps everything in memory. Tests only.
	InMemory bool

	GCRatio      float64
	CloseTimeout time.Duration
}

func (c *Config) withDefaults() {
	if c.TTL <= 0 {
		c.TTL = DefaultTTL
	}
	if c.GCRatio <= 0 || c.GCRatio >= 1 {
		c.GCRatio = DefaultGCRatio
	}
	if c.CloseTimeout <= 0 {
		c.CloseTimeout = DefaultCloseTimeout
	}
}

// Validate checks that the config can open a store.
func (c *Config) Validate() error {
	if !c.InMemory && c.Path == "" {
		return errors.New("snapshot path is required")
	}
	if c.TTL < 0 {
		return errors.New("snapshot TTL must not be negative")
	}
	return nil
}
