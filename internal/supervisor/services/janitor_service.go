// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package services

import (
	"context"
	"time"

	"github.com/tomtom215/runstats/internal/logging"
)

// DefaultJanitorInterval is used when NewCacheJanitorService gets no
// interval.
const DefaultJanitorInterval = time.Minute

// Pruner drops expired entries and reports how many it removed.
type Pruner interface {
	Prune() int
}

// CacheJanitorService prunes the report cache on a fixed interval.
type CacheJanitorService struct {
	pruner   Pruner
	interval time.Duration
	name     string
}

// NewCacheJanitorService creates a janitor for pruner.
func NewCacheJanitorService(pruner Pruner, interval time.Duration) *CacheJanitorService {
	if interval <= 0 {
		interval = DefaultJanitorInterval
	}
	return &CacheJanitorService{
		pruner:   pruner,
		interval: interval,
		name:     "cache-janitor",
	}
}

// Serve implements suture.Service.
func (j *CacheJanitorService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n := j.pruner.Prune(); n > 0 {
				logging.Debug().Int("pruned", n).Msg("Pruned expired usage reports")
			}
		}
	}
}

func (j *CacheJanitorService) String() string {
	return j.name
}
