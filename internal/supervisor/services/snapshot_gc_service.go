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

// DefaultSnapshotGCInterval is used when NewSnapshotGCService gets no
// interval.
const DefaultSnapshotGCInterval = 10 * time.Minute

// GarbageCollector reclaims storage space.
type GarbageCollector interface {
	RunGC() error
}

// SnapshotGCService runs value log GC on the report snapshot store.
type SnapshotGCService struct {
	gc       GarbageCollector
	interval time.Duration
	name     string
}

// NewSnapshotGCService creates a GC loop for gc.
func NewSnapshotGCService(gc GarbageCollector, interval time.Duration) *SnapshotGCService {
	if interval <= 0 {
		interval = DefaultSnapshotGCInterval
	}
	return &SnapshotGCService{
		gc:       gc,
		interval: interval,
		name:     "snapshot-gc",
	}
}

// Serve implements suture.Service. GC failures are logged, not returned,
// so a busy store does not restart the service.
func (s *SnapshotGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			if err := s.gc.RunGC(); err != nil {
				logging.Warn().Err(err).Msg("Snapshot GC failed")
				continue
			}
			logging.Debug().Dur("duration", time.Since(start)).Msg("Snapshot GC completed")
		}
	}
}

func (s *SnapshotGCService) String() string {
	return s.name
}
