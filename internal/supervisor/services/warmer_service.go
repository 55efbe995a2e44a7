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

// Warmer computes the default report into the cache.
type Warmer interface {
	WarmDefaultReport(ctx context.Context) error
}

// ReportWarmerService keeps the default usage report hot. The first warm-up
// runs immediately. Failures are logged and retried on the next tick; they
// never stop the service.
type ReportWarmerService struct {
	warmer   Warmer
	interval time.Duration
	name     string
}

// DefaultWarmInterval is used when NewReportWarmerService gets no interval.
const DefaultWarmInterval = 2 * time.Minute

// NewReportWarmerService creates a warmer for the default report.
func NewReportWarmerService(warmer Warmer, interval time.Duration) *ReportWarmerService {
	if interval <= 0 {
		interval = DefaultWarmInterval
	}
	return &ReportWarmerService{
		warmer:   warmer,
		interval: interval,
		name:     "report-warmer",
	}
}

// Serve implements suture.Service.
func (s *ReportWarmerService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.warm(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *ReportWarmerService) warm(ctx context.Context) {
	start := time.Now()
	if err := s.warmer.WarmDefaultReport(ctx); err != nil {
		if ctx.Err() == nil {
			logging.Warn().Err(err).Msg("Report warm-up failed")
		}
		return
	}
	logging.Debug().Dur("duration", time.Since(start)).Msg("Default usage report warm")
}

func (s *ReportWarmerService) String() string {
	return s.name
}
