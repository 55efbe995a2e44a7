// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package analytics

import (
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/runstats/internal/models"
)

// AssembleInput carries everything Assemble needs besides the records.
type AssembleInput struct {
	Now          time.Time
	Window       time.Duration
	Lookback     time.Duration
	Buckets      models.BucketConfig

	// Rejected lists the events the validator dropped from the same
	// fetch as the records.
	Rejected []Rejection
}

// Assemble builds a Report from validated records. It performs no I/O and
// does not read the clock, so equal inputs produce equal reports.
//
// Dimension statistics cover records inside [Now-Window, Now]; user
// segmentation covers [Now-Lookback, Now]; recent activity looks at every
// record up to Now.
//
// Every input event lands in exactly one of ValidRecordCount, SkippedCount
// and OutOfWindowCount. A rejected event counts as skipped when its
// timestamp falls inside the window or cannot be parsed.
func Assemble(records []models.RunRecord, in AssembleInput) (*models.Report, error) {
	req := ReportRequest{Window: in.Window, Lookback: in.Lookback, Buckets: in.Buckets}
	loc, err := req.resolve()
	if err != nil {
		return nil, err
	}

	now := in.Now.UTC()
	window := models.TimeWindow{From: now.Add(-in.Window), To: now}
	lookback := models.TimeWindow{From: now.Add(-in.Lookback), To: now}
	inWindow := filterWindow(records, window)
	ranges := ChargeRanges(in.Buckets.ChargeBoundaries)

	report := &models.Report{
		AsOf:             now,
		Window:           window,
		LookbackWindow:   lookback,
		FetchedCount:     len(records) + len(in.Rejected),
		ValidRecordCount: len(inWindow),
		OutOfWindowCount: len(records) - len(inWindow),
		SkipReasons:      make(map[string]int),
		BucketConfig:     copyBucketConfig(in.Buckets),
	}
	for _, rej := range in.Rejected {
		if !rej.Timestamp.IsZero() && !window.Contains(rej.Timestamp) {
			report.OutOfWindowCount++
			continue
		}
		report.SkippedCount++
		report.SkipReasons[string(rej.Reason)]++
	}

	// Each goroutine owns one report field.
	var g errgroup.Group
	g.Go(func() error {
		report.MapSizeStats = aggregateMapSizes(bucketByMapSize(inWindow))
		return nil
	})
	g.Go(func() error {
		report.LevelTierStats = aggregateLevelTiers(bucketByLevelTier(inWindow), in.Buckets.TopLevelTiers)
		return nil
	})
	g.Go(func() error {
		report.ChargeEfficiency = aggregateChargeRanges(ranges, bucketByChargeRange(inWindow, ranges))
		return nil
	})
	g.Go(func() error {
		hours := bucketByHour(inWindow, loc)
		report.HourlyActivity = aggregateHourly(&hours)
		return nil
	})
	g.Go(func() error {
		report.UserBehaviorPatterns = segmentUsers(records, lookback, in.Buckets.RegularMin, in.Buckets.RegularMax)
		return nil
	})
	g.Go(func() error {
		report.RecentActivity = recentActivity(records, now, in.Buckets.GrowthPeriod)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}

func copyBucketConfig(cfg models.BucketConfig) models.BucketConfig {
	out := cfg
	out.ChargeBoundaries = append([]int(nil), cfg.ChargeBoundaries...)
	if out.Timezone == "" {
		out.Timezone = DefaultTimezone
	}
	return out
}
