// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package analytics

import (
	"strconv"
	"testing"
	"time"

	"github.com/tomtom215/runstats/internal/models"
)

func runsFor(user string, n int, at time.Time) []models.RunRecord {
	out := make([]models.RunRecord, n)
	for i := range out {
		out[i] = run(user, at.Add(-time.Duration(i)*time.Minute), models.MapSizeSmall, 1, 1, 5, 10)
	}
	return out
}

func lookbackWindow(d time.Duration) models.TimeWindow {
	return models.TimeWindow{From: testNow.Add(-d), To: testNow}
}

func TestSegmentUsers_Thresholds(t *testing.T) {
	t.Parallel()

	var records []models.RunRecord
	for _, n := range []int{1, 4, 5, 20, 21, 40} {
		records = append(records, runsFor("u"+strconv.Itoa(n), n, testNow)...)
	}

	p := segmentUsers(records, lookbackWindow(DefaultLookback), DefaultRegularMin, DefaultRegularMax)
	checkInt(t, "total", p.TotalUniqueUsers, 6)
	checkInt(t, "casual", p.CasualUsers, 2)
	checkInt(t, "regular", p.RegularUsers, 2)
	checkInt(t, "power", p.PowerUsers, 2)
	checkFloat(t, "avgRunsPerUser", p.AvgRunsPerUser, float64(1+4+5+20+21+40)/6)
}

func TestSegmentUsers_AllPower(t *testing.T) {
	t.Parallel()

	var records []models.RunRecord
	for i := 0; i < 25; i++ {
		records = append(records, runsFor("power-"+strconv.Itoa(i), 21, testNow)...)
	}

	p := segmentUsers(records, lookbackWindow(DefaultLookback), DefaultRegularMin, DefaultRegularMax)
	checkInt(t, "power", p.PowerUsers, 25)
	checkInt(t, "casual", p.CasualUsers, 0)
	checkInt(t, "regular", p.RegularUsers, 0)
	checkInt(t, "total", p.TotalUniqueUsers, 25)
}

func TestSegmentUsers_LookbackOnly(t *testing.T) {
	t.Parallel()

	records := append(
		runsFor("recent", 3, testNow),
		runsFor("old", 30, testNow.Add(-40*24*time.Hour))...,
	)
	p := segmentUsers(records, lookbackWindow(DefaultLookback), DefaultRegularMin, DefaultRegularMax)
	checkInt(t, "total", p.TotalUniqueUsers, 1)
	checkInt(t, "casual", p.CasualUsers, 1)
	checkFloat(t, "avgRunsPerUser", p.AvgRunsPerUser, 3)
}

func TestSegmentUsers_Empty(t *testing.T) {
	t.Parallel()

	p := segmentUsers(nil, lookbackWindow(DefaultLookback), DefaultRegularMin, DefaultRegularMax)
	if p != (models.UserBehaviorPatterns{}) {
		t.Errorf("empty input = %+v, want zero value", p)
	}
}

func TestSegmentUsers_Partition(t *testing.T) {
	t.Parallel()

	for seed := int64(1); seed <= 5; seed++ {
		records := randomRuns(seed, 3000, 200)
		for _, bounds := range [][2]int{{5, 20}, {1, 1}, {3, 50}} {
			p := segmentUsers(records, lookbackWindow(DefaultLookback), bounds[0], bounds[1])
			if p.CasualUsers+p.RegularUsers+p.PowerUsers != p.TotalUniqueUsers {
				t.Errorf("seed %d bounds %v: %+v does not partition", seed, bounds, p)
			}
		}
	}
}
