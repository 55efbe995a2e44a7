// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package analytics

import (
	"testing"
	"time"

	"github.com/tomtom215/runstats/internal/models"
)

func TestChargeRanges(t *testing.T) {
	t.Parallel()

	ranges := ChargeRanges(DefaultChargeBoundaries)
	want := []string{"0-4", "5-9", "10-19", "20+"}
	if len(ranges) != len(want) {
		t.Fatalf("got %d ranges, want %d", len(ranges), len(want))
	}
	for i, r := range ranges {
		if r.Label() != want[i] {
			t.Errorf("range %d label = %q, want %q", i, r.Label(), want[i])
		}
	}

	tests := []struct {
		cost int
		want int
	}{
		{1, 0}, {4, 0}, {5, 1}, {9, 1}, {10, 2}, {19, 2}, {20, 3}, {10_000, 3},
	}
	for _, tt := range tests {
		hits := 0
		for i, r := range ranges {
			if r.Contains(tt.cost) {
				hits++
				if i != tt.want {
					t.Errorf("cost %d landed in range %d, want %d", tt.cost, i, tt.want)
				}
			}
		}
		if hits != 1 {
			t.Errorf("cost %d matched %d ranges, want exactly 1", tt.cost, hits)
		}
	}
}

func TestBucketByChargeRange(t *testing.T) {
	t.Parallel()

	records := []models.RunRecord{
		run("a", testNow, models.MapSizeSmall, 1, 1, 1, 1),
		run("a", testNow, models.MapSizeSmall, 1, 1, 5, 1),
		run("a", testNow, models.MapSizeSmall, 1, 1, 19, 1),
		run("a", testNow, models.MapSizeSmall, 1, 1, 20, 1),
		run("a", testNow, models.MapSizeSmall, 1, 1, 500, 1),
	}
	buckets := bucketByChargeRange(records, ChargeRanges(DefaultChargeBoundaries))

	want := []int{1, 1, 1, 2}
	for i, b := range buckets {
		checkInt(t, ChargeRanges(DefaultChargeBoundaries)[i].Label(), len(b), want[i])
	}
}

func TestBucketByHour_Timezone(t *testing.T) {
	t.Parallel()

	// 23:30 UTC is 08:30 the next day in Tokyo.
	ts := time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC)
	records := []models.RunRecord{run("a", ts, models.MapSizeSmall, 1, 1, 5, 1)}

	utc := bucketByHour(records, time.UTC)
	if len(utc[23]) != 1 {
		t.Errorf("UTC: expected record in hour 23")
	}

	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skipf("tz database unavailable: %v", err)
	}
	local := bucketByHour(records, tokyo)
	if len(local[8]) != 1 {
		t.Errorf("Asia/Tokyo: expected record in hour 8")
	}
}

func TestBucketPartitions(t *testing.T) {
	t.Parallel()

	records := randomRuns(7, 2000, 50)

	total := 0
	for _, b := range bucketByMapSize(records) {
		total += len(b)
	}
	checkInt(t, "map size total", total, len(records))

	total = 0
	for _, b := range bucketByLevelTier(records) {
		total += len(b)
	}
	checkInt(t, "level tier total", total, len(records))

	total = 0
	for _, b := range bucketByChargeRange(records, ChargeRanges([]int{1, 3, 7, 15, 31})) {
		total += len(b)
	}
	checkInt(t, "charge total", total, len(records))

	total = 0
	hours := bucketByHour(records, time.UTC)
	for _, b := range hours {
		total += len(b)
	}
	checkInt(t, "hourly total", total, len(records))
}

func TestFilterWindow_Inclusive(t *testing.T) {
	t.Parallel()

	w := models.TimeWindow{From: testNow.Add(-time.Hour), To: testNow}
	records := []models.RunRecord{
		run("a", w.From, models.MapSizeSmall, 1, 1, 5, 1),
		run("b", w.To, models.MapSizeSmall, 1, 1, 5, 1),
		run("c", w.From.Add(-time.Nanosecond), models.MapSizeSmall, 1, 1, 5, 1),
		run("d", w.To.Add(time.Nanosecond), models.MapSizeSmall, 1, 1, 5, 1),
	}

	got := filterWindow(records, w)
	if len(got) != 2 || got[0].UserID != "a" || got[1].UserID != "b" {
		t.Errorf("filterWindow kept %+v, want a and b", got)
	}
}
