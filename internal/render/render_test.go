// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/runstats/internal/analytics"
	"github.com/tomtom215/runstats/internal/models"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func sampleReport() *models.Report {
	hours := make([]models.HourlyActivity, 24)
	for h := range hours {
		hours[h] = models.HourlyActivity{Hour: h}
	}
	hours[9].Runs = 4
	hours[20].Runs = 1234

	return &models.Report{
		AsOf:             testNow,
		Window:           models.TimeWindow{From: testNow.Add(-7 * 24 * time.Hour), To: testNow},
		LookbackWindow:   models.TimeWindow{From: testNow.Add(-28 * 24 * time.Hour), To: testNow},
		FetchedCount:     1500,
		ValidRecordCount: 1238,
		SkippedCount:     3,
		OutOfWindowCount: 259,
		SkipReasons:      map[string]int{"missing_user_id": 2, "invalid_map_size": 1},
		BucketConfig:     analytics.DefaultBucketConfig(),
		MapSizeStats: []models.MapSizeStat{
			{MapSize: models.MapSizeLarge, TotalRuns: 1200, AvgTokens: 50.5, AvgEfficiency: 5.05, TopLevel: 3, TopTier: 2, AvgCharge: 10},
			{MapSize: models.MapSizeSmall, TotalRuns: 38, AvgTokens: 20, AvgEfficiency: 4, TopLevel: 1, TopTier: 1, AvgCharge: 5},
		},
		LevelTierStats: []models.LevelTierStat{
			{Level: 3, Tier: 2, Runs: 1200, AvgTokens: 50.5, AvgEfficiency: 5.05, PopularMapSize: models.MapSizeLarge},
		},
		ChargeEfficiency: []models.ChargeEfficiencyBucket{
			{ChargeRange: "1-10", Runs: 38, AvgTokens: 20, AvgEfficiency: 4},
			{ChargeRange: "10+", Runs: 1200, AvgTokens: 50.5, AvgEfficiency: 5.05},
		},
		HourlyActivity:       hours,
		UserBehaviorPatterns: models.UserBehaviorPatterns{TotalUniqueUsers: 3, AvgRunsPerUser: 412.67, CasualUsers: 1, RegularUsers: 1, PowerUsers: 1},
		RecentActivity:       models.RecentActivity{Last24h: 10, Last7d: 1238, Last30d: 2000, GrowthRate: 12.5},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{" TEXT ", FormatText, false},
		{"yaml", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Report(&buf, sampleReport(), FormatJSON, DefaultOptions()); err != nil {
		t.Fatalf("Report(json) error = %v", err)
	}
	if !strings.HasSuffix(buf.String(), "}\n") {
		t.Errorf("output does not end with a newline")
	}

	var got models.Report
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if got.ValidRecordCount != 1238 || len(got.HourlyActivity) != 24 {
		t.Errorf("decoded report = %+v", got)
	}
}

func TestText(t *testing.T) {
	var buf bytes.Buffer
	if err := Report(&buf, sampleReport(), FormatText, Options{}); err != nil {
		t.Fatalf("Report(text) error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Usage report",
		"1,238 valid, 3 skipped, 259 outside window (1,500 fetched)",
		"missing_user_id",
		"Map sizes",
		"large",
		"1,200",
		"Level / tier",
		"Charge efficiency",
		"10+",
		"Hourly activity (UTC)",
		"runs by hour 00-23",
		"Users (last 28d)",
		"power (>",
		"growth (1d)",
		"12.50%",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output lacks %q\n%s", want, out)
		}
	}

	// Skip reasons are listed in name order.
	if strings.Index(out, "invalid_map_size") > strings.Index(out, "missing_user_id") {
		t.Error("skip reasons not sorted")
	}
}

func TestText_EmptyReport(t *testing.T) {
	r := &models.Report{AsOf: testNow, BucketConfig: analytics.DefaultBucketConfig()}

	var buf bytes.Buffer
	if err := Text(&buf, r, DefaultOptions()); err != nil {
		t.Fatalf("Text() error = %v", err)
	}
	if !strings.Contains(buf.String(), "no runs in window") {
		t.Errorf("empty report output:\n%s", buf.String())
	}
}

func TestHourlyChart(t *testing.T) {
	flat := make([]models.HourlyActivity, 24)
	for h := range flat {
		flat[h] = models.HourlyActivity{Hour: h, Runs: 2}
	}
	if got := HourlyChart(flat, DefaultOptions()); !strings.Contains(got, "flat profile") {
		t.Errorf("flat chart = %q", got)
	}

	zero := make([]models.HourlyActivity, 24)
	if got := HourlyChart(zero, DefaultOptions()); got != "no runs in window" {
		t.Errorf("zero chart = %q", got)
	}

	chart := HourlyChart(sampleReport().HourlyActivity, Options{ChartHeight: 5})
	lines := strings.Split(chart, "\n")
	// Five plot rows plus the axis row and the caption.
	if len(lines) < 6 {
		t.Errorf("chart has %d lines:\n%s", len(lines), chart)
	}
}
