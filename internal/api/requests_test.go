// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package api

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tomtom215/runstats/internal/analytics"
)

func TestParseUsageParams(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("GET", "/x?window=7d&lookback=%2036h%20&top=5&charge_bounds=1,%2010,20&allow_stale=1", nil)
	p, err := parseUsageParams(req)
	if err != nil {
		t.Fatalf("parseUsageParams() error = %v", err)
	}
	if p.Window != "7d" || p.Lookback != "36h" {
		t.Errorf("durations = %q, %q", p.Window, p.Lookback)
	}
	if p.Top == nil || *p.Top != 5 {
		t.Errorf("top = %v", p.Top)
	}
	if len(p.ChargeBounds) != 3 || p.ChargeBounds[1] != 10 {
		t.Errorf("charge_bounds = %v", p.ChargeBounds)
	}
	if p.AllowStale == nil || !*p.AllowStale {
		t.Errorf("allow_stale = %v", p.AllowStale)
	}
}

func TestParseUsageParams_Empty(t *testing.T) {
	t.Parallel()

	p, err := parseUsageParams(httptest.NewRequest("GET", "/x", nil))
	if err != nil {
		t.Fatalf("parseUsageParams() error = %v", err)
	}
	if p.Top != nil || p.AllowStale != nil || p.ChargeBounds != nil || p.Window != "" {
		t.Errorf("params = %+v, want zero", p)
	}
}

func TestParseUsageParams_Errors(t *testing.T) {
	t.Parallel()

	for _, q := range []string{"top=1.5", "charge_bounds=1,,2", "allow_stale=yes"} {
		_, err := parseUsageParams(httptest.NewRequest("GET", "/x?"+q, nil))
		var pe *paramError
		if !errors.As(err, &pe) {
			t.Errorf("%s: error = %v, want *paramError", q, err)
		}
	}
}

func TestToReportRequest_DoesNotAliasDefaults(t *testing.T) {
	t.Parallel()

	defaults := analytics.ReportRequest{
		Window:   analytics.DefaultWindow,
		Lookback: analytics.DefaultLookback,
		Buckets:  analytics.DefaultBucketConfig(),
	}
	orig := append([]int(nil), defaults.Buckets.ChargeBoundaries...)

	top := 3
	p := &UsageParams{Window: "2d", ChargeBounds: []int{0, 5}, Top: &top}
	req, err := p.toReportRequest(defaults)
	if err != nil {
		t.Fatalf("toReportRequest() error = %v", err)
	}
	if req.Window != 48*time.Hour || req.Lookback != analytics.DefaultLookback {
		t.Errorf("window/lookback = %v/%v", req.Window, req.Lookback)
	}
	if req.Buckets.TopLevelTiers != 3 {
		t.Errorf("top = %d", req.Buckets.TopLevelTiers)
	}
	req.Buckets.ChargeBoundaries[0] = 99
	p.ChargeBounds[1] = 77

	for i, v := range orig {
		if defaults.Buckets.ChargeBoundaries[i] != v {
			t.Fatalf("defaults mutated: %v", defaults.Buckets.ChargeBoundaries)
		}
	}
	if req.Buckets.ChargeBoundaries[1] != 5 {
		t.Errorf("request aliases params: %v", req.Buckets.ChargeBoundaries)
	}

	// Unchanged defaults: the boundary slice is still a copy.
	plain, _ := (&UsageParams{}).toReportRequest(defaults)
	plain.Buckets.ChargeBoundaries[0] = 42
	if defaults.Buckets.ChargeBoundaries[0] == 42 {
		t.Error("plain request aliases defaults")
	}
}

func TestToReportRequest_SpanLimit(t *testing.T) {
	t.Parallel()

	_, err := (&UsageParams{Lookback: "367d"}).toReportRequest(analytics.ReportRequest{})
	var pe *paramError
	if !errors.As(err, &pe) || pe.Param != "lookback" {
		t.Errorf("error = %v, want lookback paramError", err)
	}
	if _, err := (&UsageParams{Window: "366d"}).toReportRequest(analytics.ReportRequest{}); err != nil {
		t.Errorf("366d rejected: %v", err)
	}
}
