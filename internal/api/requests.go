// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/runstats/internal/analytics"
)

// maxReportSpan caps window and lookback so a single request cannot ask the
// event store for an unbounded scan.
const maxReportSpan = 366 * 24 * time.Hour

// UsageParams are the query parameters of the usage endpoints. Structural
// limits live in the validate tags; semantic checks (boundaries starting at
// 0 or 1, timezone) are left to analytics.ReportRequest.Validate.
type UsageParams struct {
	Window       string `query:"window"`
	Lookback     string `query:"lookback"`
	Top          *int   `query:"top" validate:"omitempty,gte=0,lte=20"`
	ChargeBounds []int  `query:"charge_bounds" validate:"omitempty,min=1,max=32,increasing,dive,gte=0"`
	AllowStale   *bool  `query:"allow_stale"`
}

// paramError reports a query parameter that could not be parsed.
type paramError struct {
	Param  string
	Reason string
}

func (e *paramError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Param, e.Reason)
}

func parseUsageParams(r *http.Request) (*UsageParams, error) {
	q := r.URL.Query()
	p := &UsageParams{
		Window:   strings.TrimSpace(q.Get("window")),
		Lookback: strings.TrimSpace(q.Get("lookback")),
	}

	if v := q.Get("top"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, &paramError{Param: "top", Reason: "must be an integer"}
		}
		p.Top = &n
	}

	if v := q.Get("charge_bounds"); v != "" {
		parts := strings.Split(v, ",")
		p.ChargeBounds = make([]int, 0, len(parts))
		for _, part := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return nil, &paramError{Param: "charge_bounds", Reason: "must be a comma-separated list of integers"}
			}
			p.ChargeBounds = append(p.ChargeBounds, n)
		}
	}

	if v := q.Get("allow_stale"); v != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return nil, &paramError{Param: "allow_stale", Reason: "must be a boolean"}
		}
		p.AllowStale = &b
	}

	return p, nil
}

// toReportRequest overlays the parameters on defaults. The defaults'
// boundary slice is never shared with the result.
func (p *UsageParams) toReportRequest(defaults analytics.ReportRequest) (analytics.ReportRequest, error) {
	req := defaults
	req.Buckets.ChargeBoundaries = append([]int(nil), defaults.Buckets.ChargeBoundaries...)

	var err error
	if p.Window != "" {
		if req.Window, err = parseSpan("window", p.Window); err != nil {
			return req, err
		}
	}
	if p.Lookback != "" {
		if req.Lookback, err = parseSpan("lookback", p.Lookback); err != nil {
			return req, err
		}
	}
	if p.Top != nil {
		req.Buckets.TopLevelTiers = *p.Top
	}
	if len(p.ChargeBounds) > 0 {
		req.Buckets.ChargeBoundaries = append([]int(nil), p.ChargeBounds...)
	}
	return req, nil
}

func parseSpan(param, value string) (time.Duration, error) {
	d, err := analytics.ParseDuration(value)
	if err != nil {
		return 0, &paramError{Param: param, Reason: err.Error()}
	}
	if d > maxReportSpan {
		return 0, &paramError{Param: param, Reason: "must not exceed " + analytics.FormatDuration(maxReportSpan)}
	}
	return d, nil
}
