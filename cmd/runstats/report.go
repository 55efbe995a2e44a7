// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomtom215/runstats/internal/analytics"
	"github.com/tomtom215/runstats/internal/render"
)

type reportOptions struct {
	window       string
	lookback     string
	top          int
	chargeBounds string
	timezone     string
	format       string
	chartHeight  int
}

func newReportCmd(root *rootOptions) *cobra.Command {
	opts := &reportOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Compute one usage report and print it",
		Example: `  runstats report
  runstats report --window 48h --top 5 --format json
  runstats report --charge-bounds 0,10,25 --timezone Europe/Berlin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := render.ParseFormat(opts.format)
			if err != nil {
				return err
			}

			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			req, err := opts.request(cfg.Analytics.ReportRequest(), cmd)
			if err != nil {
				return err
			}
			if err := req.Validate(); err != nil {
				return err
			}

			db, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore(db)

			report, err := newEngine(cfg, db).Generate(cmd.Context(), req)
			if err != nil {
				return err
			}

			renderOpts := render.DefaultOptions()
			renderOpts.ChartHeight = opts.chartHeight
			return render.Report(cmd.OutOrStdout(), report, format, renderOpts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.window, "window", "", "dimension statistics window, e.g. 7d or 48h (default from config)")
	f.StringVar(&opts.lookback, "lookback", "", "user segmentation lookback (default from config)")
	f.IntVar(&opts.top, "top", 0, "keep only the N busiest level/tier pairs, 0 keeps all")
	f.StringVar(&opts.chargeBounds, "charge-bounds", "", "comma-separated charge range lower bounds")
	f.StringVar(&opts.timezone, "timezone", "", "IANA zone for hour-of-day bucketing")
	f.StringVarP(&opts.format, "format", "o", string(render.FormatText), "output format: text or json")
	f.IntVar(&opts.chartHeight, "chart-height", render.DefaultOptions().ChartHeight, "rows of the hourly chart")

	return cmd
}

// request overlays the flags the user set on the configured defaults.
func (o *reportOptions) request(req analytics.ReportRequest, cmd *cobra.Command) (analytics.ReportRequest, error) {
	var err error
	if o.window != "" {
		if req.Window, err = analytics.ParseDuration(o.window); err != nil {
			return req, fmt.Errorf("--window: %w", err)
		}
	}
	if o.lookback != "" {
		if req.Lookback, err = analytics.ParseDuration(o.lookback); err != nil {
			return req, fmt.Errorf("--lookback: %w", err)
		}
	}
	if cmd.Flags().Changed("top") {
		req.Buckets.TopLevelTiers = o.top
	}
	if o.chargeBounds != "" {
		if req.Buckets.ChargeBoundaries, err = parseBounds(o.chargeBounds); err != nil {
			return req, fmt.Errorf("--charge-bounds: %w", err)
		}
	}
	if o.timezone != "" {
		req.Buckets.Timezone = o.timezone
	}
	return req, nil
}

func parseBounds(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	bounds := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", p)
		}
		bounds = append(bounds, n)
	}
	return bounds, nil
}
