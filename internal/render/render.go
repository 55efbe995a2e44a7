// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package render

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"
	"github.com/guptarohit/asciigraph"

	"github.com/tomtom215/runstats/internal/analytics"
	"github.com/tomtom215/runstats/internal/models"
)

// Format selects the output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// ParseFormat accepts "json" or "text", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatText:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want json or text)", s)
	}
}

// Options tunes text output.
type Options struct {
	// ChartHeight is the number of rows of the hourly chart.
	ChartHeight int
	// ChartWidth stretches the 24 hourly points; 0 plots one column per hour.
	ChartWidth int
}

// DefaultOptions returns the options used by the CLI.
func DefaultOptions() Options {
	return Options{ChartHeight: 10}
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).MarginTop(1)
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	numericStyle = cellStyle.Align(lipgloss.Right)
)

// Report writes r to w in the given format.
func Report(w io.Writer, r *models.Report, format Format, opts Options) error {
	switch format {
	case FormatJSON:
		return JSON(w, r)
	case FormatText:
		return Text(w, r, opts)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// JSON writes r as indented JSON followed by a newline.
func JSON(w io.Writer, r *models.Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// Text writes r as human-readable tables.
func Text(w io.Writer, r *models.Report, opts Options) error {
	if opts.ChartHeight <= 0 {
		opts.ChartHeight = DefaultOptions().ChartHeight
	}

	var b strings.Builder
	writeSummary(&b, r)
	writeSection(&b, "Map sizes", mapSizeTable(r.MapSizeStats))
	writeSection(&b, "Level / tier", levelTierTable(r.LevelTierStats))
	writeSection(&b, "Charge efficiency", chargeTable(r.ChargeEfficiency))
	writeSection(&b, "Hourly activity ("+r.BucketConfig.Timezone+")", HourlyChart(r.HourlyActivity, opts))
	writeSection(&b, "Users (last "+analytics.FormatDuration(r.LookbackWindow.To.Sub(r.LookbackWindow.From))+")",
		userTable(r.UserBehaviorPatterns, r.BucketConfig))
	writeSection(&b, "Recent activity", recentTable(r.RecentActivity, r.BucketConfig))

	_, err := io.WriteString(w, b.String())
	return err
}

func writeSummary(b *strings.Builder, r *models.Report) {
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Usage report"))
	b.WriteString("\n")
	fmt.Fprintf(b, "as of     %s\n", r.AsOf.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(b, "window    %s (%s to %s)\n",
		analytics.FormatDuration(r.Window.To.Sub(r.Window.From)),
		r.Window.From.Format("2006-01-02 15:04"), r.Window.To.Format("2006-01-02 15:04"))
	fmt.Fprintf(b, "records   %s valid, %s skipped, %s outside window (%s fetched)\n",
		humanize.Comma(int64(r.ValidRecordCount)), humanize.Comma(int64(r.SkippedCount)),
		humanize.Comma(int64(r.OutOfWindowCount)), humanize.Comma(int64(r.FetchedCount)))

	if len(r.SkipReasons) > 0 {
		reasons := make([]string, 0, len(r.SkipReasons))
		for reason := range r.SkipReasons {
			reasons = append(reasons, reason)
		}
		sort.Strings(reasons)
		for _, reason := range reasons {
			fmt.Fprintf(b, "          %-24s %s\n", reason, humanize.Comma(int64(r.SkipReasons[reason])))
		}
	}
}

func writeSection(b *strings.Builder, title, body string) {
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString("\n")
}

// newTable returns a bordered table; columns listed in numeric are right
// aligned.
func newTable(headers []string, numeric ...int) *table.Table {
	right := make(map[int]bool, len(numeric))
	for _, c := range numeric {
		right[c] = true
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case right[col]:
				return numericStyle
			default:
				return cellStyle
			}
		})
}

func mapSizeTable(stats []models.MapSizeStat) string {
	if len(stats) == 0 {
		return "no runs in window"
	}
	t := newTable([]string{"Size", "Runs", "Avg tokens", "Avg eff", "Top level", "Top tier", "Avg charge"}, 1, 2, 3, 4, 5, 6)
	for _, s := range stats {
		t.Row(string(s.MapSize), count(s.TotalRuns), f2(s.AvgTokens), f2(s.AvgEfficiency),
			strconv.Itoa(s.TopLevel), strconv.Itoa(s.TopTier), f2(s.AvgCharge))
	}
	return t.Render()
}

func levelTierTable(stats []models.LevelTierStat) string {
	if len(stats) == 0 {
		return "no runs in window"
	}
	t := newTable([]string{"Level", "Tier", "Runs", "Avg tokens", "Avg eff", "Popular size"}, 0, 1, 2, 3, 4)
	for _, s := range stats {
		t.Row(strconv.Itoa(s.Level), strconv.Itoa(s.Tier), count(s.Runs), f2(s.AvgTokens),
			f2(s.AvgEfficiency), string(s.PopularMapSize))
	}
	return t.Render()
}

func chargeTable(buckets []models.ChargeEfficiencyBucket) string {
	t := newTable([]string{"Charge", "Runs", "Avg tokens", "Avg eff"}, 1, 2, 3)
	for _, c := range buckets {
		t.Row(c.ChargeRange, count(c.Runs), f2(c.AvgTokens), f2(c.AvgEfficiency))
	}
	return t.Render()
}

func userTable(u models.UserBehaviorPatterns, cfg models.BucketConfig) string {
	t := newTable([]string{"Segment", "Users"}, 1)
	t.Row("total", count(u.TotalUniqueUsers))
	t.Row(fmt.Sprintf("casual (<%d runs)", cfg.RegularMin), count(u.CasualUsers))
	t.Row(fmt.Sprintf("regular (%d-%d runs)", cfg.RegularMin, cfg.RegularMax), count(u.RegularUsers))
	t.Row(fmt.Sprintf("power (>%d runs)", cfg.RegularMax), count(u.PowerUsers))
	t.Row("avg runs per user", f2(u.AvgRunsPerUser))
	return t.Render()
}

func recentTable(ra models.RecentActivity, cfg models.BucketConfig) string {
	t := newTable([]string{"Horizon", "Runs"}, 1)
	t.Row("last 24h", count(ra.Last24h))
	t.Row("last 7d", count(ra.Last7d))
	t.Row("last 30d", count(ra.Last30d))
	t.Row("growth ("+analytics.FormatDuration(cfg.GrowthPeriod)+")", strconv.FormatFloat(ra.GrowthRate, 'f', 2, 64)+"%")
	return t.Render()
}

// HourlyChart plots runs per hour of day.
func HourlyChart(hours []models.HourlyActivity, opts Options) string {
	if len(hours) == 0 {
		return "no runs in window"
	}

	series := make([]float64, len(hours))
	lo, hi := float64(hours[0].Runs), float64(hours[0].Runs)
	for i, h := range hours {
		v := float64(h.Runs)
		series[i] = v
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi == 0 {
		return "no runs in window"
	}
	if lo == hi {
		return fmt.Sprintf("flat profile: %s runs in every hour", count(int(hi)))
	}

	plotOpts := []asciigraph.Option{
		asciigraph.Height(opts.ChartHeight),
		asciigraph.Precision(0),
		asciigraph.Caption("runs by hour 00-23"),
	}
	if opts.ChartWidth > 0 {
		plotOpts = append(plotOpts, asciigraph.Width(opts.ChartWidth))
	}
	return asciigraph.Plot(series, plotOpts...)
}

func count(n int) string {
	return humanize.Comma(int64(n))
}

func f2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
