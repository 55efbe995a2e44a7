// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package analytics

import (
	"math"
	"time"

	"github.com/tomtom215/runstats/internal/models"
)

// recentActivity counts records in the trailing 24h, 7d and 30d horizons
// ending at now and compares the latest growth period with the one before it.
func recentActivity(records []models.RunRecord, now time.Time, growthPeriod time.Duration) models.RecentActivity {
	var ra models.RecentActivity
	var current, previous int

	currentFrom := now.Add(-growthPeriod)
	previousFrom := now.Add(-2 * growthPeriod)

	for i := range records {
		ts := records[i].Timestamp
		if ts.After(now) {
			continue
		}
		age := now.Sub(ts)
		if age <= horizon24h {
			ra.Last24h++
		}
		if age <= horizon7d {
			ra.Last7d++
		}
		if age <= horizon30d {
			ra.Last30d++
		}

		// current is [now-p, now]; previous is [now-2p, now-p)
		switch {
		case !ts.Before(currentFrom):
			current++
		case !ts.Before(previousFrom):
			previous++
		}
	}
	ra.GrowthRate = GrowthRate(current, previous)
	return ra
}

// GrowthRate returns the percentage change from previous to current,
// rounded to two decimals. It is 0 when previous is 0.
func GrowthRate(current, previous int) float64 {
	if previous == 0 {
		return 0
	}
	rate := float64(current-previous) / float64(previous) * 100
	return math.Round(rate*100) / 100
}
