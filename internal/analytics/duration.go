// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package analytics

import (
	"time"

	"github.com/tomtom215/runstats/internal/models"
)

// ParseDuration parses a report window. It accepts whole days ("7d",
// "28d") in addition to anything time.ParseDuration accepts ("48h",
// "90m"). The result must be positive.
func ParseDuration(s string) (time.Duration, error) {
	return models.ParseDuration(s)
}

// FormatDuration renders d in the form ParseDuration reads back, preferring
// whole days.
func FormatDuration(d time.Duration) string {
	return models.FormatDuration(d)
}
