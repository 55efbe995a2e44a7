// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package analytics

import (
	"fmt"
	"time"

	"github.com/tomtom215/runstats/internal/models"
)

// Defaults used when a request leaves a field unset.
const (
	DefaultWindow       = 7 * 24 * time.Hour
	DefaultLookback     = 28 * 24 * time.Hour
	DefaultGrowthPeriod = 24 * time.Hour
	DefaultRegularMin   = 5
	DefaultRegularMax   = 20
	DefaultTimezone     = "UTC"
)

// Fixed recent-activity horizons.
const (
	horizon24h = 24 * time.Hour
	horizon7d  = 7 * 24 * time.Hour
	horizon30d = 30 * 24 * time.Hour
)

// DefaultChargeBoundaries yields [0,5) [5,10) [10,20) [20,inf).
var DefaultChargeBoundaries = []int{0, 5, 10, 20}

// minChargeCost is the smallest charge cost a valid record can carry.
const minChargeCost = 1

// DefaultBucketConfig returns the bucket configuration used by the dashboards.
func DefaultBucketConfig() models.BucketConfig {
	return models.BucketConfig{
		ChargeBoundaries: append([]int(nil), DefaultChargeBoundaries...),
		TopLevelTiers:    0,
		Timezone:         DefaultTimezone,
		RegularMin:       DefaultRegularMin,
		RegularMax:       DefaultRegularMax,
		GrowthPeriod:     DefaultGrowthPeriod,
	}
}

// ValidateBucketConfig checks cfg and resolves its timezone. Charge
// boundaries must be strictly increasing and start at or below the minimum
// charge cost so that every valid record lands in exactly one range.
func ValidateBucketConfig(cfg *models.BucketConfig) (*time.Location, error) {
	if len(cfg.ChargeBoundaries) == 0 {
		return nil, &ConfigurationError{Field: "chargeBoundaries", Reason: "must not be empty"}
	}
	if cfg.ChargeBoundaries[0] < 0 || cfg.ChargeBoundaries[0] > minChargeCost {
		return nil, &ConfigurationError{
			Field:  "chargeBoundaries",
			Reason: fmt.Sprintf("must start between 0 and %d, got %d", minChargeCost, cfg.ChargeBoundaries[0]),
		}
	}
	for i := 1; i < len(cfg.ChargeBoundaries); i++ {
		if cfg.ChargeBoundaries[i] <= cfg.ChargeBoundaries[i-1] {
			return nil, &ConfigurationError{
				Field:  "chargeBoundaries",
				Reason: fmt.Sprintf("must be strictly increasing (%d follows %d)", cfg.ChargeBoundaries[i], cfg.ChargeBoundaries[i-1]),
			}
		}
	}
	if cfg.TopLevelTiers < 0 {
		return nil, &ConfigurationError{Field: "topLevelTiers", Reason: "must not be negative"}
	}
	if cfg.RegularMin < 1 {
		return nil, &ConfigurationError{Field: "regularMin", Reason: "must be at least 1"}
	}
	if cfg.RegularMax < cfg.RegularMin {
		return nil, &ConfigurationError{Field: "regularMax", Reason: "must not be below regularMin"}
	}
	if cfg.GrowthPeriod <= 0 {
		return nil, &ConfigurationError{Field: "growthPeriod", Reason: "must be positive"}
	}

	tz := cfg.Timezone
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, &ConfigurationError{Field: "timezone", Reason: fmt.Sprintf("unknown zone %q", tz)}
	}
	return loc, nil
}

// ReportRequest identifies one report computation. Two requests with equal
// fields share a cache entry.
type ReportRequest struct {
	Window   time.Duration       `json:"window"`
	Lookback time.Duration       `json:"lookback"`
	Buckets  models.BucketConfig `json:"buckets"`
}

// Validate fails fast on a configuration that cannot produce a report.
func (r *ReportRequest) Validate() error {
	_, err := r.resolve()
	return err
}

// resolve validates the request and returns the hour-bucketing location.
func (r *ReportRequest) resolve() (*time.Location, error) {
	if r.Window <= 0 {
		return nil, &ConfigurationError{Field: "window", Reason: "must be positive"}
	}
	if r.Lookback <= 0 {
		return nil, &ConfigurationError{Field: "lookback", Reason: "must be positive"}
	}
	return ValidateBucketConfig(&r.Buckets)
}

// span returns how far back ingestion must reach to serve every section of
// the report.
func (r *ReportRequest) span() time.Duration {
	span := r.Window
	for _, d := range []time.Duration{r.Lookback, horizon30d, 2 * r.Buckets.GrowthPeriod} {
		if d > span {
			span = d
		}
	}
	return span
}
