// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package models

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// MapSizeStat summarizes runs played on one map size.
type MapSizeStat struct {
	MapSize       MapSize `json:"mapSize"`
	TotalRuns     int     `json:"totalRuns"`
	AvgTokens     float64 `json:"avgTokens"`
	AvgEfficiency float64 `json:"avgEfficiency"`
	TopLevel      int     `json:"topLevel"`
	TopTier       int     `json:"topTier"`
	AvgCharge     float64 `json:"avgCharge"`
}

// LevelTierStat summarizes runs for one (level, tier) pair.
type LevelTierStat struct {
	Level          int     `json:"level"`
	Tier           int     `json:"tier"`
	Runs           int     `json:"runs"`
	AvgTokens      float64 `json:"avgTokens"`
	AvgEfficiency  float64 `json:"avgEfficiency"`
	PopularMapSize MapSize `json:"popularMapSize"`
}

// ChargeEfficiencyBucket summarizes runs whose charge cost falls in one
// half-open range.
type ChargeEfficiencyBucket struct {
	ChargeRange   string  `json:"chargeRange"`
	Runs          int     `json:"runs"`
	AvgTokens     float64 `json:"avgTokens"`
	AvgEfficiency float64 `json:"avgEfficiency"`
}

// HourlyActivity is one hour-of-day slot of the activity profile. All days
// in the window fold into the same 24 slots.
type HourlyActivity struct {
	Hour         int     `json:"hour"`
	Runs         int     `json:"runs"`
	AvgTokens    float64 `json:"avgTokens"`
	PopularLevel int     `json:"popularLevel"`
}

// UserBehaviorPatterns segments distinct users by run count.
// CasualUsers + RegularUsers + PowerUsers always equals TotalUniqueUsers.
type UserBehaviorPatterns struct {
	TotalUniqueUsers int     `json:"totalUniqueUsers"`
	AvgRunsPerUser   float64 `json:"avgRunsPerUser"`
	CasualUsers      int     `json:"casualUsers"`
	RegularUsers     int     `json:"regularUsers"`
	PowerUsers       int     `json:"powerUsers"`
}

// RecentActivity holds fixed-horizon run counts and period-over-period growth.
type RecentActivity struct {
	Last24h    int     `json:"last24h"`
	Last7d     int     `json:"last7d"`
	Last30d    int     `json:"last30d"`
	GrowthRate float64 `json:"growthRate"`
}

// TimeWindow is a closed time range [From, To].
type TimeWindow struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains reports whether t falls within the window, bounds included.
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.From) && !t.After(w.To)
}

// BucketConfig is the effective bucketing configuration of a report.
// It is echoed back in every report so the computation can be reproduced.
type BucketConfig struct {
	// ChargeBoundaries are strictly increasing lower bounds of the charge
	// ranges; the last range is open-ended.
	ChargeBoundaries []int `json:"chargeBoundaries"`

	// TopLevelTiers limits levelTierStats to the N busiest pairs; 0 keeps all.
	TopLevelTiers int `json:"topLevelTiers"`

	// Timezone is the IANA zone used for hour-of-day bucketing.
	Timezone string `json:"timezone"`

	// RegularMin and RegularMax bound the "regular" user segment (inclusive).
	RegularMin int `json:"regularMin"`
	RegularMax int `json:"regularMax"`

	// GrowthPeriod is the length of the periods compared by growthRate.
	// It is encoded as a FormatDuration string ("1d", "12h0m0s").
	GrowthPeriod time.Duration `json:"-"`
}

// bucketConfigJSON is the wire form of BucketConfig.
type bucketConfigJSON struct {
	ChargeBoundaries []int  `json:"chargeBoundaries"`
	TopLevelTiers    int    `json:"topLevelTiers"`
	Timezone         string `json:"timezone"`
	RegularMin       int    `json:"regularMin"`
	RegularMax       int    `json:"regularMax"`
	GrowthPeriod     string `json:"growthPeriod"`
}

// MarshalJSON implements json.Marshaler.
func (c BucketConfig) MarshalJSON() ([]byte, error) {
	out := bucketConfigJSON{
		ChargeBoundaries: c.ChargeBoundaries,
		TopLevelTiers:    c.TopLevelTiers,
		Timezone:         c.Timezone,
		RegularMin:       c.RegularMin,
		RegularMax:       c.RegularMax,
	}
	if c.GrowthPeriod > 0 {
		out.GrowthPeriod = FormatDuration(c.GrowthPeriod)
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler. An empty growthPeriod decodes
// to zero.
func (c *BucketConfig) UnmarshalJSON(data []byte) error {
	var in bucketConfigJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*c = BucketConfig{
		ChargeBoundaries: in.ChargeBoundaries,
		TopLevelTiers:    in.TopLevelTiers,
		Timezone:         in.Timezone,
		RegularMin:       in.RegularMin,
		RegularMax:       in.RegularMax,
	}
	if in.GrowthPeriod != "" {
		d, err := ParseDuration(in.GrowthPeriod)
		if err != nil {
			return fmt.Errorf("growthPeriod: %w", err)
		}
		c.GrowthPeriod = d
	}
	return nil
}

// Report is the immutable analytics snapshot handed to dashboards.
type Report struct {
	AsOf             time.Time      `json:"asOf"`
	Window           TimeWindow     `json:"window"`
	LookbackWindow   TimeWindow     `json:"lookbackWindow"`
	FetchedCount     int            `json:"fetchedCount"`
	ValidRecordCount int            `json:"validRecordCount"`
	SkippedCount     int            `json:"skippedCount"`
	OutOfWindowCount int            `json:"outOfWindowCount"`
	SkipReasons      map[string]int `json:"skipReasons"`
	BucketConfig     BucketConfig   `json:"bucketConfig"`

	MapSizeStats         []MapSizeStat            `json:"mapSizeStats"`
	LevelTierStats       []LevelTierStat          `json:"levelTierStats"`
	ChargeEfficiency     []ChargeEfficiencyBucket `json:"chargeEfficiency"`
	HourlyActivity       []HourlyActivity         `json:"hourlyActivity"`
	UserBehaviorPatterns UserBehaviorPatterns     `json:"userBehaviorPatterns"`
	RecentActivity       RecentActivity           `json:"recentActivity"`
}
