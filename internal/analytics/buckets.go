// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package analytics

import (
	"sort"
	"strconv"
	"time"

	"github.com/tomtom215/runstats/internal/models"
)

// bucket is the set of records sharing one value of a dimension.
type bucket []*models.RunRecord

// LevelTier identifies one level/tier cross-tab cell.
type LevelTier struct {
	Level int
	Tier  int
}

// less orders pairs by ascending level, then tier.
func (lt LevelTier) less(other LevelTier) bool {
	if lt.Level != other.Level {
		return lt.Level < other.Level
	}
	return lt.Tier < other.Tier
}

// ChargeRange is a half-open integer range [Min, Max). Open ranges have no
// upper bound.
type ChargeRange struct {
	Min  int
	Max  int
	Open bool
}

// Contains reports whether cost falls in the range.
func (r ChargeRange) Contains(cost int) bool {
	return cost >= r.Min && (r.Open || cost < r.Max)
}

// Label renders the range for dashboards: "5-9" or "20+".
func (r ChargeRange) Label() string {
	if r.Open {
		return strconv.Itoa(r.Min) + "+"
	}
	return strconv.Itoa(r.Min) + "-" + strconv.Itoa(r.Max-1)
}

// ChargeRanges expands validated boundaries into ranges; the last range is
// open-ended.
func ChargeRanges(boundaries []int) []ChargeRange {
	ranges := make([]ChargeRange, len(boundaries))
	for i, lo := range boundaries {
		if i == len(boundaries)-1 {
			ranges[i] = ChargeRange{Min: lo, Open: true}
			continue
		}
		ranges[i] = ChargeRange{Min: lo, Max: boundaries[i+1]}
	}
	return ranges
}

// bucketByMapSize partitions records by map size, indexed by enumeration
// ordinal.
func bucketByMapSize(records []models.RunRecord) []bucket {
	buckets := make([]bucket, len(models.MapSizes))
	for i := range records {
		idx := records[i].MapSize.Ordinal()
		buckets[idx] = append(buckets[idx], &records[i])
	}
	return buckets
}

// bucketByLevelTier partitions records by (level, tier) pair.
func bucketByLevelTier(records []models.RunRecord) map[LevelTier]bucket {
	buckets := make(map[LevelTier]bucket)
	for i := range records {
		key := LevelTier{Level: records[i].Level, Tier: records[i].Tier}
		buckets[key] = append(buckets[key], &records[i])
	}
	return buckets
}

// bucketByChargeRange partitions records into the given ranges. Ranges come
// from validated boundaries, so every valid charge cost has exactly one home.
func bucketByChargeRange(records []models.RunRecord, ranges []ChargeRange) []bucket {
	buckets := make([]bucket, len(ranges))
	for i := range records {
		cost := records[i].ChargeCost
		// First range whose successor starts above cost.
		idx := sort.Search(len(ranges), func(j int) bool {
			return ranges[j].Open || ranges[j].Max > cost
		})
		if idx == len(ranges) || !ranges[idx].Contains(cost) {
			continue
		}
		buckets[idx] = append(buckets[idx], &records[i])
	}
	return buckets
}

// bucketByHour folds every day of the window into 24 hour-of-day buckets
// using the reference timezone.
func bucketByHour(records []models.RunRecord, loc *time.Location) [24]bucket {
	var buckets [24]bucket
	for i := range records {
		h := records[i].Timestamp.In(loc).Hour()
		buckets[h] = append(buckets[h], &records[i])
	}
	return buckets
}

// filterWindow returns the records inside w, preserving order.
func filterWindow(records []models.RunRecord, w models.TimeWindow) []models.RunRecord {
	out := make([]models.RunRecord, 0, len(records))
	for i := range records {
		if w.Contains(records[i].Timestamp) {
			out = append(out, records[i])
		}
	}
	return out
}
