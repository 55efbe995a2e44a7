// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package analytics

import (
	"math"
	"sort"

	"github.com/tomtom215/runstats/internal/models"
)

// summary holds the per-bucket means shared by every dimension.
type summary struct {
	runs          int
	avgTokens     float64
	avgEfficiency float64
	avgCharge     float64
}

// summarize reduces a bucket to its count and means. An empty bucket yields
// all zeros. Means are accumulated incrementally so values near
// math.MaxFloat64 cannot overflow an intermediate sum.
func summarize(b bucket) summary {
	s := summary{runs: len(b)}
	for i, r := range b {
		n := float64(i + 1)
		s.avgTokens += (r.TokensEarned - s.avgTokens) / n
		s.avgEfficiency += (r.Efficiency() - s.avgEfficiency) / n
		s.avgCharge += (float64(r.ChargeCost) - s.avgCharge) / n
	}
	return s
}

// safeDiv divides and maps every non-finite outcome to 0.
func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	v := num / den
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// modeIndex returns the index with the highest count. Ties resolve to the
// lowest index; all-zero counts return -1.
func modeIndex(counts []int) int {
	best := -1
	for i, c := range counts {
		if c > 0 && (best < 0 || c > counts[best]) {
			best = i
		}
	}
	return best
}

func modeLevel(b bucket) int {
	counts := make([]int, models.MaxLevel+1)
	for _, r := range b {
		counts[r.Level]++
	}
	return max(modeIndex(counts), 0)
}

func modeTier(b bucket) int {
	counts := make([]int, models.MaxTier+1)
	for _, r := range b {
		counts[r.Tier]++
	}
	return max(modeIndex(counts), 0)
}

func modeMapSize(b bucket) models.MapSize {
	counts := make([]int, len(models.MapSizes))
	for _, r := range b {
		counts[r.MapSize.Ordinal()]++
	}
	idx := modeIndex(counts)
	if idx < 0 {
		return ""
	}
	return models.MapSizes[idx]
}

// aggregateMapSizes lists observed map sizes, busiest first; ties keep
// enumeration order.
func aggregateMapSizes(buckets []bucket) []models.MapSizeStat {
	stats := make([]models.MapSizeStat, 0, len(buckets))
	for i, b := range buckets {
		if len(b) == 0 {
			continue
		}
		s := summarize(b)
		stats = append(stats, models.MapSizeStat{
			MapSize:       models.MapSizes[i],
			TotalRuns:     s.runs,
			AvgTokens:     s.avgTokens,
			AvgEfficiency: s.avgEfficiency,
			TopLevel:      modeLevel(b),
			TopTier:       modeTier(b),
			AvgCharge:     s.avgCharge,
		})
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].TotalRuns > stats[j].TotalRuns
	})
	return stats
}

// aggregateLevelTiers lists observed pairs sorted by runs descending, ties
// by ascending (level, tier). topN > 0 keeps only the first topN pairs.
func aggregateLevelTiers(buckets map[LevelTier]bucket, topN int) []models.LevelTierStat {
	keys := make([]LevelTier, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })
	sort.SliceStable(keys, func(i, j int) bool {
		return len(buckets[keys[i]]) > len(buckets[keys[j]])
	})
	if topN > 0 && len(keys) > topN {
		keys = keys[:topN]
	}

	stats := make([]models.LevelTierStat, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		s := summarize(b)
		stats = append(stats, models.LevelTierStat{
			Level:          k.Level,
			Tier:           k.Tier,
			Runs:           s.runs,
			AvgTokens:      s.avgTokens,
			AvgEfficiency:  s.avgEfficiency,
			PopularMapSize: modeMapSize(b),
		})
	}
	return stats
}

// aggregateChargeRanges emits one entry per configured range, empty or not.
func aggregateChargeRanges(ranges []ChargeRange, buckets []bucket) []models.ChargeEfficiencyBucket {
	out := make([]models.ChargeEfficiencyBucket, len(ranges))
	for i, r := range ranges {
		s := summarize(buckets[i])
		out[i] = models.ChargeEfficiencyBucket{
			ChargeRange:   r.Label(),
			Runs:          s.runs,
			AvgTokens:     s.avgTokens,
			AvgEfficiency: s.avgEfficiency,
		}
	}
	return out
}

// aggregateHourly emits all 24 hours in order.
func aggregateHourly(buckets *[24]bucket) []models.HourlyActivity {
	out := make([]models.HourlyActivity, 24)
	for h := range buckets {
		s := summarize(buckets[h])
		out[h] = models.HourlyActivity{
			Hour:         h,
			Runs:         s.runs,
			AvgTokens:    s.avgTokens,
			PopularLevel: modeLevel(buckets[h]),
		}
	}
	return out
}
