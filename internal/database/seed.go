// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package database

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/tomtom215/runstats/internal/logging"
	"github.com/tomtom215/runstats/internal/models"
)

// SeedOptions controls mock data generation.
type SeedOptions struct {
	Runs  int
	Users int
	Days  int
	Seed  int64
	Now   time.Time

	// MalformedEvery writes one malformed event per N runs; 0 disables.
	MalformedEvery int
}

// DefaultSeedOptions returns the demo dataset used for local dashboards.
func DefaultSeedOptions(now time.Time) SeedOptions {
	return SeedOptions{
		Runs:           2000,
		Users:          40,
		Days:           30,
		Seed:           1,
		Now:            now,
		MalformedEvery: 50,
	}
}

// hourWeights biases run start times towards evenings.
var hourWeights = [24]int{
	2, 1, 1, 1, 1, 1, 2, 3, 4, 4, 5, 5,
	6, 6, 5, 5, 6, 8, 10, 12, 12, 10, 7, 4,
}

var mapSizeWeights = []struct {
	size   models.MapSize
	weight int
}{
	{models.MapSizeSmall, 35},
	{models.MapSizeMedium, 35},
	{models.MapSizeLarge, 20},
	{models.MapSizeXLarge, 10},
}

// SeedMockData inserts deterministic mock runs. The same options always
// produce the same payloads. Intended for demos and local development.
func (db *DB) SeedMockData(ctx context.Context, opts SeedOptions) error {
	if opts.Runs <= 0 || opts.Users <= 0 || opts.Days <= 0 {
		return fmt.Errorf("seed options must be positive: runs=%d users=%d days=%d", opts.Runs, opts.Users, opts.Days)
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	logging.Info().Int("runs", opts.Runs).Int("users", opts.Users).Int("days", opts.Days).Msg("Seeding event store with mock runs...")

	rows := GenerateMockRuns(opts)
	const batchSize = 500
	for start := 0; start < len(rows); start += batchSize {
		end := min(start+batchSize, len(rows))
		if err := db.InsertRuns(ctx, rows[start:end]); err != nil {
			return fmt.Errorf("failed to seed runs %d-%d: %w", start, end, err)
		}
	}

	logging.Info().Int("count", len(rows)).Msg("Mock runs created")
	return nil
}

// GenerateMockRuns builds the rows SeedMockData writes. Users follow a
// skewed distribution so casual, regular and power segments all appear.
func GenerateMockRuns(opts SeedOptions) []RunRow {
	rng := rand.New(rand.NewSource(opts.Seed))
	users := make([]string, opts.Users)
	userWeights := make([]int, opts.Users)
	for i := range users {
		users[i] = fmt.Sprintf("farmer-%03d", i+1)
		userWeights[i] = int(math.Max(1, 100/float64(i+1)))
	}
	sizeWeights := make([]int, len(mapSizeWeights))
	for i, m := range mapSizeWeights {
		sizeWeights[i] = m.weight
	}
	start := opts.Now.Add(-time.Duration(opts.Days) * 24 * time.Hour)

	rows := make([]RunRow, 0, opts.Runs)
	for i := 0; i < opts.Runs; i++ {
		day := rng.Intn(opts.Days)
		hour := weightedIndex(rng, hourWeights[:])
		ts := start.Add(time.Duration(day)*24*time.Hour +
			time.Duration(hour)*time.Hour +
			time.Duration(rng.Intn(3600))*time.Second)
		if ts.After(opts.Now) {
			ts = opts.Now.Add(-time.Duration(rng.Intn(3600)) * time.Second)
		}

		level := 1 + rng.Intn(models.MaxLevel)
		tier := 1 + rng.Intn(models.MaxTier)
		mapIdx := weightedIndex(rng, sizeWeights)
		charge := 1 + rng.Intn(30)
		luck := 0.8 + rng.Float64()*0.7
		tokens := math.Round(float64(charge) * float64(level+tier) * (0.5 + rng.Float64()) * luck)

		ev := models.RawEvent{
			UserID:       users[weightedIndex(rng, userWeights)],
			Timestamp:    ts.UTC().Format(time.RFC3339),
			MapSize:      string(mapSizeWeights[mapIdx].size),
			Level:        f64(float64(level)),
			Tier:         f64(float64(tier)),
			ChargeCost:   f64(float64(charge)),
			TokensEarned: f64(tokens),
			Luck:         f64(math.Round(luck*100) / 100),
		}
		if opts.MalformedEvery > 0 && i%opts.MalformedEvery == opts.MalformedEvery-1 {
			corrupt(rng, &ev)
		}
		rows = append(rows, RunRow{LoggedAt: ts, Event: ev})
	}
	return rows
}

// corrupt damages one field of ev the way bad client payloads do.
func corrupt(rng *rand.Rand, ev *models.RawEvent) {
	switch rng.Intn(5) {
	case 0:
		ev.UserID = ""
	case 1:
		ev.MapSize = "huge"
	case 2:
		ev.ChargeCost = f64(0)
	case 3:
		ev.Timestamp = "yesterday"
	default:
		ev.Level = f64(float64(models.MaxLevel + 1))
	}
}

func weightedIndex(rng *rand.Rand, weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	r := rng.Intn(total)
	for i, w := range weights {
		if r < w {
			return i
		}
		r -= w
	}
	return len(weights) - 1
}

func f64(v float64) *float64 { return &v }
