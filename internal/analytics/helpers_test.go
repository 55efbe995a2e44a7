// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package analytics

import (
	"math"
	"math/rand"
	"strconv"
	"testing"
	"time"

	"github.com/tomtom215/runstats/internal/models"
)

// testNow is the fixed clock reading shared by the package tests.
var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func f64(v float64) *float64 { return &v }

// rawRun builds a well-formed raw event logged at ts.
func rawRun(user string, ts time.Time, mapSize string, level, tier, charge int, tokens float64) models.RawEvent {
	return models.RawEvent{
		UserID:       user,
		Timestamp:    ts.Format(time.RFC3339),
		MapSize:      mapSize,
		Level:        f64(float64(level)),
		Tier:         f64(float64(tier)),
		ChargeCost:   f64(float64(charge)),
		TokensEarned: f64(tokens),
		Luck:         f64(1),
	}
}

// run builds a validated record directly.
func run(user string, ts time.Time, mapSize models.MapSize, level, tier, charge int, tokens float64) models.RunRecord {
	return models.RunRecord{
		UserID:       user,
		Timestamp:    ts,
		MapSize:      mapSize,
		Level:        level,
		Tier:         tier,
		ChargeCost:   charge,
		TokensEarned: tokens,
		Luck:         1,
	}
}

// randomRuns generates n valid records spread over the 30 days before
// testNow. The seed makes the set reproducible.
func randomRuns(seed int64, n, users int) []models.RunRecord {
	rng := rand.New(rand.NewSource(seed))
	records := make([]models.RunRecord, n)
	for i := range records {
		age := time.Duration(rng.Int63n(int64(30 * 24 * time.Hour)))
		records[i] = run(
			"user-"+strconv.Itoa(rng.Intn(users)),
			testNow.Add(-age),
			models.MapSizes[rng.Intn(len(models.MapSizes))],
			1+rng.Intn(models.MaxLevel),
			1+rng.Intn(models.MaxTier),
			1+rng.Intn(40),
			float64(rng.Intn(500))+rng.Float64(),
		)
	}
	return records
}

func defaultInput() AssembleInput {
	return AssembleInput{
		Now:      testNow,
		Window:   DefaultWindow,
		Lookback: DefaultLookback,
		Buckets:  DefaultBucketConfig(),
	}
}

func assemble(t *testing.T, records []models.RunRecord, in AssembleInput) *models.Report {
	t.Helper()
	report, err := Assemble(records, in)
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	return report
}

func checkFloat(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func checkInt(t *testing.T, name string, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %d, want %d", name, got, want)
	}
}
