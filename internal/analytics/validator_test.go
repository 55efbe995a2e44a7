// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package analytics

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/tomtom215/runstats/internal/models"
)

func TestValidateRecord_Accepts(t *testing.T) {
	t.Parallel()

	want := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	tests := []struct {
		name      string
		timestamp string
		mapSize   string
	}{
		{"rfc3339 utc", "2026-03-14T09:30:00Z", "large"},
		{"rfc3339 offset", "2026-03-14T11:30:00+02:00", "large"},
		{"space layout", "2026-03-14 09:30:00", "Large"},
		{"zone-less T layout", "2026-03-14T09:30:00", " LARGE "},
		{"epoch seconds", "1773480600", "large"},
		{"epoch millis", "1773480600000", "large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			raw := rawRun("u1", want, tt.mapSize, 3, 2, 10, 50)
			raw.Timestamp = tt.timestamp

			rec, reason, ok := ValidateRecord(&raw)
			if !ok {
				t.Fatalf("rejected with %q", reason)
			}
			if !rec.Timestamp.Equal(want) {
				t.Errorf("timestamp = %v, want %v", rec.Timestamp, want)
			}
			if rec.Timestamp.Location() != time.UTC {
				t.Errorf("timestamp location = %v, want UTC", rec.Timestamp.Location())
			}
			if rec.MapSize != models.MapSizeLarge {
				t.Errorf("map size = %q, want large", rec.MapSize)
			}
			if rec.Level != 3 || rec.Tier != 2 || rec.ChargeCost != 10 {
				t.Errorf("record = %+v", rec)
			}
			checkFloat(t, "efficiency", rec.Efficiency(), 5)
		})
	}
}

func TestValidateRecord_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*models.RawEvent)
		want   SkipReason
	}{
		{"blank user", func(r *models.RawEvent) { r.UserID = "   " }, SkipMissingUser},
		{"unparseable timestamp", func(r *models.RawEvent) { r.Timestamp = "yesterday" }, SkipBadTimestamp},
		{"empty timestamp", func(r *models.RawEvent) { r.Timestamp = "" }, SkipBadTimestamp},
		{"zero epoch", func(r *models.RawEvent) { r.Timestamp = "0" }, SkipBadTimestamp},
		{"unknown map size", func(r *models.RawEvent) { r.MapSize = "huge" }, SkipBadMapSize},
		{"level above range", func(r *models.RawEvent) { r.Level = f64(6) }, SkipBadLevel},
		{"level fractional", func(r *models.RawEvent) { r.Level = f64(2.5) }, SkipBadLevel},
		{"level missing", func(r *models.RawEvent) { r.Level = nil }, SkipBadLevel},
		{"tier zero", func(r *models.RawEvent) { r.Tier = f64(0) }, SkipBadTier},
		{"tier above range", func(r *models.RawEvent) { r.Tier = f64(5) }, SkipBadTier},
		{"charge zero", func(r *models.RawEvent) { r.ChargeCost = f64(0) }, SkipBadChargeCost},
		{"charge negative", func(r *models.RawEvent) { r.ChargeCost = f64(-3) }, SkipBadChargeCost},
		{"charge fractional", func(r *models.RawEvent) { r.ChargeCost = f64(1.5) }, SkipBadChargeCost},
		{"charge overflow", func(r *models.RawEvent) { r.ChargeCost = f64(math.MaxInt32 + 1.0) }, SkipBadChargeCost},
		{"tokens negative", func(r *models.RawEvent) { r.TokensEarned = f64(-1) }, SkipBadTokensEarned},
		{"tokens infinite", func(r *models.RawEvent) { r.TokensEarned = f64(math.Inf(1)) }, SkipBadTokensEarned},
		{"luck NaN", func(r *models.RawEvent) { r.Luck = f64(math.NaN()) }, SkipBadLuck},
		{"luck missing", func(r *models.RawEvent) { r.Luck = nil }, SkipBadLuck},
		{"first failing field wins", func(r *models.RawEvent) {
			r.Tier = f64(9)
			r.TokensEarned = f64(-1)
		}, SkipBadTier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			raw := rawRun("u1", testNow, "small", 1, 1, 5, 10)
			tt.mutate(&raw)

			_, reason, ok := ValidateRecord(&raw)
			if ok {
				t.Fatal("expected rejection")
			}
			if reason != tt.want {
				t.Errorf("reason = %q, want %q", reason, tt.want)
			}
		})
	}
}

func TestValidateRecord_ZeroTokensAccepted(t *testing.T) {
	t.Parallel()

	raw := rawRun("u1", testNow, "medium", 1, 1, 5, 0)
	rec, _, ok := ValidateRecord(&raw)
	if !ok {
		t.Fatal("zero tokens should be valid")
	}
	checkFloat(t, "efficiency", rec.Efficiency(), 0)
}

func TestValidateBatch(t *testing.T) {
	t.Parallel()

	raws := []models.RawEvent{
		rawRun("a", testNow, "small", 1, 1, 5, 10),
		rawRun("b", testNow, "small", 1, 1, 0, 10),
		rawRun("c", testNow, "nope", 1, 1, 5, 10),
		rawRun("d", testNow, "xlarge", 5, 4, 30, 90),
		rawRun("e", testNow, "small", 1, 1, 0, 10),
	}

	result, err := ValidateBatch(context.Background(), raws)
	if err != nil {
		t.Fatalf("ValidateBatch() error = %v", err)
	}
	checkInt(t, "records", len(result.Records), 2)
	checkInt(t, "skipped", result.Skipped, 3)
	checkInt(t, "charge skips", result.Reasons[SkipBadChargeCost], 2)
	checkInt(t, "map skips", result.Reasons[SkipBadMapSize], 1)

	if result.Records[0].UserID != "a" || result.Records[1].UserID != "d" {
		t.Errorf("input order not preserved: %v, %v", result.Records[0].UserID, result.Records[1].UserID)
	}
	if len(result.Records)+result.Skipped != len(raws) {
		t.Error("every raw event must be either accepted or skipped")
	}
	checkInt(t, "rejected", len(result.Rejected), 3)
	for _, rej := range result.Rejected {
		if !rej.Timestamp.Equal(testNow) {
			t.Errorf("rejection %s timestamp = %v, want %v", rej.Reason, rej.Timestamp, testNow)
		}
	}
}

func TestValidateBatch_RejectionWithoutTimestamp(t *testing.T) {
	t.Parallel()

	bad := rawRun("a", testNow, "small", 1, 1, 5, 10)
	bad.Timestamp = "yesterday"

	result, err := ValidateBatch(context.Background(), []models.RawEvent{bad})
	if err != nil {
		t.Fatalf("ValidateBatch() error = %v", err)
	}
	if len(result.Rejected) != 1 || result.Rejected[0].Reason != SkipBadTimestamp {
		t.Fatalf("rejected = %+v", result.Rejected)
	}
	if !result.Rejected[0].Timestamp.IsZero() {
		t.Errorf("timestamp = %v, want zero", result.Rejected[0].Timestamp)
	}
}

func TestValidateBatch_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	raws := []models.RawEvent{rawRun("a", testNow, "small", 1, 1, 5, 10)}
	result, err := ValidateBatch(ctx, raws)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(result.Records) != 0 || result.Skipped != 0 {
		t.Error("canceled batch must not return a partial result")
	}
}
