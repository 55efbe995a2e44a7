// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package analytics

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/runstats/internal/models"
	"github.com/tomtom215/runstats/internal/validation"
)

// SkipReason classifies why a raw event was rejected.
type SkipReason string

// Skip reasons, in the order fields are checked.
const (
	SkipMissingUser     SkipReason = "missing_user_id"
	SkipBadTimestamp    SkipReason = "invalid_timestamp"
	SkipBadMapSize      SkipReason = "invalid_map_size"
	SkipBadLevel        SkipReason = "invalid_level"
	SkipBadTier         SkipReason = "invalid_tier"
	SkipBadChargeCost   SkipReason = "invalid_charge_cost"
	SkipBadTokensEarned SkipReason = "invalid_tokens_earned"
	SkipBadLuck         SkipReason = "invalid_luck"
)

// cancelCheckInterval is how many events are validated between context checks.
const cancelCheckInterval = 4096

// epochMillisThreshold separates epoch seconds from epoch milliseconds.
const epochMillisThreshold = 100_000_000_000

// timestampLayouts are tried in order after the epoch forms.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
}

// recordFields carries the range rules checked by the struct validator.
type recordFields struct {
	UserID       string  `validate:"required"`
	Level        float64 `validate:"min=1,max=5"`
	Tier         float64 `validate:"min=1,max=4"`
	ChargeCost   float64 `validate:"gt=0"`
	TokensEarned float64 `validate:"gte=0"`
	Luck         float64 `validate:"gte=0"`
}

var fieldReasons = map[string]SkipReason{
	"UserID":       SkipMissingUser,
	"Level":        SkipBadLevel,
	"Tier":         SkipBadTier,
	"ChargeCost":   SkipBadChargeCost,
	"TokensEarned": SkipBadTokensEarned,
	"Luck":         SkipBadLuck,
}

// Rejection is one rejected event. Timestamp is zero when the event's own
// timestamp could not be parsed.
type Rejection struct {
	Reason    SkipReason
	Timestamp time.Time
}

// ValidationResult is the outcome of validating a batch. Skipped and
// Reasons count every rejection in the batch.
type ValidationResult struct {
	Records  []models.RunRecord
	Rejected []Rejection
	Skipped  int
	Reasons  map[SkipReason]int
}

// ValidateRecord maps one raw event to a RunRecord. When the event is
// rejected it returns the first failing field's reason and false.
func ValidateRecord(raw *models.RawEvent) (models.RunRecord, SkipReason, bool) {
	userID := strings.TrimSpace(raw.UserID)
	if userID == "" {
		return models.RunRecord{}, SkipMissingUser, false
	}

	ts, ok := parseTimestamp(raw.Timestamp)
	if !ok {
		return models.RunRecord{}, SkipBadTimestamp, false
	}

	mapSize, ok := models.ParseMapSize(raw.MapSize)
	if !ok {
		return models.RunRecord{}, SkipBadMapSize, false
	}

	// Missing or non-finite numbers fail before the range rules.
	numbers := []struct {
		value  *float64
		reason SkipReason
	}{
		{raw.Level, SkipBadLevel},
		{raw.Tier, SkipBadTier},
		{raw.ChargeCost, SkipBadChargeCost},
		{raw.TokensEarned, SkipBadTokensEarned},
		{raw.Luck, SkipBadLuck},
	}
	for _, n := range numbers {
		if n.value == nil || math.IsNaN(*n.value) || math.IsInf(*n.value, 0) {
			return models.RunRecord{}, n.reason, false
		}
	}

	fields := recordFields{
		UserID:       userID,
		Level:        *raw.Level,
		Tier:         *raw.Tier,
		ChargeCost:   *raw.ChargeCost,
		TokensEarned: *raw.TokensEarned,
		Luck:         *raw.Luck,
	}
	if verr := validation.ValidateStruct(&fields); verr != nil {
		// Errors come back in struct field order.
		first := verr.Errors()[0]
		return models.RunRecord{}, fieldReasons[first.Field()], false
	}

	// Level, tier and charge are integers; fractional values are malformed.
	if !isWhole(fields.Level) {
		return models.RunRecord{}, SkipBadLevel, false
	}
	if !isWhole(fields.Tier) {
		return models.RunRecord{}, SkipBadTier, false
	}
	if !isWhole(fields.ChargeCost) || fields.ChargeCost > math.MaxInt32 {
		return models.RunRecord{}, SkipBadChargeCost, false
	}

	return models.RunRecord{
		UserID:       userID,
		Timestamp:    ts,
		MapSize:      mapSize,
		Level:        int(fields.Level),
		Tier:         int(fields.Tier),
		ChargeCost:   int(fields.ChargeCost),
		TokensEarned: fields.TokensEarned,
		Luck:         fields.Luck,
	}, "", true
}

// ValidateBatch validates every event, keeping input order for accepted
// records. Rejections never abort the batch. The context is checked
// periodically so a canceled request stops early; in that case the partial
// result is discarded and the context error returned.
func ValidateBatch(ctx context.Context, raws []models.RawEvent) (ValidationResult, error) {
	result := ValidationResult{
		Records: make([]models.RunRecord, 0, len(raws)),
		Reasons: make(map[SkipReason]int),
	}

	for i := range raws {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return ValidationResult{}, err
			}
		}

		rec, reason, ok := ValidateRecord(&raws[i])
		if !ok {
			ts, _ := parseTimestamp(raws[i].Timestamp)
			result.Rejected = append(result.Rejected, Rejection{Reason: reason, Timestamp: ts})
			result.Skipped++
			result.Reasons[reason]++
			continue
		}
		result.Records = append(result.Records, rec)
	}

	return result, nil
}

// parseTimestamp accepts epoch seconds, epoch milliseconds and the layouts
// in timestampLayouts. Zone-less layouts are read as UTC.
func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n <= 0 {
			return time.Time{}, false
		}
		if n >= epochMillisThreshold {
			return time.UnixMilli(n).UTC(), true
		}
		return time.Unix(n, 0).UTC(), true
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func isWhole(f float64) bool {
	return f == math.Trunc(f)
}
