// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package models

import (
	"strings"
	"time"
)

// MapSize is the game-defined size classifier of a farming map.
type MapSize string

// Map sizes in enumeration order. The order is used to break ties when
// picking the most popular map size.
const (
	MapSizeSmall  MapSize = "small"
	MapSizeMedium MapSize = "medium"
	MapSizeLarge  MapSize = "large"
	MapSizeXLarge MapSize = "xlarge"
)

// MapSizes lists every valid map size in enumeration order.
var MapSizes = []MapSize{MapSizeSmall, MapSizeMedium, MapSizeLarge, MapSizeXLarge}

// Level and tier bounds (inclusive).
const (
	MinLevel = 1
	MaxLevel = 5
	MinTier  = 1
	MaxTier  = 4
)

// Ordinal returns the position of the map size in MapSizes, or -1 if the
// value is not part of the enumeration.
func (m MapSize) Ordinal() int {
	for i, s := range MapSizes {
		if s == m {
			return i
		}
	}
	return -1
}

// Valid reports whether m is one of the enumerated map sizes.
func (m MapSize) Valid() bool {
	return m.Ordinal() >= 0
}

// ParseMapSize normalizes a free-form map size (case and surrounding
// whitespace are ignored).
func ParseMapSize(s string) (MapSize, bool) {
	m := MapSize(strings.ToLower(strings.TrimSpace(s)))
	return m, m.Valid()
}

// RunRecord is one validated farming run. Records are created by the
// validator and never mutated afterwards.
type RunRecord struct {
	UserID       string
	Timestamp    time.Time
	MapSize      MapSize
	Level        int
	Tier         int
	ChargeCost   int
	TokensEarned float64
	Luck         float64
}

// Efficiency returns tokens earned per unit of charge. ChargeCost is always
// positive for a validated record; the zero guard covers hand-built values.
func (r *RunRecord) Efficiency() float64 {
	if r.ChargeCost <= 0 {
		return 0
	}
	return r.TokensEarned / float64(r.ChargeCost)
}

// RawEvent is a run event as delivered by the event store, before
// validation. Upstream logging is free-form, so every field may be missing
// and numeric fields are kept as floats to detect fractional values.
//
// Timestamp accepts RFC3339, "2006-01-02 15:04:05" (UTC) or an epoch in
// seconds or milliseconds.
type RawEvent struct {
	UserID       string   `json:"userId"`
	Timestamp    string   `json:"timestamp"`
	MapSize      string   `json:"mapSize"`
	Level        *float64 `json:"level"`
	Tier         *float64 `json:"tier"`
	ChargeCost   *float64 `json:"chargeCost"`
	TokensEarned *float64 `json:"tokensEarned"`
	Luck         *float64 `json:"luck"`
}
