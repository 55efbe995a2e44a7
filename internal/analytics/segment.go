// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package analytics

import "github.com/tomtom215/runstats/internal/models"

// segmentUsers classifies the distinct users active in lookback by run
// count: casual below regularMin, regular within [regularMin, regularMax],
// power above regularMax. Every user lands in exactly one segment.
func segmentUsers(records []models.RunRecord, lookback models.TimeWindow, regularMin, regularMax int) models.UserBehaviorPatterns {
	perUser := make(map[string]int)
	total := 0
	for i := range records {
		if !lookback.Contains(records[i].Timestamp) {
			continue
		}
		perUser[records[i].UserID]++
		total++
	}

	var p models.UserBehaviorPatterns
	p.TotalUniqueUsers = len(perUser)
	p.AvgRunsPerUser = safeDiv(float64(total), float64(len(perUser)))
	for _, runs := range perUser {
		switch {
		case runs < regularMin:
			p.CasualUsers++
		case runs > regularMax:
			p.PowerUsers++
		default:
			p.RegularUsers++
		}
	}
	return p
}
