// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

// Package render prints usage reports for terminals and scripts.
//
// JSON output is the same document the HTTP API returns in its data field.
// Text output lays each section out as a lipgloss table and draws the
// hour-of-day profile with asciigraph.
package render
