// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

// Package analytics turns raw farming-run events into the usage report
// rendered by the admin dashboards.
//
// The pipeline is one-way and free of I/O past ingestion:
//
//	Source -> ValidateBatch -> Assemble -> *models.Report
//
// ValidateBatch maps loosely typed events to RunRecords and counts what it
// rejects. Assemble buckets the valid records by map size, level/tier, charge
// range and hour of day, segments users, computes recent-activity windows, and
// reduces everything into one immutable snapshot. Assemble is pure: the same
// records, configuration and "now" always produce byte-identical JSON.
//
// Engine wires a Source to the pipeline and applies the ingest timeout.
// Callers that poll (the HTTP API) put a cache.ReportCache in front of it.
package analytics
