// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

// Package supervisor runs the long-lived parts of runstats under a suture v4
// supervisor tree.
//
// Layout:
//
//	runstats (root)
//	├── maintenance-layer   cache janitor, report warmer, snapshot GC
//	└── api-layer           HTTP server
//
// A crash in a maintenance service is restarted by its own supervisor and
// never takes the HTTP server down with it. Supervisor events are logged
// through sutureslog on top of the zerolog slog adapter.
package supervisor
