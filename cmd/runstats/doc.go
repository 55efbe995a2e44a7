// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

// Command runstats serves and prints farming-run usage reports.
//
//	runstats serve                  HTTP API under a supervisor tree
//	runstats report --window 48h    compute one report and print it
//	runstats seed --runs 5000       insert deterministic mock runs
//
// Configuration is read from the environment, an optional .env file and an
// optional YAML file (see internal/config).
package main
