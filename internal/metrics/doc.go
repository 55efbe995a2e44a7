// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

// Package metrics declares the Prometheus instruments exported on /metrics.
//
// Instruments are registered with the default registry through promauto at
// package init, so importing the package is enough to expose them.
package metrics
