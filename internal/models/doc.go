// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

/*
Package models defines the data structures shared across Runstats.

Key Components:

  - RawEvent: a run event as stored upstream, before validation
  - RunRecord: a validated, immutable farming run
  - Report: the analytics snapshot and its aggregate entities
  - APIResponse: the {success, data, error} envelope used by the HTTP API

Raw events only become RunRecords through the analytics validator; nothing
downstream of validation ever sees a RawEvent.
*/
package models
