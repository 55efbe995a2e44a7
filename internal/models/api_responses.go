// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package models

import (
	"time"
)

// APIResponse is the envelope shared by every dashboard endpoint.
//
// Example successful response:
//
//	{
//	  "success": true,
//	  "data": {"mapSizeStats": [...], "recentActivity": {...}},
//	  "meta": {"timestamp": "2026-03-01T12:00:00Z", "duration_ms": 4, "cached": true}
//	}
//
// Example error response:
//
//	{
//	  "success": false,
//	  "error": "event store unavailable",
//	  "code": "INGESTION_FAILED",
//	  "meta": {"timestamp": "2026-03-01T12:00:00Z"}
//	}
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
	Meta    *Metadata   `json:"meta,omitempty"`
}

// Metadata describes how a response was produced.
//
// Stale is true only when the caller opted into the fallback and the report
// came from the last good cache entry after a failed recomputation.
type Metadata struct {
	RequestID  string    `json:"request_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	DurationMS int64     `json:"duration_ms"`
	Cached     bool      `json:"cached,omitempty"`
	Stale      bool      `json:"stale,omitempty"`
}
