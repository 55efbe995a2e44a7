// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

// Package logging wraps a process-wide zerolog logger.
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("addr", addr).Msg("Server starting")
//	logging.Ctx(ctx).Warn().Err(err).Msg("Run ingestion failed")
//
// Ctx adds the request and correlation IDs stored in the context, so
// handler and engine logs for one request can be joined. SlogHandler
// bridges log/slog consumers such as the supervisor tree onto the same
// logger.
package logging
