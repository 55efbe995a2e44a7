// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package api

import (
	"context"
	"time"

	"github.com/tomtom215/runstats/internal/analytics"
	"github.com/tomtom215/runstats/internal/cache"
	"github.com/tomtom215/runstats/internal/config"
	"github.com/tomtom215/runstats/internal/models"
)

// readyTimeout bounds the event store ping of the readiness probe.
const readyTimeout = 2 * time.Second

// Pinger checks connectivity to the event store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BreakerStater exposes the circuit breaker state ("closed", "half-open"
// or "open").
type BreakerStater interface {
	State() string
}

// Handler serves the HTTP endpoints.
type Handler struct {
	engine     *analytics.Engine
	reports    *cache.ReportCache
	store      Pinger
	breaker    BreakerStater
	defaults   analytics.ReportRequest
	serveStale bool
	startTime  time.Time
}

// NewHandler creates a Handler. A nil cfg uses the analytics defaults.
func NewHandler(engine *analytics.Engine, reports *cache.ReportCache, store Pinger, cfg *config.AnalyticsConfig) *Handler {
	h := &Handler{
		engine:    engine,
		reports:   reports,
		store:     store,
		startTime: time.Now(),
		defaults: analytics.ReportRequest{
			Window:   analytics.DefaultWindow,
			Lookback: analytics.DefaultLookback,
			Buckets:  analytics.DefaultBucketConfig(),
		},
	}
	if cfg != nil {
		h.defaults = cfg.ReportRequest()
		h.serveStale = cfg.ServeStale
	}
	return h
}

// SetBreaker reports the breaker state in the readiness probe.
func (h *Handler) SetBreaker(b BreakerStater) {
	h.breaker = b
}

// Report returns the report for req through the cache. The computation runs
// detached from ctx so that one caller giving up does not fail the others
// waiting on the same key; the engine's ingest timeout still bounds it.
func (h *Handler) Report(ctx context.Context, req analytics.ReportRequest, allowStale bool) (cache.Result, error) {
	key := cache.GenerateKey("usage", req)
	return h.reports.Get(ctx, key, allowStale, func(ctx context.Context) (*models.Report, error) {
		return h.engine.Generate(context.WithoutCancel(ctx), req)
	})
}

// WarmDefaultReport computes the report for the configured defaults into
// the cache. A fresh cached report is left untouched.
func (h *Handler) WarmDefaultReport(ctx context.Context) error {
	_, err := h.Report(ctx, h.defaults, false)
	return err
}
