// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/runstats/internal/middleware"
)

// Router wires handlers and middleware into a chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a Router. A nil mw uses DefaultChiMiddlewareConfig.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw}
}

// SetupChi builds the HTTP handler.
//
// Global middleware order: request ID (so every later log line carries it),
// real IP (so rate limiting keys on the client), panic recovery, metrics,
// CORS.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()
	h := router.handler

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(router.chiMiddleware.CORS())

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusNotFound, ErrCodeNotFound, "Not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil)
	})

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	r.Route("/api/v1/analytics", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit("analytics"))
		r.Use(APISecurityHeaders())
		r.Use(middleware.Compression)

		r.Get("/usage", h.AnalyticsUsage)
		r.Get("/usage/{section}", h.AnalyticsUsageSection)
		r.Get("/cache", h.CacheStats)
		r.Delete("/cache", h.InvalidateCache)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
