// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/runstats/internal/analytics"
	"github.com/tomtom215/runstats/internal/cache"
	"github.com/tomtom215/runstats/internal/logging"
	"github.com/tomtom215/runstats/internal/models"
	"github.com/tomtom215/runstats/internal/validation"
)

// reportSections maps the {section} path parameter to the report field it
// returns.
var reportSections = map[string]func(*models.Report) interface{}{
	"map-sizes":         func(r *models.Report) interface{} { return r.MapSizeStats },
	"level-tiers":       func(r *models.Report) interface{} { return r.LevelTierStats },
	"charge-efficiency": func(r *models.Report) interface{} { return r.ChargeEfficiency },
	"hourly":            func(r *models.Report) interface{} { return r.HourlyActivity },
	"users":             func(r *models.Report) interface{} { return r.UserBehaviorPatterns },
	"recent":            func(r *models.Report) interface{} { return r.RecentActivity },
}

// AnalyticsUsage returns the full usage report.
func (h *Handler) AnalyticsUsage(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	res, ok := h.usageReport(w, r)
	if !ok {
		return
	}
	respondSuccess(w, r, http.StatusOK, res.Report, resultMeta(r, start, res))
}

// AnalyticsUsageSection returns one section of the usage report.
func (h *Handler) AnalyticsUsageSection(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	section := chi.URLParam(r, "section")
	pick, known := reportSections[section]
	if !known {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Unknown report section: "+strconv.Quote(section), nil)
		return
	}

	res, ok := h.usageReport(w, r)
	if !ok {
		return
	}
	respondSuccess(w, r, http.StatusOK, pick(res.Report), resultMeta(r, start, res))
}

// usageReport parses, validates and resolves the request. On failure it has
// already written the error response and returns false.
func (h *Handler) usageReport(w http.ResponseWriter, r *http.Request) (cache.Result, bool) {
	params, err := parseUsageParams(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return cache.Result{}, false
	}
	if verr := validation.ValidateStruct(params); verr != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidationFailed, verr.Error(), nil)
		return cache.Result{}, false
	}

	req, err := params.toReportRequest(h.defaults)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return cache.Result{}, false
	}
	if err := req.Validate(); err != nil {
		h.respondReportError(w, r, err)
		return cache.Result{}, false
	}

	allowStale := h.serveStale
	if params.AllowStale != nil {
		allowStale = *params.AllowStale
	}

	res, err := h.Report(r.Context(), req, allowStale)
	if err != nil {
		h.respondReportError(w, r, err)
		return cache.Result{}, false
	}
	if res.Stale {
		logging.Ctx(r.Context()).Warn().
			Dur("age", res.Age).
			Msg("Serving stale usage report after failed recomputation")
	}
	if res.Cached || res.Stale {
		w.Header().Set("Age", strconv.Itoa(int(res.Age.Seconds())))
	}
	return res, true
}

func (h *Handler) respondReportError(w http.ResponseWriter, r *http.Request, err error) {
	var cfgErr *analytics.ConfigurationError
	switch {
	case errors.As(err, &cfgErr):
		respondError(w, r, http.StatusBadRequest, ErrCodeConfigInvalid, cfgErr.Error(), nil)
	case analytics.IsIngestionError(err):
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeIngestionFailed,
			"Run event store unavailable", err)
	default:
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal,
			"Failed to generate usage report", err)
	}
}

func resultMeta(r *http.Request, start time.Time, res cache.Result) *models.Metadata {
	meta := newMeta(r, start)
	meta.Cached = res.Cached
	meta.Stale = res.Stale
	return meta
}

// CacheStatsResponse is the payload of GET /api/v1/analytics/cache.
type CacheStatsResponse struct {
	Entries     int        `json:"entries"`
	Hits        int64      `json:"hits"`
	Misses      int64      `json:"misses"`
	StaleServed int64      `json:"staleServed"`
	Evictions   int64      `json:"evictions"`
	HitRate     float64    `json:"hitRate"`
	TTLSeconds  float64    `json:"ttlSeconds"`
	LastCleanup *time.Time `json:"lastCleanup,omitempty"`
}

// CacheStats reports the report cache counters.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	stats := h.reports.GetStats()
	resp := CacheStatsResponse{
		Entries:     stats.Entries,
		Hits:        stats.Hits,
		Misses:      stats.Misses,
		StaleServed: stats.StaleServed,
		Evictions:   stats.Evictions,
		HitRate:     h.reports.HitRate(),
		TTLSeconds:  h.reports.TTL().Seconds(),
	}
	if !stats.LastCleanup.IsZero() {
		lc := stats.LastCleanup
		resp.LastCleanup = &lc
	}
	respondSuccess(w, r, http.StatusOK, resp, newMeta(r, start))
}

// InvalidateCache drops every cached report. Computations already in flight
// finish but their results are discarded.
func (h *Handler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	n := h.reports.Invalidate()
	logging.Ctx(r.Context()).Info().Int("invalidated", n).Msg("Report cache invalidated")
	respondSuccess(w, r, http.StatusOK, map[string]int{"invalidated": n}, newMeta(r, start))
}
