// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/runstats/internal/logging"
	"github.com/tomtom215/runstats/internal/models"
)

// breakerDisabled is reported when no circuit breaker wraps the store.
const breakerDisabled = "disabled"

// HealthLive handles the liveness probe. It never touches dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, map[string]interface{}{
		"alive":         true,
		"uptimeSeconds": time.Since(h.startTime).Seconds(),
	}, nil)
}

// HealthReady handles the readiness probe. The service is ready when the
// event store answers a ping and the circuit breaker is not open.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	var storeErr error
	if h.store == nil {
		storeErr = errors.New("no event store configured")
	} else {
		storeErr = h.store.Ping(ctx)
	}

	breakerState := breakerDisabled
	if h.breaker != nil {
		breakerState = h.breaker.State()
	}

	ready := storeErr == nil && breakerState != "open"
	data := map[string]interface{}{
		"ready":             ready,
		"databaseConnected": storeErr == nil,
		"circuitBreaker":    breakerState,
		"cachedReports":     h.reports.Len(),
		"uptimeSeconds":     time.Since(h.startTime).Seconds(),
	}

	if ready {
		respondSuccess(w, r, http.StatusOK, data, nil)
		return
	}

	if storeErr != nil {
		logging.Ctx(r.Context()).Warn().Err(storeErr).Msg("Readiness check failed")
	}
	respondJSON(w, http.StatusServiceUnavailable, &models.APIResponse{
		Success: false,
		Data:    data,
		Error:   "Service not ready",
		Code:    ErrCodeServiceUnavailable,
		Meta:    newMeta(r, time.Now()),
	})
}
