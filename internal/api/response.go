// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package api

import (
	"hash/fnv"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/runstats/internal/logging"
	"github.com/tomtom215/runstats/internal/models"
)

// Error codes returned in APIResponse.Code.
const (
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeConfigInvalid      = "CONFIG_INVALID"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"
	ErrCodeIngestionFailed    = "INGESTION_FAILED"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// respondJSON writes response with an ETag derived from the body.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", generateETag(data))
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag hashes data with FNV-1a.
func generateETag(data []byte) string {
	h := fnv.New32a()
	_, _ = h.Write(data)
	return `"` + strconv.FormatUint(uint64(h.Sum32()), 16) + `"`
}

func newMeta(r *http.Request, start time.Time) *models.Metadata {
	return &models.Metadata{
		RequestID:  logging.RequestIDFromContext(r.Context()),
		Timestamp:  time.Now().UTC(),
		DurationMS: time.Since(start).Milliseconds(),
	}
}

func respondSuccess(w http.ResponseWriter, r *http.Request, status int, data interface{}, meta *models.Metadata) {
	if meta == nil {
		meta = newMeta(r, time.Now())
	}
	respondJSON(w, status, &models.APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

// respondError writes an error envelope. err, when set, is logged but never
// sent to the client.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	if err != nil {
		event := logging.Ctx(r.Context()).Warn()
		if status >= http.StatusInternalServerError {
			event = logging.Ctx(r.Context()).Error()
		}
		event.Err(err).Str("code", code).Int("status", status).Msg("API error")
	}

	respondJSON(w, status, &models.APIResponse{
		Success: false,
		Error:   message,
		Code:    code,
		Meta:    newMeta(r, time.Now()),
	})
}
