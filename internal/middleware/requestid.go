// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/tomtom215/runstats/internal/logging"
)

type contextKey string

// RequestIDKey is the context key holding the request ID.
const RequestIDKey contextKey = "request_id"

// RequestIDHeader is read from upstream proxies and echoed to clients.
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLength bounds IDs accepted from upstream.
const maxRequestIDLength = 64

// RequestID assigns each request an ID, echoes it in the response header
// and stores it in the context together with a fresh correlation ID so that
// logging.Ctx(ctx) tags every log line of the request.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if !validRequestID(requestID) {
			requestID = uuid.New().String()
		}

		w.Header().Set(RequestIDHeader, requestID)

		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		ctx = logging.ContextWithRequestID(ctx, requestID)
		ctx = logging.ContextWithCorrelationID(ctx, logging.GenerateCorrelationID())

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// validRequestID accepts short printable ASCII IDs so upstream values
// cannot inject control characters into logs.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
