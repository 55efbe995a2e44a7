// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/tomtom215/runstats/internal/logging"
)

func captureIDs(t *testing.T, header string) (requestID, logRequestID, correlationID, responseID string) {
	t.Helper()
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = GetRequestID(r.Context())
		logRequestID = logging.RequestIDFromContext(r.Context())
		correlationID = logging.CorrelationIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if header != "" {
		req.Header.Set(RequestIDHeader, header)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return requestID, logRequestID, correlationID, rec.Header().Get(RequestIDHeader)
}

func TestRequestID_GeneratesNewID(t *testing.T) {
	id, logID, corrID, respID := captureIDs(t, "")

	if _, err := uuid.Parse(respID); err != nil {
		t.Errorf("Response X-Request-ID is not a valid UUID: %v", err)
	}
	if id != respID {
		t.Errorf("Context ID (%s) doesn't match response header ID (%s)", id, respID)
	}
	if logID != respID {
		t.Errorf("logging request ID = %q, want %q", logID, respID)
	}
	if corrID == "" {
		t.Error("Expected a correlation ID in the logging context")
	}
}

func TestRequestID_PreservesUpstreamID(t *testing.T) {
	const upstream = "proxy-abc-123"
	id, _, _, respID := captureIDs(t, upstream)

	if id != upstream || respID != upstream {
		t.Errorf("got context=%q header=%q, want upstream %q", id, respID, upstream)
	}
}

func TestRequestID_RejectsUnsafeUpstreamID(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"embedded space", "abc def"},
		{"too long", strings.Repeat("a", maxRequestIDLength+1)},
		{"non-ascii", "ïd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, respID := captureIDs(t, tt.header)
			if respID == tt.header {
				t.Errorf("unsafe upstream ID %q was accepted", tt.header)
			}
			if _, err := uuid.Parse(respID); err != nil {
				t.Errorf("replacement ID %q is not a UUID", respID)
			}
		})
	}
}

func TestRequestID_UniquePerRequest(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		_, _, _, respID := captureIDs(t, "")
		if seen[respID] {
			t.Fatalf("duplicate request ID %s", respID)
		}
		seen[respID] = true
	}
}

func TestGetRequestID_WithoutID(t *testing.T) {
	if id := GetRequestID(context.Background()); id != "" {
		t.Errorf("GetRequestID() = %q, want empty", id)
	}
	ctx := context.WithValue(context.Background(), RequestIDKey, 42)
	if id := GetRequestID(ctx); id != "" {
		t.Errorf("GetRequestID() with wrong type = %q, want empty", id)
	}
}
