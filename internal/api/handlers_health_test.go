// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package api

import (
	"errors"
	"net/http"
	"testing"
)

func TestHealthLive(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/api/v1/health/live", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var data map[string]interface{}
	decodeData(t, decode(t, rec), &data)
	if data["alive"] != true {
		t.Errorf("alive = %v", data["alive"])
	}
	if env.src.calls.Load() != 0 {
		t.Error("liveness probe touched the event store")
	}
}

func TestHealthReady(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		store       Pinger
		breaker     BreakerStater
		wantStatus  int
		wantBreaker string
	}{
		{"store up, no breaker", stubPinger{}, nil, http.StatusOK, "disabled"},
		{"store up, breaker closed", stubPinger{}, stubBreaker("closed"), http.StatusOK, "closed"},
		{"store up, breaker half-open", stubPinger{}, stubBreaker("half-open"), http.StatusOK, "half-open"},
		{"store up, breaker open", stubPinger{}, stubBreaker("open"), http.StatusServiceUnavailable, "open"},
		{"store down", stubPinger{err: errors.New("gone")}, nil, http.StatusServiceUnavailable, "disabled"},
		{"no store", nil, nil, http.StatusServiceUnavailable, "disabled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t, nil)
			env.handler.store = tt.store
			if tt.breaker != nil {
				env.handler.SetBreaker(tt.breaker)
			}

			rec := env.do(t, http.MethodGet, "/api/v1/health/ready", nil)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			resp := decode(t, rec)
			if resp.Success != (tt.wantStatus == http.StatusOK) {
				t.Errorf("success = %v", resp.Success)
			}
			if tt.wantStatus != http.StatusOK && resp.Code != ErrCodeServiceUnavailable {
				t.Errorf("code = %q", resp.Code)
			}
			var data map[string]interface{}
			decodeData(t, resp, &data)
			if data["circuitBreaker"] != tt.wantBreaker {
				t.Errorf("circuitBreaker = %v, want %s", data["circuitBreaker"], tt.wantBreaker)
			}
		})
	}
}
