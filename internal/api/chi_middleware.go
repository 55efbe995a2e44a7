// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/tomtom215/runstats/internal/config"
	"github.com/tomtom215/runstats/internal/metrics"
)

// Health probes are limited separately from dashboard traffic.
const (
	healthRateLimitRequests = 1000
	healthRateLimitWindow   = time.Minute
)

// ChiMiddlewareConfig holds configuration for the Chi middleware factories.
type ChiMiddlewareConfig struct {
	CORSAllowedOrigins   []string
	CORSAllowedMethods   []string
	CORSAllowedHeaders   []string
	CORSExposedHeaders   []string
	CORSAllowCredentials bool
	CORSMaxAge           int // seconds

	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitDisabled bool
	RateLimitKeyFunc  httprate.KeyFunc
}

// DefaultChiMiddlewareConfig returns a configuration with no CORS origins.
func DefaultChiMiddlewareConfig() *ChiMiddlewareConfig {
	return &ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{},
		CORSAllowedMethods: []string{http.MethodGet, http.MethodDelete, http.MethodOptions},
		CORSAllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		CORSExposedHeaders: []string{"X-Request-ID", "ETag"},
		CORSMaxAge:         86400,

		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
	}
}

// ChiMiddlewareConfigFromSecurity maps the security section of the
// application config onto the middleware config.
func ChiMiddlewareConfigFromSecurity(sec *config.SecurityConfig) *ChiMiddlewareConfig {
	cfg := DefaultChiMiddlewareConfig()
	if sec == nil {
		return cfg
	}
	cfg.CORSAllowedOrigins = append([]string(nil), sec.CORSOrigins...)
	cfg.RateLimitRequests = sec.RateLimitReqs
	cfg.RateLimitWindow = sec.RateLimitWindow
	cfg.RateLimitDisabled = sec.RateLimitDisabled
	return cfg
}

// ChiMiddleware provides Chi-compatible middleware factories.
type ChiMiddleware struct {
	config *ChiMiddlewareConfig
	cors   func(http.Handler) http.Handler
}

// NewChiMiddleware creates the middleware factory. A nil config uses
// DefaultChiMiddlewareConfig.
func NewChiMiddleware(cfg *ChiMiddlewareConfig) *ChiMiddleware {
	if cfg == nil {
		cfg = DefaultChiMiddlewareConfig()
	}

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   cfg.CORSAllowedMethods,
		AllowedHeaders:   cfg.CORSAllowedHeaders,
		ExposedHeaders:   cfg.CORSExposedHeaders,
		AllowCredentials: cfg.CORSAllowCredentials,
		MaxAge:           cfg.CORSMaxAge,
	})

	return &ChiMiddleware{
		config: cfg,
		cors:   corsHandler,
	}
}

// CORS returns the go-chi/cors handler.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// RateLimit limits requests per client IP using the configured quota.
// Rejections are counted under endpoint.
func (m *ChiMiddleware) RateLimit(endpoint string) func(http.Handler) http.Handler {
	if m.config.RateLimitDisabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}
	return m.limit(endpoint, m.config.RateLimitRequests, m.config.RateLimitWindow)
}

// RateLimitHealth limits health probes with a fixed, high quota.
func (m *ChiMiddleware) RateLimitHealth() func(http.Handler) http.Handler {
	if m.config.RateLimitDisabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}
	return m.limit("health", healthRateLimitRequests, healthRateLimitWindow)
}

func (m *ChiMiddleware) limit(endpoint string, requests int, window time.Duration) func(http.Handler) http.Handler {
	keyFunc := m.config.RateLimitKeyFunc
	if keyFunc == nil {
		keyFunc = httprate.KeyByIP
	}

	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(keyFunc),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.APIRateLimitHits.WithLabelValues(endpoint).Inc()
			respondError(w, r, http.StatusTooManyRequests, ErrCodeTooManyRequests,
				"Rate limit exceeded, retry later", nil)
		}),
	)
}

// APISecurityHeaders sets the headers every JSON endpoint carries.
func APISecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "no-referrer")
			if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}
