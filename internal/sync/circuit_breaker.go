// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/runstats/internal/analytics"
	"github.com/tomtom215/runstats/internal/config"
	"github.com/tomtom215/runstats/internal/logging"
	"github.com/tomtom215/runstats/internal/metrics"
	"github.com/tomtom215/runstats/internal/models"
)

// DefaultBreakerName labels the event store breaker in logs and metrics.
const DefaultBreakerName = "event-store"

// CircuitBreakerSource wraps an analytics.Source with the circuit breaker pattern.
//
// The breaker uses real time for its interval and timeout; tests that need
// state transitions use short timeouts rather than a fake clock.
type CircuitBreakerSource struct {
	source analytics.Source
	cb     *gobreaker.CircuitBreaker[[]models.RawEvent]
	name   string
}

// NewCircuitBreakerSource creates a source guarded by a circuit breaker.
// The circuit opens once at least cfg.MinRequests reads were made in the
// current interval and the failure ratio reaches cfg.FailureRatio.
func NewCircuitBreakerSource(source analytics.Source, cfg *config.BreakerConfig) *CircuitBreakerSource {
	return newCircuitBreakerSource(DefaultBreakerName, source, cfg)
}

func newCircuitBreakerSource(name string, source analytics.Source, cfg *config.BreakerConfig) *CircuitBreakerSource {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0) // 0 = closed
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	minRequests := cfg.MinRequests
	ratio := cfg.FailureRatio

	cb := gobreaker.NewCircuitBreaker[[]models.RawEvent](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests, // concurrent probes in half-open state
		Interval:    cfg.Interval,    // reset counts while closed
		Timeout:     cfg.Timeout,     // open -> half-open

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= ratio
			if shouldTrip {
				logging.Warn().Str("breaker", name).Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &CircuitBreakerSource{source: source, cb: cb, name: name}
}

// FetchRuns reads events through the breaker. A rejected read wraps both
// analytics.ErrSourceUnavailable and the gobreaker error.
func (c *CircuitBreakerSource) FetchRuns(ctx context.Context, from, to time.Time) ([]models.RawEvent, error) {
	return c.execute(func() ([]models.RawEvent, error) {
		return c.source.FetchRuns(ctx, from, to)
	})
}

// State returns the breaker state as closed, half-open or open.
func (c *CircuitBreakerSource) State() string {
	return stateToString(c.cb.State())
}

// execute runs fn under breaker protection and records the outcome.
func (c *CircuitBreakerSource) execute(fn func() ([]models.RawEvent, error)) ([]models.RawEvent, error) {
	result, err := c.cb.Execute(fn)
	if err != nil {
		switch {
		case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
			metrics.CircuitBreakerRequests.WithLabelValues(c.name, "rejected").Inc()
			logging.Warn().Err(err).Str("breaker", c.name).Msg("[CIRCUIT BREAKER] Request rejected")
			return nil, fmt.Errorf("%w: %w", analytics.ErrSourceUnavailable, err)
		case errors.Is(err, context.Canceled):
			metrics.CircuitBreakerRequests.WithLabelValues(c.name, "canceled").Inc()
		default:
			metrics.CircuitBreakerRequests.WithLabelValues(c.name, "failure").Inc()
			counts := c.cb.Counts()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(c.name).Set(float64(counts.ConsecutiveFailures))
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(c.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(c.name).Set(0)
	return result, nil
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
