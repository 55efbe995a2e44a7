// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/runstats/internal/analytics"
	"github.com/tomtom215/runstats/internal/config"
	"github.com/tomtom215/runstats/internal/metrics"
	"github.com/tomtom215/runstats/internal/models"
)

var errStoreDown = errors.New("simulated store failure")

// scriptedSource returns err for every call while fail is set.
type scriptedSource struct {
	fail  bool
	err   error
	calls int
}

func (s *scriptedSource) FetchRuns(ctx context.Context, _, _ time.Time) ([]models.RawEvent, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if s.fail {
		return nil, errStoreDown
	}
	return []models.RawEvent{{UserID: "u1"}}, nil
}

func testBreakerConfig(timeout time.Duration) *config.BreakerConfig {
	return &config.BreakerConfig{
		Enabled:      true,
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      timeout,
		MinRequests:  10,
		FailureRatio: 0.6,
	}
}

func fetch(c *CircuitBreakerSource) error {
	_, err := c.FetchRuns(context.Background(), time.Time{}, time.Now())
	return err
}

func TestCircuitBreaker_PassesThrough(t *testing.T) {
	src := &scriptedSource{}
	cbs := newCircuitBreakerSource(t.Name(), src, testBreakerConfig(time.Minute))

	events, err := cbs.FetchRuns(context.Background(), time.Time{}, time.Now())
	if err != nil {
		t.Fatalf("FetchRuns() error: %v", err)
	}
	if len(events) != 1 || events[0].UserID != "u1" {
		t.Errorf("FetchRuns() = %+v, want the wrapped source's events", events)
	}
	if got := testutil.ToFloat64(metrics.CircuitBreakerRequests.WithLabelValues(t.Name(), "success")); got != 1 {
		t.Errorf("success requests = %v, want 1", got)
	}
}

func TestCircuitBreaker_OpensAfterFailures(t *testing.T) {
	src := &scriptedSource{fail: true}
	cbs := newCircuitBreakerSource(t.Name(), src, testBreakerConfig(time.Minute))

	for i := 0; i < 10; i++ {
		if err := fetch(cbs); !errors.Is(err, errStoreDown) {
			t.Fatalf("call %d error = %v, want the source error", i, err)
		}
	}
	if cbs.State() != "open" {
		t.Fatalf("State() = %q, want open after 10 failures", cbs.State())
	}

	err := fetch(cbs)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("error = %v, want ErrOpenState", err)
	}
	if !errors.Is(err, analytics.ErrSourceUnavailable) {
		t.Errorf("error = %v, want ErrSourceUnavailable", err)
	}
	if src.calls != 10 {
		t.Errorf("source calls = %d, rejected request must not reach the store", src.calls)
	}

	if got := testutil.ToFloat64(metrics.CircuitBreakerState.WithLabelValues(t.Name())); got != 2 {
		t.Errorf("state gauge = %v, want 2 (open)", got)
	}
	if got := testutil.ToFloat64(metrics.CircuitBreakerRequests.WithLabelValues(t.Name(), "rejected")); got != 1 {
		t.Errorf("rejected requests = %v, want 1", got)
	}
}

func TestCircuitBreaker_DoesNotOpenBelowThreshold(t *testing.T) {
	src := &scriptedSource{}
	cbs := newCircuitBreakerSource(t.Name(), src, testBreakerConfig(time.Minute))

	// 5 of 10 fail: 50% stays under the 60% threshold.
	for i := 0; i < 10; i++ {
		src.fail = i < 5
		_ = fetch(cbs)
	}
	if cbs.State() != "closed" {
		t.Errorf("State() = %q, want closed at 50%% failures", cbs.State())
	}
}

func TestCircuitBreaker_RequiresMinimumRequests(t *testing.T) {
	src := &scriptedSource{fail: true}
	cbs := newCircuitBreakerSource(t.Name(), src, testBreakerConfig(time.Minute))

	for i := 0; i < 5; i++ {
		_ = fetch(cbs)
	}
	if cbs.State() != "closed" {
		t.Errorf("State() = %q, want closed with fewer than 10 requests", cbs.State())
	}
	if got := testutil.ToFloat64(metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(t.Name())); got != 5 {
		t.Errorf("consecutive failures gauge = %v, want 5", got)
	}
}

func TestCircuitBreaker_CancellationIsNotAFailure(t *testing.T) {
	src := &scriptedSource{err: context.Canceled}
	cbs := newCircuitBreakerSource(t.Name(), src, testBreakerConfig(time.Minute))

	for i := 0; i < 20; i++ {
		if err := fetch(cbs); !errors.Is(err, context.Canceled) {
			t.Fatalf("error = %v, want context.Canceled passed through", err)
		}
	}
	if cbs.State() != "closed" {
		t.Errorf("State() = %q, caller cancellation must not open the circuit", cbs.State())
	}
}

func TestCircuitBreaker_RecoversAfterTimeout(t *testing.T) {
	src := &scriptedSource{fail: true}
	cbs := newCircuitBreakerSource(t.Name(), src, testBreakerConfig(100*time.Millisecond))

	for i := 0; i < 10; i++ {
		_ = fetch(cbs)
	}
	if cbs.State() != "open" {
		t.Fatalf("State() = %q, want open", cbs.State())
	}

	time.Sleep(150 * time.Millisecond)
	if cbs.State() != "half-open" {
		t.Fatalf("State() = %q, want half-open after timeout", cbs.State())
	}

	src.fail = false
	if err := fetch(cbs); err != nil {
		t.Fatalf("probe in half-open failed: %v", err)
	}
	if cbs.State() != "closed" {
		t.Errorf("State() = %q, want closed after a successful probe", cbs.State())
	}
	if got := testutil.ToFloat64(metrics.CircuitBreakerTransitions.WithLabelValues(t.Name(), "half-open", "closed")); got != 1 {
		t.Errorf("half-open->closed transitions = %v, want 1", got)
	}
}

func TestCircuitBreaker_EngineSeesIngestionError(t *testing.T) {
	src := &scriptedSource{fail: true}
	cbs := newCircuitBreakerSource(t.Name(), src, testBreakerConfig(time.Minute))
	for i := 0; i < 10; i++ {
		_ = fetch(cbs)
	}

	engine := analytics.NewEngine(cbs)
	_, err := engine.Generate(context.Background(), analytics.ReportRequest{
		Window:   analytics.DefaultWindow,
		Lookback: analytics.DefaultLookback,
		Buckets:  analytics.DefaultBucketConfig(),
	})
	if !analytics.IsIngestionError(err) {
		t.Fatalf("Generate() error = %v, want IngestionError", err)
	}
	if !errors.Is(err, analytics.ErrSourceUnavailable) {
		t.Errorf("error = %v, want ErrSourceUnavailable in the chain", err)
	}
}
