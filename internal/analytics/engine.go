// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package analytics

import (
	"context"
	"time"

	"github.com/tomtom215/runstats/internal/logging"
	"github.com/tomtom215/runstats/internal/metrics"
	"github.com/tomtom215/runstats/internal/models"
)

// DefaultIngestTimeout bounds a single FetchRuns call when the engine is
// built without WithIngestTimeout.
const DefaultIngestTimeout = 30 * time.Second

// Source is the read side of the event store.
type Source interface {
	// FetchRuns returns the raw events logged within [from, to].
	FetchRuns(ctx context.Context, from, to time.Time) ([]models.RawEvent, error)
}

// Clock supplies "now". Tests inject a fixed clock.
type Clock func() time.Time

// Engine ingests, validates and assembles reports. It holds no mutable
// state and is safe for concurrent use.
type Engine struct {
	source        Source
	clock         Clock
	ingestTimeout time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the wall clock.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithIngestTimeout bounds every FetchRuns call. Zero disables the bound;
// the caller's context still applies.
func WithIngestTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.ingestTimeout = d
	}
}

// NewEngine creates an Engine reading from source.
func NewEngine(source Source, opts ...Option) *Engine {
	e := &Engine{
		source:        source,
		clock:         time.Now,
		ingestTimeout: DefaultIngestTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Now returns the engine clock reading in UTC.
func (e *Engine) Now() time.Time {
	return e.clock().UTC()
}

// Generate computes a fresh report for req. Configuration errors are
// returned before the source is touched. Any fetch failure, timeout or
// cancellation yields an *IngestionError and no report.
func (e *Engine) Generate(ctx context.Context, req ReportRequest) (*models.Report, error) {
	start := time.Now()
	if err := req.Validate(); err != nil {
		metrics.ReportGenerations.WithLabelValues("config_error").Inc()
		return nil, err
	}
	if e.source == nil {
		metrics.ReportGenerations.WithLabelValues("ingestion_error").Inc()
		return nil, &IngestionError{Op: "fetch", Err: ErrSourceUnavailable}
	}

	now := e.Now()
	raws, err := e.fetch(ctx, now.Add(-req.span()), now)
	if err != nil {
		metrics.ReportGenerations.WithLabelValues("ingestion_error").Inc()
		logging.Ctx(ctx).Warn().Err(err).Msg("Run ingestion failed")
		return nil, err
	}

	result, err := ValidateBatch(ctx, raws)
	if err != nil {
		metrics.ReportGenerations.WithLabelValues("ingestion_error").Inc()
		return nil, &IngestionError{Op: "validate", Err: err}
	}

	for reason, n := range result.Reasons {
		metrics.RecordsSkipped.WithLabelValues(string(reason)).Add(float64(n))
	}
	metrics.RecordsIngested.Add(float64(len(raws)))

	report, err := Assemble(result.Records, AssembleInput{
		Now:          now,
		Window:       req.Window,
		Lookback:     req.Lookback,
		Buckets:      req.Buckets,
		Rejected:     result.Rejected,
	})
	if err != nil {
		metrics.ReportGenerations.WithLabelValues("config_error").Inc()
		return nil, err
	}

	metrics.ReportGenerations.WithLabelValues("success").Inc()
	metrics.ReportGenerationDuration.Observe(time.Since(start).Seconds())
	logging.Ctx(ctx).Debug().
		Int("fetched", len(raws)).
		Int("valid", report.ValidRecordCount).
		Int("skipped", report.SkippedCount).
		Int("out_of_window", report.OutOfWindowCount).
		Dur("duration", time.Since(start)).
		Msg("Usage report generated")
	return report, nil
}

func (e *Engine) fetch(ctx context.Context, from, to time.Time) ([]models.RawEvent, error) {
	if e.ingestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.ingestTimeout)
		defer cancel()
	}

	raws, err := e.source.FetchRuns(ctx, from, to)
	if err != nil {
		return nil, &IngestionError{Op: "fetch", Err: err}
	}
	// A source that ignores ctx must not leak a late result.
	if err := ctx.Err(); err != nil {
		return nil, &IngestionError{Op: "fetch", Err: err}
	}
	return raws, nil
}
