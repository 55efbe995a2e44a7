// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package analytics

import (
	"context"
	"errors"
	"fmt"
)

// ErrSourceUnavailable is returned when no event source is configured.
var ErrSourceUnavailable = errors.New("event source unavailable")

// IngestionError reports that run events could not be fetched: the store
// failed, the circuit breaker is open, or the deadline/cancellation fired.
// No partial report is ever returned alongside it.
type IngestionError struct {
	Op  string
	Err error
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("ingestion failed during %s: %v", e.Op, e.Err)
}

func (e *IngestionError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the ingestion deadline expired.
func (e *IngestionError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// Canceled reports whether the caller canceled the request.
func (e *IngestionError) Canceled() bool {
	return errors.Is(e.Err, context.Canceled)
}

// ConfigurationError reports an invalid bucket or window configuration.
// It is raised before any record is read.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Field, e.Reason)
}

// IsIngestionError reports whether err is or wraps an *IngestionError.
func IsIngestionError(err error) bool {
	var ie *IngestionError
	return errors.As(err, &ie)
}

// IsConfigurationError reports whether err is or wraps a *ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
