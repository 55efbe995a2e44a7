// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type countingPruner struct{ calls atomic.Int32 }

func (p *countingPruner) Prune() int {
	p.calls.Add(1)
	return 1
}

type stubWarmer struct {
	calls atomic.Int32
	err   error
}

func (w *stubWarmer) WarmDefaultReport(context.Context) error {
	w.calls.Add(1)
	return w.err
}

func runFor(t *testing.T, serve func(context.Context) error, until func() bool) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- serve(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for !until() {
		if time.Now().After(deadline) {
			cancel()
			t.Fatal("condition not met within 2s")
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestCacheJanitorService_PrunesOnTick(t *testing.T) {
	pruner := &countingPruner{}
	svc := NewCacheJanitorService(pruner, 10*time.Millisecond)

	runFor(t, svc.Serve, func() bool { return pruner.calls.Load() >= 2 })

	if svc.String() != "cache-janitor" {
		t.Errorf("String() = %q", svc.String())
	}
}

func TestCacheJanitorService_DefaultInterval(t *testing.T) {
	if svc := NewCacheJanitorService(&countingPruner{}, 0); svc.interval != DefaultJanitorInterval {
		t.Errorf("interval = %v, want %v", svc.interval, DefaultJanitorInterval)
	}
}

func TestReportWarmerService_WarmsImmediately(t *testing.T) {
	warmer := &stubWarmer{}
	// The interval is far longer than the test; only the initial warm-up
	// can satisfy the condition.
	svc := NewReportWarmerService(warmer, time.Hour)

	runFor(t, svc.Serve, func() bool { return warmer.calls.Load() >= 1 })
}

func TestReportWarmerService_SurvivesFailures(t *testing.T) {
	warmer := &stubWarmer{err: errors.New("store down")}
	svc := NewReportWarmerService(warmer, 10*time.Millisecond)

	runFor(t, svc.Serve, func() bool { return warmer.calls.Load() >= 3 })

	if svc.String() != "report-warmer" {
		t.Errorf("String() = %q", svc.String())
	}
	if d := NewReportWarmerService(warmer, 0).interval; d != DefaultWarmInterval {
		t.Errorf("default interval = %v", d)
	}
}

type countingGC struct {
	calls atomic.Int32
	err   error
}

func (g *countingGC) RunGC() error {
	g.calls.Add(1)
	return g.err
}

func TestSnapshotGCService_RunsOnTick(t *testing.T) {
	gc := &countingGC{err: errors.New("busy")}
	svc := NewSnapshotGCService(gc, 10*time.Millisecond)
	if svc.String() != "snapshot-gc" {
		t.Errorf("String() = %q", svc.String())
	}
	// Errors must not stop the loop.
	runFor(t, svc.Serve, func() bool { return gc.calls.Load() >= 2 })
}

func TestNewSnapshotGCService_DefaultInterval(t *testing.T) {
	svc := NewSnapshotGCService(&countingGC{}, 0)
	if svc.interval != DefaultSnapshotGCInterval {
		t.Errorf("interval = %v, want %v", svc.interval, DefaultSnapshotGCInterval)
	}
}
