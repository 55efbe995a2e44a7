// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package services

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

var (
	_ suture.Service = (*HTTPServerService)(nil)
	_ suture.Service = (*CacheJanitorService)(nil)
	_ suture.Service = (*ReportWarmerService)(nil)
	_ suture.Service = (*SnapshotGCService)(nil)
)

// mockHTTPServer blocks in ListenAndServe until Shutdown when block is set.
type mockHTTPServer struct {
	listenErr   error
	shutdownErr error
	block       bool

	listens   atomic.Int32
	shutdowns atomic.Int32
	started   chan struct{}
	stop      chan struct{}
}

func newMockHTTPServer() *mockHTTPServer {
	return &mockHTTPServer{
		started: make(chan struct{}, 1),
		stop:    make(chan struct{}),
	}
}

func (m *mockHTTPServer) ListenAndServe() error {
	m.listens.Add(1)
	select {
	case m.started <- struct{}{}:
	default:
	}
	if m.listenErr != nil {
		return m.listenErr
	}
	if m.block {
		<-m.stop
		return http.ErrServerClosed
	}
	return nil
}

func (m *mockHTTPServer) Shutdown(context.Context) error {
	m.shutdowns.Add(1)
	close(m.stop)
	return m.shutdownErr
}

func waitStarted(t *testing.T, m *mockHTTPServer) {
	t.Helper()
	select {
	case <-m.started:
	case <-time.After(time.Second):
		t.Fatal("server did not start")
	}
}

func TestNewHTTPServerService_DefaultTimeout(t *testing.T) {
	for _, d := range []time.Duration{0, -5 * time.Second} {
		svc := NewHTTPServerService(newMockHTTPServer(), d)
		if svc.shutdownTimeout != DefaultShutdownTimeout {
			t.Errorf("timeout(%v) = %v, want %v", d, svc.shutdownTimeout, DefaultShutdownTimeout)
		}
	}
	if svc := NewHTTPServerService(newMockHTTPServer(), 3*time.Second); svc.shutdownTimeout != 3*time.Second {
		t.Errorf("explicit timeout = %v", svc.shutdownTimeout)
	}
}

func TestHTTPServerService_GracefulShutdown(t *testing.T) {
	server := newMockHTTPServer()
	server.block = true
	svc := NewHTTPServerService(server, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	waitStarted(t, server)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return")
	}
	if server.listens.Load() != 1 || server.shutdowns.Load() != 1 {
		t.Errorf("listens = %d, shutdowns = %d", server.listens.Load(), server.shutdowns.Load())
	}
}

func TestHTTPServerService_StartupFailure(t *testing.T) {
	bindErr := errors.New("bind: address already in use")
	server := newMockHTTPServer()
	server.listenErr = bindErr

	err := NewHTTPServerService(server, time.Second).Serve(context.Background())
	if !errors.Is(err, bindErr) {
		t.Errorf("Serve() = %v, want wrapped bind error", err)
	}
}

func TestHTTPServerService_ShutdownFailure(t *testing.T) {
	shutdownErr := errors.New("drain timeout")
	server := newMockHTTPServer()
	server.block = true
	server.shutdownErr = shutdownErr
	svc := NewHTTPServerService(server, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	waitStarted(t, server)
	cancel()

	if err := <-errCh; !errors.Is(err, shutdownErr) {
		t.Errorf("Serve() = %v, want shutdown error", err)
	}
}

func TestHTTPServerService_UnderSupervisor(t *testing.T) {
	server := newMockHTTPServer()
	server.block = true

	sup := suture.New("test", suture.Spec{FailureBackoff: 10 * time.Millisecond, Timeout: 2 * time.Second})
	sup.Add(NewHTTPServerService(server, time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := sup.ServeBackground(ctx)

	waitStarted(t, server)
	cancel()
	<-errCh

	if server.shutdowns.Load() < 1 {
		t.Error("Shutdown was not called")
	}
	if got := NewHTTPServerService(server, 0).String(); got != "http-server" {
		t.Errorf("String() = %q", got)
	}
}
