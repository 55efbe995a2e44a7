// Runstats - Farming Run Usage Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/runstats

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/runstats/internal/logging"
)

// DefaultShutdownTimeout is used when NewHTTPServerService gets no timeout.
const DefaultShutdownTimeout = 10 * time.Second

// HTTPServer is the lifecycle subset of *http.Server.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPServerService runs an HTTPServer under supervision.
//
//	server := &http.Server{Addr: ":3860", Handler: router.SetupChi()}
//	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
type HTTPServerService struct {
	server          HTTPServer
	shutdownTimeout time.Duration
	name            string
}

// NewHTTPServerService wraps server. shutdownTimeout bounds connection
// draining on shutdown.
func NewHTTPServerService(server HTTPServer, shutdownTimeout time.Duration) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = DefaultShutdownTimeout
	}
	return &HTTPServerService{
		server:          server,
		shutdownTimeout: shutdownTimeout,
		name:            "http-server",
	}
}

// Serve implements suture.Service. Cancelling ctx drains the server within
// the shutdown timeout and returns ctx.Err(). A listener failure is
// returned so the supervisor restarts the service.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	if srv, ok := h.server.(*http.Server); ok {
		logging.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
	}

	var shutdownErr error
	drained := make(chan struct{})
	stopDrain := context.AfterFunc(ctx, func() {
		defer close(drained)
		drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.shutdownTimeout)
		defer cancel()
		shutdownErr = h.server.Shutdown(drainCtx)
	})

	err := h.server.ListenAndServe()
	if stopDrain() {
		// Listener returned on its own.
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	}

	<-drained
	if shutdownErr != nil {
		return fmt.Errorf("http server shutdown failed: %w", shutdownErr)
	}
	logging.Info().Msg("HTTP server stopped")
	return ctx.Err()
}

func (h *HTTPServerService) String() string {
	return h.name
}
