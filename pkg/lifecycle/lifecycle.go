/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package lifecycle runs a service with an HTTP front end and signal-driven
// graceful shutdown.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carverauto/camcontrol/pkg/logger"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// Service is a long-running component with explicit start and stop phases.
// Start must return promptly after launching its background work; the
// context passed to Start is canceled when shutdown begins and must be
// honored at every suspension point.
type Service interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// ServerOptions configures Run.
type ServerOptions struct {
	ListenAddr  string
	ServiceName string
	Service     Service
	HTTPHandler http.Handler
	Logger      logger.Logger
}

// Run starts the service and the HTTP server, then blocks until the context
// is canceled or SIGINT/SIGTERM arrives. Shutdown lets in-flight work finish
// its current suspension within a bounded deadline.
func Run(ctx context.Context, opts *ServerOptions) error {
	log := opts.Logger
	if log == nil {
		log = logger.NewTestLogger()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := opts.Service.Start(ctx); err != nil {
		return fmt.Errorf("failed to start %s: %w", opts.ServiceName, err)
	}

	httpServer := &http.Server{
		Addr:              opts.ListenAddr,
		Handler:           opts.HTTPHandler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)

	go func() {
		log.Info().
			Str("service", opts.ServiceName).
			Str("listen_addr", opts.ListenAddr).
			Msg("HTTP server listening")

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error

	select {
	case <-ctx.Done():
		log.Info().Str("service", opts.ServiceName).Msg("Shutdown signal received")
	case err := <-errCh:
		runErr = fmt.Errorf("HTTP server failed: %w", err)
	}

	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	if err := opts.Service.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Str("service", opts.ServiceName).Msg("Service stop failed")

		if runErr == nil {
			runErr = err
		}
	}

	log.Info().Str("service", opts.ServiceName).Msg("Shutdown complete")

	return runErr
}
