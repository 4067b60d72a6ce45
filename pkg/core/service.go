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

package core

import (
	"context"
	"errors"
	"sync"

	"github.com/carverauto/camcontrol/pkg/confirm"
	"github.com/carverauto/camcontrol/pkg/logger"
	"github.com/carverauto/camcontrol/pkg/models"
)

var errNotStarted = errors.New("service not started")

// ReplyListener consumes inquiry replies from the bus for the configured
// cameras. Satisfied by natsutil.Listener.
type ReplyListener interface {
	Start(ctx context.Context, cameras []string) error
	Stop()
}

// Closer releases the bus connection. Satisfied by natsutil.Bus.
type Closer interface {
	Close() error
}

// Service ties the reply listener and the retry orchestrator to the process
// lifecycle. Confirmation tasks launched through it survive the HTTP request
// that triggered them but never outlive the service.
type Service struct {
	config       *ServiceConfig
	orchestrator *confirm.Orchestrator
	listener     ReplyListener
	bus          Closer
	logger       logger.Logger

	mu      sync.Mutex
	runCtx  context.Context
	cancel  context.CancelFunc
	tasks   sync.WaitGroup
	started bool
}

// NewService creates the service runtime.
func NewService(
	config *ServiceConfig, orchestrator *confirm.Orchestrator,
	listener ReplyListener, bus Closer, log logger.Logger) *Service {
	return &Service{
		config:       config,
		orchestrator: orchestrator,
		listener:     listener,
		bus:          bus,
		logger:       log,
	}
}

// Start subscribes the reply listener and opens the service for
// confirmation tasks.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Detach from the caller's cancellation but keep its values; the run
	// context ends in Stop, not when Start's argument is released.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	if err := s.listener.Start(runCtx, s.config.Cameras); err != nil {
		cancel()
		return err
	}

	s.runCtx = runCtx
	s.cancel = cancel
	s.started = true

	s.logger.Info().
		Strs("cameras", s.config.Cameras).
		Int("max_attempts", s.config.MaxAttempts).
		Msg("Camera control service started")

	return nil
}

// Stop cancels in-flight confirmation tasks, waits for them to unwind, then
// tears down the listener and the bus connection.
func (s *Service) Stop(_ context.Context) error {
	s.mu.Lock()

	if !s.started {
		s.mu.Unlock()
		return nil
	}

	s.started = false
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	s.tasks.Wait()

	s.listener.Stop()

	if err := s.bus.Close(); err != nil {
		s.logger.Warn().Err(err).Msg("Bus close reported an error")
	}

	s.logger.Info().Msg("Camera control service stopped")

	return nil
}

// LaunchConfirm starts a confirmation task for one camera in the background.
// It returns immediately; progress is observable on the status stream and
// the device's result topic.
func (s *Service) LaunchConfirm(deviceID string, settings models.Settings, maxAttempts int) error {
	s.mu.Lock()

	if !s.started {
		s.mu.Unlock()
		return errNotStarted
	}

	ctx := s.runCtx
	s.tasks.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.tasks.Done()

		if _, err := s.orchestrator.Confirm(ctx, deviceID, settings, maxAttempts); err != nil {
			s.logger.Warn().Err(err).Str("camera", deviceID).Msg("Confirmation interrupted")
		}
	}()

	return nil
}
