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

// Package natsutil connects the service to the NATS bus and adapts the
// connection to the interfaces the confirmation protocol consumes.
package natsutil

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/carverauto/camcontrol/pkg/logger"
)

const flushTimeout = 2 * time.Second

// Connect establishes a NATS connection with logging handlers attached.
// Connection setup failure at startup is the only fatal error in the
// system.
func Connect(url string, log logger.Logger, extraOpts ...nats.Option) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.ErrorHandler(func(_ *nats.Conn, sub *nats.Subscription, err error) {
			event := log.Error().Err(err)
			if sub != nil {
				event = event.Str("subject", sub.Subject)
			}

			event.Msg("NATS error")
		}),
		nats.ConnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("Connected to NATS")
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	opts = append(opts, extraOpts...)

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return nc, nil
}

// Bus adapts a NATS connection to the confirm.Publisher interface.
type Bus struct {
	nc *nats.Conn
}

// NewBus wraps an established connection.
func NewBus(nc *nats.Conn) *Bus {
	return &Bus{nc: nc}
}

// Publish sends a payload to a subject. NATS buffers writes internally, so
// a nil error means accepted for delivery, not delivered.
func (b *Bus) Publish(_ context.Context, subject string, payload []byte) error {
	return b.nc.Publish(subject, payload)
}

// Close flushes buffered publishes within a bounded deadline and closes the
// connection. Best effort: a flush failure is reported but the connection
// is closed regardless.
func (b *Bus) Close() error {
	err := b.nc.FlushTimeout(flushTimeout)
	b.nc.Close()

	if err != nil {
		return fmt.Errorf("failed to flush NATS connection: %w", err)
	}

	return nil
}
