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

package natsutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/carverauto/camcontrol/pkg/logger"
	"github.com/carverauto/camcontrol/pkg/registry"
)

const listenerBuffer = 256

// ReplyHandler consumes one inbound device status report.
type ReplyHandler interface {
	HandleReply(ctx context.Context, deviceID string, payload []byte)
}

// Listener subscribes to every configured camera's inquiry-reply topic and
// forwards inbound reports to the handler from a single dispatch loop. The
// handler runs synchronously relative to message arrival and never blocks
// on an orchestrator.
type Listener struct {
	nc      *nats.Conn
	handler ReplyHandler
	log     logger.Logger

	subs []*nats.Subscription
	msgs chan *nats.Msg
	quit chan struct{}
	wg   sync.WaitGroup
}

// NewListener creates a listener over an established connection.
func NewListener(nc *nats.Conn, handler ReplyHandler, log logger.Logger) *Listener {
	return &Listener{
		nc:      nc,
		handler: handler,
		log:     log,
		msgs:    make(chan *nats.Msg, listenerBuffer),
		quit:    make(chan struct{}),
	}
}

// Start subscribes to the inquiry-reply topic of each camera and launches
// the dispatch loop.
func (l *Listener) Start(ctx context.Context, cameras []string) error {
	for _, id := range cameras {
		topic := registry.TopicsFor(id).InquiryReply

		sub, err := l.nc.ChanSubscribe(topic, l.msgs)
		if err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
		}

		l.subs = append(l.subs, sub)

		l.log.Info().Str("topic", topic).Msg("Subscribed to inquiry replies")
	}

	l.wg.Add(1)

	go l.dispatch(ctx)

	return nil
}

// dispatch decodes the device identifier from each inbound subject and
// hands the payload to the reply handler as a plain function call.
func (l *Listener) dispatch(ctx context.Context) {
	defer l.wg.Done()

	for {
		select {
		case <-ctx.Done():
			l.log.Info().Msg("Stopping inquiry dispatch on context cancellation")
			return
		case <-l.quit:
			return
		case msg := <-l.msgs:
			deviceID, ok := registry.DeviceFromSubject(msg.Subject)
			if !ok {
				l.log.Warn().Str("subject", msg.Subject).Msg("Discarding reply with unrecognized subject")
				continue
			}

			l.handler.HandleReply(ctx, deviceID, msg.Data)
		}
	}
}

// Stop unsubscribes and waits for the dispatch loop to drain.
func (l *Listener) Stop() {
	for _, sub := range l.subs {
		if err := sub.Unsubscribe(); err != nil {
			l.log.Warn().Err(err).Str("subject", sub.Subject).Msg("Unsubscribe failed")
		}
	}

	close(l.quit)
	l.wg.Wait()
}
