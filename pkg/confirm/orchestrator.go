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

package confirm

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/carverauto/camcontrol/pkg/logger"
	"github.com/carverauto/camcontrol/pkg/models"
	"github.com/carverauto/camcontrol/pkg/registry"
)

const (
	// DefaultMaxAttempts bounds the retry loop when the caller passes no
	// explicit budget.
	DefaultMaxAttempts = 5
	// DefaultInquiryWait is the fixed window the inquiry round trip gets
	// before the outcome is read.
	DefaultInquiryWait = 500 * time.Millisecond
	// DefaultRetryBackoff separates consecutive attempts.
	DefaultRetryBackoff = 100 * time.Millisecond

	statusSending   = "Sending settings..."
	statusApplied   = "Settings applied successfully"
	statusMismatch  = "Settings mismatch detected"
	statusNotYetFmt = "Settings not confirmed (Attempt %d/%d)"
)

// Orchestrator runs the per-device confirmation state machine: publish the
// command, trigger an inquiry, wait for the handler to post an outcome, and
// retry within the attempt budget, narrating progress to observers.
type Orchestrator struct {
	store    *Store
	bus      Publisher
	awaiter  OutcomeAwaiter
	notifier Notifier
	log      logger.Logger

	inquiryWait  time.Duration
	retryBackoff time.Duration

	// Confirmations for one device are serialized: a new intent launched
	// while a previous attempt is in flight would race the handler into
	// comparing replies against the wrong intent.
	mu       sync.Mutex
	inflight map[string]*sync.Mutex
}

// WithInquiryWait overrides the post-inquiry wait.
func WithInquiryWait(d time.Duration) func(*Orchestrator) {
	return func(o *Orchestrator) {
		o.inquiryWait = d
	}
}

// WithRetryBackoff overrides the inter-attempt backoff.
func WithRetryBackoff(d time.Duration) func(*Orchestrator) {
	return func(o *Orchestrator) {
		o.retryBackoff = d
	}
}

// NewOrchestrator wires the orchestrator over the shared store and bus.
func NewOrchestrator(
	store *Store, bus Publisher, awaiter OutcomeAwaiter, notifier Notifier,
	log logger.Logger, options ...func(*Orchestrator)) *Orchestrator {
	o := &Orchestrator{
		store:        store,
		bus:          bus,
		awaiter:      awaiter,
		notifier:     notifier,
		log:          log,
		inquiryWait:  DefaultInquiryWait,
		retryBackoff: DefaultRetryBackoff,
		inflight:     make(map[string]*sync.Mutex),
	}

	for _, option := range options {
		option(o)
	}

	return o
}

// Confirm relays the settings on the device's command topic and verifies
// them through the inquiry round trip. It returns whether the device
// confirmed the settings within the attempt budget.
func (o *Orchestrator) Confirm(ctx context.Context, deviceID string, settings models.Settings, maxAttempts int) (bool, error) {
	return o.Send(ctx, registry.TopicsFor(deviceID).Command, deviceID, settings, maxAttempts)
}

// Send publishes the settings on an explicit topic. Confirmable topics run
// the full attempt loop; anything else is a single publish with no inquiry,
// no retries, and no progress notifications.
func (o *Orchestrator) Send(ctx context.Context, topic, deviceID string, settings models.Settings, maxAttempts int) (bool, error) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	unlock := o.lockDevice(deviceID)
	defer unlock()

	confirmable := registry.Confirmable(topic)

	o.store.RecordIntent(deviceID, settings)

	payload, err := json.Marshal(settings)
	if err != nil {
		return false, fmt.Errorf("failed to marshal settings for camera %s: %w", deviceID, err)
	}

	if confirmable {
		o.notifier.Notify(ctx, deviceID, statusSending, Progress{})
	}

	settled := false

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := o.bus.Publish(ctx, topic, payload); err != nil {
			// Transport failure counts as a failed attempt; the loop goes on.
			o.log.Error().Err(err).
				Str("camera", deviceID).
				Str("topic", topic).
				Int("attempt", attempt).
				Msg("Command publish failed")
		}

		o.log.Debug().
			Str("camera", deviceID).
			Int("attempt", attempt).
			Int("max_attempts", maxAttempts).
			Msg("Command dispatched")

		if !confirmable {
			return true, ctx.Err()
		}

		o.publishInquiry(ctx, deviceID)

		outcome, err := o.awaiter.Await(ctx, deviceID, o.inquiryWait)
		if err != nil {
			break
		}

		if outcome == models.OutcomeSuccess {
			settled = true

			o.log.Info().Str("camera", deviceID).Int("attempt", attempt).Msg("Settings confirmed")

			break
		}

		if attempt < maxAttempts {
			o.notifier.Notify(ctx, deviceID,
				fmt.Sprintf(statusNotYetFmt, attempt, maxAttempts), Progress{})

			if err := sleepContext(ctx, o.retryBackoff); err != nil {
				break
			}
		}
	}

	final := statusApplied
	if !settled {
		final = statusMismatch
	}

	o.notifier.Notify(ctx, deviceID, final, Progress{RetriesComplete: true, SettingsApplied: settled})

	if !settled {
		o.log.Error().
			Str("camera", deviceID).
			Int("max_attempts", maxAttempts).
			Msg("Failed to apply settings after all attempts")
	}

	return settled, ctx.Err()
}

func (o *Orchestrator) publishInquiry(ctx context.Context, deviceID string) {
	inquiry, err := json.Marshal(map[string]string{"inqcam": deviceID})
	if err != nil {
		o.log.Error().Err(err).Str("camera", deviceID).Msg("Failed to marshal inquiry request")
		return
	}

	inquiryTopic := registry.TopicsFor(deviceID).InquiryRequest
	if err := o.bus.Publish(ctx, inquiryTopic, inquiry); err != nil {
		o.log.Error().Err(err).
			Str("camera", deviceID).
			Str("topic", inquiryTopic).
			Msg("Inquiry publish failed")
	}
}

func (o *Orchestrator) lockDevice(deviceID string) func() {
	o.mu.Lock()

	lock, ok := o.inflight[deviceID]
	if !ok {
		lock = &sync.Mutex{}
		o.inflight[deviceID] = lock
	}

	o.mu.Unlock()

	lock.Lock()

	return lock.Unlock
}
