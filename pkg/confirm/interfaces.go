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

//go:generate mockgen -source=interfaces.go -destination=mock_confirm.go -package=confirm

// Package confirm implements the command-confirmation protocol: record what
// was sent to a camera, compare what the camera reports back, and retry
// within a bounded attempt budget.
package confirm

import (
	"context"
	"time"

	"github.com/carverauto/camcontrol/pkg/models"
)

// Publisher sends a payload to a bus subject.
type Publisher interface {
	Publish(ctx context.Context, subject string, payload []byte) error
}

// Progress carries the retry-state flags attached to a notification.
type Progress struct {
	RetriesComplete bool
	SettingsApplied bool
}

// Notifier pushes progress and outcome events to observers. Delivery is
// fire-and-forget: implementations log failures and never propagate them.
type Notifier interface {
	Notify(ctx context.Context, deviceID, status string, progress Progress)
}

// OutcomeAwaiter blocks until an outcome for the device can be read. The
// default implementation waits a fixed delay and polls the store; the
// interface exists so a correlation-id based design can replace it without
// touching the retry logic.
type OutcomeAwaiter interface {
	Await(ctx context.Context, deviceID string, wait time.Duration) (models.Outcome, error)
}
