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
	"time"

	"github.com/carverauto/camcontrol/pkg/models"
)

// pollAwaiter gives the inquiry round trip a fixed window to land, then
// reads the outcome from the store. The bus has no request/response
// correlation, so delay-then-poll is the protocol.
type pollAwaiter struct {
	store *Store
}

// NewPollAwaiter creates the default OutcomeAwaiter over the shared store.
func NewPollAwaiter(store *Store) OutcomeAwaiter {
	return &pollAwaiter{store: store}
}

func (p *pollAwaiter) Await(ctx context.Context, deviceID string, wait time.Duration) (models.Outcome, error) {
	if err := sleepContext(ctx, wait); err != nil {
		return models.OutcomeNotFound, err
	}

	return p.store.Outcome(deviceID), nil
}

// sleepContext blocks for d or until the context is canceled.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
