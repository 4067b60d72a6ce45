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
	"hash/fnv"
	"sync"

	"github.com/carverauto/camcontrol/pkg/models"
)

const storeShardCount = 16

type storeShard struct {
	mu      sync.RWMutex
	records map[string]models.ConfirmationRecord
}

// Store is the single source of truth for what was last asked of each
// device and what the device last reported back. It is sharded by device
// identifier so unrelated devices never contend on one lock.
type Store struct {
	shards [storeShardCount]*storeShard
}

// NewStore creates an empty confirmation store.
func NewStore() *Store {
	s := &Store{}
	for i := range s.shards {
		s.shards[i] = &storeShard{records: make(map[string]models.ConfirmationRecord)}
	}

	return s
}

func (s *Store) shardFor(deviceID string) *storeShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(deviceID))

	return s.shards[h.Sum32()%storeShardCount]
}

// RecordIntent overwrites the record for the device with the given settings
// and a pending outcome. Any reply still in flight for a previous intent on
// the same device will be compared against this one; callers needing strict
// isolation must not overlap intents for a device.
func (s *Store) RecordIntent(deviceID string, settings models.Settings) {
	shard := s.shardFor(deviceID)

	shard.mu.Lock()
	defer shard.mu.Unlock()

	shard.records[deviceID] = models.ConfirmationRecord{
		LastSent: settings.Clone(),
		Outcome:  models.OutcomePending,
	}
}

// Outcome returns the confirmation outcome for the device, or
// OutcomeNotFound when no intent has been recorded.
func (s *Store) Outcome(deviceID string) models.Outcome {
	shard := s.shardFor(deviceID)

	shard.mu.RLock()
	defer shard.mu.RUnlock()

	rec, ok := shard.records[deviceID]
	if !ok {
		return models.OutcomeNotFound
	}

	return rec.Outcome
}

// LastSent returns a copy of the settings last dispatched to the device.
func (s *Store) LastSent(deviceID string) (models.Settings, bool) {
	shard := s.shardFor(deviceID)

	shard.mu.RLock()
	defer shard.mu.RUnlock()

	rec, ok := shard.records[deviceID]
	if !ok {
		return nil, false
	}

	return rec.LastSent.Clone(), true
}

// ApplyInquiryResult sets the outcome from a computed mismatch set: success
// when empty, mismatch otherwise. A reply for a device with no recorded
// intent is dropped without error.
func (s *Store) ApplyInquiryResult(deviceID string, mismatches models.MismatchSet) {
	shard := s.shardFor(deviceID)

	shard.mu.Lock()
	defer shard.mu.Unlock()

	rec, ok := shard.records[deviceID]
	if !ok {
		return
	}

	if len(mismatches) == 0 {
		rec.Outcome = models.OutcomeSuccess
	} else {
		rec.Outcome = models.OutcomeMismatch
	}

	shard.records[deviceID] = rec
}
