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
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/camcontrol/pkg/logger"
	"github.com/carverauto/camcontrol/pkg/models"
)

// capturePublisher records publishes and optionally fails them.
type capturePublisher struct {
	mu       sync.Mutex
	subjects []string
	payloads [][]byte
	err      error
}

func (c *capturePublisher) Publish(_ context.Context, subject string, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil {
		return c.err
	}

	c.subjects = append(c.subjects, subject)
	c.payloads = append(c.payloads, payload)

	return nil
}

func (c *capturePublisher) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.subjects)
}

func TestHandleReplyAllMatch(t *testing.T) {
	t.Parallel()

	store := NewStore()
	bus := &capturePublisher{}
	handler := NewInquiryHandler(store, bus, logger.NewTestLogger())

	store.RecordIntent("2", models.Settings{
		"changeexposuremode": "1",
		"exposuremode":       "manual",
		"iris":               5,
		"exposuregain":       3,
		"shutterspeed":       100,
		"brightness":         50,
	})

	reply := []byte(`{
		"ExposureMode": "Manual",
		"ExposureIris": "5",
		"ExposureGain": 3,
		"ExposureExposureTime": "100",
		"DigitalBrightLevel": 50
	}`)

	handler.HandleReply(context.Background(), "2", reply)

	assert.Equal(t, models.OutcomeSuccess, store.Outcome("2"))

	require.Equal(t, 1, bus.count())
	assert.Equal(t, "cam_setting.camera2", bus.subjects[0])

	var result models.ResultMessage
	require.NoError(t, json.Unmarshal(bus.payloads[0], &result))
	assert.Equal(t, "2", result.Camera)
	require.NotNil(t, result.Status)
	assert.Equal(t, "All settings done", *result.Status)
	assert.Nil(t, result.Mismatches)
	assert.Positive(t, result.Timestamp)
}

func TestHandleReplyMismatch(t *testing.T) {
	t.Parallel()

	store := NewStore()
	bus := &capturePublisher{}
	handler := NewInquiryHandler(store, bus, logger.NewTestLogger())

	store.RecordIntent("4", models.Settings{"iris": 5, "brightness": 50})

	reply := []byte(`{"ExposureIris": "6", "DigitalBrightLevel": 50}`)
	handler.HandleReply(context.Background(), "4", reply)

	assert.Equal(t, models.OutcomeMismatch, store.Outcome("4"))

	require.Equal(t, 1, bus.count())

	var result models.ResultMessage
	require.NoError(t, json.Unmarshal(bus.payloads[0], &result))
	assert.Nil(t, result.Status)
	require.Len(t, result.Mismatches, 1)
	assert.Equal(t, models.Mismatch{Sent: "5", Received: "6"}, result.Mismatches["iris"])
}

func TestHandleReplyMissingReportedFieldIsMismatch(t *testing.T) {
	t.Parallel()

	store := NewStore()
	bus := &capturePublisher{}
	handler := NewInquiryHandler(store, bus, logger.NewTestLogger())

	store.RecordIntent("5", models.Settings{"iris": 5})

	handler.HandleReply(context.Background(), "5", []byte(`{"ExposureGain": 3}`))

	assert.Equal(t, models.OutcomeMismatch, store.Outcome("5"))

	var result models.ResultMessage
	require.NoError(t, json.Unmarshal(bus.payloads[0], &result))
	assert.Equal(t, models.Mismatch{Sent: "5", Received: ""}, result.Mismatches["iris"])
}

func TestHandleReplyNoActiveIntent(t *testing.T) {
	t.Parallel()

	store := NewStore()
	bus := &capturePublisher{}
	handler := NewInquiryHandler(store, bus, logger.NewTestLogger())

	handler.HandleReply(context.Background(), "7", []byte(`{"ExposureIris": "5"}`))

	assert.Equal(t, 0, bus.count())
	assert.Equal(t, models.OutcomeNotFound, store.Outcome("7"))
}

func TestHandleReplyMalformedPayload(t *testing.T) {
	t.Parallel()

	store := NewStore()
	bus := &capturePublisher{}
	handler := NewInquiryHandler(store, bus, logger.NewTestLogger())

	store.RecordIntent("2", models.Settings{"iris": 5})

	handler.HandleReply(context.Background(), "2", []byte(`{not json`))

	// Malformed replies are discarded without touching the outcome.
	assert.Equal(t, models.OutcomePending, store.Outcome("2"))
	assert.Equal(t, 0, bus.count())
}

func TestHandleReplyPublishFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	store := NewStore()
	bus := &capturePublisher{err: errors.New("bus unreachable")}
	handler := NewInquiryHandler(store, bus, logger.NewTestLogger())

	store.RecordIntent("2", models.Settings{"iris": 5})

	handler.HandleReply(context.Background(), "2", []byte(`{"ExposureIris": "5"}`))

	// The outcome is applied even when the result publish fails.
	assert.Equal(t, models.OutcomeSuccess, store.Outcome("2"))
}

func TestCompareSettings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		sent     models.Settings
		reported map[string]interface{}
		want     models.MismatchSet
	}{
		{
			name:     "case insensitive values",
			sent:     models.Settings{"exposuremode": "manual"},
			reported: map[string]interface{}{"ExposureMode": "MANUAL"},
			want:     models.MismatchSet{},
		},
		{
			name:     "number vs string",
			sent:     models.Settings{"iris": 5},
			reported: map[string]interface{}{"ExposureIris": "5"},
			want:     models.MismatchSet{},
		},
		{
			name:     "json number vs int",
			sent:     models.Settings{"shutterspeed": 100},
			reported: map[string]interface{}{"ExposureExposureTime": float64(100)},
			want:     models.MismatchSet{},
		},
		{
			name:     "value differs",
			sent:     models.Settings{"iris": 5},
			reported: map[string]interface{}{"ExposureIris": "6"},
			want:     models.MismatchSet{"iris": {Sent: "5", Received: "6"}},
		},
		{
			name:     "sent settings outside the table are ignored",
			sent:     models.Settings{"changeexposuremode": "1", "iris": 5},
			reported: map[string]interface{}{"ExposureIris": 5},
			want:     models.MismatchSet{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, CompareSettings(tt.sent, tt.reported))
		})
	}
}
