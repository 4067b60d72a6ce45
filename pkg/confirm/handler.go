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
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/carverauto/camcontrol/pkg/logger"
	"github.com/carverauto/camcontrol/pkg/models"
	"github.com/carverauto/camcontrol/pkg/registry"
)

// allSettingsDone is the status reported when the device confirmed every
// compared setting.
const allSettingsDone = "All settings done"

// comparisonMap translates device-reported field names to the setting names
// used in commands. Fields outside this table are not compared.
var comparisonMap = map[string]string{
	"ExposureMode":         "exposuremode",
	"ExposureIris":         "iris",
	"ExposureGain":         "exposuregain",
	"ExposureExposureTime": "shutterspeed",
	"DigitalBrightLevel":   "brightness",
}

// InquiryHandler reacts to inbound device status reports: it compares the
// report against the last recorded intent, updates the outcome, and
// republishes a consolidated result. It never notifies the UI; progress
// narration belongs to the orchestrator so observers see a single ordered
// story per attempt.
type InquiryHandler struct {
	store *Store
	bus   Publisher
	log   logger.Logger
}

// NewInquiryHandler creates a handler over the shared store and bus.
func NewInquiryHandler(store *Store, bus Publisher, log logger.Logger) *InquiryHandler {
	return &InquiryHandler{store: store, bus: bus, log: log}
}

// HandleReply processes one status report from a device. Malformed
// payloads, replies without an active intent, and publish failures are
// logged and swallowed: a single bad reply must never abort the bus
// listener or a retry loop.
func (h *InquiryHandler) HandleReply(ctx context.Context, deviceID string, payload []byte) {
	var reported map[string]interface{}
	if err := json.Unmarshal(payload, &reported); err != nil {
		h.log.Warn().Err(err).Str("camera", deviceID).Msg("Discarding malformed inquiry reply")
		return
	}

	lastSent, ok := h.store.LastSent(deviceID)
	if !ok {
		h.log.Debug().Str("camera", deviceID).Msg("Inquiry reply with no active intent, discarding")
		return
	}

	mismatches := CompareSettings(lastSent, reported)
	h.store.ApplyInquiryResult(deviceID, mismatches)

	result := models.ResultMessage{
		Timestamp: models.EpochSeconds(time.Now()),
		Camera:    deviceID,
	}

	if len(mismatches) == 0 {
		status := allSettingsDone
		result.Status = &status
	} else {
		result.Mismatches = mismatches
	}

	data, err := json.Marshal(result)
	if err != nil {
		h.log.Error().Err(err).Str("camera", deviceID).Msg("Failed to marshal result message")
		return
	}

	resultTopic := registry.TopicsFor(deviceID).Result
	if err := h.bus.Publish(ctx, resultTopic, data); err != nil {
		h.log.Error().Err(err).
			Str("camera", deviceID).
			Str("topic", resultTopic).
			Msg("Failed to publish result message")

		return
	}

	h.log.Debug().
		Str("camera", deviceID).
		Int("mismatch_count", len(mismatches)).
		Msg("Published inquiry result")
}

// CompareSettings computes the mismatch set between what was sent and what
// the device reported. Comparison is string-based and case-insensitive; a
// field the device did not report compares as the empty string. The result
// is independent of map iteration order.
func CompareSettings(sent models.Settings, reported map[string]interface{}) models.MismatchSet {
	mismatches := models.MismatchSet{}

	for reportedKey, sentKey := range comparisonMap {
		sentRaw, ok := sent[sentKey]
		if !ok {
			continue
		}

		sentVal := strings.ToLower(stringify(sentRaw))
		receivedVal := strings.ToLower(stringify(reported[reportedKey]))

		if sentVal != receivedVal {
			mismatches[sentKey] = models.Mismatch{Sent: sentVal, Received: receivedVal}
		}
	}

	return mismatches
}

// stringify renders a setting value the way the devices print them: whole
// numbers without a fractional part, everything else as-is.
func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == math.Trunc(t) && !math.IsInf(t, 0) {
			return strconv.FormatInt(int64(t), 10)
		}

		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
