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

// Package registry derives bus topic names from camera identifiers.
package registry

import "strings"

const (
	// confirmableMarker identifies command topics whose effect must be
	// verified through an inquiry round trip.
	confirmableMarker = "colour-control"

	commandPrefix      = "colour-control.camera"
	inquiryReqPrefix   = "ptzcontrol.camera"
	inquiryReplyPrefix = "caminq.camera"
	resultPrefix       = "cam_setting.camera"
)

// Topics holds the bus topic names for one camera.
type Topics struct {
	// Command carries setting changes to the device.
	Command string
	// InquiryRequest asks the device to report its current settings.
	InquiryRequest string
	// InquiryReply is where the device reports its current settings.
	InquiryReply string
	// Result is where the consolidated comparison result is published.
	Result string
}

// TopicsFor returns the topic set for a camera identifier. Identifier
// validation is the caller's responsibility.
func TopicsFor(deviceID string) Topics {
	return Topics{
		Command:        commandPrefix + deviceID,
		InquiryRequest: inquiryReqPrefix + deviceID,
		InquiryReply:   inquiryReplyPrefix + deviceID,
		Result:         resultPrefix + deviceID,
	}
}

// Confirmable reports whether a command topic requires a device-reported
// acknowledgement before the operation is considered complete.
func Confirmable(topic string) bool {
	return strings.Contains(topic, confirmableMarker)
}

// DeviceFromSubject recovers the camera identifier from a bus subject such
// as "caminq.camera2". The second return value is false when the subject
// does not follow the camera naming scheme.
func DeviceFromSubject(subject string) (string, bool) {
	idx := strings.LastIndex(subject, ".")
	if idx < 0 {
		return "", false
	}

	last := subject[idx+1:]

	id := strings.TrimPrefix(last, "camera")
	if id == last || id == "" {
		return "", false
	}

	return id, true
}
