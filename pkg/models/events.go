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

package models

import "time"

// ResultMessage is the consolidated comparison result published to a
// device's result topic after an inquiry reply has been evaluated.
// Status is "All settings done" when the mismatch set is empty and null
// otherwise; Mismatches is null when empty.
type ResultMessage struct {
	Timestamp  float64     `json:"timestamp"`
	Camera     string      `json:"camera"`
	Status     *string     `json:"status"`
	Mismatches MismatchSet `json:"mismatches,omitempty"`
}

// StatusEvent is the progress notification pushed to UI observers while a
// confirmation attempt runs. RetriesComplete and SettingsApplied are only
// set for confirmable operations.
type StatusEvent struct {
	Camera          string  `json:"camera"`
	Status          string  `json:"status"`
	Timestamp       float64 `json:"timestamp"`
	RetriesComplete *bool   `json:"retries_complete,omitempty"`
	SettingsApplied *bool   `json:"settings_applied,omitempty"`
}

// EpochSeconds converts a time to the fractional epoch-seconds timestamp
// used on the wire.
func EpochSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
