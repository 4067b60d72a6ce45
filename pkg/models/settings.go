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

// Package models contains the shared types for the camera settings
// confirmation service.
package models

// Settings is the desired configuration for a camera: named settings mapped
// to their values. Values are either numbers or strings, matching what the
// device expects on the wire. A Settings map is built once per confirmation
// attempt and never mutated after it has been recorded as last sent.
type Settings map[string]interface{}

// Clone returns a shallow copy. Values are scalars, so a shallow copy is a
// full copy.
func (s Settings) Clone() Settings {
	if s == nil {
		return nil
	}

	out := make(Settings, len(s))
	for k, v := range s {
		out[k] = v
	}

	return out
}

// Outcome is the confirmation state of the last command sent to a device.
type Outcome string

const (
	// OutcomePending means a command was sent and no inquiry reply has been
	// evaluated against it yet.
	OutcomePending Outcome = "pending"
	// OutcomeSuccess means the device reported every setting as sent.
	OutcomeSuccess Outcome = "success"
	// OutcomeMismatch means the device reported at least one setting that
	// differs from what was sent.
	OutcomeMismatch Outcome = "mismatch"
	// OutcomeNotFound is returned when no confirmation record exists for a
	// device.
	OutcomeNotFound Outcome = ""
)

// Mismatch is a single disagreement between the value sent to a device and
// the value the device reported back. Both sides are lowercased strings; the
// comparison that produced them is case-insensitive.
type Mismatch struct {
	Sent     string `json:"sent"`
	Received string `json:"received"`
}

// MismatchSet maps a sent-setting name to its Mismatch. An empty set means
// every compared setting matched.
type MismatchSet map[string]Mismatch

// ConfirmationRecord is the per-device record of the last command sent and
// the most recently observed confirmation outcome.
type ConfirmationRecord struct {
	LastSent Settings
	Outcome  Outcome
}
