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

// Package core owns the service runtime: it wires the bus, the confirmation
// protocol and the reply listener together behind the lifecycle interface.
package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/carverauto/camcontrol/pkg/confirm"
	"github.com/carverauto/camcontrol/pkg/logger"
	"github.com/carverauto/camcontrol/pkg/models"
)

const (
	defaultListenAddr  = ":8090"
	defaultNATSURL     = "nats://127.0.0.1:4222"
	defaultPresetsFile = "/etc/camcontrol/camera_settings.csv"

	minMaxAttempts = 1
	maxMaxAttempts = 20
)

var (
	errNoCamerasConfigured = errors.New("at least one camera must be configured")
	errDuplicateCamera     = errors.New("duplicate camera identifier")
	errEmptyCameraID       = errors.New("camera identifier must not be empty")
	errNegativeWait        = errors.New("inquiry_wait and retry_backoff must not be negative")
)

// ServiceConfig configures the camera control service.
type ServiceConfig struct {
	ListenAddr   string            `json:"listen_addr"`
	NATSURL      string            `json:"nats_url"`
	Cameras      []string          `json:"cameras"`
	MaxAttempts  int               `json:"max_attempts"`
	InquiryWait  models.Duration   `json:"inquiry_wait"`
	RetryBackoff models.Duration   `json:"retry_backoff"`
	PresetsFile  string            `json:"presets_file"`
	CORS         models.CORSConfig `json:"cors"`
	Logging      *logger.Config    `json:"logging,omitempty"`
}

// Validate applies defaults and checks bounds. The zero value validates to a
// working local configuration with cameras 1 through 6.
func (c *ServiceConfig) Validate() error {
	if c.ListenAddr == "" {
		c.ListenAddr = defaultListenAddr
	}

	if c.NATSURL == "" {
		c.NATSURL = defaultNATSURL
	}

	if c.PresetsFile == "" {
		c.PresetsFile = defaultPresetsFile
	}

	if len(c.Cameras) == 0 {
		c.Cameras = []string{"1", "2", "3", "4", "5", "6"}
	}

	seen := make(map[string]struct{}, len(c.Cameras))

	for _, id := range c.Cameras {
		if id == "" {
			return errEmptyCameraID
		}

		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: %s", errDuplicateCamera, id)
		}

		seen[id] = struct{}{}
	}

	if c.MaxAttempts == 0 {
		c.MaxAttempts = confirm.DefaultMaxAttempts
	}

	if c.MaxAttempts < minMaxAttempts || c.MaxAttempts > maxMaxAttempts {
		return fmt.Errorf("max_attempts must be between %d and %d, got %d",
			minMaxAttempts, maxMaxAttempts, c.MaxAttempts)
	}

	if c.InquiryWait == 0 {
		c.InquiryWait = models.Duration(confirm.DefaultInquiryWait)
	}

	if c.RetryBackoff == 0 {
		c.RetryBackoff = models.Duration(confirm.DefaultRetryBackoff)
	}

	if time.Duration(c.InquiryWait) < 0 || time.Duration(c.RetryBackoff) < 0 {
		return errNegativeWait
	}

	return nil
}
