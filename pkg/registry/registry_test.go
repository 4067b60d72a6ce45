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

package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopicsFor(t *testing.T) {
	topics := TopicsFor("2")

	assert.Equal(t, "colour-control.camera2", topics.Command)
	assert.Equal(t, "ptzcontrol.camera2", topics.InquiryRequest)
	assert.Equal(t, "caminq.camera2", topics.InquiryReply)
	assert.Equal(t, "cam_setting.camera2", topics.Result)
}

func TestConfirmable(t *testing.T) {
	assert.True(t, Confirmable("colour-control.camera1"))
	assert.False(t, Confirmable("ptzcontrol.camera1"))
	assert.False(t, Confirmable("pantilt.camera1"))
}

func TestDeviceFromSubject(t *testing.T) {
	tests := []struct {
		subject string
		want    string
		ok      bool
	}{
		{subject: "caminq.camera2", want: "2", ok: true},
		{subject: "caminq.camera12", want: "12", ok: true},
		{subject: "cam_setting.camera6", want: "6", ok: true},
		{subject: "caminq.camera", want: "", ok: false},
		{subject: "caminq.device2", want: "", ok: false},
		{subject: "nodots", want: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.subject, func(t *testing.T) {
			got, ok := DeviceFromSubject(tt.subject)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
