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

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/camcontrol/pkg/confirm"
	"github.com/carverauto/camcontrol/pkg/logger"
	"github.com/carverauto/camcontrol/pkg/models"
)

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	t.Cleanup(func() { _ = conn.Close() })

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 },
		time.Second, 10*time.Millisecond)

	return conn
}

func TestHubStreamsStatusEvents(t *testing.T) {
	t.Parallel()

	hub := NewHub(models.CORSConfig{}, logger.NewTestLogger())
	t.Cleanup(hub.Close)

	conn := dialHub(t, hub)

	hub.Notify(context.Background(), "3", "Settings applied successfully",
		confirm.Progress{RetriesComplete: true, SettingsApplied: true})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var event models.StatusEvent
	require.NoError(t, json.Unmarshal(payload, &event))

	assert.Equal(t, "3", event.Camera)
	assert.Equal(t, "Settings applied successfully", event.Status)
	assert.NotZero(t, event.Timestamp)

	require.NotNil(t, event.RetriesComplete)
	assert.True(t, *event.RetriesComplete)
	require.NotNil(t, event.SettingsApplied)
	assert.True(t, *event.SettingsApplied)
}

func TestHubIntermediateEventCarriesFalseFlags(t *testing.T) {
	t.Parallel()

	hub := NewHub(models.CORSConfig{}, logger.NewTestLogger())
	t.Cleanup(hub.Close)

	conn := dialHub(t, hub)

	hub.Notify(context.Background(), "1", "Settings not confirmed (Attempt 1/5)", confirm.Progress{})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var event models.StatusEvent
	require.NoError(t, json.Unmarshal(payload, &event))

	require.NotNil(t, event.RetriesComplete)
	assert.False(t, *event.RetriesComplete)
	require.NotNil(t, event.SettingsApplied)
	assert.False(t, *event.SettingsApplied)
}

func TestHubClientDisconnectPrunes(t *testing.T) {
	t.Parallel()

	hub := NewHub(models.CORSConfig{}, logger.NewTestLogger())
	t.Cleanup(hub.Close)

	conn := dialHub(t, hub)

	require.NoError(t, conn.Close())

	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 },
		2*time.Second, 10*time.Millisecond)
}

func TestHubCloseDisconnectsClients(t *testing.T) {
	t.Parallel()

	hub := NewHub(models.CORSConfig{}, logger.NewTestLogger())

	conn := dialHub(t, hub)

	hub.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	_, _, err := conn.ReadMessage()
	assert.Error(t, err)

	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 },
		2*time.Second, 10*time.Millisecond)
}

func TestHubBroadcastWithoutClients(t *testing.T) {
	t.Parallel()

	hub := NewHub(models.CORSConfig{}, logger.NewTestLogger())
	t.Cleanup(hub.Close)

	hub.Broadcast([]byte(`{"camera":"1"}`))
	assert.Zero(t, hub.ClientCount())
}

func TestHubRejectsDisallowedOrigin(t *testing.T) {
	t.Parallel()

	hub := NewHub(models.CORSConfig{AllowedOrigins: []string{"http://ui.local"}},
		logger.NewTestLogger())
	t.Cleanup(hub.Close)

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	header := http.Header{"Origin": {"http://evil.local"}}

	conn, resp, err := websocket.DefaultDialer.Dial(url, header) //nolint:bodyclose // closed below
	if conn != nil {
		_ = conn.Close()
	}

	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	assert.Error(t, err)
}
