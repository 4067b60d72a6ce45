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
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/carverauto/camcontrol/pkg/confirm"
	"github.com/carverauto/camcontrol/pkg/logger"
	"github.com/carverauto/camcontrol/pkg/models"
)

const (
	writeTimeout   = 10 * time.Second
	pingInterval   = 30 * time.Second
	pongTimeout    = 60 * time.Second
	clientBuffer   = 64
	maxMessageSize = 1024
)

// Hub fans confirmation progress events out to connected websocket
// clients. It implements confirm.Notifier so the retry orchestrator can
// push events without knowing about websockets.
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]*wsClient
	upgrader websocket.Upgrader
	logger   logger.Logger
	closed   bool
}

type wsClient struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

// NewHub creates the status stream hub. The CORS config governs which
// origins may open a stream; an empty list allows all.
func NewHub(cors models.CORSConfig, log logger.Logger) *Hub {
	h := &Hub{
		clients: make(map[string]*wsClient),
		logger:  log,
	}

	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  maxMessageSize,
		WriteBufferSize: maxMessageSize,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || len(cors.AllowedOrigins) == 0 {
				return true
			}

			for _, allowed := range cors.AllowedOrigins {
				if allowed == "*" || allowed == origin {
					return true
				}
			}

			return false
		},
	}

	return h
}

// ServeWS upgrades the request to a websocket and streams status events
// until the client disconnects or the hub closes.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}

	client := &wsClient{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan []byte, clientBuffer),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()

		return
	}

	h.clients[client.id] = client
	h.mu.Unlock()

	h.logger.Info().Str("client_id", client.id).Msg("Status stream client connected")

	go h.writePump(client)
	go h.readPump(client)
}

// Notify implements confirm.Notifier. Both progress flags are always
// carried on stream events so UI clients can distinguish a terminal
// event from an intermediate one.
func (h *Hub) Notify(_ context.Context, deviceID, status string, progress confirm.Progress) {
	retriesComplete := progress.RetriesComplete
	settingsApplied := progress.SettingsApplied

	event := models.StatusEvent{
		Camera:          deviceID,
		Status:          status,
		Timestamp:       models.EpochSeconds(time.Now()),
		RetriesComplete: &retriesComplete,
		SettingsApplied: &settingsApplied,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to marshal status event")
		return
	}

	h.Broadcast(payload)
}

// Broadcast sends a payload to every connected client. Clients that
// cannot keep up are dropped rather than blocking the sender.
func (h *Hub) Broadcast(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		select {
		case client.send <- payload:
		default:
			h.logger.Warn().Str("client_id", client.id).Msg("Status stream client too slow, dropping")
			client.close()
		}
	}
}

// ClientCount returns the number of connected stream clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

// Close disconnects every client and rejects future connections.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*wsClient, 0, len(h.clients))

	for _, client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.Unlock()

	for _, client := range clients {
		client.close()
	}
}

func (h *Hub) removeClient(client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.clients, client.id)
}

func (h *Hub) writePump(client *wsClient) {
	ticker := time.NewTicker(pingInterval)

	defer func() {
		ticker.Stop()
		_ = client.conn.Close()
		h.removeClient(client)
		h.logger.Info().Str("client_id", client.id).Msg("Status stream client disconnected")
	}()

	for {
		select {
		case payload := <-client.send:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeTimeout))

			if err := client.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeTimeout))

			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-client.done:
			return
		}
	}
}

// readPump discards inbound frames; the stream is one-way. It exists to
// process control frames and detect disconnects.
func (h *Hub) readPump(client *wsClient) {
	defer client.close()

	client.conn.SetReadLimit(maxMessageSize)
	_ = client.conn.SetReadDeadline(time.Now().Add(pongTimeout))

	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *wsClient) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}
