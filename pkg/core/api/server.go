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

// Package api provides the HTTP API for triggering camera setting changes
// and observing confirmation progress.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/mux"

	"github.com/carverauto/camcontrol/pkg/confirm"
	srHTTP "github.com/carverauto/camcontrol/pkg/http"
	"github.com/carverauto/camcontrol/pkg/logger"
	"github.com/carverauto/camcontrol/pkg/models"
	"github.com/carverauto/camcontrol/pkg/presets"
)

const (
	minAttemptBound = 1
	maxAttemptBound = 20
)

var errNoCameras = errors.New("camera_num is required")

// ConfirmLauncher starts a confirmation task for one camera. The task runs
// detached from the HTTP request that triggered it.
type ConfirmLauncher interface {
	LaunchConfirm(deviceID string, settings models.Settings, maxAttempts int) error
}

// PresetSource resolves a slider position to a settings tuple.
type PresetSource interface {
	SettingsFor(slider int) (models.Settings, error)
	MaxSlider() int
}

// APIServer serves the slider, retry-bound and status-stream endpoints.
type APIServer struct {
	router      *mux.Router
	launcher    ConfirmLauncher
	presets     PresetSource
	hub         *Hub
	logger      logger.Logger
	corsConfig  models.CORSConfig
	maxAttempts atomic.Int64
}

// NewAPIServer creates the API server. defaultAttempts is clamped into the
// valid 1-20 bound.
func NewAPIServer(
	launcher ConfirmLauncher, presetTable PresetSource, hub *Hub,
	cors models.CORSConfig, defaultAttempts int, log logger.Logger) *APIServer {
	s := &APIServer{
		router:     mux.NewRouter(),
		launcher:   launcher,
		presets:    presetTable,
		hub:        hub,
		logger:     log,
		corsConfig: cors,
	}

	if defaultAttempts < minAttemptBound || defaultAttempts > maxAttemptBound {
		defaultAttempts = confirm.DefaultMaxAttempts
	}

	s.maxAttempts.Store(int64(defaultAttempts))

	s.setupRoutes()

	return s
}

// Router returns the configured handler for the HTTP server.
func (s *APIServer) Router() http.Handler {
	return s.router
}

// MaxAttempts returns the current default attempt bound.
func (s *APIServer) MaxAttempts() int {
	return int(s.maxAttempts.Load())
}

func (s *APIServer) setupRoutes() {
	s.router.Use(func(next http.Handler) http.Handler {
		return srHTTP.CommonMiddleware(next, s.corsConfig)
	})

	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/api/slider", s.handleSlider).Methods(http.MethodPost, http.MethodOptions)
	s.router.HandleFunc("/api/retries", s.handleRetries).Methods(http.MethodPost, http.MethodOptions)
	s.router.HandleFunc("/api/presets/max", s.handleMaxSlider).Methods(http.MethodGet)
	s.router.HandleFunc("/api/status/ws", s.hub.ServeWS).Methods(http.MethodGet)
}

func (*APIServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *APIServer) handleMaxSlider(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"max_slider_value": s.presets.MaxSlider()})
}

type sliderRequest struct {
	SliderValue *int        `json:"slider_value"`
	CameraNum   interface{} `json:"camera_num"`
}

type sliderResponse struct {
	Camera      string          `json:"camera"`
	Status      string          `json:"status"`
	MessageSent models.Settings `json:"message_sent"`
}

// handleSlider resolves the preset for the requested slider position and
// launches one confirmation task per camera. It replies as soon as the
// tasks are launched; progress arrives over the status stream.
func (s *APIServer) handleSlider(w http.ResponseWriter, r *http.Request) {
	var req sliderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if req.SliderValue == nil {
		writeError(w, "slider_value is required", http.StatusBadRequest)
		return
	}

	cameras, err := cameraList(req.CameraNum)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	settings, err := s.presets.SettingsFor(*req.SliderValue)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, presets.ErrSliderOutOfRange) {
			status = http.StatusBadRequest
		}

		writeError(w, err.Error(), status)

		return
	}

	attempts := s.MaxAttempts()
	responses := make([]sliderResponse, 0, len(cameras))

	for _, camera := range cameras {
		if err := s.launcher.LaunchConfirm(camera, settings, attempts); err != nil {
			writeError(w, err.Error(), http.StatusServiceUnavailable)
			return
		}

		s.logger.Info().
			Str("camera", camera).
			Int("slider_value", *req.SliderValue).
			Int("max_attempts", attempts).
			Msg("Confirmation launched")

		responses = append(responses, sliderResponse{
			Camera:      camera,
			Status:      "success",
			MessageSent: settings,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "success",
		"responses": responses,
	})
}

type retriesRequest struct {
	MsgCount *int `json:"msg_count"`
}

// handleRetries updates the default attempt bound used by subsequent
// slider requests.
func (s *APIServer) handleRetries(w http.ResponseWriter, r *http.Request) {
	var req retriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if req.MsgCount == nil || *req.MsgCount < minAttemptBound || *req.MsgCount > maxAttemptBound {
		writeError(w, fmt.Sprintf("invalid retry count, must be between %d and %d",
			minAttemptBound, maxAttemptBound), http.StatusBadRequest)

		return
	}

	s.maxAttempts.Store(int64(*req.MsgCount))

	s.logger.Info().Int("max_attempts", *req.MsgCount).Msg("Updated default attempt bound")

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": fmt.Sprintf("Maximum retry attempts set to %d", *req.MsgCount),
	})
}

// cameraList normalizes the camera_num field, which may be a scalar or a
// list of numbers or strings.
func cameraList(v interface{}) ([]string, error) {
	switch t := v.(type) {
	case nil:
		return nil, errNoCameras
	case []interface{}:
		if len(t) == 0 {
			return nil, errNoCameras
		}

		out := make([]string, 0, len(t))

		for _, item := range t {
			id, err := cameraID(item)
			if err != nil {
				return nil, err
			}

			out = append(out, id)
		}

		return out, nil
	default:
		id, err := cameraID(v)
		if err != nil {
			return nil, err
		}

		return []string{id}, nil
	}
}

func cameraID(v interface{}) (string, error) {
	switch t := v.(type) {
	case string:
		if t == "" {
			return "", errNoCameras
		}

		return t, nil
	case float64:
		return fmt.Sprintf("%d", int(t)), nil
	default:
		return "", fmt.Errorf("unsupported camera_num value %v", v)
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"status": "failed", "error": message})
}
