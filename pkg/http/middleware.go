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

// Package http provides shared HTTP middleware.
package http

import (
	"net/http"
	"strings"

	"github.com/carverauto/camcontrol/pkg/models"
)

// CommonMiddleware applies CORS headers and answers preflight requests. An
// empty allowed-origins list (or a "*" entry) allows every origin.
func CommonMiddleware(next http.Handler, cors models.CORSConfig) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if allowed := allowedOrigin(origin, cors.AllowedOrigins); allowed != "" {
			w.Header().Set("Access-Control-Allow-Origin", allowed)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if cors.AllowCredentials {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func allowedOrigin(origin string, allowed []string) string {
	if len(allowed) == 0 {
		return "*"
	}

	for _, candidate := range allowed {
		if candidate == "*" {
			return "*"
		}

		if strings.EqualFold(candidate, origin) {
			return origin
		}
	}

	return ""
}
