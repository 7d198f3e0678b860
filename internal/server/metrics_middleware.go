// Copyright 2025 Gosayram Contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/Gosayram/openmac/internal/metrics"
)

const (
	// httpStatusClientError is the minimum HTTP status code for client errors
	httpStatusClientError = 400
	// httpStatusServerError is the minimum HTTP status code for server errors
	httpStatusServerError = 500
)

// MetricsMiddleware records metrics for HTTP requests
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap response writer to capture status code
		ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(ww, r)

		duration := time.Since(start).Seconds()
		operation := extractOperation(r)
		statusLabel := "success"
		if ww.statusCode >= httpStatusClientError {
			statusLabel = "error"
		}

		metrics.RecordOperation(operation, statusLabel, duration)

		if ww.statusCode >= httpStatusClientError {
			errorType := "client_error"
			if ww.statusCode >= httpStatusServerError {
				errorType = "server_error"
			}
			metrics.RecordError(operation, errorType)
		}
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// extractOperation maps a request to a stable operation label, collapsing
// path parameters so label cardinality stays bounded
func extractOperation(r *http.Request) string {
	path := r.URL.Path
	method := r.Method

	switch {
	case path == "/health":
		return "health"
	case path == "/metrics":
		return "metrics"
	case path == "/v1/algorithms":
		return "algorithms"
	case path == "/v1/keys":
		return "list_keys"
	case path == "/v1/key" && method == http.MethodPost:
		return "create_key"
	case strings.HasSuffix(path, "/hmac"):
		return "hmac"
	case strings.HasSuffix(path, "/verify"):
		return "verify"
	case path == "/v1/session" && method == http.MethodPost:
		return "session_start"
	case strings.HasSuffix(path, "/update"):
		return "session_update"
	case strings.HasSuffix(path, "/finish"):
		return "session_finish"
	case strings.HasPrefix(path, "/v1/session/") && method == http.MethodDelete:
		return "session_abandon"
	case strings.HasPrefix(path, "/v1/key/") && method == http.MethodDelete:
		return "delete_key"
	case strings.HasPrefix(path, "/v1/key/"):
		return "get_key"
	default:
		return "unknown"
	}
}
