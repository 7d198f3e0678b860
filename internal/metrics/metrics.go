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

// Package metrics provides Prometheus metrics for OpenMAC.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OperationDuration tracks the duration of operations in seconds
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "openmac_operation_duration_seconds",
			Help:    "Duration of operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "status"},
	)

	// OperationTotal tracks the total number of operations
	OperationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "openmac_operations_total",
			Help: "Total number of operations",
		},
		[]string{"operation", "status"},
	)

	// ErrorRate tracks error rate by operation type
	ErrorRate = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "openmac_errors_total",
			Help: "Total number of errors",
		},
		[]string{"operation", "error_type"},
	)

	// DigestTotal tracks digest computations by algorithm
	DigestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "openmac_digests_total",
			Help: "Total number of HMAC digests computed",
		},
		[]string{"algorithm", "mode"},
	)

	// ActiveSessions tracks the number of live streaming sessions
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "openmac_active_sessions",
			Help: "Number of active streaming sessions",
		},
	)

	// SessionsExpired tracks streaming sessions reaped by the idle sweeper
	SessionsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "openmac_sessions_expired_total",
			Help: "Total number of streaming sessions expired",
		},
	)
)

// RecordOperation records an operation with duration and status
func RecordOperation(operation, status string, duration float64) {
	OperationDuration.WithLabelValues(operation, status).Observe(duration)
	OperationTotal.WithLabelValues(operation, status).Inc()
}

// RecordError records an error
func RecordError(operation, errorType string) {
	ErrorRate.WithLabelValues(operation, errorType).Inc()
}

// RecordDigest records a digest computation. Mode is "oneshot" or
// "streaming".
func RecordDigest(algorithm, mode string) {
	DigestTotal.WithLabelValues(algorithm, mode).Inc()
}
