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
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	// defaultRequestTimeout is the default timeout for HTTP requests
	defaultRequestTimeout = 60 * time.Second
)

// Server represents the HTTP server
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	logger     *zap.Logger
	config     *Config
}

// Config contains server configuration
type Config struct {
	Address      string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	TLSEnabled   bool
	TLSCertFile  string
	TLSKeyFile   string
}

// NewServer creates a new HTTP server
func NewServer(config *Config, logger *zap.Logger) *Server {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(defaultRequestTimeout))
	router.Use(MetricsMiddleware)

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	})

	// Metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	s := &Server{
		router: router,
		logger: logger,
		config: config,
	}

	return s
}

// RegisterRoutes registers API routes
func (s *Server) RegisterRoutes(handlers *Handlers) {
	s.router.Route("/v1", func(r chi.Router) {
		// Key management endpoints
		r.Post("/key", handlers.CreateKey)
		r.Get("/key/{id}", handlers.GetKey)
		r.Delete("/key/{id}", handlers.DeleteKey)
		r.Get("/keys", handlers.ListKeys)

		// One-shot MAC endpoints
		r.Post("/key/{id}/hmac", handlers.HMAC)
		r.Post("/key/{id}/verify", handlers.Verify)

		// Streaming session endpoints
		r.Post("/session", handlers.StartSession)
		r.Post("/session/{id}/update", handlers.UpdateSession)
		r.Post("/session/{id}/finish", handlers.FinishSession)
		r.Delete("/session/{id}", handlers.AbandonSession)

		// Algorithm discovery
		r.Get("/algorithms", handlers.Algorithms)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Address, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	if s.config.TLSEnabled {
		s.httpServer.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS13,
		}
	}

	s.logger.Info("Starting HTTP server",
		zap.String("address", addr),
		zap.Bool("tls_enabled", s.config.TLSEnabled),
	)

	if s.config.TLSEnabled {
		return s.httpServer.ListenAndServeTLS(s.config.TLSCertFile, s.config.TLSKeyFile)
	}

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Router returns the chi router (for testing)
func (s *Server) Router() *chi.Mux {
	return s.router
}
