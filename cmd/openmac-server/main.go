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

// Package main provides the OpenMAC server application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Gosayram/openmac/internal/config"
	"github.com/Gosayram/openmac/internal/hmacengine"
	"github.com/Gosayram/openmac/internal/keystore"
	"github.com/Gosayram/openmac/internal/logging"
	"github.com/Gosayram/openmac/internal/server"
	"github.com/Gosayram/openmac/internal/version"
)

func main() {
	cfg, logger := initializeConfigAndLogger()
	defer func() {
		_ = logger.Sync() // Ignore sync errors on exit
	}()

	logStartupInfo(logger, cfg)

	keyStore, err := keystore.NewStore(cfg.Storage.Path)
	if err != nil {
		logger.Fatal("Failed to open keystore", zap.Error(err))
	}
	defer keyStore.Close()

	engine := hmacengine.NewEngine()

	sessions := server.NewSessionManager(cfg.Sessions.TTL, cfg.Sessions.MaxSessions, logger.Logger)
	sessions.StartSweeper(cfg.Sessions.SweepInterval)
	defer sessions.Stop()

	httpServer := setupHTTPServer(cfg, logger, keyStore, engine, sessions)
	startAndShutdownServer(httpServer, cfg, logger)
}

// initializeConfigAndLogger loads configuration and initializes logger
func initializeConfigAndLogger() (*config.Config, *logging.Logger) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	return cfg, logger
}

// logStartupInfo logs server startup information
func logStartupInfo(logger *logging.Logger, cfg *config.Config) {
	info := version.Info()
	logger.Info("Starting openmac-server",
		zap.String("version", info["version"]),
		zap.String("commit", info["commit"]),
		zap.String("date", info["date"]),
		zap.String("address", cfg.Server.Address),
		zap.Int("port", cfg.Server.Port),
	)
}

// setupHTTPServer configures and sets up the HTTP server
func setupHTTPServer(
	cfg *config.Config,
	logger *logging.Logger,
	keyStore *keystore.Store,
	engine *hmacengine.Engine,
	sessions *server.SessionManager,
) *server.Server {
	serverConfig := &server.Config{
		Address:      cfg.Server.Address,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		TLSEnabled:   cfg.Server.TLSEnabled,
		TLSCertFile:  cfg.Server.TLSCertFile,
		TLSKeyFile:   cfg.Server.TLSKeyFile,
	}

	httpServer := server.NewServer(serverConfig, logger.Logger)
	handlers := server.NewHandlers(logger.Logger, keyStore, engine, sessions)
	httpServer.RegisterRoutes(handlers)

	return httpServer
}

// startAndShutdownServer starts the server and handles graceful shutdown
func startAndShutdownServer(httpServer *server.Server, cfg *config.Config, logger *logging.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		if err := httpServer.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", zap.String("signal", sig.String()))
	case err := <-serverErrChan:
		logger.Error("Server error", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during server shutdown", zap.Error(err))
	}

	logger.Info("Server stopped")
}
