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

// Package config provides configuration loading and management for the OpenMAC application.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	// defaultServerPort is the default HTTP server port
	defaultServerPort = 8080
	// defaultReadTimeout is the default read timeout for HTTP server
	defaultReadTimeout = 30 * time.Second
	// defaultWriteTimeout is the default write timeout for HTTP server
	defaultWriteTimeout = 30 * time.Second
	// defaultIdleTimeout is the default idle timeout for HTTP server
	defaultIdleTimeout = 120 * time.Second
	// defaultSessionTTL is the default idle TTL for streaming sessions
	defaultSessionTTL = 10 * time.Minute
	// defaultSessionSweepInterval is the default interval between expired-session sweeps
	defaultSessionSweepInterval = time.Minute
	// defaultMaxSessions is the default cap on concurrent streaming sessions
	defaultMaxSessions = 1024
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Sessions SessionsConfig
	Logging  LoggingConfig
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Address      string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	TLSEnabled   bool
	TLSCertFile  string
	TLSKeyFile   string
}

// StorageConfig contains keystore configuration
type StorageConfig struct {
	Path string
}

// SessionsConfig contains streaming session configuration
type SessionsConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
	MaxSessions   int
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string // "debug", "info", "warn", "error"
	Format     string // "json", "text"
	OutputPath string
}

// Load loads configuration from environment variables with defaults
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Address:      getEnv("OPENMAC_SERVER_ADDRESS", "0.0.0.0"),
			Port:         getEnvInt("OPENMAC_SERVER_PORT", defaultServerPort),
			ReadTimeout:  getEnvDuration("OPENMAC_SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout: getEnvDuration("OPENMAC_SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:  getEnvDuration("OPENMAC_SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
			TLSEnabled:   getEnvBool("OPENMAC_TLS_ENABLED", false),
			TLSCertFile:  getEnv("OPENMAC_TLS_CERT_FILE", ""),
			TLSKeyFile:   getEnv("OPENMAC_TLS_KEY_FILE", ""),
		},
		Storage: StorageConfig{
			Path: getEnv("OPENMAC_STORAGE_PATH", "./data/openmac.db"),
		},
		Sessions: SessionsConfig{
			TTL:           getEnvDuration("OPENMAC_SESSION_TTL", defaultSessionTTL),
			SweepInterval: getEnvDuration("OPENMAC_SESSION_SWEEP_INTERVAL", defaultSessionSweepInterval),
			MaxSessions:   getEnvInt("OPENMAC_MAX_SESSIONS", defaultMaxSessions),
		},
		Logging: LoggingConfig{
			Level:      getEnv("OPENMAC_LOG_LEVEL", "info"),
			Format:     getEnv("OPENMAC_LOG_FORMAT", "json"),
			OutputPath: getEnv("OPENMAC_LOG_OUTPUT", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.TLSEnabled {
		if c.Server.TLSCertFile == "" {
			return fmt.Errorf("TLS enabled but cert file not specified")
		}
		if c.Server.TLSKeyFile == "" {
			return fmt.Errorf("TLS enabled but key file not specified")
		}
	}

	if c.Storage.Path == "" {
		return fmt.Errorf("storage path not specified")
	}

	if c.Sessions.TTL <= 0 {
		return fmt.Errorf("invalid session TTL: %s", c.Sessions.TTL)
	}
	if c.Sessions.MaxSessions <= 0 {
		return fmt.Errorf("invalid max sessions: %d", c.Sessions.MaxSessions)
	}

	return nil
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
