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

// Package main provides the OpenMAC CLI tool for computing HMAC digests
// locally or through an OpenMAC server.
package main

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Gosayram/openmac/internal/hmacengine"
	"github.com/Gosayram/openmac/internal/version"
	"github.com/Gosayram/openmac/pkg/sdk"
)

const (
	// defaultClientTimeout is the default timeout for HTTP client requests
	defaultClientTimeout = 30 * time.Second
)

// CLI represents the root CLI structure
type CLI struct {
	ServerURL string `name:"server" env:"OPENMAC_SERVER_URL" default:"http://localhost:8080" help:"OpenMAC server URL"`
	Token     string `name:"token" env:"OPENMAC_TOKEN" help:"Authentication token"`

	Version    VersionCmd    `cmd:"" help:"Show version information"`
	Key        KeyCmd        `cmd:"" help:"Key management commands"`
	HMAC       HMACCmd       `cmd:"" help:"Compute an HMAC digest"`
	Verify     VerifyCmd     `cmd:"" help:"Verify an HMAC digest"`
	Stream     StreamCmd     `cmd:"" help:"Stream stdin through a server-side HMAC session"`
	Algorithms AlgorithmsCmd `cmd:"" help:"List supported hash algorithms"`
	Health     HealthCmd     `cmd:"" help:"Check server health"`
}

// getClient creates an SDK client from CLI configuration
func (c *CLI) getClient() (*sdk.Client, error) {
	config := sdk.Config{
		BaseURL: c.ServerURL,
		Token:   c.Token,
		Timeout: defaultClientTimeout,
	}
	return sdk.NewClient(config)
}

// readData reads data from file, base64 string, or stdin
func readData(file, data string) ([]byte, error) {
	if file != "" {
		return os.ReadFile(file) //nolint:gosec // file path is user-controlled by design
	}
	if data != "" {
		return base64.StdEncoding.DecodeString(data)
	}
	return io.ReadAll(os.Stdin)
}

// VersionCmd shows version information
type VersionCmd struct{}

// Run executes the version command
//
//nolint:unparam // error return is required by kong.Cmd interface
func (v *VersionCmd) Run() error {
	info := version.Info()
	fmt.Println("openmac-cli version", info["version"])
	fmt.Println("commit:", info["commit"])
	fmt.Println("date:", info["date"])
	return nil
}

// KeyCmd groups key management commands
type KeyCmd struct {
	Create KeyCreateCmd `cmd:"" help:"Create a new MAC key"`
	Get    KeyGetCmd    `cmd:"" help:"Get key metadata"`
	List   KeyListCmd   `cmd:"" help:"List keys"`
	Delete KeyDeleteCmd `cmd:"" help:"Delete a key"`
}

// KeyCreateCmd creates a new MAC key
type KeyCreateCmd struct {
	CLI *CLI `kong:"-"`

	ID        string `arg:"" help:"Key ID"`
	Algorithm string `name:"algorithm" default:"sha256" help:"Hash algorithm"`
	KeyFile   string `name:"key-file" help:"Import key material from file (random material is generated when omitted)"`
}

// Run executes the key create command
func (k *KeyCreateCmd) Run() error {
	client, err := k.CLI.getClient()
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	var material []byte
	if k.KeyFile != "" {
		material, err = os.ReadFile(k.KeyFile) //nolint:gosec // file path is user-controlled by design
		if err != nil {
			return fmt.Errorf("failed to read key file: %w", err)
		}
	}

	resp, err := client.CreateKey(context.Background(), k.ID, k.Algorithm, material)
	if err != nil {
		return err
	}

	fmt.Printf("Created key %s (%s)\n", resp.ID, resp.Algorithm)
	return nil
}

// KeyGetCmd retrieves key metadata
type KeyGetCmd struct {
	CLI *CLI `kong:"-"`

	ID string `arg:"" help:"Key ID"`
}

// Run executes the key get command
func (k *KeyGetCmd) Run() error {
	client, err := k.CLI.getClient()
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	info, err := client.GetKey(context.Background(), k.ID)
	if err != nil {
		return err
	}

	fmt.Printf("ID:        %s\n", info.ID)
	fmt.Printf("Algorithm: %s\n", info.Algorithm)
	fmt.Printf("State:     %s\n", info.State)
	fmt.Printf("Created:   %s\n", info.CreatedAt.Format(time.RFC3339))
	return nil
}

// KeyListCmd lists keys
type KeyListCmd struct {
	CLI *CLI `kong:"-"`
}

// Run executes the key list command
func (k *KeyListCmd) Run() error {
	client, err := k.CLI.getClient()
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	keys, err := client.ListKeys(context.Background())
	if err != nil {
		return err
	}

	for _, key := range keys {
		fmt.Printf("%s\t%s\t%s\n", key.ID, key.Algorithm, key.State)
	}
	return nil
}

// KeyDeleteCmd deletes a key
type KeyDeleteCmd struct {
	CLI *CLI `kong:"-"`

	ID string `arg:"" help:"Key ID"`
}

// Run executes the key delete command
func (k *KeyDeleteCmd) Run() error {
	client, err := k.CLI.getClient()
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	if err := client.DeleteKey(context.Background(), k.ID); err != nil {
		return err
	}

	fmt.Printf("Deleted key %s\n", k.ID)
	return nil
}

// HMACCmd computes an HMAC digest, either against the server under a stored
// key or locally from a key file
type HMACCmd struct {
	CLI *CLI `kong:"-"`

	KeyID     string `name:"key-id" help:"Server-side key ID"`
	KeyFile   string `name:"key-file" help:"Local key material file (computes locally, no server)"`
	Algorithm string `name:"algorithm" default:"sha256" help:"Hash algorithm (local mode only)"`
	File      string `name:"file" help:"Read message from file"`
	Data      string `name:"data" help:"Base64 encoded message"`
}

// Run executes the hmac command
func (h *HMACCmd) Run() error {
	message, err := readData(h.File, h.Data)
	if err != nil {
		return fmt.Errorf("failed to read message: %w", err)
	}

	if h.KeyFile != "" {
		key, err := os.ReadFile(h.KeyFile) //nolint:gosec // file path is user-controlled by design
		if err != nil {
			return fmt.Errorf("failed to read key file: %w", err)
		}

		engine := hmacengine.NewEngine()
		mac, err := engine.Digest(hmacengine.HashType(h.Algorithm), key, message)
		if err != nil {
			return err
		}

		fmt.Println(hex.EncodeToString(mac))
		return nil
	}

	if h.KeyID == "" {
		return fmt.Errorf("either --key-id or --key-file is required")
	}

	client, err := h.CLI.getClient()
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	resp, err := client.HMAC(context.Background(), h.KeyID, message)
	if err != nil {
		return err
	}

	fmt.Println(hex.EncodeToString(resp.MAC))
	return nil
}

// VerifyCmd verifies an HMAC digest under a stored key
type VerifyCmd struct {
	CLI *CLI `kong:"-"`

	KeyID string `name:"key-id" required:"" help:"Server-side key ID"`
	MAC   string `name:"mac" required:"" help:"Hex encoded MAC to verify"`
	File  string `name:"file" help:"Read message from file"`
	Data  string `name:"data" help:"Base64 encoded message"`
}

// Run executes the verify command
func (v *VerifyCmd) Run() error {
	message, err := readData(v.File, v.Data)
	if err != nil {
		return fmt.Errorf("failed to read message: %w", err)
	}

	mac, err := hex.DecodeString(v.MAC)
	if err != nil {
		return fmt.Errorf("invalid hex MAC: %w", err)
	}

	client, err := v.CLI.getClient()
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	valid, err := client.Verify(context.Background(), v.KeyID, message, mac)
	if err != nil {
		return err
	}

	if !valid {
		return fmt.Errorf("MAC verification failed")
	}

	fmt.Println("MAC verified")
	return nil
}

// StreamCmd streams stdin through a server-side HMAC session
type StreamCmd struct {
	CLI *CLI `kong:"-"`

	KeyID string `name:"key-id" required:"" help:"Server-side key ID"`
	File  string `name:"file" help:"Read message from file instead of stdin"`
}

// Run executes the stream command
func (s *StreamCmd) Run() error {
	client, err := s.CLI.getClient()
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	var input io.Reader = os.Stdin
	if s.File != "" {
		f, err := os.Open(s.File) //nolint:gosec // file path is user-controlled by design
		if err != nil {
			return fmt.Errorf("failed to open file: %w", err)
		}
		defer f.Close()
		input = f
	}

	mac, err := client.HMACReader(context.Background(), s.KeyID, input)
	if err != nil {
		return err
	}

	fmt.Println(hex.EncodeToString(mac))
	return nil
}

// AlgorithmsCmd lists supported hash algorithms
type AlgorithmsCmd struct {
	CLI *CLI `kong:"-"`
}

// Run executes the algorithms command
func (a *AlgorithmsCmd) Run() error {
	client, err := a.CLI.getClient()
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	algorithms, err := client.Algorithms(context.Background())
	if err != nil {
		return err
	}

	for _, algorithm := range algorithms {
		fmt.Println(algorithm)
	}
	return nil
}

// HealthCmd checks server health
type HealthCmd struct {
	CLI *CLI `kong:"-"`
}

// Run executes the health command
func (h *HealthCmd) Run() error {
	client, err := h.CLI.getClient()
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	if err := client.Health(context.Background()); err != nil {
		return fmt.Errorf("server is unhealthy: %w", err)
	}

	fmt.Println("Server is healthy")
	return nil
}
