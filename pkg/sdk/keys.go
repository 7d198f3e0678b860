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

package sdk

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// CreateKeyRequest represents a key creation request
type CreateKeyRequest struct {
	ID        string `json:"id"`
	Algorithm string `json:"algorithm"`
	Material  []byte `json:"material,omitempty"`
}

// CreateKeyResponse represents a key creation response
type CreateKeyResponse struct {
	ID        string `json:"id"`
	Algorithm string `json:"algorithm"`
	Message   string `json:"message,omitempty"`
}

// KeyInfo represents key metadata returned by the server
type KeyInfo struct {
	ID        string    `json:"id"`
	Algorithm string    `json:"algorithm"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListKeysResponse represents a key listing response
type ListKeysResponse struct {
	Keys []KeyInfo `json:"keys"`
}

// CreateKey creates a new MAC key. When material is nil the server generates
// random material of the algorithm's block size.
func (c *Client) CreateKey(ctx context.Context, id, algorithm string, material []byte) (*CreateKeyResponse, error) {
	req := CreateKeyRequest{
		ID:        id,
		Algorithm: algorithm,
		Material:  material,
	}

	resp, err := c.doRequestWithRetry(ctx, http.MethodPost, "/v1/key", req, defaultMaxRetries)
	if err != nil {
		return nil, err
	}

	var createResp CreateKeyResponse
	if err := c.parseResponse(resp, &createResp); err != nil {
		return nil, err
	}

	return &createResp, nil
}

// GetKey retrieves key metadata by ID
func (c *Client) GetKey(ctx context.Context, id string) (*KeyInfo, error) {
	resp, err := c.doRequestWithRetry(ctx, http.MethodGet, fmt.Sprintf("/v1/key/%s", id), nil, defaultMaxRetries)
	if err != nil {
		return nil, err
	}

	var info KeyInfo
	if err := c.parseResponse(resp, &info); err != nil {
		return nil, err
	}

	return &info, nil
}

// DeleteKey deletes a key by ID
func (c *Client) DeleteKey(ctx context.Context, id string) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/v1/key/%s", id), nil)
	if err != nil {
		return err
	}

	return c.parseResponse(resp, nil)
}

// ListKeys lists all stored keys
func (c *Client) ListKeys(ctx context.Context) ([]KeyInfo, error) {
	resp, err := c.doRequestWithRetry(ctx, http.MethodGet, "/v1/keys", nil, defaultMaxRetries)
	if err != nil {
		return nil, err
	}

	var listResp ListKeysResponse
	if err := c.parseResponse(resp, &listResp); err != nil {
		return nil, err
	}

	return listResp.Keys, nil
}

// Algorithms lists the hash algorithms supported by the server
func (c *Client) Algorithms(ctx context.Context) ([]string, error) {
	resp, err := c.doRequestWithRetry(ctx, http.MethodGet, "/v1/algorithms", nil, defaultMaxRetries)
	if err != nil {
		return nil, err
	}

	var algoResp struct {
		Algorithms []string `json:"algorithms"`
	}
	if err := c.parseResponse(resp, &algoResp); err != nil {
		return nil, err
	}

	return algoResp.Algorithms, nil
}
