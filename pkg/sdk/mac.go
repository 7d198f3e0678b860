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
	"io"
	"net/http"
)

const (
	// defaultStreamChunkSize is the chunk size used by HMACReader
	defaultStreamChunkSize = 64 * 1024
)

// HMACRequest represents a one-shot HMAC request
type HMACRequest struct {
	Message []byte `json:"message"`
}

// HMACResponse represents a one-shot HMAC response
type HMACResponse struct {
	MAC       []byte `json:"mac"`
	Algorithm string `json:"algorithm"`
	Message   string `json:"message,omitempty"`
}

// VerifyRequest represents an HMAC verification request
type VerifyRequest struct {
	Message []byte `json:"message"`
	MAC     []byte `json:"mac"`
}

// VerifyResponse represents an HMAC verification response
type VerifyResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// startSessionRequest represents a session start request
type startSessionRequest struct {
	KeyID string `json:"key_id"`
}

// startSessionResponse represents a session start response
type startSessionResponse struct {
	SessionID string `json:"session_id"`
	Algorithm string `json:"algorithm"`
}

// updateSessionRequest represents a session update request
type updateSessionRequest struct {
	Chunk []byte `json:"chunk"`
}

// finishSessionResponse represents a session finish response
type finishSessionResponse struct {
	MAC       []byte `json:"mac"`
	Algorithm string `json:"algorithm"`
}

// HMAC computes a one-shot HMAC of message under the named key
func (c *Client) HMAC(ctx context.Context, keyID string, message []byte) (*HMACResponse, error) {
	req := HMACRequest{Message: message}

	resp, err := c.doRequest(ctx, http.MethodPost, fmt.Sprintf("/v1/key/%s/hmac", keyID), req)
	if err != nil {
		return nil, err
	}

	var macResp HMACResponse
	if err := c.parseResponse(resp, &macResp); err != nil {
		return nil, err
	}

	return &macResp, nil
}

// Verify verifies an HMAC of message under the named key
func (c *Client) Verify(ctx context.Context, keyID string, message, mac []byte) (bool, error) {
	req := VerifyRequest{Message: message, MAC: mac}

	resp, err := c.doRequest(ctx, http.MethodPost, fmt.Sprintf("/v1/key/%s/verify", keyID), req)
	if err != nil {
		return false, err
	}

	var verifyResp VerifyResponse
	if err := c.parseResponse(resp, &verifyResp); err != nil {
		return false, err
	}

	return verifyResp.Valid, nil
}

// Session is a server-side streaming HMAC session. A session is single-use:
// after Finish or Abandon no further calls are valid.
type Session struct {
	client    *Client
	id        string
	algorithm string
}

// StartSession starts a streaming HMAC session under the named key
func (c *Client) StartSession(ctx context.Context, keyID string) (*Session, error) {
	req := startSessionRequest{KeyID: keyID}

	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/session", req)
	if err != nil {
		return nil, err
	}

	var startResp startSessionResponse
	if err := c.parseResponse(resp, &startResp); err != nil {
		return nil, err
	}

	return &Session{
		client:    c,
		id:        startResp.SessionID,
		algorithm: startResp.Algorithm,
	}, nil
}

// ID returns the server-assigned session identifier
func (s *Session) ID() string {
	return s.id
}

// Algorithm returns the hash algorithm of the session's key
func (s *Session) Algorithm() string {
	return s.algorithm
}

// Update feeds a message chunk into the session
func (s *Session) Update(ctx context.Context, chunk []byte) error {
	req := updateSessionRequest{Chunk: chunk}

	resp, err := s.client.doRequest(ctx, http.MethodPost, fmt.Sprintf("/v1/session/%s/update", s.id), req)
	if err != nil {
		return err
	}

	return s.client.parseResponse(resp, nil)
}

// Finish finalizes the session and returns the digest
func (s *Session) Finish(ctx context.Context) ([]byte, error) {
	resp, err := s.client.doRequest(ctx, http.MethodPost, fmt.Sprintf("/v1/session/%s/finish", s.id), nil)
	if err != nil {
		return nil, err
	}

	var finishResp finishSessionResponse
	if err := s.client.parseResponse(resp, &finishResp); err != nil {
		return nil, err
	}

	return finishResp.MAC, nil
}

// Abandon discards the session without producing a digest
func (s *Session) Abandon(ctx context.Context) error {
	resp, err := s.client.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/v1/session/%s", s.id), nil)
	if err != nil {
		return err
	}

	return s.client.parseResponse(resp, nil)
}

// HMACReader streams r through a session in fixed-size chunks and returns
// the digest. The session is abandoned on error.
func (c *Client) HMACReader(ctx context.Context, keyID string, r io.Reader) ([]byte, error) {
	session, err := c.StartSession(ctx, keyID)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, defaultStreamChunkSize)
	for {
		n, readErr := r.Read(buf)
		if n > 0 {
			if err := session.Update(ctx, buf[:n]); err != nil {
				_ = session.Abandon(ctx)
				return nil, err
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			_ = session.Abandon(ctx)
			return nil, fmt.Errorf("failed to read input: %w", readErr)
		}
	}

	return session.Finish(ctx)
}
