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

import "time"

// Request/Response models. Byte fields are base64 encoded on the wire by
// encoding/json.

// CreateKeyRequest represents a request to create a new MAC key
type CreateKeyRequest struct {
	ID        string `json:"id"`
	Algorithm string `json:"algorithm"`
	// Material is optional imported key material; when empty, random
	// material of the algorithm's block size is generated
	Material []byte `json:"material,omitempty"`
}

// CreateKeyResponse represents a response from key creation
type CreateKeyResponse struct {
	ID        string `json:"id"`
	Algorithm string `json:"algorithm"`
	Message   string `json:"message,omitempty"`
}

// GetKeyResponse represents a response from key metadata retrieval
type GetKeyResponse struct {
	ID        string    `json:"id"`
	Algorithm string    `json:"algorithm"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListKeysResponse represents a response from key listing
type ListKeysResponse struct {
	Keys []GetKeyResponse `json:"keys"`
}

// HMACRequest represents a request to compute a one-shot HMAC
type HMACRequest struct {
	Message []byte `json:"message"`
}

// HMACResponse represents a response from HMAC computation
type HMACResponse struct {
	MAC       []byte `json:"mac"`
	Algorithm string `json:"algorithm"`
	Message   string `json:"message,omitempty"`
}

// VerifyRequest represents a request to verify an HMAC
type VerifyRequest struct {
	Message []byte `json:"message"`
	MAC     []byte `json:"mac"`
}

// VerifyResponse represents a response from HMAC verification
type VerifyResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// StartSessionRequest represents a request to start a streaming session
type StartSessionRequest struct {
	KeyID string `json:"key_id"`
}

// StartSessionResponse represents a response from session start
type StartSessionResponse struct {
	SessionID string `json:"session_id"`
	Algorithm string `json:"algorithm"`
	Message   string `json:"message,omitempty"`
}

// UpdateSessionRequest represents a chunk fed into a streaming session
type UpdateSessionRequest struct {
	Chunk []byte `json:"chunk"`
}

// UpdateSessionResponse represents a response from a session update
type UpdateSessionResponse struct {
	Message string `json:"message,omitempty"`
}

// FinishSessionResponse represents a response from session finalization
type FinishSessionResponse struct {
	MAC       []byte `json:"mac"`
	Algorithm string `json:"algorithm"`
	Message   string `json:"message,omitempty"`
}

// AlgorithmsResponse lists the hash algorithms registered with the engine
type AlgorithmsResponse struct {
	Algorithms []string `json:"algorithms"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
