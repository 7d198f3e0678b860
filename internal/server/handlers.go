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

// Package server provides HTTP handlers for the OpenMAC API endpoints.
package server

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Gosayram/openmac/internal/hmacengine"
	"github.com/Gosayram/openmac/internal/keystore"
	"github.com/Gosayram/openmac/internal/metrics"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	logger   *zap.Logger
	keyStore *keystore.Store
	engine   *hmacengine.Engine
	sessions *SessionManager
}

// NewHandlers creates new HTTP handlers
func NewHandlers(logger *zap.Logger, keyStore *keystore.Store, engine *hmacengine.Engine, sessions *SessionManager) *Handlers {
	return &Handlers{
		logger:   logger,
		keyStore: keyStore,
		engine:   engine,
		sessions: sessions,
	}
}

// CreateKey handles MAC key creation
func (h *Handlers) CreateKey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if req.ID == "" {
		h.respondError(w, http.StatusBadRequest, "key ID is required", nil)
		return
	}

	hashType := hmacengine.HashType(req.Algorithm)
	provider, err := h.engine.Provider(hashType)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "unsupported algorithm", err)
		return
	}

	material := req.Material
	if len(material) == 0 {
		material = make([]byte, provider.BlockSize())
		if _, err := rand.Read(material); err != nil {
			h.respondError(w, http.StatusInternalServerError, "failed to generate key material", err)
			return
		}
	}

	metadata := &keystore.KeyMetadata{
		ID:        req.ID,
		Algorithm: hashType,
		State:     keystore.KeyStateActive,
	}

	if err := h.keyStore.CreateKey(ctx, metadata, material); err != nil {
		if errors.Is(err, keystore.ErrAlreadyExists) {
			h.respondError(w, http.StatusConflict, "key already exists", err)
			return
		}
		h.respondError(w, http.StatusInternalServerError, "failed to create key", err)
		return
	}

	h.respondJSON(w, http.StatusCreated, CreateKeyResponse{
		ID:        req.ID,
		Algorithm: req.Algorithm,
		Message:   "Key created successfully",
	})
}

// GetKey handles key metadata retrieval. Key material is never returned.
func (h *Handlers) GetKey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	keyID := chi.URLParam(r, "id")
	metadata, err := h.keyStore.GetKey(ctx, keyID)
	if err != nil {
		if errors.Is(err, keystore.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "key not found", err)
			return
		}
		h.respondError(w, http.StatusInternalServerError, "failed to get key", err)
		return
	}

	h.respondJSON(w, http.StatusOK, keyResponse(metadata))
}

// DeleteKey handles key deletion
func (h *Handlers) DeleteKey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	keyID := chi.URLParam(r, "id")
	if err := h.keyStore.DeleteKey(ctx, keyID); err != nil {
		if errors.Is(err, keystore.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "key not found", err)
			return
		}
		h.respondError(w, http.StatusInternalServerError, "failed to delete key", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListKeys handles key listing
func (h *Handlers) ListKeys(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	keys, err := h.keyStore.ListKeys(ctx)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to list keys", err)
		return
	}

	resp := ListKeysResponse{Keys: make([]GetKeyResponse, 0, len(keys))}
	for _, metadata := range keys {
		resp.Keys = append(resp.Keys, keyResponse(metadata))
	}

	h.respondJSON(w, http.StatusOK, resp)
}

// HMAC handles one-shot HMAC computation under a stored key
func (h *Handlers) HMAC(w http.ResponseWriter, r *http.Request) {
	keyID := chi.URLParam(r, "id")

	var req HMACRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	metadata, material, err := h.loadActiveKey(w, keyID, r)
	if err != nil {
		return
	}

	mac, err := h.engine.Digest(metadata.Algorithm, material, req.Message)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to compute HMAC", err)
		return
	}

	metrics.RecordDigest(string(metadata.Algorithm), "oneshot")

	h.respondJSON(w, http.StatusOK, HMACResponse{
		MAC:       mac,
		Algorithm: string(metadata.Algorithm),
	})
}

// Verify handles HMAC verification under a stored key
func (h *Handlers) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if len(req.MAC) == 0 {
		h.respondError(w, http.StatusBadRequest, "mac is required", nil)
		return
	}

	keyID := chi.URLParam(r, "id")
	metadata, material, err := h.loadActiveKey(w, keyID, r)
	if err != nil {
		return
	}

	valid, err := h.engine.Verify(metadata.Algorithm, material, req.Message, req.MAC)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to verify HMAC", err)
		return
	}

	h.respondJSON(w, http.StatusOK, VerifyResponse{Valid: valid})
}

// StartSession starts a streaming HMAC session under a stored key
func (h *Handlers) StartSession(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if req.KeyID == "" {
		h.respondError(w, http.StatusBadRequest, "key_id is required", nil)
		return
	}

	metadata, material, err := h.loadActiveKey(w, req.KeyID, r)
	if err != nil {
		return
	}

	hmacCtx := h.engine.NewContext()
	if err := hmacCtx.Start(metadata.Algorithm, material); err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to start context", err)
		return
	}

	sessionID, err := h.sessions.Create(req.KeyID, hmacCtx)
	if err != nil {
		if errors.Is(err, ErrTooManySessions) {
			h.respondError(w, http.StatusTooManyRequests, "too many active sessions", err)
			return
		}
		h.respondError(w, http.StatusInternalServerError, "failed to create session", err)
		return
	}

	h.logger.Debug("Started streaming session",
		zap.String("session_id", sessionID),
		zap.String("key_id", req.KeyID),
		zap.String("algorithm", string(metadata.Algorithm)),
	)

	h.respondJSON(w, http.StatusCreated, StartSessionResponse{
		SessionID: sessionID,
		Algorithm: string(metadata.Algorithm),
	})
}

// UpdateSession feeds a message chunk into a streaming session
func (h *Handlers) UpdateSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	var req UpdateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.sessions.Update(sessionID, req.Chunk); err != nil {
		h.respondSessionError(w, err, "failed to update session")
		return
	}

	h.respondJSON(w, http.StatusOK, UpdateSessionResponse{})
}

// FinishSession finalizes a streaming session and returns the digest. The
// session is destroyed; a second finish returns 404.
func (h *Handlers) FinishSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	algorithm, err := h.sessions.Algorithm(sessionID)
	if err != nil {
		h.respondSessionError(w, err, "failed to finish session")
		return
	}

	mac, err := h.sessions.Finish(sessionID)
	if err != nil {
		h.respondSessionError(w, err, "failed to finish session")
		return
	}

	metrics.RecordDigest(string(algorithm), "streaming")

	h.respondJSON(w, http.StatusOK, FinishSessionResponse{
		MAC:       mac,
		Algorithm: string(algorithm),
	})
}

// AbandonSession discards a streaming session without producing a digest
func (h *Handlers) AbandonSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")

	if err := h.sessions.Abandon(sessionID); err != nil {
		h.respondSessionError(w, err, "failed to abandon session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Algorithms lists the registered hash algorithms
func (h *Handlers) Algorithms(w http.ResponseWriter, _ *http.Request) {
	algorithms := h.engine.SupportedAlgorithms()

	names := make([]string, 0, len(algorithms))
	for _, hashType := range algorithms {
		names = append(names, string(hashType))
	}
	sort.Strings(names)

	h.respondJSON(w, http.StatusOK, AlgorithmsResponse{Algorithms: names})
}

// loadActiveKey fetches key metadata and material, writing the error
// response itself on failure
func (h *Handlers) loadActiveKey(w http.ResponseWriter, keyID string, r *http.Request) (*keystore.KeyMetadata, []byte, error) {
	ctx := r.Context()

	metadata, err := h.keyStore.GetKey(ctx, keyID)
	if err != nil {
		if errors.Is(err, keystore.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "key not found", err)
			return nil, nil, err
		}
		h.respondError(w, http.StatusInternalServerError, "failed to get key", err)
		return nil, nil, err
	}

	if metadata.State != keystore.KeyStateActive {
		err := errors.New("key is not active")
		h.respondError(w, http.StatusForbidden, "key is not active", err)
		return nil, nil, err
	}

	material, err := h.keyStore.GetKeyMaterial(ctx, keyID)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to get key material", err)
		return nil, nil, err
	}

	return metadata, material, nil
}

// respondSessionError maps session manager errors to HTTP statuses
func (h *Handlers) respondSessionError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		h.respondError(w, http.StatusNotFound, "session not found", err)
	case errors.Is(err, hmacengine.ErrInvalidState):
		h.respondError(w, http.StatusConflict, message, err)
	default:
		h.respondError(w, http.StatusInternalServerError, message, err)
	}
}

// respondJSON writes a JSON response
func (h *Handlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// respondError writes a JSON error response
func (h *Handlers) respondError(w http.ResponseWriter, status int, message string, err error) {
	h.logger.Error(message, zap.Error(err))
	details := ""
	if err != nil {
		details = err.Error()
	}
	h.respondJSON(w, status, ErrorResponse{
		Error:   message,
		Details: details,
	})
}

// keyResponse converts key metadata to its API representation
func keyResponse(metadata *keystore.KeyMetadata) GetKeyResponse {
	return GetKeyResponse{
		ID:        metadata.ID,
		Algorithm: string(metadata.Algorithm),
		State:     string(metadata.State),
		CreatedAt: metadata.CreatedAt,
		UpdatedAt: metadata.UpdatedAt,
	}
}
