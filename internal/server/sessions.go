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
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Gosayram/openmac/internal/hmacengine"
	"github.com/Gosayram/openmac/internal/metrics"
)

const (
	// sessionIDBytes is the number of random bytes in a session ID
	sessionIDBytes = 16
)

// Sentinel errors returned by the session manager
var (
	// ErrSessionNotFound is returned when the session does not exist or has expired
	ErrSessionNotFound = errors.New("session not found")
	// ErrTooManySessions is returned when the concurrent session cap is reached
	ErrTooManySessions = errors.New("too many active sessions")
)

// session is a live streaming HMAC context bound to a key
type session struct {
	keyID    string
	hmacCtx  *hmacengine.Context
	lastUsed time.Time
}

// SessionManager maps session IDs to streaming HMAC contexts. A context is
// not safe for concurrent use, so the manager serializes all access under a
// single mutex. Idle sessions expire after the configured TTL; expiry is
// checked lazily on access and reaped by a background sweeper.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*session

	ttl         time.Duration
	maxSessions int
	logger      *zap.Logger

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewSessionManager creates a session manager with the given idle TTL and
// session cap
func NewSessionManager(ttl time.Duration, maxSessions int, logger *zap.Logger) *SessionManager {
	return &SessionManager{
		sessions:    make(map[string]*session),
		ttl:         ttl,
		maxSessions: maxSessions,
		logger:      logger,
	}
}

// StartSweeper starts the background sweeper reaping expired sessions at the
// given interval. Stop must be called to release it.
func (m *SessionManager) StartSweeper(interval time.Duration) {
	m.stopCh = make(chan struct{})
	m.doneCh = make(chan struct{})

	go func() {
		defer close(m.doneCh)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.reapExpired()
			case <-m.stopCh:
				return
			}
		}
	}()
}

// Stop stops the background sweeper and drops all sessions
func (m *SessionManager) Stop() {
	if m.stopCh != nil {
		close(m.stopCh)
		<-m.doneCh
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for id := range m.sessions {
		delete(m.sessions, id)
	}
	metrics.ActiveSessions.Set(0)
}

// Create registers a started context under a fresh session ID
func (m *SessionManager) Create(keyID string, hmacCtx *hmacengine.Context) (string, error) {
	id, err := newSessionID()
	if err != nil {
		return "", fmt.Errorf("failed to generate session ID: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sessions) >= m.maxSessions {
		return "", ErrTooManySessions
	}

	m.sessions[id] = &session{
		keyID:    keyID,
		hmacCtx:  hmacCtx,
		lastUsed: time.Now(),
	}
	metrics.ActiveSessions.Set(float64(len(m.sessions)))

	return id, nil
}

// Update feeds a chunk into the session's context
func (m *SessionManager) Update(id string, chunk []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, err := m.lookup(id)
	if err != nil {
		return err
	}

	if err := sess.hmacCtx.Update(chunk); err != nil {
		return err
	}

	sess.lastUsed = time.Now()

	return nil
}

// Finish finalizes the session's context, removes the session, and returns
// the digest. The session is removed even when finalization fails; the
// context is single-use either way.
func (m *SessionManager) Finish(id string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, err := m.lookup(id)
	if err != nil {
		return nil, err
	}

	delete(m.sessions, id)
	metrics.ActiveSessions.Set(float64(len(m.sessions)))

	return sess.hmacCtx.Finish()
}

// Abandon discards a session without producing a digest
func (m *SessionManager) Abandon(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.lookup(id); err != nil {
		return err
	}

	delete(m.sessions, id)
	metrics.ActiveSessions.Set(float64(len(m.sessions)))

	return nil
}

// Algorithm returns the hash type of the session's context
func (m *SessionManager) Algorithm(id string) (hmacengine.HashType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, err := m.lookup(id)
	if err != nil {
		return "", err
	}

	return sess.hmacCtx.Algorithm(), nil
}

// Count returns the number of live sessions
func (m *SessionManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.sessions)
}

// lookup returns the session, expiring it lazily. Callers must hold the
// mutex.
func (m *SessionManager) lookup(id string) (*session, error) {
	sess, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	if time.Since(sess.lastUsed) > m.ttl {
		delete(m.sessions, id)
		metrics.ActiveSessions.Set(float64(len(m.sessions)))
		metrics.SessionsExpired.Inc()
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	return sess, nil
}

// reapExpired drops all sessions idle past the TTL
func (m *SessionManager) reapExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for id, sess := range m.sessions {
		if now.Sub(sess.lastUsed) > m.ttl {
			delete(m.sessions, id)
			metrics.SessionsExpired.Inc()
			if m.logger != nil {
				m.logger.Debug("Expired idle streaming session",
					zap.String("session_id", id),
					zap.String("key_id", sess.keyID),
				)
			}
		}
	}
	metrics.ActiveSessions.Set(float64(len(m.sessions)))
}

// newSessionID returns a random hex session identifier
func newSessionID() (string, error) {
	buf := make([]byte, sessionIDBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return hex.EncodeToString(buf), nil
}
