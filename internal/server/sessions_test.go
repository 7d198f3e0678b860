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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Gosayram/openmac/internal/hmacengine"
)

func startedContext(t *testing.T, engine *hmacengine.Engine) *hmacengine.Context {
	t.Helper()

	ctx := engine.NewContext()
	require.NoError(t, ctx.Start(hmacengine.HashSHA256, []byte("supersecretkey")))

	return ctx
}

func TestSessionManager_Lifecycle(t *testing.T) {
	engine := hmacengine.NewEngine()
	manager := NewSessionManager(time.Minute, 16, zap.NewNop())
	defer manager.Stop()

	id, err := manager.Create("key-1", startedContext(t, engine))
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.Equal(t, 1, manager.Count())

	require.NoError(t, manager.Update(id, []byte("Return of ")))
	require.NoError(t, manager.Update(id, []byte("the MAC!")))

	mac, err := manager.Finish(id)
	require.NoError(t, err)

	expected, err := engine.Digest(hmacengine.HashSHA256, []byte("supersecretkey"), []byte("Return of the MAC!"))
	require.NoError(t, err)
	assert.Equal(t, expected, mac)
	assert.Equal(t, 0, manager.Count())

	// The session is gone after Finish
	_, err = manager.Finish(id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, manager.Update(id, []byte("late")), ErrSessionNotFound)
}

func TestSessionManager_UnknownSession(t *testing.T) {
	manager := NewSessionManager(time.Minute, 16, zap.NewNop())
	defer manager.Stop()

	assert.ErrorIs(t, manager.Update("missing", []byte("chunk")), ErrSessionNotFound)
	_, err := manager.Finish("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, manager.Abandon("missing"), ErrSessionNotFound)
}

func TestSessionManager_Cap(t *testing.T) {
	engine := hmacengine.NewEngine()
	manager := NewSessionManager(time.Minute, 2, zap.NewNop())
	defer manager.Stop()

	_, err := manager.Create("key-1", startedContext(t, engine))
	require.NoError(t, err)
	_, err = manager.Create("key-2", startedContext(t, engine))
	require.NoError(t, err)

	_, err = manager.Create("key-3", startedContext(t, engine))
	assert.ErrorIs(t, err, ErrTooManySessions)
}

func TestSessionManager_LazyExpiry(t *testing.T) {
	engine := hmacengine.NewEngine()
	manager := NewSessionManager(10*time.Millisecond, 16, zap.NewNop())
	defer manager.Stop()

	id, err := manager.Create("key-1", startedContext(t, engine))
	require.NoError(t, err)

	time.Sleep(30 * time.Millisecond)

	assert.ErrorIs(t, manager.Update(id, []byte("chunk")), ErrSessionNotFound)
	assert.Equal(t, 0, manager.Count())
}

func TestSessionManager_Sweeper(t *testing.T) {
	engine := hmacengine.NewEngine()
	manager := NewSessionManager(10*time.Millisecond, 16, zap.NewNop())
	manager.StartSweeper(10 * time.Millisecond)
	defer manager.Stop()

	_, err := manager.Create("key-1", startedContext(t, engine))
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return manager.Count() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestSessionManager_Abandon(t *testing.T) {
	engine := hmacengine.NewEngine()
	manager := NewSessionManager(time.Minute, 16, zap.NewNop())
	defer manager.Stop()

	id, err := manager.Create("key-1", startedContext(t, engine))
	require.NoError(t, err)

	require.NoError(t, manager.Abandon(id))
	assert.Equal(t, 0, manager.Count())

	_, err = manager.Finish(id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionManager_Algorithm(t *testing.T) {
	engine := hmacengine.NewEngine()
	manager := NewSessionManager(time.Minute, 16, zap.NewNop())
	defer manager.Stop()

	id, err := manager.Create("key-1", startedContext(t, engine))
	require.NoError(t, err)

	algorithm, err := manager.Algorithm(id)
	require.NoError(t, err)
	assert.Equal(t, hmacengine.HashSHA256, algorithm)

	_, err = manager.Algorithm("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
