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

package keystore

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/Gosayram/openmac/internal/hmacengine"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(filepath.Join(t.TempDir(), "keys.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

func TestStore_CreateAndGetKey(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	metadata := &KeyMetadata{
		ID:        "test-key",
		Algorithm: hmacengine.HashSHA256,
	}
	material := []byte("supersecretkey")

	if err := store.CreateKey(ctx, metadata, material); err != nil {
		t.Fatalf("Failed to create key: %v", err)
	}

	retrieved, err := store.GetKey(ctx, "test-key")
	if err != nil {
		t.Fatalf("Failed to get key: %v", err)
	}

	if retrieved.ID != metadata.ID {
		t.Errorf("Expected ID %q, got %q", metadata.ID, retrieved.ID)
	}
	if retrieved.Algorithm != hmacengine.HashSHA256 {
		t.Errorf("Expected algorithm %q, got %q", hmacengine.HashSHA256, retrieved.Algorithm)
	}
	if retrieved.State != KeyStateActive {
		t.Errorf("Expected state %q, got %q", KeyStateActive, retrieved.State)
	}
	if retrieved.CreatedAt.IsZero() {
		t.Error("CreatedAt was not set")
	}

	gotMaterial, err := store.GetKeyMaterial(ctx, "test-key")
	if err != nil {
		t.Fatalf("Failed to get key material: %v", err)
	}
	if !bytes.Equal(gotMaterial, material) {
		t.Error("Retrieved material does not match stored material")
	}
}

func TestStore_CreateKey_Duplicate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	metadata := &KeyMetadata{ID: "dup", Algorithm: hmacengine.HashSHA256}
	if err := store.CreateKey(ctx, metadata, []byte("material")); err != nil {
		t.Fatalf("Failed to create key: %v", err)
	}

	err := store.CreateKey(ctx, &KeyMetadata{ID: "dup", Algorithm: hmacengine.HashSHA512}, []byte("other"))
	if !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("Expected ErrAlreadyExists, got %v", err)
	}
}

func TestStore_GetKey_NotFound(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.GetKey(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	if _, err := store.GetKeyMaterial(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestStore_UpdateKeyState(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	metadata := &KeyMetadata{ID: "state-key", Algorithm: hmacengine.HashSHA256}
	if err := store.CreateKey(ctx, metadata, []byte("material")); err != nil {
		t.Fatalf("Failed to create key: %v", err)
	}

	if err := store.UpdateKeyState(ctx, "state-key", KeyStateDisabled); err != nil {
		t.Fatalf("Failed to update state: %v", err)
	}

	retrieved, err := store.GetKey(ctx, "state-key")
	if err != nil {
		t.Fatalf("Failed to get key: %v", err)
	}
	if retrieved.State != KeyStateDisabled {
		t.Errorf("Expected state %q, got %q", KeyStateDisabled, retrieved.State)
	}
}

func TestStore_DeleteKey(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	metadata := &KeyMetadata{ID: "doomed", Algorithm: hmacengine.HashSHA256}
	if err := store.CreateKey(ctx, metadata, []byte("material")); err != nil {
		t.Fatalf("Failed to create key: %v", err)
	}

	if err := store.DeleteKey(ctx, "doomed"); err != nil {
		t.Fatalf("Failed to delete key: %v", err)
	}

	if _, err := store.GetKey(ctx, "doomed"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
	if _, err := store.GetKeyMaterial(ctx, "doomed"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for material after delete, got %v", err)
	}

	if err := store.DeleteKey(ctx, "doomed"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound on double delete, got %v", err)
	}
}

func TestStore_ListKeys(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ids := []string{"alpha", "beta", "gamma"}
	for _, id := range ids {
		metadata := &KeyMetadata{ID: id, Algorithm: hmacengine.HashSHA256}
		if err := store.CreateKey(ctx, metadata, []byte("material-"+id)); err != nil {
			t.Fatalf("Failed to create key %s: %v", id, err)
		}
	}

	keys, err := store.ListKeys(ctx)
	if err != nil {
		t.Fatalf("Failed to list keys: %v", err)
	}

	if len(keys) != len(ids) {
		t.Fatalf("Expected %d keys, got %d", len(ids), len(keys))
	}

	seen := make(map[string]bool)
	for _, key := range keys {
		seen[key.ID] = true
	}
	for _, id := range ids {
		if !seen[id] {
			t.Errorf("Key %s missing from listing", id)
		}
	}
}
