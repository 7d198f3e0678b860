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

// Package keystore provides bbolt-backed storage for named MAC keys.
package keystore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

const (
	// defaultDirMode is the default directory permissions (read, write, execute for owner only)
	defaultDirMode = 0o700
	// defaultFileMode is the default file permissions (read, write for owner only)
	defaultFileMode = 0o600
)

var (
	metadataBucket = []byte("metadata")
	materialBucket = []byte("material")
)

// Sentinel errors returned by the keystore
var (
	// ErrNotFound is returned when the requested key does not exist
	ErrNotFound = errors.New("key not found")
	// ErrAlreadyExists is returned when creating a key whose ID is taken
	ErrAlreadyExists = errors.New("key already exists")
)

// Store manages named MAC keys in a bbolt database
type Store struct {
	db *bbolt.DB
}

// NewStore opens (creating if necessary) a keystore at the given path
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, defaultDirMode); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := bbolt.Open(path, defaultFileMode, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bbolt database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, bucket := range [][]byte{metadataBucket, materialBucket} {
			if _, createErr := tx.CreateBucketIfNotExists(bucket); createErr != nil {
				return createErr
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create buckets: %w", err)
	}

	return &Store{db: db}, nil
}

// CreateKey stores a new key with its material. Fails if the ID is already
// taken.
//
//nolint:revive // ctx parameter kept for interface symmetry with other stores
func (s *Store) CreateKey(ctx context.Context, metadata *KeyMetadata, material []byte) error {
	if metadata.ID == "" {
		return fmt.Errorf("key ID is required")
	}
	if len(material) == 0 {
		return fmt.Errorf("key material is required")
	}

	if metadata.State == "" {
		metadata.State = KeyStateActive
	}
	now := time.Now()
	if metadata.CreatedAt.IsZero() {
		metadata.CreatedAt = now
	}
	metadata.UpdatedAt = now

	data, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		meta := tx.Bucket(metadataBucket)
		if meta.Get([]byte(metadata.ID)) != nil {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, metadata.ID)
		}

		if putErr := meta.Put([]byte(metadata.ID), data); putErr != nil {
			return putErr
		}

		return tx.Bucket(materialBucket).Put([]byte(metadata.ID), material)
	})
}

// GetKey retrieves key metadata by ID
//
//nolint:revive // ctx parameter kept for interface symmetry with other stores
func (s *Store) GetKey(ctx context.Context, keyID string) (*KeyMetadata, error) {
	var metadata KeyMetadata

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(metadataBucket).Get([]byte(keyID))
		if data == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, keyID)
		}

		return json.Unmarshal(data, &metadata)
	})
	if err != nil {
		return nil, err
	}

	return &metadata, nil
}

// GetKeyMaterial retrieves the raw key material by ID. The returned slice is
// a copy and safe to hold beyond the transaction.
//
//nolint:revive // ctx parameter kept for interface symmetry with other stores
func (s *Store) GetKeyMaterial(ctx context.Context, keyID string) ([]byte, error) {
	var material []byte

	err := s.db.View(func(tx *bbolt.Tx) error {
		val := tx.Bucket(materialBucket).Get([]byte(keyID))
		if val == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, keyID)
		}

		// Copy the value since it's only valid within the transaction
		material = make([]byte, len(val))
		copy(material, val)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return material, nil
}

// UpdateKeyState updates the lifecycle state of a key
//
//nolint:revive // ctx parameter kept for interface symmetry with other stores
func (s *Store) UpdateKeyState(ctx context.Context, keyID string, state KeyState) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		meta := tx.Bucket(metadataBucket)
		data := meta.Get([]byte(keyID))
		if data == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, keyID)
		}

		var metadata KeyMetadata
		if err := json.Unmarshal(data, &metadata); err != nil {
			return fmt.Errorf("failed to unmarshal metadata: %w", err)
		}

		metadata.State = state
		metadata.UpdatedAt = time.Now()

		updated, err := json.Marshal(&metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}

		return meta.Put([]byte(keyID), updated)
	})
}

// DeleteKey removes a key and its material
//
//nolint:revive // ctx parameter kept for interface symmetry with other stores
func (s *Store) DeleteKey(ctx context.Context, keyID string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		meta := tx.Bucket(metadataBucket)
		if meta.Get([]byte(keyID)) == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, keyID)
		}

		if err := meta.Delete([]byte(keyID)); err != nil {
			return err
		}

		return tx.Bucket(materialBucket).Delete([]byte(keyID))
	})
}

// ListKeys returns metadata for all stored keys
//
//nolint:revive // ctx parameter kept for interface symmetry with other stores
func (s *Store) ListKeys(ctx context.Context) ([]*KeyMetadata, error) {
	var keys []*KeyMetadata

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(metadataBucket).ForEach(func(_, v []byte) error {
			var metadata KeyMetadata
			if err := json.Unmarshal(v, &metadata); err != nil {
				return fmt.Errorf("failed to unmarshal metadata: %w", err)
			}
			keys = append(keys, &metadata)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return keys, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks if the store is available
func (s *Store) Ping(_ context.Context) error {
	return s.db.View(func(_ *bbolt.Tx) error {
		return nil
	})
}
