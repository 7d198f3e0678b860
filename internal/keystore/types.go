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
	"time"

	"github.com/Gosayram/openmac/internal/hmacengine"
)

// KeyState represents the lifecycle state of a key
type KeyState string

const (
	// KeyStateActive means the key is active and can be used
	KeyStateActive KeyState = "active"
	// KeyStateDisabled means the key is disabled and cannot be used
	KeyStateDisabled KeyState = "disabled"
)

// KeyMetadata represents metadata about a stored MAC key
type KeyMetadata struct {
	ID        string              `json:"id"`
	Algorithm hmacengine.HashType `json:"algorithm"`
	State     KeyState            `json:"state"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}
