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

// Package hmacengine implements the HMAC construction (RFC 2104) over a set
// of registered hash algorithms, exposed both as a stateless one-shot engine
// and as a streaming context with an explicit start/update/finish lifecycle.
package hmacengine

import (
	"errors"
	"hash"
)

// HashType identifies a supported hash algorithm
type HashType string

// Supported hash algorithms
const (
	// HashMD5 is MD5 (legacy, kept for interoperability)
	HashMD5 HashType = "md5"
	// HashSHA1 is SHA-1 (legacy, kept for interoperability)
	HashSHA1 HashType = "sha1"
	// HashSHA256 is SHA-256
	HashSHA256 HashType = "sha256"
	// HashSHA384 is SHA-384
	HashSHA384 HashType = "sha384"
	// HashSHA512 is SHA-512
	HashSHA512 HashType = "sha512"
	// HashSHA3256 is SHA3-256
	HashSHA3256 HashType = "sha3-256"
	// HashBLAKE2b256 is BLAKE2b-256
	HashBLAKE2b256 HashType = "blake2b-256"
)

// Sentinel errors returned by the engine and streaming contexts
var (
	// ErrUnsupportedAlgorithm is returned when the requested hash algorithm
	// is not registered with the engine
	ErrUnsupportedAlgorithm = errors.New("unsupported hash algorithm")

	// ErrInvalidState is returned when a streaming context method is called
	// out of lifecycle order
	ErrInvalidState = errors.New("invalid context state")
)

// HashProvider represents a hash algorithm provider. Block and digest sizes
// are fixed properties of the algorithm, never derived at runtime.
type HashProvider interface {
	// Type returns the algorithm identifier
	Type() HashType

	// BlockSize returns the algorithm's internal block size in bytes
	BlockSize() int

	// DigestSize returns the digest length in bytes
	DigestSize() int

	// New returns a fresh incremental hash state
	New() hash.Hash
}
