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

package hmacengine

import (
	"crypto/md5"  //nolint:gosec // legacy algorithm offered for interoperability
	"crypto/sha1" //nolint:gosec // legacy algorithm offered for interoperability
	"crypto/sha256"
	"crypto/sha512"
	"hash"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// hashAlgorithm implements HashProvider for a fixed algorithm
type hashAlgorithm struct {
	hashType   HashType
	blockSize  int
	digestSize int
	factory    func() hash.Hash
}

// Type returns the algorithm identifier
func (a *hashAlgorithm) Type() HashType {
	return a.hashType
}

// BlockSize returns the algorithm's internal block size in bytes
func (a *hashAlgorithm) BlockSize() int {
	return a.blockSize
}

// DigestSize returns the digest length in bytes
func (a *hashAlgorithm) DigestSize() int {
	return a.digestSize
}

// New returns a fresh incremental hash state
func (a *hashAlgorithm) New() hash.Hash {
	return a.factory()
}

// NewMD5Provider creates an MD5 hash provider
func NewMD5Provider() HashProvider {
	return &hashAlgorithm{
		hashType:   HashMD5,
		blockSize:  md5.BlockSize,
		digestSize: md5.Size,
		factory:    md5.New,
	}
}

// NewSHA1Provider creates a SHA-1 hash provider
func NewSHA1Provider() HashProvider {
	return &hashAlgorithm{
		hashType:   HashSHA1,
		blockSize:  sha1.BlockSize,
		digestSize: sha1.Size,
		factory:    sha1.New,
	}
}

// NewSHA256Provider creates a SHA-256 hash provider
func NewSHA256Provider() HashProvider {
	return &hashAlgorithm{
		hashType:   HashSHA256,
		blockSize:  sha256.BlockSize,
		digestSize: sha256.Size,
		factory:    sha256.New,
	}
}

// NewSHA384Provider creates a SHA-384 hash provider
func NewSHA384Provider() HashProvider {
	return &hashAlgorithm{
		hashType:   HashSHA384,
		blockSize:  sha512.BlockSize,
		digestSize: sha512.Size384,
		factory:    sha512.New384,
	}
}

// NewSHA512Provider creates a SHA-512 hash provider
func NewSHA512Provider() HashProvider {
	return &hashAlgorithm{
		hashType:   HashSHA512,
		blockSize:  sha512.BlockSize,
		digestSize: sha512.Size,
		factory:    sha512.New,
	}
}

// NewSHA3256Provider creates a SHA3-256 hash provider
func NewSHA3256Provider() HashProvider {
	return &hashAlgorithm{
		hashType:   HashSHA3256,
		blockSize:  136, // SHA3-256 rate
		digestSize: 32,
		factory:    func() hash.Hash { return sha3.New256() },
	}
}

// NewBLAKE2b256Provider creates a BLAKE2b-256 hash provider
func NewBLAKE2b256Provider() HashProvider {
	return &hashAlgorithm{
		hashType:   HashBLAKE2b256,
		blockSize:  blake2b.BlockSize,
		digestSize: 32,
		factory: func() hash.Hash {
			// New256 fails only when a key longer than 64 bytes is
			// passed; unkeyed use cannot fail
			h, _ := blake2b.New256(nil)
			return h
		},
	}
}
