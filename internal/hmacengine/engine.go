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
	"crypto/hmac"
	"fmt"
)

const (
	// innerPadByte is the HMAC inner padding byte (RFC 2104)
	innerPadByte = 0x36
	// outerPadByte is the HMAC outer padding byte (RFC 2104)
	outerPadByte = 0x5c
)

// Engine computes HMAC digests over registered hash algorithms. The engine
// holds no mutable state between calls and is safe for concurrent use.
type Engine struct {
	providers map[HashType]HashProvider
}

// NewEngine creates a new HMAC engine with all default hash providers
func NewEngine() *Engine {
	engine := &Engine{
		providers: make(map[HashType]HashProvider),
	}

	engine.registerDefaultProviders()

	return engine
}

// registerDefaultProviders registers all default hash providers
func (e *Engine) registerDefaultProviders() {
	e.RegisterProvider(NewMD5Provider())
	e.RegisterProvider(NewSHA1Provider())
	e.RegisterProvider(NewSHA256Provider())
	e.RegisterProvider(NewSHA384Provider())
	e.RegisterProvider(NewSHA512Provider())
	e.RegisterProvider(NewSHA3256Provider())
	e.RegisterProvider(NewBLAKE2b256Provider())
}

// RegisterProvider registers a new hash provider. Registration is not safe
// for concurrent use with Digest; register providers before sharing the
// engine.
func (e *Engine) RegisterProvider(provider HashProvider) {
	e.providers[provider.Type()] = provider
}

// Provider returns the registered provider for the given hash type
func (e *Engine) Provider(hashType HashType) (HashProvider, error) {
	provider, ok := e.providers[hashType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, hashType)
	}

	return provider, nil
}

// SupportedAlgorithms returns the hash types of all registered providers
func (e *Engine) SupportedAlgorithms() []HashType {
	algorithms := make([]HashType, 0, len(e.providers))
	for hashType := range e.providers {
		algorithms = append(algorithms, hashType)
	}

	return algorithms
}

// Digest computes the HMAC of message under key using the given hash
// algorithm. Key and message may be empty or arbitrarily long; the result is
// always exactly DigestSize bytes for the algorithm.
func (e *Engine) Digest(hashType HashType, key, message []byte) ([]byte, error) {
	provider, err := e.Provider(hashType)
	if err != nil {
		return nil, err
	}

	innerPad, outerPad := derivePads(provider, key)

	inner := provider.New()
	inner.Write(innerPad)
	inner.Write(message)

	outer := provider.New()
	outer.Write(outerPad)
	outer.Write(inner.Sum(nil))

	return outer.Sum(nil), nil
}

// Verify computes the HMAC of message and compares it against mac in
// constant time
func (e *Engine) Verify(hashType HashType, key, message, mac []byte) (bool, error) {
	expected, err := e.Digest(hashType, key, message)
	if err != nil {
		return false, err
	}

	return hmac.Equal(mac, expected), nil
}

// normalizeKey returns the block-sized key mandated by RFC 2104: keys longer
// than the block size are replaced by their hash, then the key is zero-padded
// on the right to exactly the block size. The caller's buffer is never
// aliased.
func normalizeKey(provider HashProvider, key []byte) []byte {
	normalized := make([]byte, provider.BlockSize())

	if len(key) > provider.BlockSize() {
		h := provider.New()
		h.Write(key)
		copy(normalized, h.Sum(nil))
		return normalized
	}

	copy(normalized, key)

	return normalized
}

// derivePads returns the inner and outer padded keys for the HMAC
// construction
func derivePads(provider HashProvider, key []byte) (innerPad, outerPad []byte) {
	normalized := normalizeKey(provider, key)

	innerPad = make([]byte, len(normalized))
	outerPad = make([]byte, len(normalized))
	for i, b := range normalized {
		innerPad[i] = b ^ innerPadByte
		outerPad[i] = b ^ outerPadByte
	}

	return innerPad, outerPad
}
