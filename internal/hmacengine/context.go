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
	"fmt"
	"hash"
)

// contextState tracks the streaming context lifecycle
type contextState int

const (
	// stateUninitialized is the state before Start
	stateUninitialized contextState = iota
	// stateActive is the state between Start and Finish
	stateActive
	// stateFinished is the terminal state after Finish
	stateFinished
)

// String returns the state name for error messages
func (s contextState) String() string {
	switch s {
	case stateUninitialized:
		return "uninitialized"
	case stateActive:
		return "active"
	case stateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Context computes an HMAC digest over a message fed incrementally. The
// lifecycle is Start, any number of Update calls, then a single Finish; calls
// out of that order return ErrInvalidState and leave the context unchanged. A
// context is single-use per message; construct a new one instead of reusing.
//
// A Context is not safe for concurrent use without external synchronization.
type Context struct {
	engine   *Engine
	state    contextState
	provider HashProvider
	inner    hash.Hash
	outerPad []byte
}

// NewContext creates a streaming HMAC context bound to the engine's
// registered providers. The context starts uninitialized.
func (e *Engine) NewContext() *Context {
	return &Context{
		engine: e,
		state:  stateUninitialized,
	}
}

// Start initializes the context with the given algorithm and key. The key is
// normalized and copied; the caller's buffer is not retained. Valid only on
// an uninitialized context.
func (c *Context) Start(hashType HashType, key []byte) error {
	if c.state != stateUninitialized {
		return fmt.Errorf("%w: start called on %s context", ErrInvalidState, c.state)
	}

	provider, err := c.engine.Provider(hashType)
	if err != nil {
		return err
	}

	innerPad, outerPad := derivePads(provider, key)

	c.provider = provider
	c.inner = provider.New()
	c.inner.Write(innerPad)
	c.outerPad = outerPad
	c.state = stateActive

	return nil
}

// Update feeds a message chunk into the context. Chunks may be of any size
// including empty and are not retained beyond the call. Valid only on an
// active context.
func (c *Context) Update(chunk []byte) error {
	if c.state != stateActive {
		return fmt.Errorf("%w: update called on %s context", ErrInvalidState, c.state)
	}

	c.inner.Write(chunk)

	return nil
}

// Finish finalizes the context and returns the digest. Zero Update calls
// before Finish is valid and yields the HMAC of the empty message. The
// context transitions to its terminal state; a second Finish fails rather
// than returning a stale digest.
func (c *Context) Finish() ([]byte, error) {
	if c.state != stateActive {
		return nil, fmt.Errorf("%w: finish called on %s context", ErrInvalidState, c.state)
	}

	outer := c.provider.New()
	outer.Write(c.outerPad)
	outer.Write(c.inner.Sum(nil))

	c.state = stateFinished
	c.inner = nil
	c.outerPad = nil

	return outer.Sum(nil), nil
}

// Algorithm returns the hash type the context was started with, or the empty
// type if the context has not been started
func (c *Context) Algorithm() HashType {
	if c.provider == nil {
		return ""
	}

	return c.provider.Type()
}
