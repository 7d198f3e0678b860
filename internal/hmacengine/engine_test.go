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
	"bytes"
	"crypto/hmac"
	"encoding/hex"
	"errors"
	"math/rand"
	"testing"
)

// Reference digests for key "supersecretkey" and message
// "Return of the MAC!", verified against an independent HMAC implementation
var referenceDigests = map[HashType]string{
	HashMD5:        "2eb54fdefb6154c86b7bb8ecbb39f06f",
	HashSHA1:       "a0ac4cd68a2f4812c355983d94e8d025afe7dddf",
	HashSHA256:     "fe442023f8a7d36a810e1e7cd8a8e2816457f350a008fbf638296afa12085e59",
	HashSHA384:     "ff13bb97616c38c9f03b24c9c8dba166c2c86217477f6b9d08959f54268b76929d455492055c19be1d46770a433a4d6a",
	HashSHA512:     "7f1e7c65a2e5188f467cac5dfdc53e9260d49791e4ac43e32d662ffeba0a8e981e23d9e79cd03101db62dfc3269ae8ec64d3df3211a462f96f556b1da7cdb5c8",
	HashSHA3256:    "3732793ae30df476387bf7a0ef665fa3dbd54f5e07b5b44a9af901b738a9592a",
	HashBLAKE2b256: "229db3570dd8441ddc28eccbc9f715ed7d9e5fd9a815b6a8390917a0009c1001",
}

var (
	testKey     = []byte("supersecretkey")
	testMessage = []byte("Return of the MAC!")
)

func TestEngine_Digest_ReferenceVectors(t *testing.T) {
	engine := NewEngine()

	for hashType, expected := range referenceDigests {
		digest, err := engine.Digest(hashType, testKey, testMessage)
		if err != nil {
			t.Fatalf("Digest(%s) failed: %v", hashType, err)
		}

		if hex.EncodeToString(digest) != expected {
			t.Errorf("Digest(%s) = %s, want %s", hashType, hex.EncodeToString(digest), expected)
		}
	}
}

func TestEngine_Digest_Deterministic(t *testing.T) {
	engine := NewEngine()

	for _, hashType := range engine.SupportedAlgorithms() {
		first, err := engine.Digest(hashType, testKey, testMessage)
		if err != nil {
			t.Fatalf("Digest(%s) failed: %v", hashType, err)
		}

		second, err := engine.Digest(hashType, testKey, testMessage)
		if err != nil {
			t.Fatalf("Digest(%s) failed: %v", hashType, err)
		}

		if !bytes.Equal(first, second) {
			t.Errorf("Digest(%s) is not deterministic", hashType)
		}
	}
}

func TestEngine_Digest_Length(t *testing.T) {
	engine := NewEngine()

	inputs := [][2][]byte{
		{nil, nil},
		{testKey, nil},
		{nil, testMessage},
		{testKey, testMessage},
		{bytes.Repeat([]byte("k"), 1000), bytes.Repeat([]byte("m"), 100000)},
	}

	for _, hashType := range engine.SupportedAlgorithms() {
		provider, err := engine.Provider(hashType)
		if err != nil {
			t.Fatalf("Provider(%s) failed: %v", hashType, err)
		}

		for _, input := range inputs {
			digest, err := engine.Digest(hashType, input[0], input[1])
			if err != nil {
				t.Fatalf("Digest(%s) failed: %v", hashType, err)
			}

			if len(digest) != provider.DigestSize() {
				t.Errorf("Digest(%s) length = %d, want %d", hashType, len(digest), provider.DigestSize())
			}
		}
	}
}

func TestEngine_Digest_UnsupportedAlgorithm(t *testing.T) {
	engine := NewEngine()

	_, err := engine.Digest("whirlpool", testKey, testMessage)
	if !errors.Is(err, ErrUnsupportedAlgorithm) {
		t.Errorf("Expected ErrUnsupportedAlgorithm, got %v", err)
	}
}

// TestEngine_Digest_MatchesStdlib cross-checks the construction against
// crypto/hmac for random keys and messages, including keys longer than the
// block size and empty inputs
func TestEngine_Digest_MatchesStdlib(t *testing.T) {
	engine := NewEngine()
	rng := rand.New(rand.NewSource(1))

	for _, hashType := range engine.SupportedAlgorithms() {
		provider, err := engine.Provider(hashType)
		if err != nil {
			t.Fatalf("Provider(%s) failed: %v", hashType, err)
		}

		keyLengths := []int{0, 1, provider.BlockSize() - 1, provider.BlockSize(), provider.BlockSize() + 1, 3 * provider.BlockSize()}
		messageLengths := []int{0, 1, 64, 4096}

		for _, keyLen := range keyLengths {
			for _, msgLen := range messageLengths {
				key := make([]byte, keyLen)
				rng.Read(key)
				message := make([]byte, msgLen)
				rng.Read(message)

				digest, err := engine.Digest(hashType, key, message)
				if err != nil {
					t.Fatalf("Digest(%s) failed: %v", hashType, err)
				}

				mac := hmac.New(provider.New, key)
				mac.Write(message)
				expected := mac.Sum(nil)

				if !bytes.Equal(digest, expected) {
					t.Errorf("Digest(%s) mismatch for key len %d, msg len %d", hashType, keyLen, msgLen)
				}
			}
		}
	}
}

func TestEngine_Verify(t *testing.T) {
	engine := NewEngine()

	mac, err := engine.Digest(HashSHA256, testKey, testMessage)
	if err != nil {
		t.Fatalf("Digest failed: %v", err)
	}

	valid, err := engine.Verify(HashSHA256, testKey, testMessage, mac)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !valid {
		t.Error("Verify should succeed for correct MAC")
	}

	valid, err = engine.Verify(HashSHA256, testKey, testMessage, []byte("wrong mac"))
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if valid {
		t.Error("Verify should fail for wrong MAC")
	}

	valid, err = engine.Verify(HashSHA256, testKey, []byte("wrong data"), mac)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if valid {
		t.Error("Verify should fail for wrong data")
	}

	if _, err := engine.Verify("whirlpool", testKey, testMessage, mac); !errors.Is(err, ErrUnsupportedAlgorithm) {
		t.Errorf("Expected ErrUnsupportedAlgorithm, got %v", err)
	}
}

func TestEngine_Digest_DoesNotRetainKey(t *testing.T) {
	engine := NewEngine()

	key := []byte("supersecretkey")
	first, err := engine.Digest(HashSHA256, key, testMessage)
	if err != nil {
		t.Fatalf("Digest failed: %v", err)
	}

	// Clobber the caller's buffer and recompute with a fresh copy; the
	// result must be unchanged
	for i := range key {
		key[i] = 0
	}

	second, err := engine.Digest(HashSHA256, []byte("supersecretkey"), testMessage)
	if err != nil {
		t.Fatalf("Digest failed: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Error("Digest result depends on the caller's key buffer after the call")
	}
}

func TestEngine_SupportedAlgorithms(t *testing.T) {
	engine := NewEngine()

	algorithms := engine.SupportedAlgorithms()
	if len(algorithms) != 7 {
		t.Errorf("Expected 7 registered algorithms, got %d", len(algorithms))
	}

	for _, hashType := range []HashType{HashMD5, HashSHA1, HashSHA256, HashSHA384, HashSHA512} {
		if _, err := engine.Provider(hashType); err != nil {
			t.Errorf("Provider(%s) failed: %v", hashType, err)
		}
	}
}
