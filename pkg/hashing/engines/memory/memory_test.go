// Copyright 2026 The in-toto Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package memory

import (
	"testing"

	hashengines "github.com/gjvanhalem/in-toto/pkg/hashing/engines"
)

// Known digest of "abc" for SHA-256.
const sha256ABC = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"

func TestSHA256KnownVector(t *testing.T) {
	engine, err := NewSHA256([]byte("abc"))
	if err != nil {
		t.Fatalf("NewSHA256() error = %v", err)
	}
	digest, err := engine.Compute()
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if got := digest.Hex(); got != sha256ABC {
		t.Errorf("Compute() = %s, want %s", got, sha256ABC)
	}
	if got := digest.Algorithm(); got != "sha256" {
		t.Errorf("Algorithm() = %q, want %q", got, "sha256")
	}
}

func TestUpdateMatchesSingleShot(t *testing.T) {
	whole, err := NewSHA256([]byte("abc"))
	if err != nil {
		t.Fatalf("NewSHA256() error = %v", err)
	}
	chunked, err := NewSHA256(nil)
	if err != nil {
		t.Fatalf("NewSHA256() error = %v", err)
	}
	chunked.Update([]byte("a"))
	chunked.Update([]byte("bc"))

	wantDigest, err := whole.Compute()
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	gotDigest, err := chunked.Compute()
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if !gotDigest.Equal(wantDigest) {
		t.Errorf("chunked digest %s != single-shot digest %s", gotDigest.Hex(), wantDigest.Hex())
	}
}

func TestResetDiscardsState(t *testing.T) {
	engine, err := NewSHA256([]byte("garbage"))
	if err != nil {
		t.Fatalf("NewSHA256() error = %v", err)
	}
	engine.Reset([]byte("abc"))

	digest, err := engine.Compute()
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if got := digest.Hex(); got != sha256ABC {
		t.Errorf("Compute() after Reset = %s, want %s", got, sha256ABC)
	}
}

func TestRegisteredAlgorithms(t *testing.T) {
	for _, algorithm := range []string{"sha256", "sha512", "blake2b"} {
		t.Run(algorithm, func(t *testing.T) {
			if !hashengines.IsSupported(algorithm) {
				t.Fatalf("algorithm %q is not registered", algorithm)
			}
			engine, err := hashengines.Create(algorithm)
			if err != nil {
				t.Fatalf("Create(%q) error = %v", algorithm, err)
			}
			if got := engine.DigestName(); got != algorithm {
				t.Errorf("DigestName() = %q, want %q", got, algorithm)
			}
			engine.Update([]byte("data"))
			digest, err := engine.Compute()
			if err != nil {
				t.Fatalf("Compute() error = %v", err)
			}
			if digest.Size() != engine.DigestSize() {
				t.Errorf("digest size %d != declared size %d", digest.Size(), engine.DigestSize())
			}
		})
	}
}
