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

package signing

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sigstore/sigstore/pkg/cryptoutils"
)

func writeKeyFile(t *testing.T, priv interface{}) string {
	t.Helper()
	pemBytes, err := cryptoutils.MarshalPrivateKeyToPEM(priv)
	if err != nil {
		t.Fatalf("encoding key: %v", err)
	}
	path := filepath.Join(t.TempDir(), "key.pem")
	if err := os.WriteFile(path, pemBytes, 0o600); err != nil {
		t.Fatalf("writing key file: %v", err)
	}
	return path
}

func TestLoadPrivateKeyECDSA(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	path := writeKeyFile(t, priv)

	loaded, err := LoadPrivateKey(path, nil)
	if err != nil {
		t.Fatalf("LoadPrivateKey() error = %v", err)
	}
	if _, ok := loaded.(*ecdsa.PrivateKey); !ok {
		t.Errorf("LoadPrivateKey() returned %T, want *ecdsa.PrivateKey", loaded)
	}
}

func TestLoadPrivateKeyEd25519(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	path := writeKeyFile(t, priv)

	loaded, err := LoadPrivateKey(path, nil)
	if err != nil {
		t.Fatalf("LoadPrivateKey() error = %v", err)
	}
	if _, ok := loaded.(ed25519.PrivateKey); !ok {
		t.Errorf("LoadPrivateKey() returned %T, want ed25519.PrivateKey", loaded)
	}
}

func TestLoadPrivateKeyMissingFile(t *testing.T) {
	_, err := LoadPrivateKey(filepath.Join(t.TempDir(), "absent.pem"), nil)
	if !errors.Is(err, ErrKeyLoad) {
		t.Errorf("LoadPrivateKey() error = %v, want ErrKeyLoad", err)
	}
}

func TestLoadPrivateKeyGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.pem")
	if err := os.WriteFile(path, []byte("not a pem"), 0o600); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	_, err := LoadPrivateKey(path, nil)
	if !errors.Is(err, ErrKeyLoad) {
		t.Errorf("LoadPrivateKey() error = %v, want ErrKeyLoad", err)
	}
}

func TestComputeKeyIDIsStable(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}

	first, err := ComputeKeyID(priv.Public())
	if err != nil {
		t.Fatalf("ComputeKeyID() error = %v", err)
	}
	second, err := ComputeKeyID(priv.Public())
	if err != nil {
		t.Fatalf("ComputeKeyID() error = %v", err)
	}

	if first != second {
		t.Errorf("ComputeKeyID() not stable: %s vs %s", first, second)
	}
	if len(first) != 64 {
		t.Errorf("ComputeKeyID() = %q, want 64 hex characters", first)
	}
}

func TestComputeKeyIDDistinguishesKeys(t *testing.T) {
	keyA, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	keyB, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}

	idA, err := ComputeKeyID(keyA.Public())
	if err != nil {
		t.Fatalf("ComputeKeyID() error = %v", err)
	}
	idB, err := ComputeKeyID(keyB.Public())
	if err != nil {
		t.Fatalf("ComputeKeyID() error = %v", err)
	}
	if idA == idB {
		t.Error("ComputeKeyID() collided for distinct keys")
	}
}
