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

package key

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"testing"

	internalcrypto "github.com/gjvanhalem/in-toto/internal/crypto"
	"github.com/gjvanhalem/in-toto/pkg/signing"
)

func TestNewSignerRequiresKey(t *testing.T) {
	_, err := NewSigner(nil)
	if !errors.Is(err, signing.ErrKeyLoad) {
		t.Errorf("NewSigner(nil) error = %v, want ErrKeyLoad", err)
	}
}

func TestSignVerifies(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	signer, err := NewSigner(priv)
	if err != nil {
		t.Fatalf("NewSigner() error = %v", err)
	}

	payload := []byte(`{"_type":"link","name":"build"}`)
	sig, err := signer.Sign(context.Background(), payload)
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	if sig.KeyID != signer.KeyID() {
		t.Errorf("Signature.KeyID = %s, want %s", sig.KeyID, signer.KeyID())
	}

	raw, err := hex.DecodeString(sig.Sig)
	if err != nil {
		t.Fatalf("signature is not hex: %v", err)
	}
	if err := internalcrypto.VerifySignature(priv.Public(), payload, raw); err != nil {
		t.Errorf("signature does not verify: %v", err)
	}
}

func TestKeyIDAvailableBeforeSigning(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	signer, err := NewSigner(priv)
	if err != nil {
		t.Fatalf("NewSigner() error = %v", err)
	}

	want, err := signing.ComputeKeyID(priv.Public())
	if err != nil {
		t.Fatalf("ComputeKeyID() error = %v", err)
	}
	if signer.KeyID() != want {
		t.Errorf("KeyID() = %s, want %s", signer.KeyID(), want)
	}
}
