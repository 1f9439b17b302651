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

// Package key signs link metadata with a local in-memory private key.
package key

import (
	"context"
	"crypto"
	"encoding/hex"
	"fmt"

	internalcrypto "github.com/gjvanhalem/in-toto/internal/crypto"
	"github.com/gjvanhalem/in-toto/pkg/signing"
)

// Signer signs payloads with a local private key. ECDSA, RSA and
// Ed25519 keys are supported.
type Signer struct {
	private crypto.Signer
	keyID   string
}

var _ signing.Signer = (*Signer)(nil)

// NewSigner wraps a loaded private key. The key identifier is derived
// from the public half, so it is available before any signing happens.
func NewSigner(private crypto.Signer) (*Signer, error) {
	if private == nil {
		return nil, fmt.Errorf("%w: no private key", signing.ErrKeyLoad)
	}
	keyID, err := signing.ComputeKeyID(private.Public())
	if err != nil {
		return nil, err
	}
	return &Signer{private: private, keyID: keyID}, nil
}

// Sign computes a signature over payload with the local key.
func (s *Signer) Sign(_ context.Context, payload []byte) (signing.Signature, error) {
	raw, err := internalcrypto.SignWithKey(s.private, payload)
	if err != nil {
		return signing.Signature{}, fmt.Errorf("%w: %w", signing.ErrSigning, err)
	}
	return signing.Signature{
		KeyID: s.keyID,
		Sig:   hex.EncodeToString(raw),
	}, nil
}

// KeyID returns the identifier of the signing key.
func (s *Signer) KeyID() string {
	return s.keyID
}
