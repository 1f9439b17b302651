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
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/sigstore/sigstore/pkg/cryptoutils"
)

// LoadPrivateKey reads a PEM encoded private key from path. password
// decrypts an encrypted PEM block and may be nil for unencrypted keys.
func LoadPrivateKey(path string, password []byte) (crypto.Signer, error) {
	pemBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrKeyLoad, path, err)
	}

	pf := cryptoutils.SkipPassword
	if len(password) > 0 {
		pf = cryptoutils.StaticPasswordFunc(password)
	}
	priv, err := cryptoutils.UnmarshalPEMToPrivateKey(pemBytes, pf)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %w", ErrKeyLoad, path, err)
	}

	signer, ok := priv.(crypto.Signer)
	if !ok {
		return nil, fmt.Errorf("%w: key in %s does not support signing", ErrKeyLoad, path)
	}
	switch signer.(type) {
	case *ecdsa.PrivateKey, *rsa.PrivateKey, ed25519.PrivateKey:
		return signer, nil
	default:
		return nil, fmt.Errorf("%w: unsupported key type %T in %s", ErrKeyLoad, signer, path)
	}
}

// LoadPublicKey reads a PEM encoded public key from path, for verifying
// link metadata signatures.
func LoadPublicKey(path string) (crypto.PublicKey, error) {
	pemBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrKeyLoad, path, err)
	}
	pub, err := cryptoutils.UnmarshalPEMToPublicKey(pemBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %w", ErrKeyLoad, path, err)
	}
	return pub, nil
}

// ComputeKeyID derives the identifier for a public key: the SHA-256 hex
// digest of its PKIX PEM encoding. The same key always yields the same
// identifier, so link filenames stay stable across runs.
func ComputeKeyID(pub crypto.PublicKey) (string, error) {
	pemBytes, err := cryptoutils.MarshalPublicKeyToPEM(pub)
	if err != nil {
		return "", fmt.Errorf("%w: encoding public key: %w", ErrKeyLoad, err)
	}
	sum := sha256.Sum256(pemBytes)
	return hex.EncodeToString(sum[:]), nil
}
