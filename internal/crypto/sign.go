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

// Package crypto provides the low-level signing and verification
// primitives used by the link signing backends. External consumers use
// the higher-level pkg/signing API instead.
package crypto

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
)

// SignWithKey signs data using the provided private key. Supports ECDSA
// (ASN.1 encoded), RSA (PSS padding), and Ed25519 keys. Returns an error
// for any other key type.
func SignWithKey(privateKey crypto.PrivateKey, data []byte) ([]byte, error) {
	switch key := privateKey.(type) {
	case *ecdsa.PrivateKey:
		return signECDSA(key, data)
	case *rsa.PrivateKey:
		return signRSA(key, data)
	case ed25519.PrivateKey:
		return signEd25519(key, data)
	default:
		return nil, fmt.Errorf("unsupported private key type: %T", privateKey)
	}
}

// signECDSA signs data with a hash matched to the curve size: P-256 uses
// SHA-256, P-384 SHA-384, P-521 SHA-512.
func signECDSA(key *ecdsa.PrivateKey, data []byte) ([]byte, error) {
	hash, err := ecdsaDigest(key.Curve.Params().BitSize, data)
	if err != nil {
		return nil, err
	}

	signature, err := ecdsa.SignASN1(rand.Reader, key, hash)
	if err != nil {
		return nil, fmt.Errorf("ECDSA signing failed: %w", err)
	}
	return signature, nil
}

func ecdsaDigest(bitSize int, data []byte) ([]byte, error) {
	switch bitSize {
	case 256:
		h := sha256.Sum256(data)
		return h[:], nil
	case 384:
		h := sha512.Sum384(data)
		return h[:], nil
	case 521:
		h := sha512.Sum512(data)
		return h[:], nil
	default:
		return nil, fmt.Errorf("unsupported ECDSA curve size: %d bits", bitSize)
	}
}

// signRSA signs data using RSA-PSS with SHA-256.
func signRSA(key *rsa.PrivateKey, data []byte) ([]byte, error) {
	hash := sha256.Sum256(data)

	signature, err := rsa.SignPSS(rand.Reader, key, crypto.SHA256, hash[:], nil)
	if err != nil {
		return nil, fmt.Errorf("RSA-PSS signing failed: %w", err)
	}
	return signature, nil
}

func signEd25519(key ed25519.PrivateKey, data []byte) ([]byte, error) {
	return ed25519.Sign(key, data), nil
}
