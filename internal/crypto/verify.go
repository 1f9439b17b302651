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

package crypto

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"
)

// VerifySignature checks a signature produced by SignWithKey against the
// corresponding public key. Returns an error if the key type is
// unsupported or the signature does not verify.
func VerifySignature(publicKey crypto.PublicKey, message, signature []byte) error {
	switch key := publicKey.(type) {
	case *ecdsa.PublicKey:
		return verifyECDSA(key, message, signature)
	case *rsa.PublicKey:
		return verifyRSA(key, message, signature)
	case ed25519.PublicKey:
		return verifyEd25519(key, message, signature)
	default:
		return fmt.Errorf("unsupported public key type: %T", publicKey)
	}
}

func verifyECDSA(key *ecdsa.PublicKey, message, signature []byte) error {
	hash, err := ecdsaDigest(key.Curve.Params().BitSize, message)
	if err != nil {
		return err
	}

	if !ecdsa.VerifyASN1(key, hash, signature) {
		return fmt.Errorf("ECDSA signature verification failed")
	}
	return nil
}

func verifyRSA(key *rsa.PublicKey, message, signature []byte) error {
	hash := sha256.Sum256(message)

	if err := rsa.VerifyPSS(key, crypto.SHA256, hash[:], signature, nil); err != nil {
		return fmt.Errorf("RSA-PSS signature verification failed: %w", err)
	}
	return nil
}

func verifyEd25519(key ed25519.PublicKey, message, signature []byte) error {
	if !ed25519.Verify(key, message, signature) {
		return fmt.Errorf("Ed25519 signature verification failed")
	}
	return nil
}
