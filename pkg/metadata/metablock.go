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

// Package metadata wraps a link record in its signed on-disk containers:
// the classic metablock with detached signatures, and the DSSE envelope.
// It also owns writing both to disk atomically under their conventional
// filenames.
package metadata

import (
	"context"
	"crypto"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	internalcrypto "github.com/gjvanhalem/in-toto/internal/crypto"
	"github.com/gjvanhalem/in-toto/pkg/link"
	"github.com/gjvanhalem/in-toto/pkg/signing"
)

// ErrSerialization reports a failure to serialize or persist signed
// metadata.
var ErrSerialization = errors.New("metadata serialization failed")

// Metadata is a signed container around a link record. Both Metablock
// and Envelope implement it.
type Metadata interface {
	// Sign appends a signature by signer. Existing signatures are
	// never replaced.
	Sign(ctx context.Context, signer signing.Signer) error

	// VerifySignature checks that a signature by the given public key
	// is present and valid over the current content.
	VerifySignature(pub crypto.PublicKey) error

	// Write persists the container to path atomically.
	Write(path string) error

	// GetLink returns the wrapped link record.
	GetLink() *link.Link
}

// Metablock is the classic container: the link record under "signed"
// with detached signatures alongside. Signatures cover the canonical
// JSON serialization of the signed portion only.
type Metablock struct {
	Signatures []signing.Signature `json:"signatures"`
	Signed     *link.Link          `json:"signed"`
}

var _ Metadata = (*Metablock)(nil)

// NewMetablock wraps a link record with no signatures yet.
func NewMetablock(l *link.Link) *Metablock {
	return &Metablock{Signed: l, Signatures: []signing.Signature{}}
}

// Sign appends a signature over the canonical serialization of the
// signed portion. Calling it with several signers accumulates
// independent signature entries.
func (mb *Metablock) Sign(ctx context.Context, signer signing.Signer) error {
	payload, err := mb.Signed.Canonical()
	if err != nil {
		return err
	}
	sig, err := signer.Sign(ctx, payload)
	if err != nil {
		return err
	}
	mb.Signatures = append(mb.Signatures, sig)
	return nil
}

// VerifySignature recomputes the canonical payload and checks the
// signature entry matching the given public key. It fails when no entry
// carries the key's identifier or when the signature does not verify,
// so any mutation after signing is detected.
func (mb *Metablock) VerifySignature(pub crypto.PublicKey) error {
	keyID, err := signing.ComputeKeyID(pub)
	if err != nil {
		return err
	}
	payload, err := mb.Signed.Canonical()
	if err != nil {
		return err
	}
	for _, sig := range mb.Signatures {
		if sig.KeyID != keyID {
			continue
		}
		raw, err := hex.DecodeString(sig.Sig)
		if err != nil {
			return fmt.Errorf("%w: malformed signature for key %.8s: %w", ErrSerialization, keyID, err)
		}
		return internalcrypto.VerifySignature(pub, payload, raw)
	}
	return fmt.Errorf("no signature found for key %.8s", keyID)
}

// GetLink returns the wrapped link record.
func (mb *Metablock) GetLink() *link.Link {
	return mb.Signed
}

// Dump serializes the metablock for storage.
func (mb *Metablock) Dump() ([]byte, error) {
	data, err := json.MarshalIndent(mb, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	return append(data, '\n'), nil
}

// Write persists the metablock to path atomically.
func (mb *Metablock) Write(path string) error {
	data, err := mb.Dump()
	if err != nil {
		return err
	}
	return writeAtomic(path, data)
}

// LoadMetablock reads a metablock from path.
func LoadMetablock(path string) (*Metablock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var mb Metablock
	if err := json.Unmarshal(data, &mb); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %w", ErrSerialization, path, err)
	}
	if mb.Signed == nil {
		return nil, fmt.Errorf("%w: %s has no signed portion", ErrSerialization, path)
	}
	return &mb, nil
}
