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

package metadata

import (
	"context"
	"crypto"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/secure-systems-lab/go-securesystemslib/dsse"

	internalcrypto "github.com/gjvanhalem/in-toto/internal/crypto"
	"github.com/gjvanhalem/in-toto/pkg/link"
	"github.com/gjvanhalem/in-toto/pkg/signing"
)

// PayloadType identifies link payloads inside DSSE envelopes.
const PayloadType = "application/vnd.in-toto+json"

// Envelope is the DSSE container for a link record. Signatures cover
// the pre-authentication encoding of the payload, so the payload type
// is authenticated along with the content.
type Envelope struct {
	envelope *dsse.Envelope
	signed   *link.Link
}

var _ Metadata = (*Envelope)(nil)

// NewEnvelope wraps a link record in an unsigned DSSE envelope. The
// payload is the canonical JSON serialization of the record.
func NewEnvelope(l *link.Link) (*Envelope, error) {
	payload, err := l.Canonical()
	if err != nil {
		return nil, err
	}
	return &Envelope{
		envelope: &dsse.Envelope{
			PayloadType: PayloadType,
			Payload:     base64.StdEncoding.EncodeToString(payload),
			Signatures:  []dsse.Signature{},
		},
		signed: l,
	}, nil
}

func (e *Envelope) pae() ([]byte, error) {
	payload, err := base64.StdEncoding.DecodeString(e.envelope.Payload)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding payload: %w", ErrSerialization, err)
	}
	return internalcrypto.ComputePAE(e.envelope.PayloadType, payload), nil
}

// Sign appends a signature over the envelope's pre-authentication
// encoding.
func (e *Envelope) Sign(ctx context.Context, signer signing.Signer) error {
	pae, err := e.pae()
	if err != nil {
		return err
	}
	sig, err := signer.Sign(ctx, pae)
	if err != nil {
		return err
	}
	raw, err := hex.DecodeString(sig.Sig)
	if err != nil {
		return fmt.Errorf("%w: malformed signature: %w", ErrSerialization, err)
	}
	e.envelope.Signatures = append(e.envelope.Signatures, dsse.Signature{
		KeyID: sig.KeyID,
		Sig:   base64.StdEncoding.EncodeToString(raw),
	})
	return nil
}

// VerifySignature checks the envelope signature matching the given
// public key against the pre-authentication encoding.
func (e *Envelope) VerifySignature(pub crypto.PublicKey) error {
	keyID, err := signing.ComputeKeyID(pub)
	if err != nil {
		return err
	}
	pae, err := e.pae()
	if err != nil {
		return err
	}
	for _, sig := range e.envelope.Signatures {
		if sig.KeyID != keyID {
			continue
		}
		raw, err := base64.StdEncoding.DecodeString(sig.Sig)
		if err != nil {
			return fmt.Errorf("%w: malformed signature for key %.8s: %w", ErrSerialization, keyID, err)
		}
		return internalcrypto.VerifySignature(pub, pae, raw)
	}
	return fmt.Errorf("no signature found for key %.8s", keyID)
}

// GetLink returns the wrapped link record.
func (e *Envelope) GetLink() *link.Link {
	return e.signed
}

// Write persists the envelope to path atomically.
func (e *Envelope) Write(path string) error {
	data, err := json.MarshalIndent(e.envelope, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	return writeAtomic(path, append(data, '\n'))
}
