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

// Package signing defines the signing contract for link metadata: the
// Signer interface implemented by the key backends, the Signature value
// recorded in link files, and the tagged Key variants the caller uses to
// select a backend.
package signing

import (
	"context"
	"crypto"
	"errors"
)

var (
	// ErrKeyLoad reports signing material that is malformed, of an
	// unsupported type, or otherwise unusable. The caller normally
	// resolves keys before reaching this package, but the backends
	// defend against receiving a bad one anyway.
	ErrKeyLoad = errors.New("signing key unusable")

	// ErrSigning reports a failure of the signing algorithm or backend,
	// including an unreachable external agent.
	ErrSigning = errors.New("signing failed")
)

// Signature is one (keyid, sig) pair over a canonical payload. Sig is
// the lowercase hex encoding of the raw signature bytes, the form stored
// in link metadata.
type Signature struct {
	KeyID string `json:"keyid"`
	Sig   string `json:"sig"`
}

// Signer produces signatures over canonical bytes. Implementations hold
// either local private key material or a reference to an external agent.
type Signer interface {
	// Sign computes a signature over payload. The context bounds any
	// external agent interaction.
	Sign(ctx context.Context, payload []byte) (Signature, error)

	// KeyID returns the identifier of the signing key, used in the
	// signature entries and the link filename.
	KeyID() string
}

// Key identifies the signing material for a step. It is a closed tagged
// variant: LocalKey carries in-process private key material, AgentKey
// references a key held by an external signing agent. Backends dispatch
// on the concrete variant rather than on a flag plus an overloaded
// string.
type Key interface {
	isKey()
}

// LocalKey is an in-memory asymmetric private key, already loaded and
// decrypted by the caller.
type LocalKey struct {
	Private crypto.Signer
}

func (LocalKey) isKey() {}

// AgentKey references a key held by an external GPG agent. No private
// material enters this process.
type AgentKey struct {
	// KeyID identifies the key within the agent's keyring.
	KeyID string

	// Home overrides the agent's home directory. Empty uses the
	// agent's default.
	Home string
}

func (AgentKey) isKey() {}
