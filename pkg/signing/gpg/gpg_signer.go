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

// Package gpg signs link metadata through an external GPG agent. The
// payload is handed to the gpg binary on stdin and the detached binary
// signature is read back from stdout, so no private key material ever
// enters this process.
package gpg

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"os/exec"
	"strings"

	"github.com/gjvanhalem/in-toto/pkg/signing"
)

// DefaultBinary is the gpg executable invoked when none is configured.
const DefaultBinary = "gpg"

// Signer signs payloads by delegating to an external GPG agent.
type Signer struct {
	keyID  string
	home   string
	binary string
}

var _ signing.Signer = (*Signer)(nil)

// Option configures a Signer.
type Option func(*Signer)

// WithHome overrides the GPG home directory.
func WithHome(home string) Option {
	return func(s *Signer) {
		s.home = home
	}
}

// WithBinary overrides the gpg executable to invoke.
func WithBinary(binary string) Option {
	return func(s *Signer) {
		s.binary = binary
	}
}

// NewSigner creates a signer for the given keyring key identifier.
func NewSigner(keyID string, opts ...Option) (*Signer, error) {
	if keyID == "" {
		return nil, fmt.Errorf("%w: empty gpg key identifier", signing.ErrKeyLoad)
	}
	s := &Signer{keyID: keyID, binary: DefaultBinary}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// commandArgs builds the gpg invocation for a detached binary signature
// written to stdout.
func (s *Signer) commandArgs() []string {
	args := []string{"--detach-sign", "--local-user", s.keyID, "--output", "-"}
	if s.home != "" {
		args = append(args, "--homedir", s.home)
	}
	return args
}

// Sign pipes payload into the agent and returns its detached signature.
func (s *Signer) Sign(ctx context.Context, payload []byte) (signing.Signature, error) {
	cmd := exec.CommandContext(ctx, s.binary, s.commandArgs()...)
	cmd.Stdin = bytes.NewReader(payload)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return signing.Signature{}, fmt.Errorf("%w: gpg: %w: %s", signing.ErrSigning, err, detail)
		}
		return signing.Signature{}, fmt.Errorf("%w: gpg: %w", signing.ErrSigning, err)
	}
	if stdout.Len() == 0 {
		return signing.Signature{}, fmt.Errorf("%w: gpg produced no signature", signing.ErrSigning)
	}

	return signing.Signature{
		KeyID: s.keyID,
		Sig:   hex.EncodeToString(stdout.Bytes()),
	}, nil
}

// KeyID returns the keyring identifier the agent signs with.
func (s *Signer) KeyID() string {
	return s.keyID
}
