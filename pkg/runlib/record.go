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

package runlib

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gjvanhalem/in-toto/pkg/link"
	"github.com/gjvanhalem/in-toto/pkg/logging"
	"github.com/gjvanhalem/in-toto/pkg/metadata"
	"github.com/gjvanhalem/in-toto/pkg/runner"
	"github.com/gjvanhalem/in-toto/pkg/signing"
)

// InTotoRecordStart begins a two-phase attestation for steps whose
// command is not wrapped by this process. It records the materials now
// and writes a signed preliminary link, to be completed later by
// InTotoRecordStop.
func InTotoRecordStart(ctx context.Context, opts RunOptions) error {
	logger := logging.EnsureLogger(opts.Logger)

	signer, err := NewSigner(opts.Key)
	if err != nil {
		return err
	}
	recorder, err := newRecorder(opts)
	if err != nil {
		return err
	}

	materials, err := recorder.Record(ctx, opts.Materials)
	if err != nil {
		return err
	}
	logger.Info("Recorded %d material(s) for step %q", len(materials), opts.Name)

	environment := link.CapturePolicy{Allow: opts.RecordEnvironment}.Capture(os.Environ())
	l, err := link.New(opts.Name, materials, nil, runner.Result{}, environment)
	if err != nil {
		return err
	}

	mb := metadata.NewMetablock(l)
	if err := mb.Sign(ctx, signer); err != nil {
		return err
	}

	path := filepath.Join(opts.MetadataDirectory, metadata.UnfinishedFilenameFor(opts.Name, signer.KeyID()))
	if err := mb.Write(path); err != nil {
		return err
	}
	logger.Info("Wrote preliminary link metadata to %s", path)
	return nil
}

// InTotoRecordStop completes a two-phase attestation. It loads the
// preliminary link written by InTotoRecordStart, checks its signature,
// records the products, and writes the final signed link. The
// preliminary file is removed on success.
func InTotoRecordStop(ctx context.Context, opts RunOptions) (metadata.Metadata, error) {
	logger := logging.EnsureLogger(opts.Logger)

	signer, err := NewSigner(opts.Key)
	if err != nil {
		return nil, err
	}
	recorder, err := newRecorder(opts)
	if err != nil {
		return nil, err
	}

	unfinishedPath := filepath.Join(opts.MetadataDirectory, metadata.UnfinishedFilenameFor(opts.Name, signer.KeyID()))
	preliminary, err := metadata.LoadMetablock(unfinishedPath)
	if err != nil {
		return nil, fmt.Errorf("loading preliminary link: %w", err)
	}
	if err := verifyPreliminary(preliminary, opts.Key, signer.KeyID()); err != nil {
		return nil, err
	}

	products, err := recorder.Record(ctx, opts.Products)
	if err != nil {
		return nil, err
	}
	logger.Info("Recorded %d product(s) for step %q", len(products), opts.Name)

	prior := preliminary.GetLink()
	l, err := link.New(opts.Name, prior.Materials, products, runner.Result{}, prior.Environment)
	if err != nil {
		return nil, err
	}

	md, err := signContainer(ctx, l, signer, opts.UseDSSE)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(opts.MetadataDirectory, metadata.FilenameFor(opts.Name, signer.KeyID()))
	if err := md.Write(path); err != nil {
		return nil, err
	}
	logger.Info("Wrote link metadata to %s", path)

	if err := os.Remove(unfinishedPath); err != nil {
		logger.Warn("Could not remove preliminary link %s: %v", unfinishedPath, err)
	}
	return md, nil
}

// verifyPreliminary checks that the preliminary link was signed by the
// same key that will sign the final one. Local keys are verified
// cryptographically. Agent keys hold no public material in-process, so
// only the key identifier is matched.
func verifyPreliminary(mb *metadata.Metablock, k signing.Key, keyID string) error {
	if local, ok := k.(signing.LocalKey); ok {
		if err := mb.VerifySignature(local.Private.Public()); err != nil {
			return fmt.Errorf("verifying preliminary link: %w", err)
		}
		return nil
	}
	for _, sig := range mb.Signatures {
		if sig.KeyID == keyID {
			return nil
		}
	}
	return fmt.Errorf("preliminary link carries no signature by key %.8s", keyID)
}
