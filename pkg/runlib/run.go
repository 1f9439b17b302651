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

// Package runlib orchestrates step attestation: it records materials,
// runs the step command, records products, assembles the link record,
// signs it, and writes it to disk under its conventional filename.
package runlib

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gjvanhalem/in-toto/pkg/artifact"
	"github.com/gjvanhalem/in-toto/pkg/link"
	"github.com/gjvanhalem/in-toto/pkg/logging"
	"github.com/gjvanhalem/in-toto/pkg/metadata"
	"github.com/gjvanhalem/in-toto/pkg/runner"
	"github.com/gjvanhalem/in-toto/pkg/signing"
	"github.com/gjvanhalem/in-toto/pkg/signing/gpg"
	"github.com/gjvanhalem/in-toto/pkg/signing/key"
	"github.com/gjvanhalem/in-toto/pkg/tracing"
)

// RunOptions configures a single attested step.
type RunOptions struct {
	// Name is the step name. Required.
	Name string

	// Materials and Products are the declared artifact paths hashed
	// before and after the command runs.
	Materials []string
	Products  []string

	// CmdArgs is the command to execute. Empty records an observation
	// without running anything.
	CmdArgs []string

	// Key selects the signing backend.
	Key signing.Key

	// RecordStreams captures the command's stdout and stderr into the
	// link's byproducts while still forwarding them live.
	RecordStreams bool

	// MaxCaptureBytes bounds each captured stream. Zero uses the
	// default cap.
	MaxCaptureBytes int

	// RecordEnvironment lists environment variable names to capture
	// into the link. Empty captures nothing.
	RecordEnvironment []string

	// ExcludePatterns filters artifacts out of the recorded
	// inventories by glob match.
	ExcludePatterns []string

	// BaseDir anchors relative artifact paths and recorded path keys.
	// Empty uses the working directory.
	BaseDir string

	// LstripPaths are prefixes stripped from recorded path keys.
	LstripPaths []string

	// FollowSymlinks resolves symlinked files instead of rejecting them.
	FollowSymlinks bool

	// HashAlgorithms selects the digest algorithms. Empty uses the
	// recorder default.
	HashAlgorithms []string

	// UseDSSE writes the link as a DSSE envelope instead of the
	// classic metablock.
	UseDSSE bool

	// MetadataDirectory is where the link file is written. Empty uses
	// the working directory.
	MetadataDirectory string

	// Logger receives progress output. Nil uses the default logger.
	Logger logging.Logger
}

// NewSigner builds the signing backend for a key variant.
func NewSigner(k signing.Key) (signing.Signer, error) {
	switch k := k.(type) {
	case signing.LocalKey:
		return key.NewSigner(k.Private)
	case signing.AgentKey:
		var opts []gpg.Option
		if k.Home != "" {
			opts = append(opts, gpg.WithHome(k.Home))
		}
		return gpg.NewSigner(k.KeyID, opts...)
	default:
		return nil, fmt.Errorf("%w: unsupported key variant %T", signing.ErrKeyLoad, k)
	}
}

func newRecorder(opts RunOptions) (*artifact.Recorder, error) {
	recOpts := []artifact.Option{
		artifact.WithExcludePatterns(opts.ExcludePatterns...),
		artifact.WithLstripPaths(opts.LstripPaths...),
		artifact.WithFollowSymlinks(opts.FollowSymlinks),
	}
	if opts.BaseDir != "" {
		recOpts = append(recOpts, artifact.WithBaseDir(opts.BaseDir))
	}
	if len(opts.HashAlgorithms) > 0 {
		recOpts = append(recOpts, artifact.WithAlgorithms(opts.HashAlgorithms...))
	}
	return artifact.NewRecorder(recOpts...)
}

// InTotoRun executes one attested step: hash materials, run the command,
// hash products, assemble the link, sign it, and write it. The signed
// container is returned regardless of the command's exit code; a
// non-zero exit is evidence, not an error. Errors from any stage abort
// the run before anything is written.
func InTotoRun(ctx context.Context, opts RunOptions) (metadata.Metadata, error) {
	logger := logging.EnsureLogger(opts.Logger)

	signer, err := NewSigner(opts.Key)
	if err != nil {
		return nil, err
	}
	recorder, err := newRecorder(opts)
	if err != nil {
		return nil, err
	}

	var materials artifact.Inventory
	err = tracing.Run(ctx, "record-materials", map[string]interface{}{"step": opts.Name}, func(ctx context.Context) error {
		var err error
		materials, err = recorder.Record(ctx, opts.Materials)
		return err
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Recorded %d material(s) for step %q", len(materials), opts.Name)

	var result runner.Result
	err = tracing.Run(ctx, "run-command", map[string]interface{}{"step": opts.Name}, func(ctx context.Context) error {
		var err error
		result, err = runner.Execute(ctx, opts.CmdArgs, runner.Options{
			RecordStreams:   opts.RecordStreams,
			MaxCaptureBytes: opts.MaxCaptureBytes,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	if !result.NoCommand() && result.ReturnValue != nil {
		logger.Info("Command %v exited with %d", result.Command, *result.ReturnValue)
	}

	var products artifact.Inventory
	err = tracing.Run(ctx, "record-products", map[string]interface{}{"step": opts.Name}, func(ctx context.Context) error {
		var err error
		products, err = recorder.Record(ctx, opts.Products)
		return err
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Recorded %d product(s) for step %q", len(products), opts.Name)

	environment := link.CapturePolicy{Allow: opts.RecordEnvironment}.Capture(os.Environ())
	l, err := link.New(opts.Name, materials, products, result, environment)
	if err != nil {
		return nil, err
	}

	md, err := signContainer(ctx, l, signer, opts.UseDSSE)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(opts.MetadataDirectory, metadata.FilenameFor(opts.Name, signer.KeyID()))
	err = tracing.Run(ctx, "write-link", map[string]interface{}{"path": path}, func(context.Context) error {
		return md.Write(path)
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Wrote link metadata to %s", path)

	return md, nil
}

// signContainer wraps a link in its signed container and signs it.
func signContainer(ctx context.Context, l *link.Link, signer signing.Signer, useDSSE bool) (metadata.Metadata, error) {
	var md metadata.Metadata
	if useDSSE {
		env, err := metadata.NewEnvelope(l)
		if err != nil {
			return nil, err
		}
		md = env
	} else {
		md = metadata.NewMetablock(l)
	}
	if err := md.Sign(ctx, signer); err != nil {
		return nil, err
	}
	return md, nil
}
