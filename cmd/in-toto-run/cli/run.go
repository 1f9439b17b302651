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

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gjvanhalem/in-toto/cmd/in-toto-run/cli/options"
	"github.com/gjvanhalem/in-toto/pkg/runlib"
	"github.com/gjvanhalem/in-toto/pkg/utils"
)

// stepCommand extracts the wrapped command from args: everything after
// the "--" separator. Arguments before the separator are rejected so a
// mistyped flag cannot silently become part of the attested command.
func stepCommand(cmd *cobra.Command, args []string) ([]string, error) {
	dash := cmd.ArgsLenAtDash()
	if dash == -1 {
		if len(args) > 0 {
			return nil, fmt.Errorf("the command to run must be separated from the flags by \"--\"")
		}
		return nil, nil
	}
	if dash > 0 {
		return nil, fmt.Errorf("unexpected argument %q before \"--\"", args[0])
	}
	return args[dash:], nil
}

// validateCommandVector enforces the no-command opt-in: a step that runs
// nothing must say so explicitly so a forgotten command tail does not
// silently produce an attestation for a command that never ran.
func validateCommandVector(cmdArgs []string, noCommand bool) error {
	if noCommand && len(cmdArgs) > 0 {
		return fmt.Errorf("--no-command cannot be combined with a command")
	}
	if !noCommand && len(cmdArgs) == 0 {
		return fmt.Errorf("no command specified; pass it after \"--\" or use --no-command")
	}
	return nil
}

// buildRunOptions assembles the step pipeline options shared by run and
// record.
func buildRunOptions(stepOpts *options.StepFlags, artifactOpts *options.ArtifactFlags, captureOpts *options.CaptureFlags) (runlib.RunOptions, error) {
	if err := stepOpts.Validate(); err != nil {
		return runlib.RunOptions{}, err
	}
	if err := artifactOpts.Validate(); err != nil {
		return runlib.RunOptions{}, err
	}
	logger := ro.NewLogger()
	if stepOpts.KeyPath != "" {
		logger.Debug("Loading signing key %s (password: %q)",
			stepOpts.KeyPath, utils.MaskSecret(stepOpts.KeyPassword))
	}
	key, err := stepOpts.SigningKey()
	if err != nil {
		return runlib.RunOptions{}, err
	}

	return runlib.RunOptions{
		Name:              stepOpts.StepName,
		Materials:         artifactOpts.Materials,
		Products:          artifactOpts.Products,
		Key:               key,
		RecordStreams:     captureOpts.RecordStreams,
		MaxCaptureBytes:   captureOpts.MaxCaptureBytes,
		RecordEnvironment: captureOpts.RecordEnvironment,
		ExcludePatterns:   artifactOpts.ExcludePatterns,
		BaseDir:           artifactOpts.BasePath,
		LstripPaths:       artifactOpts.LstripPaths,
		FollowSymlinks:    artifactOpts.FollowSymlinks,
		HashAlgorithms:    artifactOpts.HashAlgorithms,
		UseDSSE:           stepOpts.UseDSSE,
		MetadataDirectory: stepOpts.MetadataDirectory,
		Logger:            logger,
	}, nil
}

// runStep implements the root command: one attested step execution.
func runStep(cmd *cobra.Command, args []string, stepOpts *options.StepFlags, artifactOpts *options.ArtifactFlags, captureOpts *options.CaptureFlags, noCommand bool) error {
	cmdArgs, err := stepCommand(cmd, args)
	if err != nil {
		return err
	}
	if err := validateCommandVector(cmdArgs, noCommand); err != nil {
		return err
	}

	opts, err := buildRunOptions(stepOpts, artifactOpts, captureOpts)
	if err != nil {
		return err
	}
	opts.CmdArgs = cmdArgs

	_, err = runlib.InTotoRun(cmd.Context(), opts)
	return err
}
