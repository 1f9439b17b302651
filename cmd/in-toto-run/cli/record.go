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
	"github.com/spf13/cobra"

	"github.com/gjvanhalem/in-toto/cmd/in-toto-run/cli/options"
	"github.com/gjvanhalem/in-toto/pkg/runlib"
)

// Record builds the record command group for steps whose command is not
// wrapped by this process, e.g. a manual step spanning several shells.
func Record() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a step in two phases without wrapping its command.",
		Long: `record creates link metadata for a step whose command is not executed
through in-toto-run. "record start" hashes the materials and writes a
signed preliminary link; "record stop" hashes the products, completes
the link, and replaces the preliminary file with the final one.`,
	}
	cmd.AddCommand(recordStart())
	cmd.AddCommand(recordStop())
	return cmd
}

func recordStart() *cobra.Command {
	stepOpts := &options.StepFlags{}
	artifactOpts := &options.ArtifactFlags{}
	captureOpts := &options.CaptureFlags{}

	cmd := &cobra.Command{
		Use:          "start",
		Short:        "Record the materials of a step and write a preliminary link.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := buildRunOptions(stepOpts, artifactOpts, captureOpts)
			if err != nil {
				return err
			}
			return runlib.InTotoRecordStart(cmd.Context(), opts)
		},
	}
	options.AddAllFlags(cmd, stepOpts, artifactOpts, captureOpts)
	return cmd
}

func recordStop() *cobra.Command {
	stepOpts := &options.StepFlags{}
	artifactOpts := &options.ArtifactFlags{}
	captureOpts := &options.CaptureFlags{}

	cmd := &cobra.Command{
		Use:          "stop",
		Short:        "Record the products of a step and finalize its link.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := buildRunOptions(stepOpts, artifactOpts, captureOpts)
			if err != nil {
				return err
			}
			_, err = runlib.InTotoRecordStop(cmd.Context(), opts)
			return err
		},
	}
	options.AddAllFlags(cmd, stepOpts, artifactOpts, captureOpts)
	return cmd
}
