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

// Package cli wires the in-toto-run command tree.
package cli

import (
	"github.com/spf13/cobra"
	cobracompletefig "github.com/withfig/autocomplete-tools/integrations/cobra"
	"sigs.k8s.io/release-utils/version"

	"github.com/gjvanhalem/in-toto/cmd/in-toto-run/cli/options"
)

var ro = &options.RootOptions{}

// New builds the root command. The root itself runs an attested step;
// the record subcommand covers steps whose command cannot be wrapped.
func New() *cobra.Command {
	stepOpts := &options.StepFlags{}
	artifactOpts := &options.ArtifactFlags{}
	captureOpts := &options.CaptureFlags{}
	var noCommand bool

	cmd := &cobra.Command{
		Use:   "in-toto-run -n <step name> [flags] -- <command>",
		Short: "Execute a supply chain step and produce signed link metadata.",
		Long: `in-toto-run executes a supply chain step: it records the hashes of the
declared materials, runs the given command while optionally capturing its
output streams, records the hashes of the declared products, and writes
the resulting link metadata signed with the given key.

The command to execute is separated from the flags by "--". Steps that
legitimately run no command must opt in with --no-command.`,
		Args:              cobra.ArbitraryArgs,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStep(cmd, args, stepOpts, artifactOpts, captureOpts, noCommand)
		},
	}
	ro.AddFlags(cmd)
	options.AddAllFlags(cmd, stepOpts, artifactOpts, captureOpts)
	cmd.Flags().BoolVarP(&noCommand, "no-command", "x", false,
		"Generate link metadata without executing a command.")

	cmd.AddCommand(Record())
	cmd.AddCommand(version.WithFont("starwars"))
	cmd.AddCommand(cobracompletefig.CreateCompletionSpecCommand())
	return cmd
}
