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

// Package options defines the command-line options and flags for the
// in-toto-run CLI.
package options

import "github.com/spf13/cobra"

// FlagAdder is implemented by any flag group that can register itself
// to a cobra command.
type FlagAdder interface {
	AddFlags(cmd *cobra.Command)
}

// AddAllFlags is a helper function to register multiple flag groups at once.
func AddAllFlags(cmd *cobra.Command, flagGroups ...FlagAdder) {
	for _, fg := range flagGroups {
		fg.AddFlags(cmd)
	}
}
