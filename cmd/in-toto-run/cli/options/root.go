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

package options

import (
	"github.com/spf13/cobra"

	"github.com/gjvanhalem/in-toto/pkg/logging"
)

// RootOptions defines flags and options for the root CLI command.
// These options are available globally across all subcommands.
type RootOptions struct {
	// LogLevel sets the minimum log level (debug, info, warn, error, silent).
	LogLevel string
	// LogFormat sets the log output format (text, json).
	LogFormat string
	// LogBackend selects the logging implementation (builtin, zap).
	LogBackend string
}

// ValidLogLevels lists the valid log level strings.
var ValidLogLevels = []string{"debug", "info", "warn", "error", "silent"}

// ValidLogFormats lists the valid log format strings.
var ValidLogFormats = []string{"text", "json"}

// ValidLogBackends lists the valid log backend strings.
var ValidLogBackends = []string{"builtin", "zap"}

var _ FlagAdder = (*RootOptions)(nil)

// AddFlags adds root-level flags to the cobra command.
func (o *RootOptions) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&o.LogLevel, "log-level", "info",
		"set the minimum log level (debug, info, warn, error, silent)")

	cmd.PersistentFlags().StringVar(&o.LogFormat, "log-format", "text",
		"set the log output format (text, json)")

	cmd.PersistentFlags().StringVar(&o.LogBackend, "log-backend", "builtin",
		"set the logging backend (builtin, zap)")
}

// GetLogLevel returns the effective log level based on the options.
func (o *RootOptions) GetLogLevel() logging.LogLevel {
	return logging.ParseLogLevel(o.LogLevel)
}

// GetLogFormat returns the log format based on the options.
func (o *RootOptions) GetLogFormat() logging.LogFormat {
	return logging.ParseLogFormat(o.LogFormat)
}

// NewLogger creates a new logger based on the root options.
func (o *RootOptions) NewLogger() logging.Logger {
	if o.LogBackend == "zap" {
		return logging.NewZapLogger(o.GetLogLevel(), o.GetLogFormat())
	}
	return logging.NewLoggerWithOptions(logging.LoggerOptions{
		Level:     o.GetLogLevel(),
		Format:    o.GetLogFormat(),
		ShowLevel: true,
	})
}
