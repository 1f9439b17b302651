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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gjvanhalem/in-toto/pkg/signing"
	"github.com/gjvanhalem/in-toto/pkg/utils"
)

// StepFlags identifies the step and its signing key. Shared by the run
// command and both record subcommands.
type StepFlags struct {
	// StepName names the step this link belongs to.
	StepName string
	// KeyPath is the PEM private key used to sign the link.
	KeyPath string
	// KeyPassword decrypts an encrypted PEM key.
	KeyPassword string
	// GPGKeyID selects signing through the local GPG agent instead of
	// a key file.
	GPGKeyID string
	// GPGHome overrides the GPG home directory.
	GPGHome string
	// MetadataDirectory is where link metadata is written.
	MetadataDirectory string
	// UseDSSE wraps the link in a DSSE envelope instead of the classic
	// metablock.
	UseDSSE bool
}

var _ FlagAdder = (*StepFlags)(nil)

// AddFlags adds step identity and signing flags to the cobra command.
func (o *StepFlags) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.StepName, "step-name", "n", "",
		"Name for the resulting link metadata file. [required]")
	_ = cmd.MarkFlagRequired("step-name")

	cmd.Flags().StringVarP(&o.KeyPath, "key", "k", "",
		"Path to a PEM formatted private key used to sign the resulting link metadata.")
	cmd.Flags().StringVar(&o.KeyPassword, "key-password", "",
		"Password for an encrypted PEM private key. Read from the flag only; prefer an agent for sensitive keys.")
	cmd.Flags().StringVarP(&o.GPGKeyID, "gpg", "g", "",
		"GPG keyid used to sign the resulting link metadata through the local GPG agent.")
	cmd.Flags().StringVar(&o.GPGHome, "gpg-home", "",
		"Path to the GPG keyring. Defaults to the agent's home directory.")
	cmd.Flags().StringVarP(&o.MetadataDirectory, "metadata-directory", "d", "",
		"Directory to store link metadata. Defaults to the current working directory.")
	cmd.Flags().BoolVar(&o.UseDSSE, "use-dsse", false,
		"Write the link metadata as a DSSE envelope instead of a metablock.")
}

// Validate checks that exactly one signing mechanism is selected and
// that referenced paths exist.
func (o *StepFlags) Validate() error {
	if o.KeyPath == "" && o.GPGKeyID == "" {
		return fmt.Errorf("either --key or --gpg is required")
	}
	if o.KeyPath != "" && o.GPGKeyID != "" {
		return fmt.Errorf("--key and --gpg are mutually exclusive")
	}
	if o.KeyPath != "" {
		if err := utils.ValidateFileExists("key", o.KeyPath); err != nil {
			return err
		}
	}
	if err := utils.ValidateOptionalFolder("gpg-home", o.GPGHome); err != nil {
		return err
	}
	return utils.ValidateOptionalFolder("metadata-directory", o.MetadataDirectory)
}

// SigningKey resolves the flags into a signing key variant, loading and
// decrypting the PEM key for the local backend.
func (o *StepFlags) SigningKey() (signing.Key, error) {
	if o.GPGKeyID != "" {
		return signing.AgentKey{KeyID: o.GPGKeyID, Home: o.GPGHome}, nil
	}
	var password []byte
	if o.KeyPassword != "" {
		password = []byte(o.KeyPassword)
	}
	private, err := signing.LoadPrivateKey(o.KeyPath, password)
	if err != nil {
		return nil, err
	}
	return signing.LocalKey{Private: private}, nil
}

// ArtifactFlags controls which artifacts are recorded and how their
// paths appear in the link.
type ArtifactFlags struct {
	// Materials are the paths hashed before the command runs.
	Materials []string
	// Products are the paths hashed after the command exits.
	Products []string
	// ExcludePatterns filters artifacts out of the inventories.
	ExcludePatterns []string
	// BasePath anchors relative artifact paths.
	BasePath string
	// LstripPaths are prefixes stripped from recorded path keys.
	LstripPaths []string
	// FollowSymlinks resolves symlinked files instead of rejecting them.
	FollowSymlinks bool
	// HashAlgorithms selects the digest algorithms.
	HashAlgorithms []string
}

var _ FlagAdder = (*ArtifactFlags)(nil)

// AddFlags adds artifact recording flags to the cobra command.
func (o *ArtifactFlags) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&o.Materials, "materials", "m", nil,
		"Paths to files or directories to record before command execution.")
	cmd.Flags().StringSliceVarP(&o.Products, "products", "p", nil,
		"Paths to files or directories to record after command execution.")
	cmd.Flags().StringSliceVar(&o.ExcludePatterns, "exclude", nil,
		"Glob patterns for artifacts to exclude from recording.")
	cmd.Flags().StringVar(&o.BasePath, "base-path", "",
		"Base path relative artifact paths are resolved against. Defaults to the current working directory.")
	cmd.Flags().StringSliceVar(&o.LstripPaths, "lstrip-paths", nil,
		"Path prefixes to strip from the recorded artifact paths.")
	cmd.Flags().BoolVar(&o.FollowSymlinks, "follow-symlinks", false,
		"Follow symlinked files when recording artifacts.")
	cmd.Flags().StringSliceVar(&o.HashAlgorithms, "hash-algorithms", nil,
		"Digest algorithms to record artifacts with. Defaults to sha256.")
}

// Validate checks the artifact flags.
func (o *ArtifactFlags) Validate() error {
	return utils.ValidateOptionalFolder("base-path", o.BasePath)
}

// CaptureFlags controls recording of the command's streams and the
// environment snapshot.
type CaptureFlags struct {
	// RecordStreams captures the command's stdout and stderr.
	RecordStreams bool
	// MaxCaptureBytes bounds each captured stream. Zero uses the default.
	MaxCaptureBytes int
	// RecordEnvironment lists environment variable names captured into
	// the link.
	RecordEnvironment []string
}

var _ FlagAdder = (*CaptureFlags)(nil)

// AddFlags adds stream and environment capture flags to the cobra command.
func (o *CaptureFlags) AddFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&o.RecordStreams, "record-streams", "s", false,
		"Duplicate the command's stdout and stderr into the link metadata while still forwarding them.")
	cmd.Flags().IntVar(&o.MaxCaptureBytes, "max-capture-bytes", 0,
		"Cap on each captured stream in bytes. 0 uses the built-in default.")
	cmd.Flags().StringSliceVarP(&o.RecordEnvironment, "record-environment", "e", nil,
		"Environment variable names to capture into the link metadata. Nothing is captured by default.")
}
