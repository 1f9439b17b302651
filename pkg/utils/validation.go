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

// Package utils holds small helpers shared by the CLI layers.
package utils

import (
	"fmt"
	"os"
)

// PathType represents the type of path to validate.
type PathType int

const (
	// PathTypeFile expects a regular file.
	PathTypeFile PathType = iota
	// PathTypeFolder expects a directory.
	PathTypeFolder
	// PathTypeAny accepts either file or directory.
	PathTypeAny
)

// PathValidator checks that a flag-supplied path exists and has the
// expected type, reporting errors under the flag's name.
type PathValidator struct {
	fieldName string
	path      string
	pathType  PathType
}

// NewPathValidator creates a validator for the given field name, path,
// and expected type.
func NewPathValidator(fieldName, path string, pathType PathType) *PathValidator {
	return &PathValidator{
		fieldName: fieldName,
		path:      path,
		pathType:  pathType,
	}
}

// Validate checks that the path is not empty, exists, and matches the
// expected type.
func (v *PathValidator) Validate() error {
	if v.path == "" {
		return fmt.Errorf("%s is required", v.fieldName)
	}

	info, err := os.Stat(v.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s %q does not exist", v.fieldName, v.path)
		}
		return fmt.Errorf("checking %s %q: %w", v.fieldName, v.path, err)
	}

	switch v.pathType {
	case PathTypeFile:
		if info.IsDir() {
			return fmt.Errorf("%s %q is a directory, expected file", v.fieldName, v.path)
		}
	case PathTypeFolder:
		if !info.IsDir() {
			return fmt.Errorf("%s %q is a file, expected directory", v.fieldName, v.path)
		}
	case PathTypeAny:
		// Accept both files and directories
	}

	return nil
}

// ValidateFileExists validates that a path exists and is a file.
func ValidateFileExists(fieldName, path string) error {
	return NewPathValidator(fieldName, path, PathTypeFile).Validate()
}

// ValidateFolderExists validates that a path exists and is a directory.
func ValidateFolderExists(fieldName, path string) error {
	return NewPathValidator(fieldName, path, PathTypeFolder).Validate()
}

// ValidateOptionalFolder validates a directory path only if it is not
// empty.
func ValidateOptionalFolder(fieldName, path string) error {
	if path == "" {
		return nil
	}
	return ValidateFolderExists(fieldName, path)
}

// MaskSecret replaces a secret with a fixed placeholder for log output.
// Empty input stays empty so logs show whether a secret was supplied.
func MaskSecret(s string) string {
	if s == "" {
		return ""
	}
	return "********"
}
