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

package metadata

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// FilenameFormat yields the conventional link filename from the
	// step name and the first eight characters of the signing key
	// identifier, e.g. "package.2f89b927.link".
	FilenameFormat = "%s.%.8s.link"

	// UnfinishedFilenameFormat names the preliminary link written
	// between recording start and stop. The leading dot keeps it out
	// of casual directory listings.
	UnfinishedFilenameFormat = ".%s.%.8s.link-unfinished"
)

// FilenameFor returns the link filename for a step signed by the given
// key.
func FilenameFor(stepName, keyID string) string {
	return fmt.Sprintf(FilenameFormat, stepName, keyID)
}

// UnfinishedFilenameFor returns the preliminary link filename for a
// step signed by the given key.
func UnfinishedFilenameFor(stepName, keyID string) string {
	return fmt.Sprintf(UnfinishedFilenameFormat, stepName, keyID)
}

// writeAtomic writes data to a temporary file in the destination
// directory and renames it into place, so readers never observe a
// partially written file and an existing file survives a failed write.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-link-*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: writing %s: %w", ErrSerialization, path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: writing %s: %w", ErrSerialization, path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: writing %s: %w", ErrSerialization, path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: writing %s: %w", ErrSerialization, path, err)
	}
	return nil
}
