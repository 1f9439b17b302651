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
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFilenameFor(t *testing.T) {
	keyID := "2f89b9272acfc8f4a0a0f094d789fdb0ba798b0fe41f2f5f417c759ebb0ceb31"
	got := FilenameFor("package", keyID)
	want := "package.2f89b927.link"
	if got != want {
		t.Errorf("FilenameFor() = %q, want %q", got, want)
	}
}

func TestUnfinishedFilenameFor(t *testing.T) {
	keyID := "2f89b9272acfc8f4a0a0f094d789fdb0ba798b0fe41f2f5f417c759ebb0ceb31"
	got := UnfinishedFilenameFor("package", keyID)
	want := ".package.2f89b927.link-unfinished"
	if got != want {
		t.Errorf("UnfinishedFilenameFor() = %q, want %q", got, want)
	}
}

func TestFilenameForShortKeyID(t *testing.T) {
	got := FilenameFor("build", "abc")
	if got != "build.abc.link" {
		t.Errorf("FilenameFor() = %q, want %q", got, "build.abc.link")
	}
}

func TestWriteAtomicLeavesNoTempFiles(t *testing.T) {
	signer, _ := testSigner(t)
	mb := NewMetablock(testLink(t))
	if err := mb.Sign(context.Background(), signer); err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, FilenameFor("build", signer.KeyID()))
	if err := mb.Write(path); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading dir: %v", err)
	}
	if len(entries) != 1 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory has %v, want only the link file", names)
	}
	if !strings.HasSuffix(entries[0].Name(), ".link") {
		t.Errorf("unexpected file %q", entries[0].Name())
	}
}

func TestWriteReplacesExistingFile(t *testing.T) {
	signer, priv := testSigner(t)
	mb := NewMetablock(testLink(t))
	if err := mb.Sign(context.Background(), signer); err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "build.link")
	if err := os.WriteFile(path, []byte("stale"), 0o644); err != nil {
		t.Fatalf("seeding file: %v", err)
	}
	if err := mb.Write(path); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	loaded, err := LoadMetablock(path)
	if err != nil {
		t.Fatalf("LoadMetablock() error = %v", err)
	}
	if err := loaded.VerifySignature(priv.Public()); err != nil {
		t.Errorf("replacement content does not verify: %v", err)
	}
}

func TestWriteToMissingDirectory(t *testing.T) {
	signer, _ := testSigner(t)
	mb := NewMetablock(testLink(t))
	if err := mb.Sign(context.Background(), signer); err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	err := mb.Write(filepath.Join(t.TempDir(), "no-such-dir", "build.link"))
	if !errors.Is(err, ErrSerialization) {
		t.Errorf("Write() error = %v, want ErrSerialization", err)
	}
}
