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

package artifact

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// Known digest of "abc" for SHA-256.
const sha256ABC = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func newTestRecorder(t *testing.T, opts ...Option) *Recorder {
	t.Helper()
	r, err := NewRecorder(opts...)
	if err != nil {
		t.Fatalf("NewRecorder() error = %v", err)
	}
	return r
}

func TestRecordSingleFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "foo.txt"), "abc")

	r := newTestRecorder(t, WithBaseDir(dir))
	inv, err := r.Record(context.Background(), []string{"foo.txt"})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	ds, ok := inv["foo.txt"]
	if !ok {
		t.Fatalf("Record() missing key %q, got %v", "foo.txt", inv.Paths())
	}
	if got := ds["sha256"]; got != sha256ABC {
		t.Errorf("sha256 = %s, want %s", got, sha256ABC)
	}
}

func TestRecordIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "alpha")
	writeFile(t, filepath.Join(dir, "sub", "b.txt"), "beta")

	r := newTestRecorder(t, WithBaseDir(dir))
	first, err := r.Record(context.Background(), []string{"."})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	second, err := r.Record(context.Background(), []string{"."})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	if !first.Equal(second) {
		t.Errorf("repeated Record() over unchanged tree differs: %v vs %v", first, second)
	}
}

func TestRecordDirectoryExpansion(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "main.go"), "package main")
	writeFile(t, filepath.Join(dir, "src", "deep", "util.go"), "package deep")

	r := newTestRecorder(t, WithBaseDir(dir))
	inv, err := r.Record(context.Background(), []string{"src"})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	want := []string{"src/deep/util.go", "src/main.go"}
	got := inv.Paths()
	if len(got) != len(want) {
		t.Fatalf("Paths() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Paths()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRecordMissingPath(t *testing.T) {
	r := newTestRecorder(t, WithBaseDir(t.TempDir()))
	_, err := r.Record(context.Background(), []string{"does-not-exist"})
	if !errors.Is(err, ErrArtifactNotFound) {
		t.Errorf("Record() error = %v, want ErrArtifactNotFound", err)
	}
}

func TestRecordExcludePatterns(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "keep.txt"), "keep")
	writeFile(t, filepath.Join(dir, "skip.pyc"), "skip")

	r := newTestRecorder(t, WithBaseDir(dir), WithExcludePatterns("*.pyc"))
	inv, err := r.Record(context.Background(), []string{"."})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	if _, ok := inv["keep.txt"]; !ok {
		t.Error("Record() dropped non-excluded file")
	}
	if _, ok := inv["skip.pyc"]; ok {
		t.Error("Record() recorded excluded file")
	}
}

func TestRecordExcludeIgnoresBaseDirComponents(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".git-mirrors", "checkout")
	writeFile(t, filepath.Join(dir, "keep.txt"), "keep")
	writeFile(t, filepath.Join(dir, ".git-mirrors", "inner.txt"), "skip")

	r := newTestRecorder(t, WithBaseDir(dir), WithExcludePatterns(".git*"))
	inv, err := r.Record(context.Background(), []string{"."})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	if _, ok := inv["keep.txt"]; !ok {
		t.Errorf("Record() excluded the tree through its base directory, got %v", inv.Paths())
	}
	if _, ok := inv[".git-mirrors/inner.txt"]; ok {
		t.Error("Record() recorded a file under an excluded directory")
	}
}

func TestRecordSymlinkRejected(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target.txt")
	writeFile(t, target, "content")
	linkPath := filepath.Join(dir, "link.txt")
	if err := os.Symlink(target, linkPath); err != nil {
		t.Skipf("cannot create symlink: %v", err)
	}

	r := newTestRecorder(t, WithBaseDir(dir))
	_, err := r.Record(context.Background(), []string{"link.txt"})
	if !errors.Is(err, ErrArtifactAccess) {
		t.Errorf("Record() error = %v, want ErrArtifactAccess", err)
	}

	follower := newTestRecorder(t, WithBaseDir(dir), WithFollowSymlinks(true))
	inv, err := follower.Record(context.Background(), []string{"link.txt"})
	if err != nil {
		t.Fatalf("Record() with follow-symlinks error = %v", err)
	}
	if _, ok := inv["link.txt"]; !ok {
		t.Error("Record() with follow-symlinks did not record the link path")
	}
}

func TestRecordLstripPaths(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "build", "out", "app"), "binary")

	r := newTestRecorder(t, WithBaseDir(dir), WithLstripPaths("build/"))
	inv, err := r.Record(context.Background(), []string{"build"})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if _, ok := inv["out/app"]; !ok {
		t.Errorf("Record() keys = %v, want stripped key %q", inv.Paths(), "out/app")
	}
}

func TestRecordLstripCollision(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a", "same.txt"), "one")
	writeFile(t, filepath.Join(dir, "b", "same.txt"), "two")

	r := newTestRecorder(t, WithBaseDir(dir), WithLstripPaths("a/", "b/"))
	_, err := r.Record(context.Background(), []string{"a", "b"})
	if err == nil {
		t.Error("Record() accepted colliding keys after prefix strip")
	}
}

func TestRecordMultipleAlgorithms(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "foo.txt"), "abc")

	r := newTestRecorder(t, WithBaseDir(dir), WithAlgorithms("sha256", "sha512"))
	inv, err := r.Record(context.Background(), []string{"foo.txt"})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	ds := inv["foo.txt"]
	if len(ds) != 2 {
		t.Fatalf("DigestSet has %d entries, want 2: %v", len(ds), ds)
	}
	for _, algorithm := range []string{"sha256", "sha512"} {
		if ds[algorithm] == "" {
			t.Errorf("missing %s digest", algorithm)
		}
	}
}

func TestNewRecorderRejectsUnknownAlgorithm(t *testing.T) {
	if _, err := NewRecorder(WithAlgorithms("md5")); err == nil {
		t.Error("NewRecorder() accepted unsupported algorithm")
	}
}

func TestNewRecorderRejectsBadPattern(t *testing.T) {
	if _, err := NewRecorder(WithExcludePatterns("[")); err == nil {
		t.Error("NewRecorder() accepted malformed exclude pattern")
	}
}

func TestRecordEmptyPaths(t *testing.T) {
	r := newTestRecorder(t, WithBaseDir(t.TempDir()))
	inv, err := r.Record(context.Background(), nil)
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if len(inv) != 0 {
		t.Errorf("Record(nil) = %v, want empty inventory", inv)
	}
}
