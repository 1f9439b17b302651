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

// Package artifact records content hashes for the materials and products
// of a supply-chain step.
//
// A Recorder resolves a list of declared file or directory paths into an
// Inventory: a deterministic mapping from normalized relative paths to
// digest sets. Recording is read-only and yields byte-identical canonical
// inventories for unchanged trees, independent of traversal order.
package artifact

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	hashengines "github.com/gjvanhalem/in-toto/pkg/hashing/engines"
	_ "github.com/gjvanhalem/in-toto/pkg/hashing/engines/memory" // register default engines
)

// DefaultAlgorithm is the digest algorithm used when none is configured.
const DefaultAlgorithm = "sha256"

// readChunkSize is the buffer size for streaming file contents into the
// hash engines.
const readChunkSize = 64 * 1024

// Recorder computes artifact inventories for declared paths.
type Recorder struct {
	baseDir         string
	algorithms      []string
	excludePatterns []string
	lstripPaths     []string
	followSymlinks  bool
	maxWorkers      int
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithBaseDir sets the directory that recorded paths are made relative
// to. Defaults to the current working directory.
func WithBaseDir(dir string) Option {
	return func(r *Recorder) { r.baseDir = dir }
}

// WithAlgorithms sets the digest algorithms computed per artifact. Each
// name must be registered with the hash engine registry.
func WithAlgorithms(algorithms ...string) Option {
	return func(r *Recorder) { r.algorithms = algorithms }
}

// WithExcludePatterns sets glob patterns pruned from recording. A pattern
// is matched against each path component, so "*.link" or ".git" excludes
// matching entries anywhere in the tree.
func WithExcludePatterns(patterns ...string) Option {
	return func(r *Recorder) { r.excludePatterns = patterns }
}

// WithLstripPaths sets prefixes stripped from recorded path keys, so
// links created in different checkouts of the same tree stay comparable.
func WithLstripPaths(prefixes ...string) Option {
	return func(r *Recorder) { r.lstripPaths = prefixes }
}

// WithFollowSymlinks allows symlinks to be resolved and their targets
// hashed. By default symlinks are rejected when declared directly and
// skipped when discovered during traversal.
func WithFollowSymlinks(follow bool) Option {
	return func(r *Recorder) { r.followSymlinks = follow }
}

// WithMaxWorkers bounds the number of concurrent file hashing workers.
// Values below one select runtime.NumCPU.
func WithMaxWorkers(n int) Option {
	return func(r *Recorder) { r.maxWorkers = n }
}

// NewRecorder creates a Recorder with the given options, validating that
// every configured algorithm is registered and every exclude pattern is a
// well-formed glob.
func NewRecorder(opts ...Option) (*Recorder, error) {
	r := &Recorder{
		baseDir:    ".",
		algorithms: []string{DefaultAlgorithm},
	}
	for _, opt := range opts {
		opt(r)
	}

	if len(r.algorithms) == 0 {
		return nil, fmt.Errorf("at least one digest algorithm is required")
	}
	for _, algo := range r.algorithms {
		if !hashengines.IsSupported(algo) {
			return nil, fmt.Errorf("unsupported digest algorithm %q (supported: %v)",
				algo, hashengines.SupportedAlgorithms())
		}
	}
	for _, pattern := range r.excludePatterns {
		if _, err := filepath.Match(pattern, "probe"); err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
	}

	return r, nil
}

// Record resolves the declared paths into an artifact inventory.
//
// Directories are expanded to their recursive regular-file listing with
// excluded patterns pruned. Every declared path must exist: a missing
// path yields ErrArtifactNotFound, an unreadable one ErrArtifactAccess.
// An empty path list yields an empty, valid inventory.
func (r *Recorder) Record(ctx context.Context, paths []string) (Inventory, error) {
	inventory := Inventory{}
	if len(paths) == 0 {
		return inventory, nil
	}

	var files []string
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if !filepath.IsAbs(path) {
			path = filepath.Join(r.baseDir, path)
		}
		resolved, err := r.resolveDeclaredPath(path)
		if err != nil {
			return nil, err
		}
		files = append(files, resolved...)
	}

	hashed, err := r.hashFiles(ctx, files)
	if err != nil {
		return nil, err
	}

	for path, ds := range hashed {
		key := r.normalizeKey(path)
		if existing, ok := inventory[key]; ok && !existing.Equal(ds) {
			return nil, fmt.Errorf("path collision on %q after prefix stripping", key)
		}
		inventory[key] = ds
	}

	return inventory, nil
}

// resolveDeclaredPath expands one declared material or product path into
// the regular files it covers.
func (r *Recorder) resolveDeclaredPath(path string) ([]string, error) {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %q", ErrArtifactNotFound, path)
		}
		return nil, fmt.Errorf("%w: %q: %v", ErrArtifactAccess, path, err)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		if !r.followSymlinks {
			return nil, fmt.Errorf("%w: %q is a symlink; enable symlink following to record it",
				ErrArtifactAccess, path)
		}
		info, err = os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: broken symlink: %v", ErrArtifactNotFound, path, err)
		}
	}

	switch {
	case info.Mode().IsRegular():
		if r.excluded(path) {
			return nil, nil
		}
		return []string{path}, nil
	case info.IsDir():
		return r.collectFiles(path)
	default:
		return nil, fmt.Errorf("%w: %q is neither a regular file nor a directory",
			ErrArtifactAccess, path)
	}
}

// collectFiles walks root and returns the regular files to hash, pruning
// excluded entries. Discovered symlinks are skipped unless following is
// enabled and the target is a regular file.
func (r *Recorder) collectFiles(root string) ([]string, error) {
	var files []string

	walkFn := func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("%w: %q: %v", ErrArtifactAccess, path, err)
		}

		if r.excluded(path) {
			if entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			if !r.followSymlinks {
				return nil
			}
			target, statErr := os.Stat(path)
			if statErr != nil || !target.Mode().IsRegular() {
				return nil
			}
			files = append(files, path)
			return nil
		}

		if entry.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	}

	if err := filepath.WalkDir(root, walkFn); err != nil {
		return nil, err
	}
	return files, nil
}

// excluded reports whether any component of path, taken relative to the
// base directory, matches an exclude pattern. Components of the base
// directory itself are never matched so patterns cannot exclude the
// whole tree through its location.
func (r *Recorder) excluded(path string) bool {
	if len(r.excludePatterns) == 0 {
		return false
	}

	candidate := filepath.Clean(path)
	if rel, err := filepath.Rel(r.baseDir, candidate); err == nil {
		slashed := filepath.ToSlash(rel)
		if slashed != ".." && !strings.HasPrefix(slashed, "../") {
			candidate = rel
		}
	}

	components := strings.Split(filepath.ToSlash(candidate), "/")
	for _, pattern := range r.excludePatterns {
		for _, component := range components {
			if ok, _ := filepath.Match(pattern, component); ok {
				return true
			}
		}
	}
	return false
}

// normalizeKey converts a filesystem path into its inventory key: slash
// separated, relative to the base directory, with configured prefixes
// stripped.
func (r *Recorder) normalizeKey(path string) string {
	key := filepath.ToSlash(filepath.Clean(path))
	if rel, err := filepath.Rel(r.baseDir, path); err == nil {
		slashed := filepath.ToSlash(rel)
		if slashed != ".." && !strings.HasPrefix(slashed, "../") {
			key = slashed
		}
	}

	for _, prefix := range r.lstripPaths {
		if strings.HasPrefix(key, prefix) {
			key = strings.TrimPrefix(key, prefix)
			break
		}
	}
	return key
}

// hashFiles computes the digest sets for the given files using a bounded
// worker pool. The returned map is keyed by the raw file path.
func (r *Recorder) hashFiles(ctx context.Context, files []string) (map[string]DigestSet, error) {
	hashed := make(map[string]DigestSet, len(files))
	if len(files) == 0 {
		return hashed, nil
	}

	workerCount := r.maxWorkers
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}
	if workerCount > len(files) {
		workerCount = len(files)
	}

	type result struct {
		path string
		ds   DigestSet
		err  error
	}

	jobs := make(chan string)
	results := make(chan result, len(files))

	var wg sync.WaitGroup
	wg.Add(workerCount)

	for i := 0; i < workerCount; i++ {
		go func() {
			defer wg.Done()
			for path := range jobs {
				ds, err := r.hashArtifact(path)
				results <- result{path: path, ds: ds, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, path := range files {
			select {
			case jobs <- path:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var firstErr error
	for res := range results {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		hashed[res.path] = res.ds
	}

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return hashed, nil
}

// hashArtifact streams one file through every configured hash engine.
func (r *Recorder) hashArtifact(path string) (DigestSet, error) {
	engines := make([]hashengines.StreamingHashEngine, 0, len(r.algorithms))
	for _, algo := range r.algorithms {
		engine, err := hashengines.Create(algo)
		if err != nil {
			return nil, err
		}
		engines = append(engines, engine)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrArtifactAccess, path, err)
	}
	defer f.Close()

	buf := make([]byte, readChunkSize)
	for {
		n, readErr := f.Read(buf)
		if n > 0 {
			for _, engine := range engines {
				engine.Update(buf[:n])
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrArtifactAccess, path, readErr)
		}
	}

	ds := DigestSet{}
	for _, engine := range engines {
		digest, err := engine.Compute()
		if err != nil {
			return nil, fmt.Errorf("compute %s digest for %q: %w", engine.DigestName(), path, err)
		}
		ds[digest.Algorithm()] = digest.Hex()
	}
	return ds, nil
}
