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

import "sort"

// DigestSet maps a hash algorithm name to the lowercase hex digest of an
// artifact's content. Recording several algorithms side by side keeps old
// links verifiable when a verifier moves to a stronger hash.
type DigestSet map[string]string

// Equal reports whether two digest sets record the same algorithms with
// the same values.
func (ds DigestSet) Equal(other DigestSet) bool {
	if len(ds) != len(other) {
		return false
	}
	for algo, value := range ds {
		if other[algo] != value {
			return false
		}
	}
	return true
}

// Inventory maps normalized artifact paths (slash-separated, relative to
// the recording base directory) to their digest sets. An empty inventory
// is valid: a step may declare no materials or no products.
//
// Map iteration order is irrelevant for determinism; canonical
// serialization sorts keys lexicographically.
type Inventory map[string]DigestSet

// Paths returns the artifact paths in lexicographic order.
func (inv Inventory) Paths() []string {
	paths := make([]string, 0, len(inv))
	for p := range inv {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Equal reports whether two inventories cover the same paths with equal
// digest sets.
func (inv Inventory) Equal(other Inventory) bool {
	if len(inv) != len(other) {
		return false
	}
	for path, ds := range inv {
		otherDS, ok := other[path]
		if !ok || !ds.Equal(otherDS) {
			return false
		}
	}
	return true
}
