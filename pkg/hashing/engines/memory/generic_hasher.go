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

// Package memory provides in-memory streaming hash engines backed by the
// standard hash.Hash implementations. Each engine registers itself with
// the engine registry under its canonical algorithm name.
package memory

import (
	"hash"

	"github.com/gjvanhalem/in-toto/pkg/hashing/digests"
	hashengines "github.com/gjvanhalem/in-toto/pkg/hashing/engines"
)

var _ hashengines.StreamingHashEngine = (*GenericHashEngine)(nil)

// HashFactoryFunc creates a new hash.Hash instance.
type HashFactoryFunc func() (hash.Hash, error)

// GenericHashEngine wraps any hash.Hash as a StreamingHashEngine. The
// concrete algorithms below are thin configurations of this one type.
type GenericHashEngine struct {
	name    string
	size    int
	factory HashFactoryFunc
	h       hash.Hash
}

// NewGenericHashEngine creates an engine named name producing size-byte
// digests from hashes built by factory. If initialData is non-empty it is
// hashed immediately.
func NewGenericHashEngine(name string, size int, factory HashFactoryFunc, initialData []byte) (*GenericHashEngine, error) {
	h, err := factory()
	if err != nil {
		return nil, err
	}

	engine := &GenericHashEngine{
		name:    name,
		size:    size,
		factory: factory,
		h:       h,
	}

	if len(initialData) > 0 {
		// hash.Hash.Write never returns an error per the interface contract.
		_, _ = engine.h.Write(initialData)
	}

	return engine, nil
}

// Update appends additional bytes to the data being hashed.
func (e *GenericHashEngine) Update(data []byte) {
	if len(data) > 0 {
		_, _ = e.h.Write(data)
	}
}

// Reset clears the hash state and optionally seeds it with data.
func (e *GenericHashEngine) Reset(data []byte) {
	h, _ := e.factory() // factory validated at construction
	e.h = h

	if len(data) > 0 {
		_, _ = e.h.Write(data)
	}
}

// Compute finalizes the hash and returns the digest.
func (e *GenericHashEngine) Compute() (digests.Digest, error) {
	sum := e.h.Sum(nil)
	return digests.NewDigest(e.name, sum), nil
}

// DigestName returns the canonical name of the hash algorithm.
func (e *GenericHashEngine) DigestName() string {
	return e.name
}

// DigestSize returns the size in bytes of digests produced by this engine.
func (e *GenericHashEngine) DigestSize() int {
	return e.size
}
