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

// Package hashengines defines the interfaces for computing artifact
// digests, together with a registry of named algorithm implementations.
//
// Artifact recording feeds file contents into one or more engines, so the
// core interface supports both one-shot and streaming use.
package hashengines

import (
	"github.com/gjvanhalem/in-toto/pkg/hashing/digests"
)

// HashEngine computes a digest over data that has been fed into it.
//
// DigestName must include every parameter that affects the output, so the
// name recorded in link metadata is enough to reproduce the computation.
type HashEngine interface {
	// Compute finalizes the hash computation and returns the digest.
	Compute() (digests.Digest, error)

	// DigestName returns the canonical name of the hash algorithm. The
	// name is carried into the algorithm field of the computed Digest.
	DigestName() string

	// DigestSize returns the size in bytes of digests produced by this
	// engine, matching the Size of the Digest returned by Compute.
	DigestSize() int
}

// Streaming feeds data incrementally to a hash engine. It is separate
// from HashEngine so one-shot implementations stay possible.
type Streaming interface {
	// Update appends additional bytes to the data being hashed.
	Update(data []byte)

	// Reset clears the hash state and optionally seeds it with data.
	Reset(data []byte)
}

// StreamingHashEngine composes HashEngine and Streaming for incremental
// hashing of file contents.
type StreamingHashEngine interface {
	HashEngine
	Streaming
}
