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

// Package digests provides the value type for artifact content hashes.
//
// A Digest pairs a hash algorithm name with the computed value. Link
// metadata records one or more digests per artifact, so the type is kept
// immutable: fields are unexported and accessors copy the underlying bytes.
package digests

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// Digest is a computed content hash, tagged with the algorithm that
// produced it.
type Digest struct {
	algorithm string
	value     []byte
}

// NewDigest creates a Digest for the given algorithm name and raw hash
// value. The value slice is copied so later mutation by the caller cannot
// change the digest.
func NewDigest(algorithm string, value []byte) Digest {
	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	return Digest{
		algorithm: algorithm,
		value:     valueCopy,
	}
}

// NewDigestFromHex creates a Digest from a hex-encoded value, as found in
// serialized link metadata. Returns an error if the encoding is invalid.
func NewDigestFromHex(algorithm, hexValue string) (Digest, error) {
	raw, err := hex.DecodeString(hexValue)
	if err != nil {
		return Digest{}, fmt.Errorf("invalid hex digest %q: %w", hexValue, err)
	}
	return Digest{algorithm: algorithm, value: raw}, nil
}

// Algorithm returns the name of the hash algorithm. The name carries every
// parameter that influences the output, so a verifier can recreate the
// same hashing configuration from the recorded name alone.
func (d Digest) Algorithm() string {
	return d.algorithm
}

// Value returns a copy of the raw digest bytes.
func (d Digest) Value() []byte {
	valueCopy := make([]byte, len(d.value))
	copy(valueCopy, d.value)
	return valueCopy
}

// Hex returns the lowercase hexadecimal encoding of the digest value.
// This is the form stored in link metadata.
func (d Digest) Hex() string {
	return hex.EncodeToString(d.value)
}

// Size returns the length in bytes of the digest value.
func (d Digest) Size() int {
	return len(d.value)
}

// String formats the digest as "algorithm:hexvalue".
func (d Digest) String() string {
	return fmt.Sprintf("%s:%s", d.algorithm, d.Hex())
}

// Equal reports whether two digests have the same algorithm and value.
func (d Digest) Equal(other Digest) bool {
	return d.algorithm == other.algorithm && bytes.Equal(d.value, other.value)
}
