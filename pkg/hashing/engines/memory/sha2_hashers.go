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

package memory

import (
	"crypto/sha256"
	"crypto/sha512"
	"hash"

	hashengines "github.com/gjvanhalem/in-toto/pkg/hashing/engines"
)

func init() {
	hashengines.MustRegister("sha256", func() (hashengines.StreamingHashEngine, error) {
		return NewSHA256(nil)
	})
	hashengines.MustRegister("sha512", func() (hashengines.StreamingHashEngine, error) {
		return NewSHA512(nil)
	})
}

// SHA256 is a GenericHashEngine configured for SHA-256, the default
// algorithm for artifact inventories.
type SHA256 = GenericHashEngine

// NewSHA256 creates a SHA-256 engine. If initialData is non-empty it is
// hashed immediately.
func NewSHA256(initialData []byte) (*SHA256, error) {
	return NewGenericHashEngine(
		"sha256",
		sha256.Size,
		func() (hash.Hash, error) { return sha256.New(), nil },
		initialData,
	)
}

// SHA512 is a GenericHashEngine configured for SHA-512.
type SHA512 = GenericHashEngine

// NewSHA512 creates a SHA-512 engine. If initialData is non-empty it is
// hashed immediately.
func NewSHA512(initialData []byte) (*SHA512, error) {
	return NewGenericHashEngine(
		"sha512",
		sha512.Size,
		func() (hash.Hash, error) { return sha512.New(), nil },
		initialData,
	)
}
