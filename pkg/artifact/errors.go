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

import "errors"

var (
	// ErrArtifactNotFound reports that a declared material or product
	// path does not exist. Callers match it with errors.Is.
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrArtifactAccess reports that an artifact exists but could not be
	// read, due to permissions or an I/O fault.
	ErrArtifactAccess = errors.New("artifact not accessible")
)
