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

package link

import (
	"path/filepath"
	"strings"
)

// DefaultDenyPatterns are variable-name globs that are never captured,
// regardless of the allowlist. Matching is case-insensitive.
var DefaultDenyPatterns = []string{
	"*KEY*",
	"*SECRET*",
	"*TOKEN*",
	"*PASSWORD*",
	"*PASSPHRASE*",
	"*CREDENTIAL*",
}

// CapturePolicy selects which process environment variables are recorded
// in a link's environment field. The default policy captures nothing:
// variables are recorded only when explicitly allowlisted, and the deny
// patterns are applied on top of the allowlist.
type CapturePolicy struct {
	// Allow lists exact variable names to capture.
	Allow []string

	// DenyPatterns are glob patterns refused even when allowlisted.
	// Nil selects DefaultDenyPatterns; an empty non-nil slice disables
	// the deny filter.
	DenyPatterns []string
}

// Capture filters environ (as returned by os.Environ) through the
// policy and returns the variables to embed in the link.
func (p CapturePolicy) Capture(environ []string) map[string]any {
	captured := map[string]any{}
	if len(p.Allow) == 0 {
		return captured
	}

	allowed := make(map[string]bool, len(p.Allow))
	for _, name := range p.Allow {
		allowed[name] = true
	}

	deny := p.DenyPatterns
	if deny == nil {
		deny = DefaultDenyPatterns
	}

	for _, entry := range environ {
		name, value, ok := strings.Cut(entry, "=")
		if !ok || !allowed[name] {
			continue
		}
		if matchesAny(deny, strings.ToUpper(name)) {
			continue
		}
		captured[name] = value
	}
	return captured
}

func matchesAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if ok, _ := filepath.Match(strings.ToUpper(pattern), name); ok {
			return true
		}
	}
	return false
}
