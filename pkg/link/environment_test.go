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

import "testing"

func TestCapturePolicyDefaultCapturesNothing(t *testing.T) {
	got := CapturePolicy{}.Capture([]string{"PATH=/usr/bin", "HOME=/root"})
	if len(got) != 0 {
		t.Errorf("Capture() with empty allowlist = %v, want empty", got)
	}
}

func TestCapturePolicyAllowlist(t *testing.T) {
	policy := CapturePolicy{Allow: []string{"LANG", "CI"}}
	got := policy.Capture([]string{
		"LANG=C.UTF-8",
		"CI=true",
		"PATH=/usr/bin",
	})

	if len(got) != 2 {
		t.Fatalf("Capture() = %v, want 2 entries", got)
	}
	if got["LANG"] != "C.UTF-8" {
		t.Errorf("LANG = %v, want C.UTF-8", got["LANG"])
	}
	if _, ok := got["PATH"]; ok {
		t.Error("Capture() leaked variable outside the allowlist")
	}
}

func TestCapturePolicyDefaultDenyPatterns(t *testing.T) {
	policy := CapturePolicy{Allow: []string{"AWS_SECRET_ACCESS_KEY", "API_TOKEN", "LANG", "MY_PASSWORD"}}
	got := policy.Capture([]string{
		"AWS_SECRET_ACCESS_KEY=hunter2",
		"API_TOKEN=abc123",
		"MY_PASSWORD=letmein",
		"LANG=C",
	})

	if len(got) != 1 {
		t.Fatalf("Capture() = %v, want only LANG", got)
	}
	if got["LANG"] != "C" {
		t.Errorf("LANG = %v, want C", got["LANG"])
	}
}

func TestCapturePolicyDenyIsCaseInsensitive(t *testing.T) {
	policy := CapturePolicy{Allow: []string{"my_secret_thing"}}
	got := policy.Capture([]string{"my_secret_thing=value"})
	if len(got) != 0 {
		t.Errorf("Capture() = %v, deny patterns must match case-insensitively", got)
	}
}

func TestCapturePolicyCustomDenyPatterns(t *testing.T) {
	policy := CapturePolicy{
		Allow:        []string{"LANG", "INTERNAL_HOST"},
		DenyPatterns: []string{"INTERNAL_*"},
	}
	got := policy.Capture([]string{"LANG=C", "INTERNAL_HOST=10.0.0.1"})

	if _, ok := got["INTERNAL_HOST"]; ok {
		t.Error("Capture() ignored custom deny pattern")
	}
	if got["LANG"] != "C" {
		t.Errorf("LANG = %v, want C", got["LANG"])
	}
}

func TestCapturePolicyMalformedEntries(t *testing.T) {
	policy := CapturePolicy{Allow: []string{"GOOD"}}
	got := policy.Capture([]string{"no-equals-sign", "GOOD=yes"})
	if got["GOOD"] != "yes" {
		t.Errorf("GOOD = %v, want yes", got["GOOD"])
	}
	if len(got) != 1 {
		t.Errorf("Capture() = %v, want 1 entry", got)
	}
}
