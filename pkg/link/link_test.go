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
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/gjvanhalem/in-toto/pkg/artifact"
	"github.com/gjvanhalem/in-toto/pkg/runner"
)

func exitCode(code int) runner.Result {
	return runner.Result{
		Command:     []string{"sh", "-c", "true"},
		ReturnValue: &code,
	}
}

func TestNewRequiresStepName(t *testing.T) {
	if _, err := New("", nil, nil, runner.Result{}, nil); err == nil {
		t.Error("New() accepted an empty step name")
	}
}

func TestNewNormalizesNils(t *testing.T) {
	l, err := New("build", nil, nil, runner.Result{}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if l.Materials == nil || l.Products == nil || l.Environment == nil || l.Command == nil {
		t.Error("New() left a nil collection in the link")
	}
	if l.Type != Type {
		t.Errorf("Type = %q, want %q", l.Type, Type)
	}
}

func TestNewNoCommandHasNullReturnValue(t *testing.T) {
	l, err := New("inspect", nil, nil, runner.Result{}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	rv, ok := l.Byproducts[ByproductReturnValue]
	if !ok {
		t.Fatal("byproducts missing return-value")
	}
	if rv != nil {
		t.Errorf("return-value = %v, want nil", rv)
	}

	encoded, err := l.Canonical()
	if err != nil {
		t.Fatalf("Canonical() error = %v", err)
	}
	if !strings.Contains(string(encoded), `"return-value":null`) {
		t.Errorf("canonical form lacks null return-value: %s", encoded)
	}
}

func TestNewRecordsExitCode(t *testing.T) {
	l, err := New("build", nil, nil, exitCode(7), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if rv := l.Byproducts[ByproductReturnValue]; rv != 7 {
		t.Errorf("return-value = %v, want 7", rv)
	}
}

func TestCanonicalIsDeterministic(t *testing.T) {
	materials := artifact.Inventory{
		"z.txt": {"sha256": "aa"},
		"a.txt": {"sha256": "bb"},
	}
	environment := map[string]any{"LANG": "C", "CI": "true"}

	first, err := New("build", materials, nil, exitCode(0), environment)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	second, err := New("build", materials, nil, exitCode(0), environment)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	firstBytes, err := first.Canonical()
	if err != nil {
		t.Fatalf("Canonical() error = %v", err)
	}
	secondBytes, err := second.Canonical()
	if err != nil {
		t.Fatalf("Canonical() error = %v", err)
	}
	if !bytes.Equal(firstBytes, secondBytes) {
		t.Error("Canonical() differs between identical links")
	}
}

func TestCanonicalSortsKeys(t *testing.T) {
	l, err := New("build", artifact.Inventory{
		"b": {"sha256": "01"},
		"a": {"sha256": "02"},
	}, nil, exitCode(0), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	encoded, err := l.Canonical()
	if err != nil {
		t.Fatalf("Canonical() error = %v", err)
	}
	s := string(encoded)
	if strings.Index(s, `"a"`) > strings.Index(s, `"b"`) {
		t.Errorf("canonical form is not key sorted: %s", s)
	}
	if strings.Index(s, `"_type"`) != 1 {
		t.Errorf("_type is not the first key: %s", s)
	}
}

func TestLinkJSONTags(t *testing.T) {
	l, err := New("build", nil, nil, exitCode(0), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	data, err := json.Marshal(l)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	for _, key := range []string{"_type", "name", "command", "materials", "products", "byproducts", "environment"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("serialized link missing key %q", key)
		}
	}
}
