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

// Package link defines the Link record: the attested metadata for one
// supply-chain step, pairing material and product inventories with the
// executed command and its captured outcome.
//
// Building a link is pure assembly over already-gathered inputs, so equal
// inputs always canonicalize to byte-identical output.
package link

import (
	"fmt"

	"github.com/secure-systems-lab/go-securesystemslib/cjson"

	"github.com/gjvanhalem/in-toto/pkg/artifact"
	"github.com/gjvanhalem/in-toto/pkg/runner"
)

// Type is the _type discriminator for link records.
const Type = "link"

// Byproduct keys recorded from command execution.
const (
	ByproductStdout      = "stdout"
	ByproductStderr      = "stderr"
	ByproductReturnValue = "return-value"
)

// Link is the attested record for one step. It is created once per step
// invocation and treated as immutable afterwards; any mutation after
// signing invalidates the signature.
type Link struct {
	Type        string             `json:"_type"`
	Name        string             `json:"name"`
	Command     []string           `json:"command"`
	Materials   artifact.Inventory `json:"materials"`
	Products    artifact.Inventory `json:"products"`
	Byproducts  map[string]any     `json:"byproducts"`
	Environment map[string]any     `json:"environment"`
}

// New assembles a Link from the step name, the two inventories, the
// command result, and the captured environment snapshot.
//
// The step name must be non-empty; it relates the link to a step in a
// layout. The return-value byproduct is null for a step that declared no
// command. Nil inventories and environment are normalized to empty so the
// canonical form never contains JSON null where an object belongs.
func New(name string, materials, products artifact.Inventory, result runner.Result, environment map[string]any) (*Link, error) {
	if name == "" {
		return nil, fmt.Errorf("step name must not be empty")
	}

	if materials == nil {
		materials = artifact.Inventory{}
	}
	if products == nil {
		products = artifact.Inventory{}
	}
	if environment == nil {
		environment = map[string]any{}
	}

	command := result.Command
	if command == nil {
		command = []string{}
	}

	byproducts := map[string]any{
		ByproductStdout: result.Stdout,
		ByproductStderr: result.Stderr,
	}
	if result.NoCommand() {
		byproducts[ByproductReturnValue] = nil
	} else {
		byproducts[ByproductReturnValue] = *result.ReturnValue
	}

	return &Link{
		Type:        Type,
		Name:        name,
		Command:     command,
		Materials:   materials,
		Products:    products,
		Byproducts:  byproducts,
		Environment: environment,
	}, nil
}

// Canonical returns the deterministic byte representation of the link:
// canonical JSON with lexicographically sorted keys and stable scalar
// encoding. Signatures are computed over exactly these bytes, and a
// verifier recomputes them independently.
func (l *Link) Canonical() ([]byte, error) {
	encoded, err := cjson.EncodeCanonical(l)
	if err != nil {
		return nil, fmt.Errorf("canonicalize link %q: %w", l.Name, err)
	}
	return encoded, nil
}
