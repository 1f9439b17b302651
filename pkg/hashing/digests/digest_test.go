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

package digests

import "testing"

func TestNewDigestCopiesValue(t *testing.T) {
	raw := []byte{0x01, 0x02, 0x03}
	d := NewDigest("sha256", raw)

	raw[0] = 0xff
	if d.Value()[0] != 0x01 {
		t.Error("NewDigest() did not copy the input bytes")
	}

	val := d.Value()
	val[1] = 0xee
	if d.Value()[1] != 0x02 {
		t.Error("Value() did not return a defensive copy")
	}
}

func TestDigestAccessors(t *testing.T) {
	d := NewDigest("sha256", []byte{0xde, 0xad, 0xbe, 0xef})

	if got := d.Algorithm(); got != "sha256" {
		t.Errorf("Algorithm() = %q, want %q", got, "sha256")
	}
	if got := d.Hex(); got != "deadbeef" {
		t.Errorf("Hex() = %q, want %q", got, "deadbeef")
	}
	if got := d.Size(); got != 4 {
		t.Errorf("Size() = %d, want 4", got)
	}
}

func TestNewDigestFromHex(t *testing.T) {
	d, err := NewDigestFromHex("sha256", "cafef00d")
	if err != nil {
		t.Fatalf("NewDigestFromHex() error = %v", err)
	}
	if got := d.Hex(); got != "cafef00d" {
		t.Errorf("Hex() = %q, want %q", got, "cafef00d")
	}

	if _, err := NewDigestFromHex("sha256", "not-hex"); err == nil {
		t.Error("NewDigestFromHex() accepted invalid hex")
	}
}

func TestDigestEqual(t *testing.T) {
	a := NewDigest("sha256", []byte{1, 2, 3})
	b := NewDigest("sha256", []byte{1, 2, 3})
	c := NewDigest("sha512", []byte{1, 2, 3})
	d := NewDigest("sha256", []byte{1, 2, 4})

	if !a.Equal(b) {
		t.Error("identical digests compare unequal")
	}
	if a.Equal(c) {
		t.Error("digests with different algorithms compare equal")
	}
	if a.Equal(d) {
		t.Error("digests with different values compare equal")
	}
}
