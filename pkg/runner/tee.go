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

package runner

import (
	"bytes"
	"io"
)

// DefaultMaxCaptureBytes bounds how much of each stream is kept for the
// link's byproducts. Live forwarding is never bounded.
const DefaultMaxCaptureBytes = 1 << 20

// TruncationMarker is appended to a captured stream that exceeded the
// capture ceiling.
const TruncationMarker = "...[output truncated]"

// CappedBuffer accumulates stream bytes up to a fixed ceiling. Writes
// beyond the ceiling are counted but discarded, and the rendered string
// gains a truncation marker. Write never fails, so a full buffer cannot
// stall or break the wrapped command.
type CappedBuffer struct {
	buf       bytes.Buffer
	limit     int
	truncated bool
}

// NewCappedBuffer creates a buffer bounded at limit bytes. Limits below
// one select DefaultMaxCaptureBytes.
func NewCappedBuffer(limit int) *CappedBuffer {
	if limit <= 0 {
		limit = DefaultMaxCaptureBytes
	}
	return &CappedBuffer{limit: limit}
}

// Write implements io.Writer. It always reports len(p) consumed.
func (b *CappedBuffer) Write(p []byte) (int, error) {
	remaining := b.limit - b.buf.Len()
	if remaining <= 0 {
		if len(p) > 0 {
			b.truncated = true
		}
		return len(p), nil
	}

	if len(p) > remaining {
		b.truncated = true
		b.buf.Write(p[:remaining])
		return len(p), nil
	}

	b.buf.Write(p)
	return len(p), nil
}

// Truncated reports whether any bytes were discarded.
func (b *CappedBuffer) Truncated() bool {
	return b.truncated
}

// String returns the captured bytes, with the truncation marker appended
// if the ceiling was hit.
func (b *CappedBuffer) String() string {
	if b.truncated {
		return b.buf.String() + TruncationMarker
	}
	return b.buf.String()
}

// Tee fans each written chunk out to a live sink (so the operator still
// sees output as it happens) and a capped capture buffer. Capture errors
// cannot occur; only a failure of the live sink is surfaced.
type Tee struct {
	live    io.Writer
	capture *CappedBuffer
}

// NewTee creates a Tee forwarding to live and capturing into capture.
func NewTee(live io.Writer, capture *CappedBuffer) *Tee {
	return &Tee{live: live, capture: capture}
}

// Write implements io.Writer.
func (t *Tee) Write(p []byte) (int, error) {
	_, _ = t.capture.Write(p)
	return t.live.Write(p)
}
