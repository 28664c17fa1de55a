// Copyright 2024 The vmprog authors. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package streamtest provides an in-memory stream.Source for tests.
package streamtest

// MemSource is a simple in-memory byte source satisfying stream.Source.
type MemSource struct {
	data []byte
	pos  uint32

	// FailAfter, if non-negative, is the number of further Read/Seek
	// calls that succeed; once it has counted down to zero, every later
	// call fails, simulating an I/O error partway through a multi-step
	// read.
	FailAfter int
}

// NewMemSource creates a MemSource backed by a copy of data.
func NewMemSource(data []byte) *MemSource {
	buf := make([]byte, len(data))
	copy(buf, data)
	return &MemSource{data: buf, FailAfter: -1}
}

func (m *MemSource) tick() bool {
	if m.FailAfter < 0 {
		return true
	}
	if m.FailAfter == 0 {
		return false
	}
	m.FailAfter--
	return true
}

// Read implements stream.Source.
func (m *MemSource) Read(dst []byte) (int, bool) {
	if !m.tick() {
		return 0, false
	}
	if uint32(len(m.data))-m.pos < uint32(len(dst)) {
		return 0, false
	}
	n := copy(dst, m.data[m.pos:])
	m.pos += uint32(n)
	return n, true
}

// Seek implements stream.Source.
func (m *MemSource) Seek(offset uint32) bool {
	if !m.tick() {
		return false
	}
	if offset > uint32(len(m.data)) {
		return false
	}
	m.pos = offset
	return true
}

// Len returns the number of bytes backing m.
func (m *MemSource) Len() int { return len(m.data) }

// Bytes returns the full underlying buffer, unaffected by the current
// read position.
func (m *MemSource) Bytes() []byte { return m.data }
