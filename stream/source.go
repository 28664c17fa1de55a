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

// Package stream implements stream-based reading and validation of
// vmprog packages for callers that cannot or don't want to hold an
// entire file in memory.
package stream

// Source is the minimal byte-source contract a vmprog package can be
// read from. Implementations are not required to be safe for concurrent
// use by more than one goroutine at a time.
type Source interface {
	// Read copies up to len(dst) bytes starting at the current position
	// into dst, advancing the position by the number of bytes copied. It
	// returns the number of bytes copied and whether the read fully
	// succeeded (false on short read or I/O error).
	Read(dst []byte) (int, bool)

	// Seek moves the current position to the given absolute byte offset
	// from the start of the source, returning false if offset is out of
	// range.
	Seek(offset uint32) bool
}
