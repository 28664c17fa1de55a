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

package vmprog

import "bytes"

// isStringTerminated reports whether b contains a NUL byte somewhere in
// its length, as every fixed-size char array field in the wire format is
// required to.
func isStringTerminated(b []byte) bool {
	return bytes.IndexByte(b, 0) >= 0
}

// stringFromFixed returns the Go string held in a NUL-terminated fixed
// buffer, stopping at the first NUL (or the end of b if none is found).
func stringFromFixed(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}

// putFixedString copies s into dst, truncating if necessary to guarantee
// a trailing NUL, and zeroing the remainder of dst.
func putFixedString(dst []byte, s string) {
	n := len(dst) - 1
	if n < 0 {
		return
	}
	if len(s) < n {
		n = len(s)
	}
	copy(dst, s[:n])
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
}
