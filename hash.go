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

import "github.com/lzxindustries/vmprog/internal/crypto"

// ConfigSHA256 computes the hash that a SignedDescriptor's ConfigSHA256
// field is expected to carry. Encode always zeroes reserved fields, so
// hashing the canonical encoding of c is equivalent to hashing a copy
// with reserved fields cleared.
func ConfigSHA256(c ProgramConfig) [32]byte {
	return crypto.Sum(c.Bytes())
}

// PackageSHA256 computes the whole-file hash that a Header's
// SHA256Package field is expected to carry: the hash of file with the
// 32-byte SHA256Package field (offset 32..64) zeroed.
func PackageSHA256(file []byte) ([32]byte, bool) {
	if len(file) < HeaderSize {
		return [32]byte{}, false
	}
	h := crypto.NewHash()
	h.Write(file[0:32])
	var zeros [32]byte
	h.Write(zeros[:])
	if len(file) > HeaderSize {
		h.Write(file[HeaderSize:])
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out, true
}

// VerifyPackageSHA256 reports whether file's declared SHA256Package
// matches its computed hash. A header whose SHA256Package is all-zero is
// treated as "hash absent" and verifies successfully without computing
// anything, matching the format's optional-package-hash convention.
func VerifyPackageSHA256(file []byte) bool {
	if len(file) < HeaderSize {
		return false
	}
	var declared [32]byte
	copy(declared[:], file[32:64])
	if crypto.IsZero32(declared) {
		return true
	}
	computed, ok := PackageSHA256(file)
	if !ok {
		return false
	}
	return crypto.ConstantTimeEqual32(computed, declared)
}
