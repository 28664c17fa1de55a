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

// Package crypto wraps the narrow set of cryptographic primitives the
// vmprog format relies on: BLAKE2b-256 hashing, Ed25519 signature
// verification, constant-time comparison and secure memory wipe.
package crypto

import (
	"crypto/ed25519"
	"crypto/subtle"
	"hash"
	"runtime"

	"golang.org/x/crypto/blake2b"
)

// NewHash returns a new incremental BLAKE2b-256 hasher. BLAKE2b-256 is
// used throughout the vmprog format as the SHA-256-equivalent digest.
func NewHash() hash.Hash {
	h, err := blake2b.New256(nil)
	if err != nil {
		// blake2b.New256 only fails for an over-long key, and we never
		// pass one.
		panic(err)
	}
	return h
}

// Sum computes the one-shot BLAKE2b-256 digest of data.
func Sum(data []byte) [32]byte {
	return blake2b.Sum256(data)
}

// VerifyHash reports whether the BLAKE2b-256 digest of data matches
// expected, in constant time.
func VerifyHash(data []byte, expected [32]byte) bool {
	got := Sum(data)
	return ConstantTimeEqual32(got, expected)
}

// VerifySignature reports whether sig is a valid Ed25519 signature over
// msg for the given public key.
func VerifySignature(sig [64]byte, pub [32]byte, msg []byte) bool {
	return ed25519.Verify(ed25519.PublicKey(pub[:]), msg, sig[:])
}

// ConstantTimeCompare reports whether a and b are equal, in constant
// time. It returns false if their lengths differ.
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// ConstantTimeEqual32 reports whether two 32-byte hashes are equal, in
// constant time.
func ConstantTimeEqual32(a, b [32]byte) bool {
	return subtle.ConstantTimeCompare(a[:], b[:]) == 1
}

// IsZero32 reports whether hash is all-zero, which the format uses to
// mean "hash absent" for optional fields such as sha256_package.
func IsZero32(hash [32]byte) bool {
	return ConstantTimeEqual32(hash, [32]byte{})
}

// Wipe overwrites b with zeros. The runtime.KeepAlive call prevents the
// compiler from proving the store dead and eliding it.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}
