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

// Package signature verifies the Ed25519 signature carried by a signed
// vmprog package.
package signature

import (
	"github.com/lzxindustries/vmprog"
	vcrypto "github.com/lzxindustries/vmprog/internal/crypto"
)

// source is the minimal read/seek contract signature needs from a
// package. It is satisfied by stream.Source without signature importing
// the stream package, avoiding an import cycle.
type source interface {
	Read(dst []byte) (int, bool)
	Seek(offset uint32) bool
}

// Verify locates the signed_descriptor and signature TOC entries in toc,
// reads them from src, and checks the signature against publicKey.
func Verify(src source, toc []vmprog.TocEntry, publicKey [32]byte) vmprog.Result {
	descriptor, sig, r := readDescriptorAndSignature(src, toc)
	if r != vmprog.OK {
		return r
	}
	if !vcrypto.VerifySignature(sig, publicKey, descriptor.Bytes()) {
		return vmprog.ErrInvalidHash
	}
	return vmprog.OK
}

// VerifyBuiltin behaves like Verify but checks the signature against
// every key in the built-in trust registry, returning the index of the
// first matching key.
func VerifyBuiltin(src source, toc []vmprog.TocEntry) (int, vmprog.Result) {
	descriptor, sig, r := readDescriptorAndSignature(src, toc)
	if r != vmprog.OK {
		return -1, r
	}
	msg := descriptor.Bytes()
	for i, key := range vcrypto.BuiltinKeys() {
		if vcrypto.VerifySignature(sig, key, msg) {
			return i, vmprog.OK
		}
	}
	return -1, vmprog.ErrInvalidHash
}

// ReadDescriptor locates, reads, hash-verifies and structurally validates
// the signed_descriptor TOC entry, without touching the signature entry.
// Callers that only need the descriptor's fields — for instance to
// cross-check ConfigSHA256 against a config payload — use this instead of
// Verify/VerifyBuiltin so that check doesn't require an Ed25519 key.
func ReadDescriptor(src source, toc []vmprog.TocEntry) (vmprog.SignedDescriptor, vmprog.Result) {
	return readDescriptor(src, toc)
}

func readDescriptor(src source, toc []vmprog.TocEntry) (vmprog.SignedDescriptor, vmprog.Result) {
	descEntry, _, ok := findEntry(toc, vmprog.TocEntrySignedDescriptor)
	if !ok || descEntry.Size != vmprog.SignedDescriptorSize {
		return vmprog.SignedDescriptor{}, vmprog.ErrInvalidTOCEntry
	}

	descBuf := make([]byte, vmprog.SignedDescriptorSize)
	if !src.Seek(descEntry.Offset) {
		return vmprog.SignedDescriptor{}, vmprog.ErrInvalidPayloadOffset
	}
	if n, ok := src.Read(descBuf); !ok || n != len(descBuf) {
		return vmprog.SignedDescriptor{}, vmprog.ErrInvalidPayloadOffset
	}
	if !vcrypto.VerifyHash(descBuf, descEntry.SHA256) {
		return vmprog.SignedDescriptor{}, vmprog.ErrInvalidHash
	}

	descriptor := vmprog.DecodeSignedDescriptor(descBuf)
	if r := vmprog.ValidateSignedDescriptor(descriptor); r != vmprog.OK {
		return vmprog.SignedDescriptor{}, r
	}
	return descriptor, vmprog.OK
}

func readSignature(src source, toc []vmprog.TocEntry) ([64]byte, vmprog.Result) {
	var sig [64]byte

	sigEntry, _, ok := findEntry(toc, vmprog.TocEntrySignature)
	if !ok || sigEntry.Size != vmprog.SignatureSize {
		return sig, vmprog.ErrInvalidTOCEntry
	}

	sigBuf := make([]byte, vmprog.SignatureSize)
	if !src.Seek(sigEntry.Offset) {
		return sig, vmprog.ErrInvalidPayloadOffset
	}
	if n, ok := src.Read(sigBuf); !ok || n != len(sigBuf) {
		return sig, vmprog.ErrInvalidPayloadOffset
	}
	if !vcrypto.VerifyHash(sigBuf, sigEntry.SHA256) {
		return sig, vmprog.ErrInvalidHash
	}
	copy(sig[:], sigBuf)
	return sig, vmprog.OK
}

func readDescriptorAndSignature(src source, toc []vmprog.TocEntry) (vmprog.SignedDescriptor, [64]byte, vmprog.Result) {
	descriptor, r := readDescriptor(src, toc)
	if r != vmprog.OK {
		return vmprog.SignedDescriptor{}, [64]byte{}, r
	}
	sig, r := readSignature(src, toc)
	if r != vmprog.OK {
		return vmprog.SignedDescriptor{}, [64]byte{}, r
	}
	return descriptor, sig, vmprog.OK
}

func findEntry(toc []vmprog.TocEntry, t vmprog.TocEntryType) (vmprog.TocEntry, int, bool) {
	for i, e := range toc {
		if e.Type == t {
			return e, i, true
		}
	}
	return vmprog.TocEntry{}, -1, false
}
