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

// Package integrity verifies payload and whole-package content hashes
// for vmprog files.
package integrity

import (
	"k8s.io/klog/v2"

	"github.com/lzxindustries/vmprog"
	vcrypto "github.com/lzxindustries/vmprog/internal/crypto"
)

// VerifyPayloadHash reports whether payload's BLAKE2b-256 digest matches
// the hash carried in its TOC entry.
func VerifyPayloadHash(payload []byte, expected [32]byte) bool {
	return vcrypto.VerifyHash(payload, expected)
}

// VerifyPackageHash reports whether file's declared package hash matches
// its computed hash, treating an all-zero declared hash as "absent" and
// always succeeding in that case.
func VerifyPackageHash(file []byte) bool {
	return vmprog.VerifyPackageSHA256(file)
}

// VerifyAllPayloadHashes walks toc and checks every non-empty payload's
// hash against file, stopping at the first mismatch.
func VerifyAllPayloadHashes(file []byte, toc []vmprog.TocEntry) vmprog.Result {
	for i, e := range toc {
		if e.Size == 0 {
			continue
		}
		if r := vmprog.ValidateTocEntry(e, uint32(len(file))); r != vmprog.OK {
			return r
		}
		payload := file[e.Offset : e.Offset+e.Size]
		if !VerifyPayloadHash(payload, e.SHA256) {
			klog.Warningf("vmprog: payload hash mismatch at TOC entry %d (type %d)", i, e.Type)
			return vmprog.ErrInvalidHash
		}
	}
	return vmprog.OK
}
