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

package stream

import (
	"k8s.io/klog/v2"

	"github.com/lzxindustries/vmprog"
	vcrypto "github.com/lzxindustries/vmprog/internal/crypto"
	"github.com/lzxindustries/vmprog/internal/signature"
)

// TOCCapacity is the largest number of TOC entries a stream reader will
// hold at once. It mirrors the compile-time capacity a firmware consumer
// would allocate on its stack; packages declaring more TOC entries than
// this are rejected rather than causing an unbounded allocation.
const TOCCapacity = 16

// ReadHeader reads and decodes the package Header from the start of src.
// It does not validate the header against fileSize; callers that need a
// validated header should follow up with vmprog.ValidateHeader or use
// ReadAndValidateHeader.
func ReadHeader(src Source) (vmprog.Header, bool) {
	if !src.Seek(0) {
		return vmprog.Header{}, false
	}
	buf := make([]byte, vmprog.HeaderSize)
	n, ok := src.Read(buf)
	if !ok || n != vmprog.HeaderSize {
		return vmprog.Header{}, false
	}
	return vmprog.DecodeHeader(buf), true
}

// ReadAndValidateHeader reads the package header and validates it against
// fileSize.
func ReadAndValidateHeader(src Source, fileSize uint32) (vmprog.Header, vmprog.Result) {
	h, ok := ReadHeader(src)
	if !ok {
		return vmprog.Header{}, vmprog.ErrInvalidFileSize
	}
	return h, vmprog.ValidateHeader(h, fileSize)
}

// ReadTOC reads header.TocCount TOC entries starting at header.TocOffset.
// It fails with ErrInvalidTOCCount if the declared count exceeds
// TOCCapacity.
func ReadTOC(src Source, header vmprog.Header) ([]vmprog.TocEntry, vmprog.Result) {
	if header.TocCount > TOCCapacity {
		return nil, vmprog.ErrInvalidTOCCount
	}
	if !src.Seek(header.TocOffset) {
		return nil, vmprog.ErrInvalidTOCOffset
	}
	buf := make([]byte, int(header.TocCount)*vmprog.TocEntrySize)
	n, ok := src.Read(buf)
	if !ok || n != len(buf) {
		return nil, vmprog.ErrInvalidTOCSize
	}
	toc := make([]vmprog.TocEntry, header.TocCount)
	for i := range toc {
		toc[i] = vmprog.DecodeTocEntry(buf[i*vmprog.TocEntrySize : (i+1)*vmprog.TocEntrySize])
	}
	return toc, vmprog.OK
}

// ReadAndValidateTOC reads the TOC and validates every entry against
// fileSize.
func ReadAndValidateTOC(src Source, header vmprog.Header, fileSize uint32) ([]vmprog.TocEntry, vmprog.Result) {
	toc, r := ReadTOC(src, header)
	if r != vmprog.OK {
		return nil, r
	}
	for _, e := range toc {
		if r := vmprog.ValidateTocEntry(e, fileSize); r != vmprog.OK {
			return nil, r
		}
	}
	return toc, vmprog.OK
}

// ReadPayload reads entry's payload into a newly allocated buffer.
func ReadPayload(src Source, entry vmprog.TocEntry) ([]byte, bool) {
	if !src.Seek(entry.Offset) {
		return nil, false
	}
	buf := make([]byte, entry.Size)
	n, ok := src.Read(buf)
	return buf, ok && uint32(n) == entry.Size
}

// ReadAndVerifyPayload reads entry's payload and checks its hash.
func ReadAndVerifyPayload(src Source, entry vmprog.TocEntry) ([]byte, vmprog.Result) {
	payload, ok := ReadPayload(src, entry)
	if !ok {
		return nil, vmprog.ErrInvalidPayloadOffset
	}
	if !vcrypto.VerifyHash(payload, entry.SHA256) {
		return nil, vmprog.ErrInvalidHash
	}
	return payload, vmprog.OK
}

// FindTocEntry returns the first entry in toc with the given type.
func FindTocEntry(toc []vmprog.TocEntry, t vmprog.TocEntryType) (vmprog.TocEntry, int, bool) {
	for i, e := range toc {
		if e.Type == t {
			return e, i, true
		}
	}
	return vmprog.TocEntry{}, -1, false
}

// FindAndReadPayload locates the first TOC entry of the given type and
// reads its payload.
func FindAndReadPayload(src Source, toc []vmprog.TocEntry, t vmprog.TocEntryType) ([]byte, vmprog.Result) {
	entry, _, ok := FindTocEntry(toc, t)
	if !ok {
		return nil, vmprog.ErrInvalidTOCEntry
	}
	payload, ok := ReadPayload(src, entry)
	if !ok {
		return nil, vmprog.ErrInvalidPayloadOffset
	}
	return payload, vmprog.OK
}

// VerifyAllPayloadHashesStream verifies every non-empty payload in toc
// against its TOC hash, reading each payload into scratch. Scratch must
// be at least as large as the largest declared payload; a payload too
// large to fit is reported as ErrInvalidPayloadOffset rather than
// silently truncated.
func VerifyAllPayloadHashesStream(src Source, toc []vmprog.TocEntry, scratch []byte) vmprog.Result {
	for i, e := range toc {
		if e.Size == 0 {
			continue
		}
		if e.Size > uint32(len(scratch)) {
			return vmprog.ErrInvalidPayloadOffset
		}
		if !src.Seek(e.Offset) {
			return vmprog.ErrInvalidPayloadOffset
		}
		n, ok := src.Read(scratch[:e.Size])
		if !ok || uint32(n) != e.Size {
			return vmprog.ErrInvalidPayloadOffset
		}
		if !vcrypto.VerifyHash(scratch[:e.Size], e.SHA256) {
			klog.Warningf("vmprog: payload hash mismatch at TOC entry %d (type %d)", i, e.Type)
			return vmprog.ErrInvalidHash
		}
	}
	return vmprog.OK
}

// Options controls how ValidatePackageStream validates a package beyond
// its structural contract.
type Options struct {
	// VerifyHashes, if true, checks every payload's hash against its TOC
	// entry and, if a config payload is present, its declared hash too.
	// Requires Scratch to be non-empty.
	VerifyHashes bool
	// VerifySignature, if true and the package declares itself signed,
	// verifies its Ed25519 signature. PublicKey, if non-nil, is used in
	// place of the built-in trust key registry.
	VerifySignature bool
	PublicKey       *[32]byte
	// Scratch is a caller-supplied buffer used to read payloads during
	// hash verification, avoiding a per-payload allocation.
	Scratch []byte
}

// ValidatePackageStream runs the full structural, integrity and (if
// requested) signature validation pipeline against src, in the order:
// header, TOC, payload hashes, config, signature.
func ValidatePackageStream(src Source, fileSize uint32, opts Options) vmprog.Result {
	header, r := ReadAndValidateHeader(src, fileSize)
	if r != vmprog.OK {
		return r
	}

	toc, r := ReadAndValidateTOC(src, header, fileSize)
	if r != vmprog.OK {
		return r
	}

	if opts.VerifyHashes {
		if len(opts.Scratch) == 0 {
			return vmprog.ErrInvalidFileSize
		}
		if r := VerifyAllPayloadHashesStream(src, toc, opts.Scratch); r != vmprog.OK {
			return r
		}
	}

	if entry, _, ok := FindTocEntry(toc, vmprog.TocEntryConfig); ok && entry.Size == vmprog.ProgramConfigSize {
		if r := readAndValidateConfig(src, toc, entry, opts.VerifyHashes); r != vmprog.OK {
			return r
		}
	}

	if opts.VerifySignature && vmprog.IsSigned(header) {
		if opts.PublicKey != nil {
			if r := signature.Verify(src, toc, *opts.PublicKey); r != vmprog.OK {
				return r
			}
		} else {
			if _, r := signature.VerifyBuiltin(src, toc); r != vmprog.OK {
				return r
			}
		}
	}

	return vmprog.OK
}

// readAndValidateConfig decodes and structurally validates the config
// payload at entry. When verifyHash is set it also checks the payload
// against entry's own TOC hash. Independently of verifyHash, if the
// package carries a signed_descriptor, it cross-checks the descriptor's
// ConfigSHA256 against the actual config payload — without this, a
// forged config payload could be paired with a matching forged TOC hash
// and still pass signature verification, since the TOC itself is not
// covered by the Ed25519 signature, only the descriptor's own fields
// are. This mirrors PackageReader.ReadConfig, which performs the same
// cross-check unconditionally whenever the package is signed.
func readAndValidateConfig(src Source, toc []vmprog.TocEntry, entry vmprog.TocEntry, verifyHash bool) vmprog.Result {
	if entry.Type != vmprog.TocEntryConfig || entry.Size != vmprog.ProgramConfigSize {
		return vmprog.ErrInvalidTOCEntry
	}
	if !src.Seek(entry.Offset) {
		return vmprog.ErrInvalidPayloadOffset
	}
	buf := make([]byte, vmprog.ProgramConfigSize)
	n, ok := src.Read(buf)
	if !ok || n != len(buf) {
		return vmprog.ErrInvalidPayloadOffset
	}
	cfg := vmprog.DecodeProgramConfig(buf)
	if r := vmprog.ValidateProgramConfig(cfg); r != vmprog.OK {
		return r
	}
	if verifyHash && !vcrypto.VerifyHash(buf, entry.SHA256) {
		return vmprog.ErrInvalidHash
	}
	if _, _, ok := FindTocEntry(toc, vmprog.TocEntrySignedDescriptor); ok {
		descriptor, r := signature.ReadDescriptor(src, toc)
		if r != vmprog.OK {
			return r
		}
		if vmprog.ConfigSHA256(cfg) != descriptor.ConfigSHA256 {
			return vmprog.ErrInvalidHash
		}
	}
	return vmprog.OK
}
