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
	"github.com/lzxindustries/vmprog/internal/signature"
)

// PackageReader holds the validated header and TOC of an open package and
// serves typed reads against it without re-parsing the header and TOC on
// every call. It is not safe for concurrent use.
type PackageReader struct {
	src      Source
	fileSize uint32
	header   vmprog.Header
	toc      []vmprog.TocEntry
	open     bool
}

// Open validates src's header and TOC against fileSize and, on success,
// returns a PackageReader ready to serve reads.
func Open(src Source, fileSize uint32) (*PackageReader, vmprog.Result) {
	header, r := ReadAndValidateHeader(src, fileSize)
	if r != vmprog.OK {
		return nil, r
	}
	toc, r := ReadAndValidateTOC(src, header, fileSize)
	if r != vmprog.OK {
		return nil, r
	}
	return &PackageReader{
		src:      src,
		fileSize: fileSize,
		header:   header,
		toc:      toc,
		open:     true,
	}, vmprog.OK
}

// IsOpen reports whether the reader holds a successfully validated
// header and TOC.
func (p *PackageReader) IsOpen() bool { return p.open }

// Header returns the package's validated header.
func (p *PackageReader) Header() vmprog.Header { return p.header }

// TOC returns the package's validated TOC entries.
func (p *PackageReader) TOC() []vmprog.TocEntry { return p.toc }

// TOCCount returns the number of TOC entries the package declares.
func (p *PackageReader) TOCCount() int { return len(p.toc) }

// IsSigned reports whether the package declares itself signed.
func (p *PackageReader) IsSigned() bool { return vmprog.IsSigned(p.header) }

// ReadConfig locates the program config payload, validates it, and
// returns it decoded. If the package is signed, the config's actual hash
// is also cross-checked against the signed descriptor's ConfigSHA256
// field, so a config payload swapped in behind a rewritten (but unsigned)
// TOC hash is still rejected.
func (p *PackageReader) ReadConfig() (vmprog.ProgramConfig, vmprog.Result) {
	entry, _, ok := FindTocEntry(p.toc, vmprog.TocEntryConfig)
	if !ok || entry.Size != vmprog.ProgramConfigSize {
		return vmprog.ProgramConfig{}, vmprog.ErrInvalidTOCEntry
	}
	payload, r := ReadAndVerifyPayload(p.src, entry)
	if r != vmprog.OK {
		return vmprog.ProgramConfig{}, r
	}
	cfg := vmprog.DecodeProgramConfig(payload)
	if r := vmprog.ValidateProgramConfig(cfg); r != vmprog.OK {
		return vmprog.ProgramConfig{}, r
	}
	if p.IsSigned() {
		descriptor, r := signature.ReadDescriptor(p.src, p.toc)
		if r != vmprog.OK {
			return vmprog.ProgramConfig{}, r
		}
		if vmprog.ConfigSHA256(cfg) != descriptor.ConfigSHA256 {
			return vmprog.ProgramConfig{}, vmprog.ErrInvalidHash
		}
	}
	klog.V(2).Infof("vmprog: loaded program config version %s", cfg.Version())
	return cfg, vmprog.OK
}

// ReadPayloadByType locates the first TOC entry of type t, reads it, and
// verifies its hash.
func (p *PackageReader) ReadPayloadByType(t vmprog.TocEntryType) ([]byte, vmprog.Result) {
	entry, _, ok := FindTocEntry(p.toc, t)
	if !ok {
		return nil, vmprog.ErrInvalidTOCEntry
	}
	return ReadAndVerifyPayload(p.src, entry)
}

// ReadBitstream reads and hash-verifies the FPGA bitstream payload, if
// present.
func (p *PackageReader) ReadBitstream() ([]byte, vmprog.Result) {
	return p.ReadPayloadByType(vmprog.TocEntryFPGABitstream)
}

// VerifySignature verifies the package's Ed25519 signature against
// publicKey, if non-nil, or the built-in trust key registry otherwise.
// It reports ErrInvalidTOCEntry if the package is not signed.
func (p *PackageReader) VerifySignature(publicKey *[32]byte) vmprog.Result {
	if !p.IsSigned() {
		return vmprog.ErrInvalidTOCEntry
	}
	if publicKey != nil {
		return signature.Verify(p.src, p.toc, *publicKey)
	}
	_, r := signature.VerifyBuiltin(p.src, p.toc)
	return r
}
