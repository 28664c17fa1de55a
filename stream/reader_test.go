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
	"crypto/ed25519"
	"testing"

	"github.com/lzxindustries/vmprog"
	vcrypto "github.com/lzxindustries/vmprog/internal/crypto"
	"github.com/lzxindustries/vmprog/streamtest"
)

// fixture describes the byte layout of a package built by buildPackage,
// so tests can locate and mutate individual records.
type fixture struct {
	file          []byte
	header        vmprog.Header
	bitstreamOff  uint32
	bitstreamSize uint32
}

func buildPackage(t *testing.T, bitstream []byte) fixture {
	t.Helper()

	const headerSize = vmprog.HeaderSize
	const tocSize = vmprog.TocEntrySize

	bitstreamOff := uint32(headerSize + tocSize)
	fileSize := bitstreamOff + uint32(len(bitstream))

	header := vmprog.Header{
		Magic:        vmprog.Magic,
		VersionMajor: 1,
		HeaderSize:   headerSize,
		FileSize:     fileSize,
		TocOffset:    headerSize,
		TocBytes:     tocSize,
		TocCount:     1,
	}

	file := make([]byte, fileSize)
	header.Encode(file[:headerSize])

	entry := vmprog.TocEntry{
		Type:   vmprog.TocEntryFPGABitstream,
		Offset: bitstreamOff,
		Size:   uint32(len(bitstream)),
	}
	if len(bitstream) > 0 {
		entry.SHA256 = vcrypto.Sum(bitstream)
	}
	entry.Encode(file[headerSize : headerSize+tocSize])
	copy(file[bitstreamOff:], bitstream)

	return fixture{file: file, header: header, bitstreamOff: bitstreamOff, bitstreamSize: uint32(len(bitstream))}
}

// minimalProgramConfig returns a ProgramConfig that passes
// vmprog.ValidateProgramConfig with no parameters configured, for tests
// that only care about the config payload's identity, not its contents.
func minimalProgramConfig() vmprog.ProgramConfig {
	var c vmprog.ProgramConfig
	c.ProgramID[0] = 'p'
	c.ProgramName[0] = 'p'
	c.ABI.Min.Major = 1
	c.ABI.Max.Major = 1
	c.HardwareMask = vmprog.HardwareRevA
	c.CoreID = vmprog.CoreYUV422_20b
	return c
}

// signedConfigFixture describes the byte layout of a package built by
// buildSignedConfigPackage, so tests can locate and mutate the config
// payload and its TOC entry independently of the signed descriptor.
type signedConfigFixture struct {
	file       []byte
	toc        []vmprog.TocEntry
	configOff  uint32
	configSize uint32
}

// buildSignedConfigPackage builds a signed package carrying a config
// payload, a signed_descriptor covering it, and a valid Ed25519
// signature over that descriptor, so tests can exercise the
// config/descriptor cross-check end to end.
func buildSignedConfigPackage(t *testing.T, priv ed25519.PrivateKey, cfg vmprog.ProgramConfig) signedConfigFixture {
	t.Helper()

	cfgBytes := cfg.Bytes()

	descriptor := vmprog.SignedDescriptor{ArtifactCount: 1, ConfigSHA256: vmprog.ConfigSHA256(cfg)}
	descriptor.Artifacts[0] = vmprog.ArtifactHash{Type: vmprog.TocEntryConfig, SHA256: vcrypto.Sum(cfgBytes)}
	descBytes := descriptor.Bytes()
	sig := ed25519.Sign(priv, descBytes)

	const headerSize = vmprog.HeaderSize
	const tocSize = vmprog.TocEntrySize

	configOff := uint32(headerSize + 3*tocSize)
	descOff := configOff + uint32(len(cfgBytes))
	sigOff := descOff + vmprog.SignedDescriptorSize
	fileSize := sigOff + vmprog.SignatureSize

	header := vmprog.Header{
		Magic:        vmprog.Magic,
		VersionMajor: 1,
		HeaderSize:   headerSize,
		FileSize:     fileSize,
		TocOffset:    headerSize,
		TocBytes:     3 * tocSize,
		TocCount:     3,
		Flags:        vmprog.HeaderFlagSigned,
	}

	file := make([]byte, fileSize)
	header.Encode(file[:headerSize])

	toc := []vmprog.TocEntry{
		{Type: vmprog.TocEntryConfig, Offset: configOff, Size: uint32(len(cfgBytes)), SHA256: vcrypto.Sum(cfgBytes)},
		{Type: vmprog.TocEntrySignedDescriptor, Offset: descOff, Size: vmprog.SignedDescriptorSize, SHA256: vcrypto.Sum(descBytes)},
		{Type: vmprog.TocEntrySignature, Offset: sigOff, Size: vmprog.SignatureSize, SHA256: vcrypto.Sum(sig)},
	}
	for i, e := range toc {
		e.Encode(file[headerSize+i*tocSize : headerSize+(i+1)*tocSize])
	}

	copy(file[configOff:], cfgBytes)
	copy(file[descOff:], descBytes)
	copy(file[sigOff:], sig)

	return signedConfigFixture{file: file, toc: toc, configOff: configOff, configSize: uint32(len(cfgBytes))}
}

func TestValidatePackageStreamDetectsConfigForgery(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("GenerateKey() failed: %v", err)
	}
	cfg := minimalProgramConfig()
	fx := buildSignedConfigPackage(t, priv, cfg)

	scratch := make([]byte, fx.configSize)
	opts := Options{VerifyHashes: true, Scratch: scratch}

	src := streamtest.NewMemSource(fx.file)
	if got := ValidatePackageStream(src, uint32(len(fx.file)), opts); got != vmprog.OK {
		t.Fatalf("ValidatePackageStream() on untouched package = %v, want OK", got)
	}

	// Forge the config payload and rewrite its own TOC entry's SHA256 to
	// match the forged bytes, exactly as an attacker could who controls
	// the TOC but not the signing key. The signed descriptor's
	// ConfigSHA256 still names the original config, so the cross-check
	// should catch this even though the TOC-level hash now matches.
	forged := append([]byte{}, fx.file...)
	forgedCfg := cfg
	forgedCfg.ProgramID[1] = 'x'
	forgedCfgBytes := forgedCfg.Bytes()
	copy(forged[fx.configOff:], forgedCfgBytes)

	forgedHash := vcrypto.Sum(forgedCfgBytes)
	const headerSize = vmprog.HeaderSize
	const tocSize = vmprog.TocEntrySize
	forgedEntry := fx.toc[0]
	forgedEntry.SHA256 = forgedHash
	forgedEntry.Encode(forged[headerSize : headerSize+tocSize])

	src2 := streamtest.NewMemSource(forged)
	if got := ValidatePackageStream(src2, uint32(len(forged)), opts); got != vmprog.ErrInvalidHash {
		t.Errorf("ValidatePackageStream() on forged config = %v, want ErrInvalidHash", got)
	}
}

// TestValidatePackageStreamDetectsConfigForgeryUnderSignatureOnly reproduces
// the same config-swap attack as TestValidatePackageStreamDetectsConfigForgery,
// but with VerifyHashes left at its zero value and only VerifySignature
// requested — the path a caller takes when it trusts the Ed25519 signature
// to cover the whole package. Since the TOC itself isn't covered by that
// signature, the descriptor/config cross-check must still run, or a
// forged config paired with a forged TOC hash would be reported as
// validly signed.
func TestValidatePackageStreamDetectsConfigForgeryUnderSignatureOnly(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("GenerateKey() failed: %v", err)
	}
	var pubArr [32]byte
	copy(pubArr[:], pub)

	cfg := minimalProgramConfig()
	fx := buildSignedConfigPackage(t, priv, cfg)

	opts := Options{VerifySignature: true, PublicKey: &pubArr}

	src := streamtest.NewMemSource(fx.file)
	if got := ValidatePackageStream(src, uint32(len(fx.file)), opts); got != vmprog.OK {
		t.Fatalf("ValidatePackageStream() on untouched package = %v, want OK", got)
	}

	forged := append([]byte{}, fx.file...)
	forgedCfg := cfg
	forgedCfg.ProgramID[1] = 'x'
	forgedCfgBytes := forgedCfg.Bytes()
	copy(forged[fx.configOff:], forgedCfgBytes)

	const headerSize = vmprog.HeaderSize
	const tocSize = vmprog.TocEntrySize
	forgedEntry := fx.toc[0]
	forgedEntry.SHA256 = vcrypto.Sum(forgedCfgBytes)
	forgedEntry.Encode(forged[headerSize : headerSize+tocSize])

	src2 := streamtest.NewMemSource(forged)
	if got := ValidatePackageStream(src2, uint32(len(forged)), opts); got != vmprog.ErrInvalidHash {
		t.Errorf("ValidatePackageStream() on forged config with VerifySignature only = %v, want ErrInvalidHash", got)
	}
}

func TestReadHeader(t *testing.T) {
	fx := buildPackage(t, []byte("bitstream-bytes"))
	src := streamtest.NewMemSource(fx.file)

	h, ok := ReadHeader(src)
	if !ok {
		t.Fatal("ReadHeader() ok = false")
	}
	if h.Magic != vmprog.Magic {
		t.Errorf("ReadHeader().Magic = %#x, want %#x", h.Magic, vmprog.Magic)
	}
}

func TestReadAndValidateHeader(t *testing.T) {
	fx := buildPackage(t, []byte("data"))
	src := streamtest.NewMemSource(fx.file)

	if _, r := ReadAndValidateHeader(src, uint32(len(fx.file))); r != vmprog.OK {
		t.Errorf("ReadAndValidateHeader() = %v, want OK", r)
	}
	if _, r := ReadAndValidateHeader(src, uint32(len(fx.file))+1); r != vmprog.ErrInvalidFileSize {
		t.Errorf("ReadAndValidateHeader() with wrong size = %v, want ErrInvalidFileSize", r)
	}
}

func TestReadAndValidateTOC(t *testing.T) {
	fx := buildPackage(t, []byte("data"))
	src := streamtest.NewMemSource(fx.file)

	toc, r := ReadAndValidateTOC(src, fx.header, uint32(len(fx.file)))
	if r != vmprog.OK {
		t.Fatalf("ReadAndValidateTOC() = %v, want OK", r)
	}
	if len(toc) != 1 || toc[0].Type != vmprog.TocEntryFPGABitstream {
		t.Errorf("ReadAndValidateTOC() toc = %+v, want one FPGA bitstream entry", toc)
	}
}

func TestReadTOCRejectsOversizedCount(t *testing.T) {
	fx := buildPackage(t, []byte("data"))
	src := streamtest.NewMemSource(fx.file)

	h := fx.header
	h.TocCount = TOCCapacity + 1
	if _, r := ReadTOC(src, h); r != vmprog.ErrInvalidTOCCount {
		t.Errorf("ReadTOC() = %v, want ErrInvalidTOCCount", r)
	}
}

func TestFindAndReadPayload(t *testing.T) {
	bitstream := []byte("fpga configuration payload")
	fx := buildPackage(t, bitstream)
	src := streamtest.NewMemSource(fx.file)

	toc, r := ReadAndValidateTOC(src, fx.header, uint32(len(fx.file)))
	if r != vmprog.OK {
		t.Fatalf("ReadAndValidateTOC() = %v", r)
	}

	got, r := FindAndReadPayload(src, toc, vmprog.TocEntryFPGABitstream)
	if r != vmprog.OK {
		t.Fatalf("FindAndReadPayload() = %v, want OK", r)
	}
	if string(got) != string(bitstream) {
		t.Errorf("FindAndReadPayload() = %q, want %q", got, bitstream)
	}

	if _, r := FindAndReadPayload(src, toc, vmprog.TocEntryConfig); r != vmprog.ErrInvalidTOCEntry {
		t.Errorf("FindAndReadPayload() for absent type = %v, want ErrInvalidTOCEntry", r)
	}
}

func TestVerifyAllPayloadHashesStream(t *testing.T) {
	bitstream := []byte("fpga configuration payload")
	fx := buildPackage(t, bitstream)
	src := streamtest.NewMemSource(fx.file)

	toc, r := ReadAndValidateTOC(src, fx.header, uint32(len(fx.file)))
	if r != vmprog.OK {
		t.Fatalf("ReadAndValidateTOC() = %v", r)
	}

	scratch := make([]byte, len(bitstream))
	if got := VerifyAllPayloadHashesStream(src, toc, scratch); got != vmprog.OK {
		t.Errorf("VerifyAllPayloadHashesStream() = %v, want OK", got)
	}

	corrupted := append([]byte{}, fx.file...)
	corrupted[fx.bitstreamOff] ^= 0xFF
	src2 := streamtest.NewMemSource(corrupted)
	if got := VerifyAllPayloadHashesStream(src2, toc, scratch); got != vmprog.ErrInvalidHash {
		t.Errorf("VerifyAllPayloadHashesStream() after corruption = %v, want ErrInvalidHash", got)
	}
}

func TestValidatePackageStream(t *testing.T) {
	bitstream := []byte("fpga configuration payload")
	fx := buildPackage(t, bitstream)
	src := streamtest.NewMemSource(fx.file)

	opts := Options{VerifyHashes: true, Scratch: make([]byte, len(bitstream))}
	if got := ValidatePackageStream(src, uint32(len(fx.file)), opts); got != vmprog.OK {
		t.Errorf("ValidatePackageStream() = %v, want OK", got)
	}
}

func TestValidatePackageStreamRequiresScratch(t *testing.T) {
	fx := buildPackage(t, []byte("data"))
	src := streamtest.NewMemSource(fx.file)

	opts := Options{VerifyHashes: true}
	if got := ValidatePackageStream(src, uint32(len(fx.file)), opts); got != vmprog.ErrInvalidFileSize {
		t.Errorf("ValidatePackageStream() without scratch = %v, want ErrInvalidFileSize", got)
	}
}
