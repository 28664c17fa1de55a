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

import (
	"encoding/binary"

	"github.com/coreos/go-semver/semver"
)

// Wire-format sizes, in bytes, of the fixed records making up a .vmprog
// file. These are contractual and must never change for the v1 format.
const (
	HeaderSize           = 64
	TocEntrySize         = 64
	ArtifactHashSize     = 36
	SignedDescriptorSize = 332
	ParameterConfigSize  = 572
	ProgramConfigSize    = 7372

	// MaxArtifacts is the number of artifact hash slots carried by a
	// SignedDescriptor.
	MaxArtifacts = 8
	// MaxValueLabels is the number of value-label slots carried by a
	// ParameterConfig.
	MaxValueLabels = 16
	// NumParameters is the number of parameter slots carried by a
	// ProgramConfig.
	NumParameters = 12

	nameLabelLen   = 32
	valueLabelLen  = 32
	suffixLabelLen = 4
	programIDLen   = 64
	programNameLen = 32
	authorLen      = 64
	licenseLen     = 32
	categoryLen    = 32
	descriptionLen = 128
	urlLen         = 128

	// Magic is the 4-byte little-endian magic number identifying a
	// .vmprog file ('VMPG').
	Magic uint32 = 0x47504D56
	// MaxFileSize is the largest file size, in bytes, a v1 package may
	// declare.
	MaxFileSize uint32 = 1048576
	// SignatureSize is the length, in bytes, of an Ed25519 signature.
	SignatureSize = 64
	// PublicKeySize is the length, in bytes, of an Ed25519 public key.
	PublicKeySize = 32
	// HashSize is the length, in bytes, of a BLAKE2b-256 digest.
	HashSize = 32
)

// TocEntryType identifies the kind of payload a TOC entry points to.
type TocEntryType uint32

const (
	TocEntryNone TocEntryType = iota
	TocEntryConfig
	TocEntrySignedDescriptor
	TocEntrySignature
	TocEntryFPGABitstream
	TocEntryBitstreamSDAnalog
	TocEntryBitstreamSDHDMI
	TocEntryBitstreamSDDual
	TocEntryBitstreamHDAnalog
	TocEntryBitstreamHDHDMI
	TocEntryBitstreamHDDual
)

func (t TocEntryType) valid() bool {
	return t <= TocEntryBitstreamHDDual
}

// HeaderFlags holds bit flags carried in a package Header.
type HeaderFlags uint32

const (
	HeaderFlagNone   HeaderFlags = 0
	HeaderFlagSigned HeaderFlags = 1 << 0

	headerFlagsKnown = HeaderFlagSigned
)

// Signed reports whether the signed_pkg bit is set.
func (f HeaderFlags) Signed() bool { return f&HeaderFlagSigned != 0 }

// TocEntryFlags holds bit flags carried in a TocEntry. The v1 format
// defines no named bits; any set bit is reserved.
type TocEntryFlags uint32

const tocEntryFlagsKnown TocEntryFlags = 0

// SignedDescriptorFlags holds bit flags carried in a SignedDescriptor. The
// v1 format defines no named bits; any set bit is reserved.
type SignedDescriptorFlags uint32

const signedDescriptorFlagsKnown SignedDescriptorFlags = 0

// HardwareFlags identifies which hardware revisions a program is
// compatible with.
type HardwareFlags uint32

const (
	HardwareNone HardwareFlags = 0
	HardwareRevA HardwareFlags = 1 << 0
	HardwareRevB HardwareFlags = 1 << 1
)

// CoreID identifies the FPGA core architecture a program targets.
type CoreID uint32

const (
	CoreNone CoreID = iota
	CoreYUV444_30b
	CoreYUV422_20b
)

// ControlMode selects the parameter control curve applied to a raw
// 10-bit control value.
type ControlMode uint32

const (
	ModeLinear ControlMode = iota
	ModeLinearHalf
	ModeLinearQuarter
	ModeLinearDouble
	ModeBoolean
	ModeSteps4
	ModeSteps8
	ModeSteps16
	ModeSteps32
	ModeSteps64
	ModeSteps128
	ModeSteps256
	ModePolarDegs90
	ModePolarDegs180
	ModePolarDegs360
	ModePolarDegs720
	ModePolarDegs1440
	ModePolarDegs2880
	ModeQuadIn
	ModeQuadOut
	ModeQuadInOut
	ModeSineIn
	ModeSineOut
	ModeSineInOut
	ModeCircIn
	ModeCircOut
	ModeCircInOut
	ModeQuintIn
	ModeQuintOut
	ModeQuintInOut
	ModeQuartIn
	ModeQuartOut
	ModeQuartInOut
	ModeExpoIn
	ModeExpoOut
	ModeExpoInOut
)

func (m ControlMode) valid() bool { return m <= ModeExpoInOut }

func (m ControlMode) polar() bool { return m >= ModePolarDegs90 && m <= ModePolarDegs2880 }

// ParameterID names the physical control a ParameterConfig describes.
type ParameterID uint32

const (
	ParameterNone ParameterID = iota
	ParameterRotaryPot1
	ParameterRotaryPot2
	ParameterRotaryPot3
	ParameterRotaryPot4
	ParameterRotaryPot5
	ParameterRotaryPot6
	ParameterToggleSwitch7
	ParameterToggleSwitch8
	ParameterToggleSwitch9
	ParameterToggleSwitch10
	ParameterToggleSwitch11
	ParameterLinearPot12
)

func (p ParameterID) valid() bool { return p <= ParameterLinearPot12 }

// Version is a major.minor pair used for ABI range comparisons.
type Version struct {
	Major uint16
	Minor uint16
}

// Semver returns v as a semver.Version, for comparison and formatting.
func (v Version) Semver() semver.Version {
	return semver.Version{Major: int64(v.Major), Minor: int64(v.Minor)}
}

// Less reports whether v sorts before o using major-then-minor ordering.
func (v Version) Less(o Version) bool {
	if v.Major != o.Major {
		return v.Major < o.Major
	}
	return v.Minor < o.Minor
}

// String returns v in dotted major.minor form.
func (v Version) String() string {
	return v.Semver().String()
}

// ABIRange is the half-open [Min, Max) ABI compatibility range declared by
// a ProgramConfig.
type ABIRange struct {
	Min Version
	Max Version
}

// Contains reports whether v falls within [r.Min, r.Max).
func (r ABIRange) Contains(v Version) bool {
	return !v.Less(r.Min) && v.Less(r.Max)
}

// Header is the first record of every .vmprog file.
type Header struct {
	Magic        uint32
	VersionMajor uint16
	VersionMinor uint16
	HeaderSize   uint16
	FileSize     uint32
	Flags        HeaderFlags
	TocOffset    uint32
	TocBytes     uint32
	TocCount     uint32
	SHA256Package [32]byte
}

// DecodeHeader decodes a Header from the first HeaderSize bytes of b.
func DecodeHeader(b []byte) Header {
	var h Header
	h.Magic = binary.LittleEndian.Uint32(b[0:4])
	h.VersionMajor = binary.LittleEndian.Uint16(b[4:6])
	h.VersionMinor = binary.LittleEndian.Uint16(b[6:8])
	h.HeaderSize = binary.LittleEndian.Uint16(b[8:10])
	h.FileSize = binary.LittleEndian.Uint32(b[12:16])
	h.Flags = HeaderFlags(binary.LittleEndian.Uint32(b[16:20]))
	h.TocOffset = binary.LittleEndian.Uint32(b[20:24])
	h.TocBytes = binary.LittleEndian.Uint32(b[24:28])
	h.TocCount = binary.LittleEndian.Uint32(b[28:32])
	copy(h.SHA256Package[:], b[32:64])
	return h
}

// Encode writes h into b, which must be at least HeaderSize bytes.
func (h Header) Encode(b []byte) {
	binary.LittleEndian.PutUint32(b[0:4], h.Magic)
	binary.LittleEndian.PutUint16(b[4:6], h.VersionMajor)
	binary.LittleEndian.PutUint16(b[6:8], h.VersionMinor)
	binary.LittleEndian.PutUint16(b[8:10], h.HeaderSize)
	binary.LittleEndian.PutUint16(b[10:12], 0)
	binary.LittleEndian.PutUint32(b[12:16], h.FileSize)
	binary.LittleEndian.PutUint32(b[16:20], uint32(h.Flags))
	binary.LittleEndian.PutUint32(b[20:24], h.TocOffset)
	binary.LittleEndian.PutUint32(b[24:28], h.TocBytes)
	binary.LittleEndian.PutUint32(b[28:32], h.TocCount)
	copy(b[32:64], h.SHA256Package[:])
}

// TocEntry locates one payload within a .vmprog file.
type TocEntry struct {
	Type     TocEntryType
	Flags    TocEntryFlags
	Offset   uint32
	Size     uint32
	SHA256   [32]byte
	Reserved [4]uint32
}

// DecodeTocEntry decodes a TocEntry from the first TocEntrySize bytes of b.
func DecodeTocEntry(b []byte) TocEntry {
	var e TocEntry
	e.Type = TocEntryType(binary.LittleEndian.Uint32(b[0:4]))
	e.Flags = TocEntryFlags(binary.LittleEndian.Uint32(b[4:8]))
	e.Offset = binary.LittleEndian.Uint32(b[8:12])
	e.Size = binary.LittleEndian.Uint32(b[12:16])
	copy(e.SHA256[:], b[16:48])
	for i := 0; i < 4; i++ {
		e.Reserved[i] = binary.LittleEndian.Uint32(b[48+4*i : 52+4*i])
	}
	return e
}

// Encode writes e into b, which must be at least TocEntrySize bytes.
func (e TocEntry) Encode(b []byte) {
	binary.LittleEndian.PutUint32(b[0:4], uint32(e.Type))
	binary.LittleEndian.PutUint32(b[4:8], uint32(e.Flags))
	binary.LittleEndian.PutUint32(b[8:12], e.Offset)
	binary.LittleEndian.PutUint32(b[12:16], e.Size)
	copy(b[16:48], e.SHA256[:])
	for i := 0; i < 4; i++ {
		binary.LittleEndian.PutUint32(b[48+4*i:52+4*i], e.Reserved[i])
	}
}

// ArtifactHash records the type and content hash of one artifact covered
// by a signature.
type ArtifactHash struct {
	Type   TocEntryType
	SHA256 [32]byte
}

// DecodeArtifactHash decodes an ArtifactHash from the first
// ArtifactHashSize bytes of b.
func DecodeArtifactHash(b []byte) ArtifactHash {
	var a ArtifactHash
	a.Type = TocEntryType(binary.LittleEndian.Uint32(b[0:4]))
	copy(a.SHA256[:], b[4:36])
	return a
}

// Encode writes a into b, which must be at least ArtifactHashSize bytes.
func (a ArtifactHash) Encode(b []byte) {
	binary.LittleEndian.PutUint32(b[0:4], uint32(a.Type))
	copy(b[4:36], a.SHA256[:])
}

// SignedDescriptor is the record an Ed25519 signature is computed over. It
// binds a program configuration hash to the set of artifacts the program
// depends on.
type SignedDescriptor struct {
	ConfigSHA256  [32]byte
	ArtifactCount uint8
	Artifacts     [MaxArtifacts]ArtifactHash
	Flags         SignedDescriptorFlags
	BuildID       uint32

	reservedPad [3]byte
}

// DecodeSignedDescriptor decodes a SignedDescriptor from the first
// SignedDescriptorSize bytes of b.
func DecodeSignedDescriptor(b []byte) SignedDescriptor {
	var d SignedDescriptor
	copy(d.ConfigSHA256[:], b[0:32])
	d.ArtifactCount = b[32]
	copy(d.reservedPad[:], b[33:36])
	off := 36
	for i := 0; i < MaxArtifacts; i++ {
		d.Artifacts[i] = DecodeArtifactHash(b[off : off+ArtifactHashSize])
		off += ArtifactHashSize
	}
	d.Flags = SignedDescriptorFlags(binary.LittleEndian.Uint32(b[off : off+4]))
	d.BuildID = binary.LittleEndian.Uint32(b[off+4 : off+8])
	return d
}

// Encode writes d into b, which must be at least SignedDescriptorSize
// bytes.
func (d SignedDescriptor) Encode(b []byte) {
	copy(b[0:32], d.ConfigSHA256[:])
	b[32] = d.ArtifactCount
	b[33], b[34], b[35] = 0, 0, 0
	off := 36
	for i := 0; i < MaxArtifacts; i++ {
		d.Artifacts[i].Encode(b[off : off+ArtifactHashSize])
		off += ArtifactHashSize
	}
	binary.LittleEndian.PutUint32(b[off:off+4], uint32(d.Flags))
	binary.LittleEndian.PutUint32(b[off+4:off+8], d.BuildID)
}

// Bytes returns the raw SignedDescriptorSize-byte encoding of d. This is
// exactly the message an Ed25519 signature is computed over: raw bytes,
// never hashed first.
func (d SignedDescriptor) Bytes() []byte {
	b := make([]byte, SignedDescriptorSize)
	d.Encode(b)
	return b
}

// ParameterConfig describes one physical control: its identity, its
// control curve, its raw value range, and how to render its value for
// display.
type ParameterConfig struct {
	ParameterID        ParameterID
	ControlMode        ControlMode
	MinValue           uint16
	MaxValue           uint16
	InitialValue       uint16
	DisplayMinValue    int16
	DisplayMaxValue    int16
	DisplayFloatDigits uint8
	ValueLabelCount    uint8
	NameLabel          [nameLabelLen]byte
	ValueLabels        [MaxValueLabels][valueLabelLen]byte
	SuffixLabel        [suffixLabelLen]byte

	reservedPad [2]byte
	reserved    [2]byte
}

// DecodeParameterConfig decodes a ParameterConfig from the first
// ParameterConfigSize bytes of b.
func DecodeParameterConfig(b []byte) ParameterConfig {
	var p ParameterConfig
	p.ParameterID = ParameterID(binary.LittleEndian.Uint32(b[0:4]))
	p.ControlMode = ControlMode(binary.LittleEndian.Uint32(b[4:8]))
	p.MinValue = binary.LittleEndian.Uint16(b[8:10])
	p.MaxValue = binary.LittleEndian.Uint16(b[10:12])
	p.InitialValue = binary.LittleEndian.Uint16(b[12:14])
	p.DisplayMinValue = int16(binary.LittleEndian.Uint16(b[14:16]))
	p.DisplayMaxValue = int16(binary.LittleEndian.Uint16(b[16:18]))
	p.DisplayFloatDigits = b[18]
	p.ValueLabelCount = b[19]
	copy(p.reservedPad[:], b[20:22])
	off := 22
	copy(p.NameLabel[:], b[off:off+nameLabelLen])
	off += nameLabelLen
	for i := 0; i < MaxValueLabels; i++ {
		copy(p.ValueLabels[i][:], b[off:off+valueLabelLen])
		off += valueLabelLen
	}
	copy(p.SuffixLabel[:], b[off:off+suffixLabelLen])
	off += suffixLabelLen
	copy(p.reserved[:], b[off:off+2])
	return p
}

// Encode writes p into b, which must be at least ParameterConfigSize
// bytes.
func (p ParameterConfig) Encode(b []byte) {
	binary.LittleEndian.PutUint32(b[0:4], uint32(p.ParameterID))
	binary.LittleEndian.PutUint32(b[4:8], uint32(p.ControlMode))
	binary.LittleEndian.PutUint16(b[8:10], p.MinValue)
	binary.LittleEndian.PutUint16(b[10:12], p.MaxValue)
	binary.LittleEndian.PutUint16(b[12:14], p.InitialValue)
	binary.LittleEndian.PutUint16(b[14:16], uint16(p.DisplayMinValue))
	binary.LittleEndian.PutUint16(b[16:18], uint16(p.DisplayMaxValue))
	b[18] = p.DisplayFloatDigits
	b[19] = p.ValueLabelCount
	b[20], b[21] = 0, 0
	off := 22
	copy(b[off:off+nameLabelLen], p.NameLabel[:])
	off += nameLabelLen
	for i := 0; i < MaxValueLabels; i++ {
		copy(b[off:off+valueLabelLen], p.ValueLabels[i][:])
		off += valueLabelLen
	}
	copy(b[off:off+suffixLabelLen], p.SuffixLabel[:])
	off += suffixLabelLen
	b[off], b[off+1] = 0, 0
}

// ProgramConfig describes one program: its identity, its ABI and
// hardware compatibility, and its parameters.
type ProgramConfig struct {
	ProgramID           [programIDLen]byte
	ProgramVersionMajor uint16
	ProgramVersionMinor uint16
	ProgramVersionPatch uint16
	ABI                 ABIRange
	HardwareMask        HardwareFlags
	CoreID              CoreID
	ProgramName         [programNameLen]byte
	Author              [authorLen]byte
	License             [licenseLen]byte
	Category            [categoryLen]byte
	Description         [descriptionLen]byte
	URL                 [urlLen]byte
	ParameterCount      uint16
	Parameters          [NumParameters]ParameterConfig

	reservedPad [2]byte
	reserved    [2]byte
}

// Version returns c's program version as a semver.Version, for
// comparison and logging.
func (c ProgramConfig) Version() semver.Version {
	return semver.Version{
		Major: int64(c.ProgramVersionMajor),
		Minor: int64(c.ProgramVersionMinor),
		Patch: int64(c.ProgramVersionPatch),
	}
}

// DecodeProgramConfig decodes a ProgramConfig from the first
// ProgramConfigSize bytes of b.
func DecodeProgramConfig(b []byte) ProgramConfig {
	var c ProgramConfig
	off := 0
	copy(c.ProgramID[:], b[off:off+programIDLen])
	off += programIDLen
	c.ProgramVersionMajor = binary.LittleEndian.Uint16(b[off : off+2])
	off += 2
	c.ProgramVersionMinor = binary.LittleEndian.Uint16(b[off : off+2])
	off += 2
	c.ProgramVersionPatch = binary.LittleEndian.Uint16(b[off : off+2])
	off += 2
	c.ABI.Min.Major = binary.LittleEndian.Uint16(b[off : off+2])
	off += 2
	c.ABI.Min.Minor = binary.LittleEndian.Uint16(b[off : off+2])
	off += 2
	c.ABI.Max.Major = binary.LittleEndian.Uint16(b[off : off+2])
	off += 2
	c.ABI.Max.Minor = binary.LittleEndian.Uint16(b[off : off+2])
	off += 2
	c.HardwareMask = HardwareFlags(binary.LittleEndian.Uint32(b[off : off+4]))
	off += 4
	c.CoreID = CoreID(binary.LittleEndian.Uint32(b[off : off+4]))
	off += 4
	copy(c.ProgramName[:], b[off:off+programNameLen])
	off += programNameLen
	copy(c.Author[:], b[off:off+authorLen])
	off += authorLen
	copy(c.License[:], b[off:off+licenseLen])
	off += licenseLen
	copy(c.Category[:], b[off:off+categoryLen])
	off += categoryLen
	copy(c.Description[:], b[off:off+descriptionLen])
	off += descriptionLen
	copy(c.URL[:], b[off:off+urlLen])
	off += urlLen
	c.ParameterCount = binary.LittleEndian.Uint16(b[off : off+2])
	off += 2
	copy(c.reservedPad[:], b[off:off+2])
	off += 2
	for i := 0; i < NumParameters; i++ {
		c.Parameters[i] = DecodeParameterConfig(b[off : off+ParameterConfigSize])
		off += ParameterConfigSize
	}
	copy(c.reserved[:], b[off:off+2])
	return c
}

// Encode writes c into b, which must be at least ProgramConfigSize bytes.
func (c ProgramConfig) Encode(b []byte) {
	off := 0
	copy(b[off:off+programIDLen], c.ProgramID[:])
	off += programIDLen
	binary.LittleEndian.PutUint16(b[off:off+2], c.ProgramVersionMajor)
	off += 2
	binary.LittleEndian.PutUint16(b[off:off+2], c.ProgramVersionMinor)
	off += 2
	binary.LittleEndian.PutUint16(b[off:off+2], c.ProgramVersionPatch)
	off += 2
	binary.LittleEndian.PutUint16(b[off:off+2], c.ABI.Min.Major)
	off += 2
	binary.LittleEndian.PutUint16(b[off:off+2], c.ABI.Min.Minor)
	off += 2
	binary.LittleEndian.PutUint16(b[off:off+2], c.ABI.Max.Major)
	off += 2
	binary.LittleEndian.PutUint16(b[off:off+2], c.ABI.Max.Minor)
	off += 2
	binary.LittleEndian.PutUint32(b[off:off+4], uint32(c.HardwareMask))
	off += 4
	binary.LittleEndian.PutUint32(b[off:off+4], uint32(c.CoreID))
	off += 4
	copy(b[off:off+programNameLen], c.ProgramName[:])
	off += programNameLen
	copy(b[off:off+authorLen], c.Author[:])
	off += authorLen
	copy(b[off:off+licenseLen], c.License[:])
	off += licenseLen
	copy(b[off:off+categoryLen], c.Category[:])
	off += categoryLen
	copy(b[off:off+descriptionLen], c.Description[:])
	off += descriptionLen
	copy(b[off:off+urlLen], c.URL[:])
	off += urlLen
	binary.LittleEndian.PutUint16(b[off:off+2], c.ParameterCount)
	off += 2
	binary.LittleEndian.PutUint16(b[off:off+2], 0)
	off += 2
	for i := 0; i < NumParameters; i++ {
		c.Parameters[i].Encode(b[off : off+ParameterConfigSize])
		off += ParameterConfigSize
	}
	b[off], b[off+1] = 0, 0
}

// Bytes returns the raw ProgramConfigSize-byte encoding of c.
func (c ProgramConfig) Bytes() []byte {
	b := make([]byte, ProgramConfigSize)
	c.Encode(b)
	return b
}
