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

// ValidateHeader checks h against the v1 wire contract given the actual
// size of the file it came from. Checks run in an order chosen so that
// toc_count is range-checked before it's ever used in a multiplication,
// which would otherwise be able to overflow.
func ValidateHeader(h Header, fileSize uint32) Result {
	if h.Magic != Magic {
		return ErrInvalidMagic
	}
	if h.VersionMajor != 1 {
		return ErrInvalidVersion
	}
	if uint32(h.HeaderSize) != HeaderSize {
		return ErrInvalidHeaderSize
	}
	if fileSize < HeaderSize || fileSize > MaxFileSize || fileSize != h.FileSize {
		return ErrInvalidFileSize
	}
	if h.Flags&^headerFlagsKnown != 0 {
		return ErrReservedFieldNotZero
	}
	if h.TocCount == 0 || h.TocCount > 256 {
		return ErrInvalidTOCCount
	}
	if h.TocOffset < HeaderSize || h.TocOffset >= fileSize {
		return ErrInvalidTOCOffset
	}
	tocSize := h.TocCount * TocEntrySize
	if h.TocBytes != tocSize || h.TocOffset+tocSize > fileSize {
		return ErrInvalidTOCSize
	}
	return OK
}

// ValidateTocEntry checks e against the v1 wire contract given the actual
// size of the file it came from.
func ValidateTocEntry(e TocEntry, fileSize uint32) Result {
	if e.Type == TocEntryNone {
		return ErrInvalidTOCEntry
	}
	if e.Offset < HeaderSize || e.Offset >= fileSize {
		return ErrInvalidPayloadOffset
	}
	if e.Size > 0 && e.Offset > fileSize-e.Size {
		return ErrInvalidPayloadOffset
	}
	if e.Flags&^tocEntryFlagsKnown != 0 {
		return ErrReservedFieldNotZero
	}
	for _, r := range e.Reserved {
		if r != 0 {
			return ErrReservedFieldNotZero
		}
	}
	return OK
}

// ValidateArtifactHash checks that a's type is one of the named TOC entry
// types.
func ValidateArtifactHash(a ArtifactHash) Result {
	if !a.Type.valid() {
		return ErrInvalidEnumValue
	}
	return OK
}

// ValidateSignedDescriptor checks d's artifact count and the consistency
// of used/unused artifact slots.
func ValidateSignedDescriptor(d SignedDescriptor) Result {
	if uint32(d.ArtifactCount) > MaxArtifacts {
		return ErrInvalidArtifactCount
	}
	if d.Flags&^signedDescriptorFlagsKnown != 0 {
		return ErrReservedFieldNotZero
	}
	if d.reservedPad != [3]byte{} {
		return ErrReservedFieldNotZero
	}
	for i := uint8(0); i < d.ArtifactCount; i++ {
		if d.Artifacts[i].Type == TocEntryNone {
			return ErrInvalidArtifactCount
		}
		if r := ValidateArtifactHash(d.Artifacts[i]); r != OK {
			return r
		}
	}
	for i := d.ArtifactCount; i < MaxArtifacts; i++ {
		if d.Artifacts[i].Type != TocEntryNone {
			return ErrInvalidArtifactCount
		}
		if d.Artifacts[i].SHA256 != [32]byte{} {
			return ErrReservedFieldNotZero
		}
	}
	return OK
}

// ValidateParameterConfig checks p's identity, value range, string
// termination and reserved fields.
func ValidateParameterConfig(p ParameterConfig) Result {
	if p.ParameterID == ParameterNone || !p.ParameterID.valid() {
		return ErrInvalidEnumValue
	}
	if !p.ControlMode.valid() {
		return ErrInvalidEnumValue
	}
	if uint32(p.ValueLabelCount) > MaxValueLabels {
		return ErrInvalidValueLabelCount
	}
	if p.reservedPad != [2]byte{} || p.reserved != [2]byte{} {
		return ErrReservedFieldNotZero
	}
	if p.MinValue > p.MaxValue {
		return ErrInvalidParameterValues
	}
	if p.InitialValue < p.MinValue || p.InitialValue > p.MaxValue {
		return ErrInvalidParameterValues
	}
	if p.DisplayMinValue > p.DisplayMaxValue {
		return ErrInvalidParameterValues
	}
	if !isStringTerminated(p.NameLabel[:]) || !isStringTerminated(p.SuffixLabel[:]) {
		return ErrStringNotTerminated
	}
	for i := uint8(0); i < p.ValueLabelCount; i++ {
		if !isStringTerminated(p.ValueLabels[i][:]) {
			return ErrStringNotTerminated
		}
	}
	return OK
}

// ValidateProgramConfig checks c's parameter count, ABI range, required
// strings, hardware/core identity and each used parameter.
func ValidateProgramConfig(c ProgramConfig) Result {
	if uint32(c.ParameterCount) > NumParameters {
		return ErrInvalidParameterCount
	}
	if c.reservedPad != [2]byte{} || c.reserved != [2]byte{} {
		return ErrReservedFieldNotZero
	}
	if c.ABI.Min.Major > c.ABI.Max.Major ||
		(c.ABI.Min.Major == c.ABI.Max.Major && c.ABI.Min.Minor > c.ABI.Max.Minor) {
		return ErrInvalidABIRange
	}
	if c.ABI.Min.Major == 0 || c.ABI.Max.Major == 0 {
		return ErrInvalidABIRange
	}
	if !isStringTerminated(c.ProgramID[:]) ||
		!isStringTerminated(c.ProgramName[:]) ||
		!isStringTerminated(c.Author[:]) ||
		!isStringTerminated(c.License[:]) ||
		!isStringTerminated(c.Category[:]) ||
		!isStringTerminated(c.Description[:]) {
		return ErrStringNotTerminated
	}
	if c.ProgramID[0] == 0 || c.ProgramName[0] == 0 {
		return ErrStringNotTerminated
	}
	if c.HardwareMask == HardwareNone {
		return ErrInvalidEnumValue
	}
	if c.CoreID == CoreNone || uint32(c.CoreID) > uint32(CoreYUV422_20b) {
		return ErrInvalidEnumValue
	}
	for i := uint16(0); i < c.ParameterCount; i++ {
		if r := ValidateParameterConfig(c.Parameters[i]); r != OK {
			return r
		}
	}
	return OK
}

// IsSigned reports whether h declares its package signed.
func IsSigned(h Header) bool { return h.Flags.Signed() }
