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

// Result is the discriminated validation outcome produced by every
// structural validator, hash check and signature check in this package.
// It is stable across releases: a given failure always maps to the same
// integer, so callers embedding the value in telemetry or on-device logs
// don't need to carry result strings.
type Result uint32

const (
	OK Result = iota
	ErrInvalidMagic
	ErrInvalidVersion
	ErrInvalidHeaderSize
	ErrInvalidFileSize
	ErrInvalidTOCOffset
	ErrInvalidTOCSize
	ErrInvalidTOCCount
	ErrInvalidArtifactCount
	ErrInvalidParameterCount
	ErrInvalidValueLabelCount
	ErrInvalidABIRange
	ErrStringNotTerminated
	ErrInvalidHash
	ErrInvalidTOCEntry
	ErrInvalidPayloadOffset
	ErrInvalidParameterValues
	ErrInvalidEnumValue
	ErrReservedFieldNotZero
)

var resultStrings = [...]string{
	"ok",
	"invalid magic number",
	"invalid version",
	"invalid header size",
	"invalid file size",
	"invalid TOC offset",
	"invalid TOC size",
	"invalid TOC count",
	"invalid artifact count",
	"invalid parameter count",
	"invalid value label count",
	"invalid ABI range",
	"string not terminated",
	"invalid hash",
	"invalid TOC entry",
	"invalid payload offset",
	"invalid parameter values",
	"invalid enum value",
	"reserved field not zero",
}

// String returns a short human-readable description of r.
func (r Result) String() string {
	if int(r) < len(resultStrings) {
		return resultStrings[r]
	}
	return "unknown result"
}

// Error implements the error interface so a Result can be returned and
// compared anywhere a plain Go error is expected.
func (r Result) Error() string { return r.String() }

// Ok reports whether r is the success value.
func (r Result) Ok() bool { return r == OK }
