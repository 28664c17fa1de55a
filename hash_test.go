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

import "testing"

func TestConfigSHA256Deterministic(t *testing.T) {
	c := validProgramConfig()
	a := ConfigSHA256(c)
	b := ConfigSHA256(c)
	if a != b {
		t.Errorf("ConfigSHA256 not deterministic: %x != %x", a, b)
	}

	c.ProgramVersionMajor++
	if c2 := ConfigSHA256(c); c2 == a {
		t.Error("ConfigSHA256 did not change after editing config")
	}
}

func validPackageBytes(t *testing.T) []byte {
	t.Helper()
	h := validHeader()
	h.FileSize = HeaderSize + TocEntrySize
	h.TocOffset = HeaderSize
	h.TocBytes = TocEntrySize
	h.TocCount = 1

	file := make([]byte, h.FileSize)
	h.Encode(file[:HeaderSize])

	e := TocEntry{Type: TocEntryConfig, Offset: HeaderSize, Size: 0}
	e.Encode(file[HeaderSize : HeaderSize+TocEntrySize])
	return file
}

func TestPackageSHA256RoundTrip(t *testing.T) {
	file := validPackageBytes(t)
	sum, ok := PackageSHA256(file)
	if !ok {
		t.Fatal("PackageSHA256() ok = false")
	}
	copy(file[32:64], sum[:])

	if !VerifyPackageSHA256(file) {
		t.Error("VerifyPackageSHA256() = false for a correctly stamped package")
	}

	file[HeaderSize] ^= 0xFF // corrupt TOC, outside the hashed-zero region
	if VerifyPackageSHA256(file) {
		t.Error("VerifyPackageSHA256() = true after corrupting the file")
	}
}

func TestVerifyPackageSHA256AbsentHashSucceeds(t *testing.T) {
	file := validPackageBytes(t)
	if !VerifyPackageSHA256(file) {
		t.Error("VerifyPackageSHA256() = false for an all-zero declared hash")
	}
}

func TestVerifyPackageSHA256TooShort(t *testing.T) {
	if VerifyPackageSHA256(make([]byte, HeaderSize-1)) {
		t.Error("VerifyPackageSHA256() = true for a too-short file")
	}
}
