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

// Package vmprog implements parsing, structural validation, integrity
// verification, signature verification and parameter-curve evaluation for
// the .vmprog package format used to deliver FPGA bitstreams and control
// metadata to Videomancer devices.
//
// This package never mutates or authors packages: it only consumes bytes
// produced elsewhere. For a file held in memory it provides the record
// decoders, structural validators and hash helpers, which the caller
// applies itself; it has no single call that parses and verifies a whole
// in-memory package. Consumers that cannot hold a whole file in memory
// should use the stream sub-package, whose ValidatePackageStream runs the
// full validation pipeline.
package vmprog
