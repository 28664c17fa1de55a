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

package streamtest

import "testing"

func TestMemSourceReadAndSeek(t *testing.T) {
	src := NewMemSource([]byte("hello world"))

	buf := make([]byte, 5)
	n, ok := src.Read(buf)
	if !ok || n != 5 || string(buf) != "hello" {
		t.Fatalf("Read() = (%d, %t, %q), want (5, true, %q)", n, ok, buf, "hello")
	}

	if !src.Seek(6) {
		t.Fatal("Seek(6) = false")
	}
	buf2 := make([]byte, 5)
	n, ok = src.Read(buf2)
	if !ok || n != 5 || string(buf2) != "world" {
		t.Fatalf("Read() after seek = (%d, %t, %q), want (5, true, %q)", n, ok, buf2, "world")
	}
}

func TestMemSourceReadPastEnd(t *testing.T) {
	src := NewMemSource([]byte("hi"))
	buf := make([]byte, 10)
	if _, ok := src.Read(buf); ok {
		t.Error("Read() past end of data returned ok = true")
	}
}

func TestMemSourceSeekOutOfRange(t *testing.T) {
	src := NewMemSource([]byte("hi"))
	if src.Seek(3) {
		t.Error("Seek() past end of data returned true")
	}
}

func TestMemSourceFailAfter(t *testing.T) {
	src := NewMemSource([]byte("hello"))
	src.FailAfter = 1

	buf := make([]byte, 1)
	if _, ok := src.Read(buf); !ok {
		t.Fatal("first Read() after FailAfter=1 should still succeed")
	}
	if _, ok := src.Read(buf); ok {
		t.Error("second Read() after FailAfter=1 should fail")
	}
}

func TestMemSourceLenAndBytes(t *testing.T) {
	data := []byte("hello")
	src := NewMemSource(data)
	if src.Len() != len(data) {
		t.Errorf("Len() = %d, want %d", src.Len(), len(data))
	}
	if string(src.Bytes()) != string(data) {
		t.Errorf("Bytes() = %q, want %q", src.Bytes(), data)
	}
}
