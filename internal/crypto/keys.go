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

package crypto

import "sync"

// builtinKeys holds the compiled-in Ed25519 public keys trusted to sign
// vmprog packages when a caller does not supply its own key.
var builtinKeys = [][32]byte{
	{
		0xd4, 0xda, 0x2b, 0x01, 0x98, 0x06, 0x77, 0x89,
		0x21, 0x75, 0x3d, 0xa9, 0x1d, 0xb8, 0xef, 0x9b,
		0xb7, 0x9a, 0xac, 0xf4, 0x13, 0x66, 0x70, 0xfd,
		0x7c, 0x8d, 0x48, 0x69, 0x1a, 0xd7, 0x4e, 0x4b,
	},
}

var builtinKeysMu sync.RWMutex

// BuiltinKeys returns a copy of the current built-in trust key set.
func BuiltinKeys() [][32]byte {
	builtinKeysMu.RLock()
	defer builtinKeysMu.RUnlock()
	out := make([][32]byte, len(builtinKeys))
	copy(out, builtinKeys)
	return out
}

// WithKeys swaps the built-in trust key set for keys, returning a restore
// function that puts the previous set back. It exists so tests can
// exercise signature verification against keys they control without
// touching the production list.
func WithKeys(keys [][32]byte) (restore func()) {
	builtinKeysMu.Lock()
	prev := builtinKeys
	builtinKeys = append([][32]byte(nil), keys...)
	builtinKeysMu.Unlock()

	return func() {
		builtinKeysMu.Lock()
		builtinKeys = prev
		builtinKeysMu.Unlock()
	}
}
