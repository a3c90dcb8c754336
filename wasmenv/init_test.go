// Copyright (C) 2024 the swai authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package wasmenv

import (
	"errors"
	"testing"

	"github.com/swai-project/swai/wasm"
)

var header = []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}

func helloModule(t *testing.T) *wasm.Module {
	t.Helper()
	// data section: one active segment, offset i32.const 10, bytes "Hello"
	body := []byte{0x01, 0x00, 0x41, 0x0A, 0x0B, 0x05, 'H', 'e', 'l', 'l', 'o'}
	// start section: func 0
	buf := append(append([]byte{}, header...), 0x0B, byte(len(body)))
	buf = append(buf, body...)
	buf = append(buf, 0x08, 0x01, 0x00)
	mod, err := wasm.Decode(buf)
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	return mod
}

func TestInitSeedsBufferAtOffset(t *testing.T) {
	mod := helloModule(t)
	env := New(mod)
	buf := make([]byte, 16)

	start, err := Init(env, buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start != wasm.FuncIdx(0) {
		t.Fatalf("got start %v, want func#0", start)
	}
	if string(buf[10:15]) != "Hello" {
		t.Fatalf("got %q at [10:15], want %q", buf[10:15], "Hello")
	}
	for i, b := range buf {
		if i >= 10 && i < 15 {
			continue
		}
		if b != 0 {
			t.Fatalf("byte %d = %d, want 0", i, b)
		}
	}
}

func TestInitNoStartFunction(t *testing.T) {
	mod, err := wasm.Decode(header)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	env := New(mod)
	_, err = Init(env, make([]byte, 4))
	if !errors.Is(err, wasm.ErrNoEntryPoint) {
		t.Fatalf("got %v, want ErrNoEntryPoint", err)
	}
}

func TestInitMemoryOutOfBounds(t *testing.T) {
	mod := helloModule(t)
	env := New(mod)
	_, err := Init(env, make([]byte, 12)) // too small for offset 10 + 5 bytes
	if !errors.Is(err, wasm.ErrMemoryOutOfBounds) {
		t.Fatalf("got %v, want ErrMemoryOutOfBounds", err)
	}
}

func TestInitPassiveSegmentResolvesToZero(t *testing.T) {
	body := []byte{0x01, 0x01, 0x03, 'a', 'b', 'c'} // one segment: flags=1 (passive), length-prefixed bytes
	buf := append(append([]byte{}, header...), 0x0B, byte(len(body)))
	buf = append(buf, body...)
	mod, err := wasm.Decode(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	env := New(mod)
	target := make([]byte, 8)
	_, err = Init(env, target)
	if !errors.Is(err, wasm.ErrNoEntryPoint) {
		t.Fatalf("got %v, want ErrNoEntryPoint (memory init itself should succeed)", err)
	}
	if string(target[0:3]) != "abc" {
		t.Fatalf("got %q, want passive segment copied at offset 0", target[0:3])
	}
}
