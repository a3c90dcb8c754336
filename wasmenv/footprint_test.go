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
	"testing"

	"github.com/swai-project/swai/wasm"
)

func TestDataFootprintUnbounded(t *testing.T) {
	mod := helloModule(t) // active segment: offset 10, 5 bytes, no memory section
	env := New(mod)

	got := env.DataFootprint(8)
	if len(got) != 1 {
		t.Fatalf("got %d ranges, want 1", len(got))
	}
	// bytes [10,15) lie within page 1 ([8,16)) at page size 8; ranges are half-open.
	if got[0] != (PageRange{Start: 1, End: 2}) {
		t.Fatalf("got %+v, want {1 2}", got[0])
	}
}

func TestDataFootprintClampedToMemory(t *testing.T) {
	// memory section: 1 page minimum; data: active segment, offset i32.const 10, "Hello"
	body := []byte{0x01, 0x00, 0x41, 0x0A, 0x0B, 0x05, 'H', 'e', 'l', 'l', 'o'}
	buf := append(append([]byte{}, header...), 0x05, 0x03, 0x01, 0x00, 0x01) // memory section: 1 entry, limits {min:1}
	buf = append(buf, 0x0B, byte(len(body)))
	buf = append(buf, body...)

	mod, err := wasm.Decode(buf)
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	env := New(mod)

	got := env.DataFootprint(65536)
	if len(got) != 1 {
		t.Fatalf("got %d ranges, want 1", len(got))
	}
	if got[0] != (PageRange{Start: 0, End: 1}) {
		t.Fatalf("got %+v, want clamped to {0 1}", got[0])
	}
}
