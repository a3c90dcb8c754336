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

package wasm

import (
	"testing"

	"github.com/swai-project/swai/bytereader"
)

func TestDecodeElementSegmentFlags0(t *testing.T) {
	// flags=0, offset=(i32.const 0, end), funcs=[0]
	data := []byte{0, byte(OpI32Const), 0x00, expressionTerminator, 1, 0}
	r := bytereader.NewFromBytes(data)
	seg, err := DecodeElementSegment(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seg.Mode != ElemActiveImplicit || len(seg.Funcs) != 1 || seg.Funcs[0] != FuncIdx(0) {
		t.Fatalf("got %+v", seg)
	}
}

func TestDecodeElementSegmentFlags1Passive(t *testing.T) {
	// flags=1, elemkind=0x00, funcs=[3]
	data := []byte{1, 0x00, 1, 3}
	r := bytereader.NewFromBytes(data)
	seg, err := DecodeElementSegment(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seg.Mode != ElemOpaque || seg.Flags != 1 {
		t.Fatalf("got %+v", seg)
	}
	if r.Offset() != len(data) {
		t.Fatalf("offset=%d, want %d (tail not fully skipped)", r.Offset(), len(data))
	}
}

func TestDecodeElementSegmentFlags2ActiveExplicitTable(t *testing.T) {
	// flags=2, table=1, offset=(i32.const 0, end), elemkind=0x00, funcs=[]
	data := []byte{2, 1, byte(OpI32Const), 0x00, expressionTerminator, 0x00, 0}
	r := bytereader.NewFromBytes(data)
	seg, err := DecodeElementSegment(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seg.Mode != ElemOpaque || seg.Flags != 2 {
		t.Fatalf("got %+v", seg)
	}
	if r.Offset() != len(data) {
		t.Fatalf("offset=%d, want %d", r.Offset(), len(data))
	}
}

func TestDecodeElementSegmentUnknownFlags(t *testing.T) {
	r := bytereader.NewFromBytes([]byte{99})
	if _, err := DecodeElementSegment(r); err == nil {
		t.Fatalf("expected error for unknown flags")
	}
}
