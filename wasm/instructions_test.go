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
	"errors"
	"testing"

	"github.com/swai-project/swai/bytereader"
)

func TestDecodeInstructionI32ConstNegative(t *testing.T) {
	r := bytereader.NewFromBytes([]byte{byte(OpI32Const), 0x7F})
	in, err := DecodeInstruction(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Op != OpI32Const || in.I32 != -1 {
		t.Fatalf("got %+v, want i32.const -1", in)
	}
}

func TestDecodeInstructionCall(t *testing.T) {
	r := bytereader.NewFromBytes([]byte{byte(OpCall), 0x07})
	in, err := DecodeInstruction(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Op != OpCall || in.Index != FuncIdx(7) {
		t.Fatalf("got %+v, want call 7", in)
	}
}

func TestDecodeInstructionLocalGet(t *testing.T) {
	r := bytereader.NewFromBytes([]byte{byte(OpLocalGet), 0x02})
	in, err := DecodeInstruction(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Op != OpLocalGet || in.Index != LocalIdx(2) {
		t.Fatalf("got %+v, want local.get 2", in)
	}
}

func TestDecodeInstructionMemoryInit(t *testing.T) {
	r := bytereader.NewFromBytes([]byte{0xFC, 8, 0x03, 0x00})
	in, err := DecodeInstruction(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Op != OpMemoryInit || in.Index != DataIdx(3) {
		t.Fatalf("got %+v, want memory.init 3", in)
	}
}

func TestDecodeInstructionMemoryInitBadReservedByte(t *testing.T) {
	r := bytereader.NewFromBytes([]byte{0xFC, 8, 0x03, 0x01})
	if _, err := DecodeInstruction(r); !errors.Is(err, ErrInvalidSectionBody) {
		t.Fatalf("got %v, want ErrInvalidSectionBody", err)
	}
}

func TestDecodeInstructionBareOpcode(t *testing.T) {
	r := bytereader.NewFromBytes([]byte{byte(OpI32Add)})
	in, err := DecodeInstruction(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Op != OpI32Add {
		t.Fatalf("got %+v, want i32.add", in)
	}
}

func TestDecodeInstructionUnknownOpcode(t *testing.T) {
	r := bytereader.NewFromBytes([]byte{0xFF})
	if _, err := DecodeInstruction(r); !errors.Is(err, ErrUnknownOpcode) {
		t.Fatalf("got %v, want ErrUnknownOpcode", err)
	}
}

func TestDecodeExpressionEmpty(t *testing.T) {
	r := bytereader.NewFromBytes([]byte{expressionTerminator})
	expr, err := DecodeExpression(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(expr.Instructions) != 0 {
		t.Fatalf("got %d instructions, want 0", len(expr.Instructions))
	}
	if r.Offset() != 1 {
		t.Fatalf("terminator not consumed, offset=%d", r.Offset())
	}
}

func TestDecodeExpressionI32ConstThenEnd(t *testing.T) {
	r := bytereader.NewFromBytes([]byte{byte(OpI32Const), 0x2A, expressionTerminator})
	expr, err := DecodeExpression(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(expr.Instructions) != 1 || expr.Instructions[0].I32 != 42 {
		t.Fatalf("got %+v, want single i32.const 42", expr.Instructions)
	}
}

func TestOpcodeSaturatingTruncation(t *testing.T) {
	r := bytereader.NewFromBytes([]byte{0xFC, 2})
	in, err := DecodeInstruction(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Op != OpI32TruncSatF64S {
		t.Fatalf("got %+v, want i32.trunc_sat_f64_s", in)
	}
}
