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
	"fmt"

	"github.com/swai-project/swai/bytereader"
)

// Opcode identifies an instruction. Single-byte opcodes occupy 0x00-0xFF;
// the 0xFC multi-byte prefix's sub-opcodes are folded into the same space
// at 0xFC00+n so a table lookup never has to consult two keys.
type Opcode uint16

const fcPrefix = 0xFC00

// Control instructions.
const (
	OpUnreachable Opcode = 0x00
	OpNop         Opcode = 0x01
	OpBlock       Opcode = 0x02
	OpLoop        Opcode = 0x03
	OpIf          Opcode = 0x04
	OpElse        Opcode = 0x05
	OpBr          Opcode = 0x0C
	OpBrIf        Opcode = 0x0D
	OpBrTable     Opcode = 0x0E
	OpReturn      Opcode = 0x0F
	OpCall        Opcode = 0x10
	OpCallIndir   Opcode = 0x11
)

// Reference instructions.
const (
	OpRefNull   Opcode = 0xD0
	OpRefIsNull Opcode = 0xD1
	OpRefFunc   Opcode = 0xD2
)

// Parametric instructions.
const (
	OpDrop      Opcode = 0x1A
	OpSelect    Opcode = 0x1B
	OpSelectVec Opcode = 0x1C
)

// Variable instructions.
const (
	OpLocalGet  Opcode = 0x20
	OpLocalSet  Opcode = 0x21
	OpLocalTee  Opcode = 0x22
	OpGlobalGet Opcode = 0x23
	OpGlobalSet Opcode = 0x24
)

// Table instructions.
const (
	OpTableGet  Opcode = 0x25
	OpTableSet  Opcode = 0x26
	OpTableInit Opcode = fcPrefix + 12
	OpElemDrop  Opcode = fcPrefix + 13
	OpTableCopy Opcode = fcPrefix + 14
	OpTableGrow Opcode = fcPrefix + 15
	OpTableSize Opcode = fcPrefix + 16
	OpTableFill Opcode = fcPrefix + 17
)

// Memory instructions.
const (
	OpI32Load     Opcode = 0x28
	OpI64Load     Opcode = 0x29
	OpF32Load     Opcode = 0x2A
	OpF64Load     Opcode = 0x2B
	OpI32Load8S   Opcode = 0x2C
	OpI32Load8U   Opcode = 0x2D
	OpI32Load16S  Opcode = 0x2E
	OpI32Load16U  Opcode = 0x2F
	OpI64Load8S   Opcode = 0x30
	OpI64Load8U   Opcode = 0x31
	OpI64Load16S  Opcode = 0x32
	OpI64Load16U  Opcode = 0x33
	OpI64Load32S  Opcode = 0x34
	OpI64Load32U  Opcode = 0x35
	OpI32Store    Opcode = 0x36
	OpI64Store    Opcode = 0x37
	OpF32Store    Opcode = 0x38
	OpF64Store    Opcode = 0x39
	OpI32Store8   Opcode = 0x3A
	OpI32Store16  Opcode = 0x3B
	OpI64Store8   Opcode = 0x3C
	OpI64Store16  Opcode = 0x3D
	OpI64Store32  Opcode = 0x3E
	OpMemorySize  Opcode = 0x3F
	OpMemoryGrow  Opcode = 0x40
	OpMemoryInit  Opcode = fcPrefix + 8
	OpDataDrop    Opcode = fcPrefix + 9
	OpMemoryCopy  Opcode = fcPrefix + 10
	OpMemoryFill  Opcode = fcPrefix + 11
)

// Numeric constants.
const (
	OpI32Const Opcode = 0x41
	OpI64Const Opcode = 0x42
	OpF32Const Opcode = 0x43
	OpF64Const Opcode = 0x44
)

// Numeric comparisons and arithmetic, 0x45-0xA6. None carry an immediate.
const (
	OpI32Eqz  Opcode = 0x45
	OpI32Eq   Opcode = 0x46
	OpI32Ne   Opcode = 0x47
	OpI32LtS  Opcode = 0x48
	OpI32LtU  Opcode = 0x49
	OpI32GtS  Opcode = 0x4A
	OpI32GtU  Opcode = 0x4B
	OpI32LeS  Opcode = 0x4C
	OpI32LeU  Opcode = 0x4D
	OpI32GeS  Opcode = 0x4E
	OpI32GeU  Opcode = 0x4F
	OpI64Eqz  Opcode = 0x50
	OpI64Eq   Opcode = 0x51
	OpI64Ne   Opcode = 0x52
	OpI64LtS  Opcode = 0x53
	OpI64LtU  Opcode = 0x54
	OpI64GtS  Opcode = 0x55
	OpI64GtU  Opcode = 0x56
	OpI64LeS  Opcode = 0x57
	OpI64LeU  Opcode = 0x58
	OpI64GeS  Opcode = 0x59
	OpI64GeU  Opcode = 0x5A
	OpF32Eq   Opcode = 0x5B
	OpF32Ne   Opcode = 0x5C
	OpF32Lt   Opcode = 0x5D
	OpF32Gt   Opcode = 0x5E
	OpF32Le   Opcode = 0x5F
	OpF32Ge   Opcode = 0x60
	OpF64Eq   Opcode = 0x61
	OpF64Ne   Opcode = 0x62
	OpF64Lt   Opcode = 0x63
	OpF64Gt   Opcode = 0x64
	OpF64Le   Opcode = 0x65
	OpF64Ge   Opcode = 0x66

	OpI32Clz    Opcode = 0x67
	OpI32Ctz    Opcode = 0x68
	OpI32Popcnt Opcode = 0x69
	OpI32Add    Opcode = 0x6A
	OpI32Sub    Opcode = 0x6B
	OpI32Mul    Opcode = 0x6C
	OpI32DivS   Opcode = 0x6D
	OpI32DivU   Opcode = 0x6E
	OpI32RemS   Opcode = 0x6F
	OpI32RemU   Opcode = 0x70
	OpI32And    Opcode = 0x71
	OpI32Or     Opcode = 0x72
	OpI32Xor    Opcode = 0x73
	OpI32Shl    Opcode = 0x74
	OpI32ShrS   Opcode = 0x75
	OpI32ShrU   Opcode = 0x76
	OpI32Rotl   Opcode = 0x77
	OpI32Rotr   Opcode = 0x78

	OpI64Clz    Opcode = 0x79
	OpI64Ctz    Opcode = 0x7A
	OpI64Popcnt Opcode = 0x7B
	OpI64Add    Opcode = 0x7C
	OpI64Sub    Opcode = 0x7D
	OpI64Mul    Opcode = 0x7E
	OpI64DivS   Opcode = 0x7F
	OpI64DivU   Opcode = 0x80
	OpI64RemS   Opcode = 0x81
	OpI64RemU   Opcode = 0x82
	OpI64And    Opcode = 0x83
	OpI64Or     Opcode = 0x84
	OpI64Xor    Opcode = 0x85
	OpI64Shl    Opcode = 0x86
	OpI64ShrS   Opcode = 0x87
	OpI64ShrU   Opcode = 0x88
	OpI64Rotl   Opcode = 0x89
	OpI64Rotr   Opcode = 0x8A

	OpF32Abs      Opcode = 0x8B
	OpF32Neg      Opcode = 0x8C
	OpF32Ceil     Opcode = 0x8D
	OpF32Floor    Opcode = 0x8E
	OpF32Trunc    Opcode = 0x8F
	OpF32Nearest  Opcode = 0x90
	OpF32Sqrt     Opcode = 0x91
	OpF32Add      Opcode = 0x92
	OpF32Sub      Opcode = 0x93
	OpF32Mul      Opcode = 0x94
	OpF32Div      Opcode = 0x95
	OpF32Min      Opcode = 0x96
	OpF32Max      Opcode = 0x97
	OpF32Copysign Opcode = 0x98

	OpF64Abs      Opcode = 0x99
	OpF64Neg      Opcode = 0x9A
	OpF64Ceil     Opcode = 0x9B
	OpF64Floor    Opcode = 0x9C
	OpF64Trunc    Opcode = 0x9D
	OpF64Nearest  Opcode = 0x9E
	OpF64Sqrt     Opcode = 0x9F
	OpF64Add      Opcode = 0xA0
	OpF64Sub      Opcode = 0xA1
	OpF64Mul      Opcode = 0xA2
	OpF64Div      Opcode = 0xA3
	OpF64Min      Opcode = 0xA4
	OpF64Max      Opcode = 0xA5
	OpF64Copysign Opcode = 0xA6
)

// Conversions, 0xA7-0xBF.
const (
	OpI32WrapI64      Opcode = 0xA7
	OpI32TruncF32S    Opcode = 0xA8
	OpI32TruncF32U    Opcode = 0xA9
	OpI32TruncF64S    Opcode = 0xAA
	OpI32TruncF64U    Opcode = 0xAB
	OpI64ExtendI32S   Opcode = 0xAC
	OpI64ExtendI32U   Opcode = 0xAD
	OpI64TruncF32S    Opcode = 0xAE
	OpI64TruncF32U    Opcode = 0xAF
	OpI64TruncF64S    Opcode = 0xB0
	OpI64TruncF64U    Opcode = 0xB1
	OpF32ConvertI32S  Opcode = 0xB2
	OpF32ConvertI32U  Opcode = 0xB3
	OpF32ConvertI64S  Opcode = 0xB4
	OpF32ConvertI64U  Opcode = 0xB5
	OpF32DemoteF64    Opcode = 0xB6
	OpF64ConvertI32S  Opcode = 0xB7
	OpF64ConvertI32U  Opcode = 0xB8
	OpF64ConvertI64S  Opcode = 0xB9
	OpF64ConvertI64U  Opcode = 0xBA
	OpF64PromoteF32   Opcode = 0xBB
	OpI32ReinterpretF32 Opcode = 0xBC
	OpI64ReinterpretF64 Opcode = 0xBD
	OpF32ReinterpretI32 Opcode = 0xBE
	OpF64ReinterpretI64 Opcode = 0xBF
)

// Sign-extension instructions, 0xC0-0xC4.
const (
	OpI32Extend8S  Opcode = 0xC0
	OpI32Extend16S Opcode = 0xC1
	OpI64Extend8S  Opcode = 0xC2
	OpI64Extend16S Opcode = 0xC3
	OpI64Extend32S Opcode = 0xC4
)

// Saturating truncations, prefixed by 0xFC, sub-opcodes 0-7.
const (
	OpI32TruncSatF32S Opcode = fcPrefix + 0
	OpI32TruncSatF32U Opcode = fcPrefix + 1
	OpI32TruncSatF64S Opcode = fcPrefix + 2
	OpI32TruncSatF64U Opcode = fcPrefix + 3
	OpI64TruncSatF32S Opcode = fcPrefix + 4
	OpI64TruncSatF32U Opcode = fcPrefix + 5
	OpI64TruncSatF64S Opcode = fcPrefix + 6
	OpI64TruncSatF64U Opcode = fcPrefix + 7
)

func (op Opcode) String() string {
	if s, ok := opcodeNames[op]; ok {
		return s
	}
	if op >= fcPrefix {
		return fmt.Sprintf("0xFC:%d", op-fcPrefix)
	}
	return fmt.Sprintf("0x%02X", uint16(op))
}

// bareOpcodes is the set of recognized opcodes whose decoding stops at the
// tag byte(s) — see SPEC_FULL.md §8 for the exact boundary between
// immediate-decoding and bare-tag opcodes.
var bareOpcodes = map[Opcode]bool{
	OpUnreachable: true, OpNop: true, OpBlock: true, OpLoop: true, OpIf: true,
	OpElse: true, OpBr: true, OpBrIf: true, OpBrTable: true, OpReturn: true,
	OpCallIndir: true, OpRefNull: true, OpRefIsNull: true, OpRefFunc: true,
	OpDrop: true, OpSelect: true, OpSelectVec: true,
	OpTableGet: true, OpTableSet: true, OpTableInit: true, OpElemDrop: true,
	OpTableCopy: true, OpTableGrow: true, OpTableSize: true, OpTableFill: true,
	OpI32Load: true, OpI64Load: true, OpF32Load: true, OpF64Load: true,
	OpI32Load8S: true, OpI32Load8U: true, OpI32Load16S: true, OpI32Load16U: true,
	OpI64Load8S: true, OpI64Load8U: true, OpI64Load16S: true, OpI64Load16U: true,
	OpI64Load32S: true, OpI64Load32U: true,
	OpI32Store: true, OpI64Store: true, OpF32Store: true, OpF64Store: true,
	OpI32Store8: true, OpI32Store16: true, OpI64Store8: true, OpI64Store16: true,
	OpI64Store32: true, OpMemorySize: true, OpMemoryGrow: true,
	OpDataDrop: true, OpMemoryCopy: true, OpMemoryFill: true,

	OpI32Eqz: true, OpI32Eq: true, OpI32Ne: true, OpI32LtS: true, OpI32LtU: true,
	OpI32GtS: true, OpI32GtU: true, OpI32LeS: true, OpI32LeU: true, OpI32GeS: true, OpI32GeU: true,
	OpI64Eqz: true, OpI64Eq: true, OpI64Ne: true, OpI64LtS: true, OpI64LtU: true,
	OpI64GtS: true, OpI64GtU: true, OpI64LeS: true, OpI64LeU: true, OpI64GeS: true, OpI64GeU: true,
	OpF32Eq: true, OpF32Ne: true, OpF32Lt: true, OpF32Gt: true, OpF32Le: true, OpF32Ge: true,
	OpF64Eq: true, OpF64Ne: true, OpF64Lt: true, OpF64Gt: true, OpF64Le: true, OpF64Ge: true,

	OpI32Clz: true, OpI32Ctz: true, OpI32Popcnt: true, OpI32Add: true, OpI32Sub: true,
	OpI32Mul: true, OpI32DivS: true, OpI32DivU: true, OpI32RemS: true, OpI32RemU: true,
	OpI32And: true, OpI32Or: true, OpI32Xor: true, OpI32Shl: true, OpI32ShrS: true,
	OpI32ShrU: true, OpI32Rotl: true, OpI32Rotr: true,

	OpI64Clz: true, OpI64Ctz: true, OpI64Popcnt: true, OpI64Add: true, OpI64Sub: true,
	OpI64Mul: true, OpI64DivS: true, OpI64DivU: true, OpI64RemS: true, OpI64RemU: true,
	OpI64And: true, OpI64Or: true, OpI64Xor: true, OpI64Shl: true, OpI64ShrS: true,
	OpI64ShrU: true, OpI64Rotl: true, OpI64Rotr: true,

	OpF32Abs: true, OpF32Neg: true, OpF32Ceil: true, OpF32Floor: true, OpF32Trunc: true,
	OpF32Nearest: true, OpF32Sqrt: true, OpF32Add: true, OpF32Sub: true, OpF32Mul: true,
	OpF32Div: true, OpF32Min: true, OpF32Max: true, OpF32Copysign: true,

	OpF64Abs: true, OpF64Neg: true, OpF64Ceil: true, OpF64Floor: true, OpF64Trunc: true,
	OpF64Nearest: true, OpF64Sqrt: true, OpF64Add: true, OpF64Sub: true, OpF64Mul: true,
	OpF64Div: true, OpF64Min: true, OpF64Max: true, OpF64Copysign: true,

	OpI32WrapI64: true, OpI32TruncF32S: true, OpI32TruncF32U: true, OpI32TruncF64S: true, OpI32TruncF64U: true,
	OpI64ExtendI32S: true, OpI64ExtendI32U: true, OpI64TruncF32S: true, OpI64TruncF32U: true,
	OpI64TruncF64S: true, OpI64TruncF64U: true,
	OpF32ConvertI32S: true, OpF32ConvertI32U: true, OpF32ConvertI64S: true, OpF32ConvertI64U: true, OpF32DemoteF64: true,
	OpF64ConvertI32S: true, OpF64ConvertI32U: true, OpF64ConvertI64S: true, OpF64ConvertI64U: true, OpF64PromoteF32: true,
	OpI32ReinterpretF32: true, OpI64ReinterpretF64: true, OpF32ReinterpretI32: true, OpF64ReinterpretI64: true,

	OpI32Extend8S: true, OpI32Extend16S: true, OpI64Extend8S: true, OpI64Extend16S: true, OpI64Extend32S: true,

	OpI32TruncSatF32S: true, OpI32TruncSatF32U: true, OpI32TruncSatF64S: true, OpI32TruncSatF64U: true,
	OpI64TruncSatF32S: true, OpI64TruncSatF32U: true, OpI64TruncSatF64S: true, OpI64TruncSatF64U: true,
}

var opcodeNames = map[Opcode]string{
	OpUnreachable: "unreachable", OpNop: "nop", OpBlock: "block", OpLoop: "loop",
	OpIf: "if", OpElse: "else", OpBr: "br", OpBrIf: "br_if", OpBrTable: "br_table",
	OpReturn: "return", OpCall: "call", OpCallIndir: "call_indirect",
	OpRefNull: "ref.null", OpRefIsNull: "ref.is_null", OpRefFunc: "ref.func",
	OpDrop: "drop", OpSelect: "select", OpSelectVec: "select_vec",
	OpLocalGet: "local.get", OpLocalSet: "local.set", OpLocalTee: "local.tee",
	OpGlobalGet: "global.get", OpGlobalSet: "global.set",
	OpI32Const: "i32.const", OpI64Const: "i64.const", OpF32Const: "f32.const", OpF64Const: "f64.const",
	OpMemoryInit: "memory.init", OpMemorySize: "memory.size", OpMemoryGrow: "memory.grow",
}

// Instruction is a single decoded opcode, with whichever immediate field
// applies to its Op populated. Which field is meaningful is determined
// entirely by Op; every other field holds its zero value.
type Instruction struct {
	Op Opcode

	// Index is populated for Call, LocalGet/Set/Tee, GlobalGet/Set, and
	// MemoryInit (where it is the DataIdx).
	Index Index

	I32 int32
	I64 int64
	F32 float32
	F64 float64
}

func (in Instruction) String() string {
	switch in.Op {
	case OpCall, OpLocalGet, OpLocalSet, OpLocalTee, OpGlobalGet, OpGlobalSet, OpMemoryInit:
		return fmt.Sprintf("%s %s", in.Op, in.Index)
	case OpI32Const:
		return fmt.Sprintf("%s %d", in.Op, in.I32)
	case OpI64Const:
		return fmt.Sprintf("%s %d", in.Op, in.I64)
	case OpF32Const:
		return fmt.Sprintf("%s %g", in.Op, in.F32)
	case OpF64Const:
		return fmt.Sprintf("%s %g", in.Op, in.F64)
	default:
		return in.Op.String()
	}
}

// DecodeInstruction decodes one instruction: the opcode byte (or the
// 0xFC-prefixed pair), followed by whichever immediate SPEC_FULL.md §8
// assigns to it. Opcodes outside that set still decode, but only as far
// as the tag — their immediates, if the real format has any, are left on
// the stream for the caller's own bookkeeping (there is none here: every
// opcode this decoder recognizes consumes exactly the bytes documented).
func DecodeInstruction(r *bytereader.Reader) (Instruction, error) {
	b, err := bytereader.ReadFixed[byte](r)
	if err != nil {
		return Instruction{}, err
	}

	if b == 0xFC {
		sub, err := bytereader.ReadULEB128[uint32](r)
		if err != nil {
			return Instruction{}, fmt.Errorf("wasm.DecodeInstruction: 0xFC sub-opcode: %w", err)
		}
		if sub > 0xFF {
			return Instruction{}, fmt.Errorf("wasm.DecodeInstruction: unknown 0xFC sub-opcode %d: %w", sub, ErrUnknownOpcode)
		}
		op := fcPrefix + Opcode(sub)
		if op == OpMemoryInit {
			return decodeMemoryInit(r)
		}
		if bareOpcodes[op] {
			return Instruction{Op: op}, nil
		}
		return Instruction{}, fmt.Errorf("wasm.DecodeInstruction: unknown 0xFC sub-opcode %d: %w", sub, ErrUnknownOpcode)
	}

	op := Opcode(b)
	switch op {
	case OpCall:
		idx, err := decodeIndex(r, KindFunc)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: OpCall, Index: idx}, nil
	case OpLocalGet, OpLocalSet, OpLocalTee:
		idx, err := decodeIndex(r, KindLocal)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: op, Index: idx}, nil
	case OpGlobalGet, OpGlobalSet:
		idx, err := decodeIndex(r, KindGlobal)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: op, Index: idx}, nil
	case OpI32Const:
		v, err := bytereader.ReadLEB128[int32](r)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: op, I32: v}, nil
	case OpI64Const:
		v, err := bytereader.ReadLEB128[int64](r)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: op, I64: v}, nil
	case OpF32Const:
		v, err := bytereader.ReadFixed[float32](r)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: op, F32: v}, nil
	case OpF64Const:
		v, err := bytereader.ReadFixed[float64](r)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Op: op, F64: v}, nil
	}

	if bareOpcodes[op] {
		return Instruction{Op: op}, nil
	}
	return Instruction{}, fmt.Errorf("wasm.DecodeInstruction: unknown opcode %#x: %w", b, ErrUnknownOpcode)
}

// decodeMemoryInit reads memory.init's DataIdx immediate and the trailing
// reserved byte, which must be 0x00.
func decodeMemoryInit(r *bytereader.Reader) (Instruction, error) {
	idx, err := decodeIndex(r, KindData)
	if err != nil {
		return Instruction{}, err
	}
	reserved, err := bytereader.ReadFixed[byte](r)
	if err != nil {
		return Instruction{}, err
	}
	if reserved != 0x00 {
		return Instruction{}, fmt.Errorf("wasm.decodeMemoryInit: reserved byte must be 0x00, got %#x: %w", reserved, ErrInvalidSectionBody)
	}
	return Instruction{Op: OpMemoryInit, Index: idx}, nil
}

// expressionTerminator is the 0x0B byte ending every Expression.
const expressionTerminator = 0x0B

// Expression is a sequence of instructions terminated by 0x0B.
type Expression struct {
	Instructions []Instruction
}

// DecodeExpression repeatedly peeks one byte: if it is the terminator, it
// is consumed and decoding stops; otherwise one instruction is decoded and
// appended. The terminator byte itself is not stored.
func DecodeExpression(r *bytereader.Reader) (Expression, error) {
	var expr Expression
	for {
		b, err := bytereader.PeekFixed[byte](r)
		if err != nil {
			return Expression{}, err
		}
		if b == expressionTerminator {
			if _, err := bytereader.ReadFixed[byte](r); err != nil {
				return Expression{}, err
			}
			return expr, nil
		}
		in, err := DecodeInstruction(r)
		if err != nil {
			return Expression{}, err
		}
		expr.Instructions = append(expr.Instructions, in)
	}
}
