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

// Package wasm decodes the binary module format of a stack-based VM
// bytecode (a WebAssembly-shaped "WVM module") into a typed in-memory
// Module record. See SPEC_FULL.md for the scope this decoder covers.
package wasm

import (
	"fmt"

	"github.com/swai-project/swai/bytereader"
)

// NumberType is one of the four scalar numeric types.
type NumberType byte

const (
	NumI32 NumberType = 0x7F
	NumI64 NumberType = 0x7E
	NumF32 NumberType = 0x7D
	NumF64 NumberType = 0x7C
)

func (t NumberType) String() string {
	switch t {
	case NumI32:
		return "i32"
	case NumI64:
		return "i64"
	case NumF32:
		return "f32"
	case NumF64:
		return "f64"
	default:
		return fmt.Sprintf("NumberType(%#x)", byte(t))
	}
}

// VectorType is the (single) 128-bit vector type.
type VectorType byte

const VecV128 VectorType = 0x7B

func (t VectorType) String() string { return "v128" }

// ReferenceType is one of the two opaque reference types.
type ReferenceType byte

const (
	RefFuncref   ReferenceType = 0x70
	RefExternref ReferenceType = 0x6F
)

func (t ReferenceType) String() string {
	switch t {
	case RefFuncref:
		return "funcref"
	case RefExternref:
		return "externref"
	default:
		return fmt.Sprintf("ReferenceType(%#x)", byte(t))
	}
}

// ValueTypeKind tags which alternative of the ValueType union is present.
type ValueTypeKind byte

const (
	KindNumber ValueTypeKind = iota
	KindVector
	KindReference
)

// ValueType is a tagged union over NumberType, VectorType, or
// ReferenceType, matching the single-byte encodings in spec.md §6.
type ValueType struct {
	Kind ValueTypeKind
	Num  NumberType
	Vec  VectorType
	Ref  ReferenceType
}

func (v ValueType) String() string {
	switch v.Kind {
	case KindNumber:
		return v.Num.String()
	case KindVector:
		return v.Vec.String()
	case KindReference:
		return v.Ref.String()
	default:
		return "ValueType(?)"
	}
}

// DecodeValueType reads one byte and maps it per the §6 value-type table.
// An unrecognized byte is a decode failure, not a panic.
func DecodeValueType(r *bytereader.Reader) (ValueType, error) {
	b, err := bytereader.ReadFixed[byte](r)
	if err != nil {
		return ValueType{}, err
	}
	switch {
	case b >= 0x7C && b <= 0x7F:
		return ValueType{Kind: KindNumber, Num: NumberType(b)}, nil
	case b == 0x7B:
		return ValueType{Kind: KindVector, Vec: VecV128}, nil
	case b == 0x70 || b == 0x6F:
		return ValueType{Kind: KindReference, Ref: ReferenceType(b)}, nil
	default:
		return ValueType{}, fmt.Errorf("wasm.DecodeValueType: unknown value type byte %#x: %w", b, ErrInvalidSectionBody)
	}
}

// Mutability distinguishes constant from mutable globals.
type Mutability byte

const (
	Const Mutability = 0x00
	Var   Mutability = 0x01
)

func decodeMutability(r *bytereader.Reader) (Mutability, error) {
	b, err := bytereader.ReadFixed[byte](r)
	if err != nil {
		return 0, err
	}
	switch b {
	case 0x00, 0x01:
		return Mutability(b), nil
	default:
		return 0, fmt.Errorf("wasm.decodeMutability: unknown mutability byte %#x: %w", b, ErrInvalidSectionBody)
	}
}

// Limits describes the min (and optional max) of a table or memory.
type Limits struct {
	Min    uint32
	Max    uint32
	HasMax bool
}

// DecodeLimits reads a {0x00 min | 0x01 min max} limits record.
func DecodeLimits(r *bytereader.Reader) (Limits, error) {
	tag, err := bytereader.ReadFixed[byte](r)
	if err != nil {
		return Limits{}, err
	}
	min, err := bytereader.ReadULEB128[uint32](r)
	if err != nil {
		return Limits{}, err
	}
	switch tag {
	case 0x00:
		return Limits{Min: min}, nil
	case 0x01:
		max, err := bytereader.ReadULEB128[uint32](r)
		if err != nil {
			return Limits{}, err
		}
		return Limits{Min: min, Max: max, HasMax: true}, nil
	default:
		return Limits{}, fmt.Errorf("wasm.DecodeLimits: tag must be 0x00 or 0x01, got %#x: %w", tag, ErrInvalidSectionBody)
	}
}

// MemType is a Limits in units of 64KiB pages.
type MemType = Limits

// TableType pairs an element reference type with its size limits.
type TableType struct {
	Elem  ReferenceType
	Limit Limits
}

// DecodeTableType reads one reftype byte followed by Limits.
func DecodeTableType(r *bytereader.Reader) (TableType, error) {
	b, err := bytereader.ReadFixed[byte](r)
	if err != nil {
		return TableType{}, err
	}
	if b != byte(RefFuncref) && b != byte(RefExternref) {
		return TableType{}, fmt.Errorf("wasm.DecodeTableType: unknown reference type byte %#x: %w", b, ErrInvalidSectionBody)
	}
	lim, err := DecodeLimits(r)
	if err != nil {
		return TableType{}, err
	}
	return TableType{Elem: ReferenceType(b), Limit: lim}, nil
}

// GlobalType pairs a value type with a mutability flag.
type GlobalType struct {
	Value      ValueType
	Mutability Mutability
}

// DecodeGlobalType reads a ValueType then a Mutability byte.
func DecodeGlobalType(r *bytereader.Reader) (GlobalType, error) {
	vt, err := DecodeValueType(r)
	if err != nil {
		return GlobalType{}, err
	}
	mut, err := decodeMutability(r)
	if err != nil {
		return GlobalType{}, err
	}
	return GlobalType{Value: vt, Mutability: mut}, nil
}

// DecodeName reads a uleb128-length-prefixed UTF-8 string.
func DecodeName(r *bytereader.Reader) (string, error) {
	n, err := bytereader.ReadULEB128[uint32](r)
	if err != nil {
		return "", err
	}
	return r.ReadString(int(n))
}

// decodeVec decodes a uleb128 u32 length n followed by n items of T.
func decodeVec[T any](r *bytereader.Reader, item func(*bytereader.Reader) (T, error)) ([]T, error) {
	n, err := bytereader.ReadULEB128[uint32](r)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, n)
	for i := uint32(0); i < n; i++ {
		v, err := item(r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
