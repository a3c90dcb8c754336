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

	"github.com/dchest/siphash"

	"github.com/swai-project/swai/bytereader"
)

// functionTypeTag is the magic byte every FunctionType encoding begins
// with.
const functionTypeTag = 0x60

// FunctionType is a pair of ordered ValueType sequences: parameters and
// results.
type FunctionType struct {
	Params  []ValueType
	Results []ValueType
}

func (f FunctionType) String() string {
	return fmt.Sprintf("%v -> %v", f.Params, f.Results)
}

// DecodeFunctionType expects the 0x60 tag, then two length-prefixed
// vectors of ValueType (params, results).
func DecodeFunctionType(r *bytereader.Reader) (FunctionType, error) {
	tag, err := bytereader.ReadFixed[byte](r)
	if err != nil {
		return FunctionType{}, err
	}
	if tag != functionTypeTag {
		return FunctionType{}, fmt.Errorf("wasm.DecodeFunctionType: expected tag %#x, got %#x: %w", functionTypeTag, tag, ErrInvalidSectionBody)
	}
	params, err := decodeVec(r, DecodeValueType)
	if err != nil {
		return FunctionType{}, err
	}
	results, err := decodeVec(r, DecodeValueType)
	if err != nil {
		return FunctionType{}, err
	}
	return FunctionType{Params: params, Results: results}, nil
}

// typeKey is a fast 128-bit fingerprint of a FunctionType's shape, mixed
// into Module.Digest so identical signatures contribute identical keys.
// Decoding does not deduplicate signatures (see SPEC_FULL.md §4: siphash
// plays the same row-hashing role here that it plays for the teacher's vm
// package).
func typeKey(ft FunctionType) (lo, hi uint64) {
	buf := make([]byte, 0, 2+len(ft.Params)+len(ft.Results))
	buf = append(buf, byte(len(ft.Params)), byte(len(ft.Results)))
	for _, p := range ft.Params {
		buf = append(buf, valueTypeByte(p))
	}
	for _, rt := range ft.Results {
		buf = append(buf, valueTypeByte(rt))
	}
	return siphash.Hash128(0, 0, buf)
}

func valueTypeByte(v ValueType) byte {
	switch v.Kind {
	case KindNumber:
		return byte(v.Num)
	case KindVector:
		return byte(v.Vec)
	case KindReference:
		return byte(v.Ref)
	default:
		return 0
	}
}
