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
	"github.com/swai-project/swai/bytereader"
)

// LocalDecl is a run of locals of the same type, as they appear compressed
// in a code body: count repetitions of Type.
type LocalDecl struct {
	Count uint32
	Type  ValueType
}

func decodeLocalDecl(r *bytereader.Reader) (LocalDecl, error) {
	n, err := bytereader.ReadULEB128[uint32](r)
	if err != nil {
		return LocalDecl{}, err
	}
	vt, err := DecodeValueType(r)
	if err != nil {
		return LocalDecl{}, err
	}
	return LocalDecl{Count: n, Type: vt}, nil
}

// CodeBody is one function's locals and its instruction sequence.
type CodeBody struct {
	Locals []LocalDecl
	Body   Expression
}

// DecodeCodeBody reads a uleb128 body-size, then isolates exactly that
// many bytes into a fresh sub-reader before decoding the locals vector
// and the expression — so a malformed body can never over-read into the
// section's next entry (see SPEC_FULL.md §4.5).
func DecodeCodeBody(r *bytereader.Reader) (CodeBody, error) {
	size, err := bytereader.ReadULEB128[uint32](r)
	if err != nil {
		return CodeBody{}, err
	}
	raw, err := r.ReadBytes(int(size))
	if err != nil {
		return CodeBody{}, err
	}

	sub := bytereader.NewFromBytes(raw)
	locals, err := decodeVec(sub, decodeLocalDecl)
	if err != nil {
		return CodeBody{}, err
	}
	body, err := DecodeExpression(sub)
	if err != nil {
		return CodeBody{}, err
	}
	return CodeBody{Locals: locals, Body: body}, nil
}
