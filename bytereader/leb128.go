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

package bytereader

import (
	"golang.org/x/exp/constraints"

	"github.com/swai-project/swai/internal/ints"
)

// leb128Bytes returns the maximum number of 7-bit groups a T can require,
// ceil(bits(T)/7). Parameterizing the bound by the concrete target width
// resolves the overflow check that the source this format was distilled
// from computed from i64's width regardless of T (see DESIGN.md, open
// item 1).
func leb128Bytes[T constraints.Integer]() int {
	var zero T
	bits := fixedWidth(zero) * 8
	return int(ints.ChunkCount(uint(bits), uint(7)))
}

// ReadULEB128 decodes an unsigned LEB128 value into T: 7 payload bits per
// byte, continuation in the high bit, little-endian group order.
func ReadULEB128[T constraints.Unsigned](r *Reader) (T, error) {
	var result T
	max := leb128Bytes[T]()
	shift := 0
	for i := 0; ; i++ {
		b, err := ReadFixed[uint8](r)
		if err != nil {
			return 0, ErrTruncated
		}
		result |= T(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		if i >= max-1 {
			return 0, &OverflowError{Bits: fixedWidth(result) * 8}
		}
		shift += 7
	}
}

// PeekULEB128 is ReadULEB128 without advancing the cursor on success; on
// failure the cursor is also restored.
func PeekULEB128[T constraints.Unsigned](r *Reader) (T, error) {
	r.PushIndex()
	defer r.PopIndex()
	return ReadULEB128[T](r)
}

// ReadLEB128 decodes a signed LEB128 value into T, sign-extending from the
// terminating byte's sign bit (bit 6).
func ReadLEB128[T constraints.Signed](r *Reader) (T, error) {
	var result T
	max := leb128Bytes[T]()
	bits := fixedWidth(result) * 8
	shift := 0
	for i := 0; ; i++ {
		b, err := ReadFixed[uint8](r)
		if err != nil {
			return 0, ErrTruncated
		}
		result |= T(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			if shift < bits && b&0x40 != 0 {
				result |= ^T(0) << shift
			}
			return result, nil
		}
		if i >= max-1 {
			return 0, &OverflowError{Bits: bits}
		}
	}
}

// PeekLEB128 is ReadLEB128 without advancing the cursor on success; on
// failure the cursor is also restored.
func PeekLEB128[T constraints.Signed](r *Reader) (T, error) {
	r.PushIndex()
	defer r.PopIndex()
	return ReadLEB128[T](r)
}
