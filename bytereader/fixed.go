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
	"encoding/binary"
	"math"

	"golang.org/x/exp/constraints"
)

// Fixed is the set of types ReadFixed/PeekFixed know how to decode.
type Fixed interface {
	constraints.Integer | constraints.Float
}

// ReadFixed consumes sizeof(T) bytes and interprets them per the Reader's
// current endianness. It is the generic counterpart of the teacher-style
// one-function-per-width decode, collapsed into a single type-parametric
// implementation in the idiom of ints.Min/ints.Clamp.
func ReadFixed[T Fixed](r *Reader) (T, error) {
	var zero T
	n := fixedWidth(zero)
	b, err := r.ReadBytes(n)
	if err != nil {
		return zero, err
	}
	return decodeFixed[T](b, r.endian), nil
}

// PeekFixed is ReadFixed without advancing the cursor: push, read, pop —
// the cursor is restored whether or not the read succeeds.
func PeekFixed[T Fixed](r *Reader) (T, error) {
	r.PushIndex()
	defer r.PopIndex()
	return ReadFixed[T](r)
}

func fixedWidth(v any) int {
	switch v.(type) {
	case int8, uint8:
		return 1
	case int16, uint16:
		return 2
	case int32, uint32, float32:
		return 4
	case int64, uint64, float64:
		return 8
	case int, uint:
		return 8
	default:
		panic("bytereader: unsupported fixed-width type")
	}
}

func decodeFixed[T Fixed](b []byte, endian Endian) T {
	var order binary.ByteOrder = binary.LittleEndian
	if endian == BigEndian {
		order = binary.BigEndian
	}
	var out T
	switch any(out).(type) {
	case int8:
		return T(int8(b[0]))
	case uint8:
		return T(b[0])
	case int16:
		return T(int16(order.Uint16(b)))
	case uint16:
		return T(order.Uint16(b))
	case int32:
		return T(int32(order.Uint32(b)))
	case uint32:
		return T(order.Uint32(b))
	case int64:
		return T(int64(order.Uint64(b)))
	case uint64:
		return T(order.Uint64(b))
	case int:
		return T(int(order.Uint64(b)))
	case uint:
		return T(uint(order.Uint64(b)))
	case float32:
		bits := order.Uint32(b)
		return any(math.Float32frombits(bits)).(T)
	case float64:
		bits := order.Uint64(b)
		return any(math.Float64frombits(bits)).(T)
	default:
		panic("bytereader: unsupported fixed-width type")
	}
}
