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

// ElementSegmentMode distinguishes the fully-decoded active-implicit-
// funcref forms (flags 0 and 4) from the other six encodings, which are
// recognized by flags value and skipped by length rather than decoded
// field by field (see SPEC_FULL.md §5).
type ElementSegmentMode byte

const (
	ElemActiveImplicit ElementSegmentMode = iota
	ElemOpaque
)

// ElementSegment is a table initializer. Funcs and Offset are populated
// only when Mode is ElemActiveImplicit; for ElemOpaque, Flags records the
// raw encoding tag the caller can use to understand what was skipped.
type ElementSegment struct {
	Mode   ElementSegmentMode
	Flags  uint32
	Table  Index
	Offset Expression
	Funcs  []Index
}

// DecodeElementSegment reads one element segment. Flags 0 and 4 are the
// active-implicit-funcref forms: a full table index (implicitly 0),
// offset expression, and function index vector are decoded. Every other
// flags value (1,2,3,5,6,7) is recognized but its index/expression
// vectors are skipped by length, not semantically decoded — see
// SPEC_FULL.md §5 for why this subset was chosen.
func DecodeElementSegment(r *bytereader.Reader) (ElementSegment, error) {
	flags, err := bytereader.ReadULEB128[uint32](r)
	if err != nil {
		return ElementSegment{}, err
	}

	switch flags {
	case 0:
		offset, err := DecodeExpression(r)
		if err != nil {
			return ElementSegment{}, err
		}
		funcs, err := decodeVec(r, func(r *bytereader.Reader) (Index, error) {
			return decodeIndex(r, KindFunc)
		})
		if err != nil {
			return ElementSegment{}, err
		}
		return ElementSegment{Mode: ElemActiveImplicit, Flags: flags, Table: TableIdx(0), Offset: offset, Funcs: funcs}, nil
	case 4:
		table := TableIdx(0)
		offset, err := DecodeExpression(r)
		if err != nil {
			return ElementSegment{}, err
		}
		funcs, err := decodeVec(r, func(r *bytereader.Reader) (Index, error) {
			return decodeIndex(r, KindFunc)
		})
		if err != nil {
			return ElementSegment{}, err
		}
		return ElementSegment{Mode: ElemActiveImplicit, Flags: flags, Table: table, Offset: offset, Funcs: funcs}, nil
	case 1, 2, 3, 5, 6, 7:
		if err := skipElementSegmentTail(r, flags); err != nil {
			return ElementSegment{}, err
		}
		return ElementSegment{Mode: ElemOpaque, Flags: flags}, nil
	default:
		return ElementSegment{}, fmt.Errorf("wasm.DecodeElementSegment: unknown flags %d: %w", flags, ErrInvalidSectionBody)
	}
}

// skipElementSegmentTail advances past the remainder of an opaque element
// segment encoding. Bit 0 of flags marks a passive (bit1=0) or declarative
// (bit1=1) segment, which carries no table index or offset expression;
// with bit 0 clear the segment is active with an explicit table index
// (only reachable here for flags 2 and 6, since 0 and 4 are handled by
// the implicit-table-0 cases above). Bit 2 selects an expression vector
// (funcref form) over a byte-tag vector (elemkind byte + vec(funcidx)).
func skipElementSegmentTail(r *bytereader.Reader, flags uint32) error {
	if flags&1 == 0 {
		if _, err := bytereader.ReadULEB128[uint32](r); err != nil { // explicit table index
			return err
		}
		if _, err := DecodeExpression(r); err != nil {
			return err
		}
	}

	if flags&4 != 0 {
		if _, err := DecodeValueType(r); err != nil { // reftype tag
			return err
		}
	} else {
		if _, err := bytereader.ReadFixed[byte](r); err != nil { // elemkind tag
			return err
		}
	}

	n, err := bytereader.ReadULEB128[uint32](r)
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		if flags&4 != 0 {
			if _, err := DecodeExpression(r); err != nil {
				return err
			}
		} else {
			if _, err := bytereader.ReadULEB128[uint32](r); err != nil {
				return err
			}
		}
	}
	return nil
}
