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

// ImportDescKind tags which alternative of ImportDesc is present.
type ImportDescKind byte

const (
	ImportFunc ImportDescKind = iota
	ImportTable
	ImportMem
	ImportGlobal
)

// ImportDesc is a tagged union over the four things a module can import.
type ImportDesc struct {
	Kind   ImportDescKind
	Type   Index
	Table  TableType
	Mem    MemType
	Global GlobalType
}

// DecodeImportDesc reads the one-byte kind tag and the matching payload.
func DecodeImportDesc(r *bytereader.Reader) (ImportDesc, error) {
	tag, err := bytereader.ReadFixed[byte](r)
	if err != nil {
		return ImportDesc{}, err
	}
	switch tag {
	case 0x00:
		idx, err := decodeIndex(r, KindType)
		if err != nil {
			return ImportDesc{}, err
		}
		return ImportDesc{Kind: ImportFunc, Type: idx}, nil
	case 0x01:
		tt, err := DecodeTableType(r)
		if err != nil {
			return ImportDesc{}, err
		}
		return ImportDesc{Kind: ImportTable, Table: tt}, nil
	case 0x02:
		mt, err := DecodeLimits(r)
		if err != nil {
			return ImportDesc{}, err
		}
		return ImportDesc{Kind: ImportMem, Mem: mt}, nil
	case 0x03:
		gt, err := DecodeGlobalType(r)
		if err != nil {
			return ImportDesc{}, err
		}
		return ImportDesc{Kind: ImportGlobal, Global: gt}, nil
	default:
		return ImportDesc{}, fmt.Errorf("wasm.DecodeImportDesc: unknown tag %#x: %w", tag, ErrInvalidSectionBody)
	}
}

// Import is a single two-level-named import with its descriptor.
type Import struct {
	Module string
	Field  string
	Desc   ImportDesc
}

func DecodeImport(r *bytereader.Reader) (Import, error) {
	mod, err := DecodeName(r)
	if err != nil {
		return Import{}, err
	}
	field, err := DecodeName(r)
	if err != nil {
		return Import{}, err
	}
	desc, err := DecodeImportDesc(r)
	if err != nil {
		return Import{}, err
	}
	return Import{Module: mod, Field: field, Desc: desc}, nil
}

// Export pairs a name with a kind-tagged index into a module-level table.
type Export struct {
	Name  string
	Index Index
}

func DecodeExport(r *bytereader.Reader) (Export, error) {
	name, err := DecodeName(r)
	if err != nil {
		return Export{}, err
	}
	tag, err := bytereader.ReadFixed[byte](r)
	if err != nil {
		return Export{}, err
	}
	var kind IndexKind
	switch tag {
	case 0x00:
		kind = KindFunc
	case 0x01:
		kind = KindTable
	case 0x02:
		kind = KindMem
	case 0x03:
		kind = KindGlobal
	default:
		return Export{}, fmt.Errorf("wasm.DecodeExport: unknown export kind tag %#x: %w", tag, ErrInvalidSectionBody)
	}
	idx, err := decodeIndex(r, kind)
	if err != nil {
		return Export{}, err
	}
	return Export{Name: name, Index: idx}, nil
}

// Global pairs a GlobalType with its constant initializer expression.
type Global struct {
	Type GlobalType
	Init Expression
}

func DecodeGlobal(r *bytereader.Reader) (Global, error) {
	gt, err := DecodeGlobalType(r)
	if err != nil {
		return Global{}, err
	}
	init, err := DecodeExpression(r)
	if err != nil {
		return Global{}, err
	}
	return Global{Type: gt, Init: init}, nil
}

// DataSegmentMode distinguishes a passive data segment from an active one
// targeting a specific memory at a computed offset.
type DataSegmentMode byte

const (
	DataActive DataSegmentMode = iota
	DataPassive
)

// DataSegment is a mode tag plus the raw bytes to be copied (Active) or
// held for later explicit use (Passive).
type DataSegment struct {
	Mode      DataSegmentMode
	MemoryIdx Index
	Offset    Expression
	Bytes     []byte
}

// DecodeDataSegment reads the bitfield, then the mode-dependent fields,
// then a length-prefixed byte payload, per SPEC_FULL.md §4.5/original
// §4.5: bit 0 clear is Active (bitfield == 2 carries an explicit memory
// index, else memory 0); bit 0 set is Passive.
func DecodeDataSegment(r *bytereader.Reader) (DataSegment, error) {
	flags, err := bytereader.ReadULEB128[uint32](r)
	if err != nil {
		return DataSegment{}, err
	}

	seg := DataSegment{MemoryIdx: MemIdx(0)}
	if flags&1 == 0 {
		seg.Mode = DataActive
		if flags == 2 {
			idx, err := decodeIndex(r, KindMem)
			if err != nil {
				return DataSegment{}, err
			}
			seg.MemoryIdx = idx
		}
		offset, err := DecodeExpression(r)
		if err != nil {
			return DataSegment{}, err
		}
		seg.Offset = offset
	} else {
		seg.Mode = DataPassive
	}

	n, err := bytereader.ReadULEB128[uint32](r)
	if err != nil {
		return DataSegment{}, err
	}
	b, err := r.ReadBytes(int(n))
	if err != nil {
		return DataSegment{}, err
	}
	seg.Bytes = append([]byte(nil), b...)
	return seg, nil
}
