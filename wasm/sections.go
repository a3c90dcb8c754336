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

// Section ids, per SPEC_FULL.md §4.5.
const (
	secCustom     = 0
	secType       = 1
	secImport     = 2
	secFunction   = 3
	secTable      = 4
	secMemory     = 5
	secGlobal     = 6
	secExport     = 7
	secStart      = 8
	secElement    = 9
	secCode       = 10
	secData       = 11
	secDataCount  = 12
)

// decodeSections loops over section-id/size headers until the reader is
// exhausted, dispatching each body to its decoder and folding the result
// into mod. A section id outside [0,12] fails with ErrUnknownSectionID;
// any decode failure inside a section body is wrapped in a SectionError
// carrying the section id and the header's byte offset.
func decodeSections(r *bytereader.Reader, mod *Module) error {
	for r.Offset() < r.Len() {
		headerOffset := r.Offset()
		id, err := bytereader.ReadFixed[byte](r)
		if err != nil {
			return err
		}
		size, err := bytereader.ReadULEB128[uint32](r)
		if err != nil {
			return sectionErr(id, headerOffset, err)
		}
		body, err := r.ReadBytes(int(size))
		if err != nil {
			return sectionErr(id, headerOffset, err)
		}

		if err := decodeSectionBody(id, body, mod); err != nil {
			return sectionErr(id, headerOffset, err)
		}
	}
	return nil
}

func decodeSectionBody(id byte, body []byte, mod *Module) error {
	sub := bytereader.NewFromBytes(body)

	switch id {
	case secCustom:
		mod.CustomSections = append(mod.CustomSections, CustomSection{Raw: append([]byte(nil), body...)})
		return decodeCustomSectionName(sub, mod)
	case secType:
		types, err := decodeVec(sub, DecodeFunctionType)
		if err != nil {
			return err
		}
		mod.Types = types
		return nil
	case secImport:
		imports, err := decodeVec(sub, DecodeImport)
		if err != nil {
			return err
		}
		mod.Imports = imports
		return nil
	case secFunction:
		fns, err := decodeVec(sub, func(r *bytereader.Reader) (Index, error) {
			return decodeIndex(r, KindType)
		})
		if err != nil {
			return err
		}
		mod.Functions = fns
		return nil
	case secTable:
		tables, err := decodeVec(sub, DecodeTableType)
		if err != nil {
			return err
		}
		mod.Tables = tables
		return nil
	case secMemory:
		mems, err := decodeVec(sub, DecodeLimits)
		if err != nil {
			return err
		}
		mod.Memories = mems
		return nil
	case secGlobal:
		globals, err := decodeVec(sub, DecodeGlobal)
		if err != nil {
			return err
		}
		mod.Globals = globals
		return nil
	case secExport:
		exports, err := decodeVec(sub, DecodeExport)
		if err != nil {
			return err
		}
		mod.Exports = exports
		return nil
	case secStart:
		idx, err := decodeIndex(sub, KindFunc)
		if err != nil {
			return err
		}
		mod.Start = &idx
		return nil
	case secElement:
		elems, err := decodeVec(sub, DecodeElementSegment)
		if err != nil {
			return err
		}
		mod.Elements = elems
		return nil
	case secCode:
		bodies, err := decodeVec(sub, DecodeCodeBody)
		if err != nil {
			return err
		}
		mod.Code = bodies
		return nil
	case secData:
		segs, err := decodeVec(sub, DecodeDataSegment)
		if err != nil {
			return err
		}
		mod.Data = segs
		return nil
	case secDataCount:
		n, err := bytereader.ReadULEB128[uint32](sub)
		if err != nil {
			return err
		}
		mod.DataCount = &n
		return nil
	default:
		return fmt.Errorf("wasm: section id %d: %w", id, ErrUnknownSectionID)
	}
}

// decodeCustomSectionName peeks the leading name out of a custom section
// body so Module.CustomSection(name) can find it later without re-parsing
// every raw section on each lookup.
func decodeCustomSectionName(r *bytereader.Reader, mod *Module) error {
	name, err := DecodeName(r)
	if err != nil {
		// A custom section need not contain a well-formed name; leave it
		// anonymous rather than fail the whole module over it.
		return nil
	}
	mod.CustomSections[len(mod.CustomSections)-1].Name = name
	rest, err := r.ReadRest()
	if err != nil {
		return nil
	}
	mod.CustomSections[len(mod.CustomSections)-1].Payload = append([]byte(nil), rest...)
	return nil
}
