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

// IndexKind tags which module-level namespace an Index refers to, so a
// FuncIdx can never be mistaken for a TypeIdx at compile time.
type IndexKind byte

const (
	KindType IndexKind = iota
	KindFunc
	KindTable
	KindMem
	KindGlobal
	KindElem
	KindData
	KindLocal
	KindLabel
)

func (k IndexKind) String() string {
	switch k {
	case KindType:
		return "type"
	case KindFunc:
		return "func"
	case KindTable:
		return "table"
	case KindMem:
		return "mem"
	case KindGlobal:
		return "global"
	case KindElem:
		return "elem"
	case KindData:
		return "data"
	case KindLocal:
		return "local"
	case KindLabel:
		return "label"
	default:
		return fmt.Sprintf("IndexKind(%d)", byte(k))
	}
}

// Index is a kind-tagged u32 reference into a module-level table.
type Index struct {
	Kind  IndexKind
	Value uint32
}

func (i Index) String() string { return fmt.Sprintf("%s#%d", i.Kind, i.Value) }

func decodeIndex(r *bytereader.Reader, kind IndexKind) (Index, error) {
	v, err := bytereader.ReadULEB128[uint32](r)
	if err != nil {
		return Index{}, err
	}
	return Index{Kind: kind, Value: v}, nil
}

// Convenience constructors used when building Index values outside of a
// direct byte-stream decode (e.g. the export-section kind tag).
func TypeIdx(v uint32) Index   { return Index{Kind: KindType, Value: v} }
func FuncIdx(v uint32) Index   { return Index{Kind: KindFunc, Value: v} }
func TableIdx(v uint32) Index  { return Index{Kind: KindTable, Value: v} }
func MemIdx(v uint32) Index    { return Index{Kind: KindMem, Value: v} }
func GlobalIdx(v uint32) Index { return Index{Kind: KindGlobal, Value: v} }
func ElemIdx(v uint32) Index   { return Index{Kind: KindElem, Value: v} }
func DataIdx(v uint32) Index   { return Index{Kind: KindData, Value: v} }
func LocalIdx(v uint32) Index  { return Index{Kind: KindLocal, Value: v} }
func LabelIdx(v uint32) Index  { return Index{Kind: KindLabel, Value: v} }
