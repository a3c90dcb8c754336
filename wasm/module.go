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
	"os"

	"github.com/swai-project/swai/bytereader"
)

var (
	magicBytes   = [4]byte{0x00, 0x61, 0x73, 0x6D}
	versionBytes = [4]byte{0x01, 0x00, 0x00, 0x00}
)

// CustomSection is a raw, id-0 section. Name is populated on a best-effort
// basis (see decodeCustomSectionName); Raw always holds the full section
// body exactly as it appeared on the wire.
type CustomSection struct {
	Name    string
	Payload []byte
	Raw     []byte
}

// Module is the fully decoded, immutable representation of a module's
// binary. Every field corresponds to one of the twelve section kinds;
// sections absent from the input leave their field at its zero value
// (nil slice, nil pointer).
type Module struct {
	CustomSections []CustomSection
	Types          []FunctionType
	Imports        []Import
	Functions      []Index
	Tables         []TableType
	Memories       []MemType
	Globals        []Global
	Exports        []Export
	Start          *Index
	Elements       []ElementSegment
	Code           []CodeBody
	Data           []DataSegment
	DataCount      *uint32
}

// Decode validates the header of buf and decodes every section that
// follows, returning a fully populated Module.
func Decode(buf []byte) (*Module, error) {
	r := bytereader.NewFromBytes(buf)
	return decode(r)
}

// DecodeFile reads f fully into memory and decodes it.
func DecodeFile(f *os.File) (*Module, error) {
	r, err := bytereader.NewFromFile(f)
	if err != nil {
		return nil, fmt.Errorf("wasm.DecodeFile: %w", err)
	}
	return decode(r)
}

// DecodeFileMmap decodes f via a memory-mapped view where the platform
// supports it, falling back to a full read otherwise. The returned closer
// releases the mapping; the Module copies every byte slice it keeps
// (CustomSection.Raw and Payload, DataSegment.Bytes), so it stays valid
// after closer is called.
func DecodeFileMmap(f *os.File) (mod *Module, closer func() error, err error) {
	r, closer, err := bytereader.NewFromFileMmap(f)
	if err != nil {
		return nil, nil, fmt.Errorf("wasm.DecodeFileMmap: %w", err)
	}
	mod, err = decode(r)
	if err != nil {
		closer()
		return nil, nil, err
	}
	return mod, closer, nil
}

func decode(r *bytereader.Reader) (*Module, error) {
	if err := checkHeader(r); err != nil {
		return nil, err
	}
	mod := &Module{}
	if err := decodeSections(r, mod); err != nil {
		return nil, err
	}
	return mod, nil
}

// checkHeader validates the 8-byte magic+version preamble. On a magic
// mismatch the cursor is left at byte 4 — it never advances further,
// matching scenario S6.
func checkHeader(r *bytereader.Reader) error {
	magic, err := r.ReadBytes(4)
	if err != nil {
		return fmt.Errorf("wasm.checkHeader: %w", err)
	}
	if !bytesEqual(magic, magicBytes[:]) {
		return fmt.Errorf("wasm.checkHeader: got %#x: %w", magic, ErrInvalidMagic)
	}
	version, err := r.ReadBytes(4)
	if err != nil {
		return fmt.Errorf("wasm.checkHeader: %w", err)
	}
	if !bytesEqual(version, versionBytes[:]) {
		return fmt.Errorf("wasm.checkHeader: got %#x: %w", version, ErrUnsupportedVersion)
	}
	return nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// CustomSection returns the payload of the first custom section whose
// name matches, decompressing it first if internal/compr recognizes the
// name as carrying compressed debug data (see SPEC_FULL.md §6).
func (m *Module) CustomSection(name string) ([]byte, bool) {
	for _, cs := range m.CustomSections {
		if cs.Name == name {
			return decompressCustomSection(name, cs.Payload), true
		}
	}
	return nil, false
}
