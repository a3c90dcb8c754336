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
	"errors"
	"fmt"
)

// Sentinel decode-error kinds; test against these with errors.Is.
var (
	ErrInvalidMagic        = errors.New("wasm: invalid magic")
	ErrUnsupportedVersion  = errors.New("wasm: unsupported version")
	ErrUnknownSectionID    = errors.New("wasm: unknown section id")
	ErrInvalidSectionBody  = errors.New("wasm: invalid section body")
	ErrUnknownOpcode       = errors.New("wasm: unknown opcode")
	ErrInvalidOffsetExpr   = errors.New("wasm: invalid offset expression")
	ErrMemoryOutOfBounds   = errors.New("wasm: memory write out of bounds")
	ErrNoEntryPoint        = errors.New("wasm: no entry point")
)

// SectionError wraps a decode failure with the section id and the byte
// offset at which the section header began, so callers can locate the
// offending region without re-scanning the stream.
type SectionError struct {
	SectionID byte
	Offset    int
	Err       error
}

func (e *SectionError) Error() string {
	return fmt.Sprintf("wasm: section %d at offset %d: %s", e.SectionID, e.Offset, e.Err)
}

func (e *SectionError) Unwrap() error { return e.Err }

func sectionErr(id byte, offset int, err error) error {
	return &SectionError{SectionID: id, Offset: offset, Err: err}
}
