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

// Package bytereader provides a bounded, position-aware cursor over an
// immutable byte buffer, with fixed-width numeric decode, a LEB128 codec,
// and substring search. It underlies the section-level decoders in the
// wasm package but has no knowledge of any particular binary format.
package bytereader

import (
	"fmt"
	"unicode/utf8"
)

// Endian selects the byte order used by fixed-width numeric reads.
type Endian int

const (
	LittleEndian Endian = iota
	BigEndian
)

// Reader is a single-owner cursor over an in-memory byte buffer. It is not
// safe for concurrent use; callers needing to explore the buffer from
// multiple vantage points should Push/Pop or construct independent
// Readers over sub-slices (see wasm's per-code-body sub-reader).
type Reader struct {
	data   []byte
	offset int
	endian Endian
	stack  []int
	debug  bool
}

// NewFromBytes wraps buf without copying it. The caller must not mutate
// buf for the lifetime of the Reader.
func NewFromBytes(buf []byte) *Reader {
	return &Reader{data: buf, endian: LittleEndian}
}

// SetEndian changes the byte order used by subsequent fixed-width reads.
func (r *Reader) SetEndian(e Endian) *Reader {
	r.endian = e
	return r
}

// SetDebug toggles verbose per-read tracing, matching the teacher's debug
// flag convention; it has no effect on decode results.
func (r *Reader) SetDebug(on bool) *Reader {
	r.debug = on
	return r
}

// Len returns the total buffer length.
func (r *Reader) Len() int { return len(r.data) }

// Offset returns the current cursor position.
func (r *Reader) Offset() int { return r.offset }

// MoveTo repositions the cursor to an absolute offset. No bounds clamping
// is performed; an out-of-range cursor may exist transiently, but any
// subsequent read against it fails.
func (r *Reader) MoveTo(offset int) *Reader {
	r.offset = offset
	return r
}

// Jump repositions the cursor relative to its current position.
func (r *Reader) Jump(delta int) *Reader {
	r.offset += delta
	return r
}

// PushIndex saves the current offset on a LIFO stack.
func (r *Reader) PushIndex() *Reader {
	r.stack = append(r.stack, r.offset)
	return r
}

// PopIndex restores the most recently pushed offset. Popping an empty
// stack is a no-op.
func (r *Reader) PopIndex() *Reader {
	if n := len(r.stack); n > 0 {
		r.offset = r.stack[n-1]
		r.stack = r.stack[:n-1]
	}
	return r
}

// ReadBytes advances the cursor by n and returns the consumed slice. The
// returned slice aliases the Reader's backing buffer.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	b, err := r.PeekBytes(n)
	if err != nil {
		return nil, err
	}
	r.offset += n
	if r.debug {
		fmt.Printf("read bytes: %x | offset: %d\n", b, r.offset)
	}
	return b, nil
}

// PeekBytes returns the next n bytes without advancing the cursor.
func (r *Reader) PeekBytes(n int) ([]byte, error) {
	start, end := r.offset, r.offset+n
	if start < 0 || end > len(r.data) {
		return nil, outOfBounds(len(r.data), start, end)
	}
	return r.data[start:end], nil
}

// ReadRest consumes and returns every remaining byte.
func (r *Reader) ReadRest() ([]byte, error) {
	return r.ReadBytes(len(r.data) - r.offset)
}

// PeekRest returns every remaining byte without advancing the cursor.
func (r *Reader) PeekRest() ([]byte, error) {
	return r.PeekBytes(len(r.data) - r.offset)
}

// ReadExpect consumes len(pattern) bytes and reports whether they equal
// pattern. The cursor advances regardless of the outcome; callers that
// need to try-and-rewind should PushIndex first.
func (r *Reader) ReadExpect(pattern []byte) (bool, error) {
	got, err := r.ReadBytes(len(pattern))
	if err != nil {
		return false, err
	}
	for i := range pattern {
		if got[i] != pattern[i] {
			return false, nil
		}
	}
	return true, nil
}

// PeekExpect is the non-advancing counterpart of ReadExpect, preferred
// for speculative prefix checks (see DESIGN.md, open item 4).
func (r *Reader) PeekExpect(pattern []byte) (bool, error) {
	got, err := r.PeekBytes(len(pattern))
	if err != nil {
		return false, err
	}
	for i := range pattern {
		if got[i] != pattern[i] {
			return false, nil
		}
	}
	return true, nil
}

// ReadString consumes n bytes and decodes them as strict UTF-8.
func (r *Reader) ReadString(n int) (string, error) {
	b, err := r.ReadBytes(n)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", ErrInvalidUTF8
	}
	return string(b), nil
}

// ReadStringLossy consumes n bytes and decodes them as UTF-8, replacing
// ill-formed sequences with the Unicode replacement character.
func (r *Reader) ReadStringLossy(n int) (string, error) {
	b, err := r.ReadBytes(n)
	if err != nil {
		return "", err
	}
	return stringsToValidUTF8(b), nil
}

func stringsToValidUTF8(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	out := make([]rune, 0, len(b))
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		out = append(out, r)
		b = b[size:]
	}
	return string(out)
}

// Find searches the whole buffer for sequence, starting at offset 0.
func (r *Reader) Find(sequence []byte) (int, error) {
	return r.FindFrom(sequence, 0)
}

// FindNext searches forward from the current cursor position.
func (r *Reader) FindNext(sequence []byte) (int, error) {
	return r.FindFrom(sequence, r.offset)
}

// FindFrom performs a naive O(N*M) scan for sequence starting at start.
func (r *Reader) FindFrom(sequence []byte, start int) (int, error) {
	n := len(sequence)
	for off := start; off+n <= len(r.data); off++ {
		if matches(r.data[off:off+n], sequence) {
			return off, nil
		}
	}
	return 0, &NotFoundError{Sequence: sequence}
}

func matches(a, b []byte) bool {
	for i := range b {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// FindAll returns every starting offset of sequence in the whole buffer,
// in increasing order. Matches may overlap: the scan steps by 1 byte
// after each hit (see DESIGN.md, open item 5; FindAllNonOverlapping steps
// by len(sequence) instead).
func (r *Reader) FindAll(sequence []byte) []int {
	return r.FindAllAfter(0, sequence)
}

// FindAllAfter is FindAll restricted to offsets >= start.
func (r *Reader) FindAllAfter(start int, sequence []byte) []int {
	var out []int
	off := start
	for {
		found, err := r.FindFrom(sequence, off)
		if err != nil {
			return out
		}
		out = append(out, found)
		off = found + 1
	}
}

// FindAllNonOverlapping is like FindAll but steps by len(sequence) after
// each match, so reported offsets never overlap.
func (r *Reader) FindAllNonOverlapping(sequence []byte) []int {
	var out []int
	off := 0
	step := len(sequence)
	if step == 0 {
		step = 1
	}
	for {
		found, err := r.FindFrom(sequence, off)
		if err != nil {
			return out
		}
		out = append(out, found)
		off = found + step
	}
}
