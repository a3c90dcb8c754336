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
	"errors"
	"fmt"
)

// Sentinel kinds; test against these with errors.Is.
var (
	ErrOutOfBounds = errors.New("bytereader: out of bounds")
	ErrNotFound    = errors.New("bytereader: sequence not found")
	ErrInvalidUTF8 = errors.New("bytereader: invalid utf8")
	ErrOverflow    = errors.New("bytereader: leb128 overflow")
	ErrTruncated   = errors.New("bytereader: truncated input")
)

// OutOfBoundsError carries the context for ErrOutOfBounds.
type OutOfBoundsError struct {
	Length, Start, End int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("out of bounds: length %d, want [%d:%d]", e.Length, e.Start, e.End)
}

func (e *OutOfBoundsError) Unwrap() error { return ErrOutOfBounds }

func outOfBounds(length, start, end int) error {
	return &OutOfBoundsError{Length: length, Start: start, End: end}
}

// NotFoundError carries the context for ErrNotFound.
type NotFoundError struct {
	Sequence []byte
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("sequence %x not found", e.Sequence)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// OverflowError carries the context for ErrOverflow.
type OverflowError struct {
	Bits int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("leb128 value exceeds %d-bit target", e.Bits)
}

func (e *OverflowError) Unwrap() error { return ErrOverflow }
