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
	"io"
	"os"
)

// NewFromFile reads f fully into memory and wraps the result. For large
// files on platforms that support it, prefer NewFromFileMmap.
func NewFromFile(f *os.File) (*Reader, error) {
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return NewFromBytes(data), nil
}

// NewFromFileMmap maps f's contents read-only and wraps them without a
// copy. On platforms without an mmap implementation it falls back to
// NewFromFile. The returned closer must be invoked once the Reader (and
// any slices it has handed out) are no longer needed.
func NewFromFileMmap(f *os.File) (r *Reader, closer func() error, err error) {
	data, unmap, ok, err := mmapFile(f)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		r, err = NewFromFile(f)
		if err != nil {
			return nil, nil, err
		}
		return r, func() error { return nil }, nil
	}
	return NewFromBytes(data), unmap, nil
}
