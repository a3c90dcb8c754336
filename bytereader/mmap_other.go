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

//go:build !linux && !darwin

package bytereader

import "os"

// mmapFile has no implementation on this platform; callers fall back to
// a plain read, mirroring the teacher's malloc_windows.go stub shape.
func mmapFile(f *os.File) (data []byte, closer func() error, ok bool, err error) {
	return nil, nil, false, nil
}
