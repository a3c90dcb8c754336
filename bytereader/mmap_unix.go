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

//go:build linux || darwin

package bytereader

import (
	"math"
	"os"

	"golang.org/x/sys/unix"
)

// mmapFile maps f read-only via golang.org/x/sys/unix, generalizing the
// teacher's syscall.Mmap-based ion/blockfmt/mmap_linux.go to the portable
// x/sys/unix API and to darwin as well as linux.
func mmapFile(f *os.File) (data []byte, closer func() error, ok bool, err error) {
	info, err := f.Stat()
	if err != nil {
		return nil, nil, false, err
	}
	size := info.Size()
	if size == 0 {
		return []byte{}, func() error { return nil }, true, nil
	}
	if size > math.MaxInt {
		return nil, nil, false, nil
	}
	mem, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, false, err
	}
	return mem, func() error { return unix.Munmap(mem) }, true, nil
}
