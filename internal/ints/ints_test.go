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

package ints

import "testing"

func TestChunkCount(t *testing.T) {
	cases := []struct{ n, chunk, want uint }{
		{0, 7, 0},
		{1, 7, 1},
		{7, 7, 1},
		{8, 7, 2},
		{32, 7, 5},
		{64, 7, 10},
	}
	for _, c := range cases {
		if got := ChunkCount(c.n, c.chunk); got != c.want {
			t.Errorf("ChunkCount(%d, %d) = %d, want %d", c.n, c.chunk, got, c.want)
		}
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 3); got != 3 {
		t.Errorf("Clamp(5, 0, 3) = %d, want 3", got)
	}
	if got := Clamp(-1, 0, 3); got != 0 {
		t.Errorf("Clamp(-1, 0, 3) = %d, want 0", got)
	}
	if got := Clamp(2, 0, 3); got != 2 {
		t.Errorf("Clamp(2, 0, 3) = %d, want 2", got)
	}
}

func TestAlignUpDown(t *testing.T) {
	if got := AlignUp(uint(10), uint(8)); got != 16 {
		t.Errorf("AlignUp(10, 8) = %d, want 16", got)
	}
	if got := AlignDown(uint(10), uint(8)); got != 8 {
		t.Errorf("AlignDown(10, 8) = %d, want 8", got)
	}
	if !IsAligned(uint(16), uint(8)) {
		t.Errorf("IsAligned(16, 8) = false, want true")
	}
}
