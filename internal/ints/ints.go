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

// Package ints provides small generic integer helpers shared by the
// LEB128 codec and the memory initializer: clamping, alignment, and
// bit-chunk counting. Adapted from the teacher's per-width ints package
// (Min/Max/Clamp/AlignUp/AlignDown/ChunkCount) into single generic
// implementations.
package ints

import "golang.org/x/exp/constraints"

// Min returns the smaller of x and y.
func Min[T constraints.Ordered](x, y T) T {
	if x <= y {
		return x
	}
	return y
}

// Max returns the larger of x and y.
func Max[T constraints.Ordered](x, y T) T {
	if x >= y {
		return x
	}
	return y
}

// Clamp returns x restricted to [lo, hi].
func Clamp[T constraints.Ordered](x, lo, hi T) T {
	return Max(lo, Min(x, hi))
}

// ChunkCount returns the number of chunkSize-sized chunks needed to hold
// n units, i.e. ceil(n/chunkSize).
func ChunkCount[T constraints.Unsigned](n, chunkSize T) T {
	return (n + chunkSize - 1) / chunkSize
}

// AlignDown returns v rounded down to the nearest multiple of alignment.
func AlignDown[T constraints.Unsigned](v, alignment T) T {
	return (v / alignment) * alignment
}

// AlignUp returns v rounded up to the nearest multiple of alignment.
func AlignUp[T constraints.Unsigned](v, alignment T) T {
	return ((v + alignment - 1) / alignment) * alignment
}

// IsAligned reports whether v is an integer multiple of alignment.
func IsAligned[T constraints.Unsigned](v, alignment T) bool {
	return v%alignment == 0
}
