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

package wasmenv

import "github.com/swai-project/swai/internal/ints"

// PageRange is a half-open range of page indices, [Start, End).
type PageRange struct {
	Start uint64
	End   uint64
}

// DataFootprint reports, for each data segment whose offset resolves
// cleanly, the page-aligned range it touches in a pageSize-paged linear
// memory. Segments whose offset expression is not a plain i32/i64
// constant are skipped rather than failing the whole report — this is a
// diagnostic, not the initializer itself (see Init for the authoritative,
// failing version of this same resolution).
//
// When the module declares a memory, ranges are clamped to its minimum
// page count; a segment that would write past it is reported up to that
// bound, the same overrun Init would reject.
func (env *Environment) DataFootprint(pageSize uint64) []PageRange {
	if pageSize == 0 {
		pageSize = 1
	}
	bounded := len(env.Module.Memories) > 0
	var totalPages uint64
	if bounded {
		totalPages = uint64(env.Module.Memories[0].Min)
	}

	var out []PageRange
	for _, seg := range env.Module.Data {
		offset, err := segmentOffset(seg)
		if err != nil {
			continue
		}
		end := offset + uint64(len(seg.Bytes))
		startPage := ints.AlignDown(offset, pageSize) / pageSize
		endPage := ints.AlignUp(end, pageSize) / pageSize
		if bounded {
			startPage = ints.Min(startPage, totalPages)
			endPage = ints.Clamp(endPage, startPage, totalPages)
		}
		out = append(out, PageRange{Start: startPage, End: endPage})
	}
	return out
}
