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

import (
	"fmt"

	"github.com/swai-project/swai/wasm"
)

// Init seeds buf from env.Module's data segments, in declaration order,
// then resolves the start function. See SPEC_FULL.md §4.7 for the exact
// offset-resolution and bounds-checking rules.
func Init(env *Environment, buf []byte) (wasm.Index, error) {
	for i, seg := range env.Module.Data {
		offset, err := segmentOffset(seg)
		if err != nil {
			return wasm.Index{}, fmt.Errorf("wasmenv.Init: data segment %d: %w", i, err)
		}
		if err := copyInto(buf, offset, seg.Bytes); err != nil {
			return wasm.Index{}, fmt.Errorf("wasmenv.Init: data segment %d: %w", i, err)
		}
	}
	return env.StartFunc()
}

// segmentOffset resolves where a data segment's bytes land in linear
// memory. A Passive segment has no placement of its own and resolves to
// 0 (it is materialized later, explicitly, by memory.init). An Active
// segment's offset is the first instruction of its offset expression,
// which must be an i32.const or i64.const; any other leading instruction
// is an error, and an empty expression resolves to 0.
func segmentOffset(seg wasm.DataSegment) (uint64, error) {
	if seg.Mode == wasm.DataPassive {
		return 0, nil
	}
	if len(seg.Offset.Instructions) == 0 {
		return 0, nil
	}
	first := seg.Offset.Instructions[0]
	switch first.Op {
	case wasm.OpI32Const:
		return uint64(uint32(first.I32)), nil
	case wasm.OpI64Const:
		return uint64(first.I64), nil
	default:
		return 0, wasm.ErrInvalidOffsetExpr
	}
}

func copyInto(buf []byte, offset uint64, data []byte) error {
	bufLen := uint64(len(buf))
	if offset <= bufLen && bufLen-offset >= uint64(len(data)) {
		copy(buf[offset:], data)
		return nil
	}
	failAt := offset
	if offset < bufLen {
		failAt = bufLen // the segment starts in bounds but runs off the end
	}
	return fmt.Errorf("wasmenv: write of %d bytes at offset %d overruns %d-byte buffer at index %d: %w",
		len(data), offset, len(buf), failAt, wasm.ErrMemoryOutOfBounds)
}
