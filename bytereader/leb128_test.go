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
	"testing"
)

func encodeULEB128(v uint64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
		} else {
			out = append(out, b)
			break
		}
	}
	return out
}

func encodeLEB128(v int64) []byte {
	var out []byte
	more := true
	for more {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			more = false
		} else {
			b |= 0x80
		}
		out = append(out, b)
	}
	return out
}

func TestULEB128RoundTrip(t *testing.T) {
	vals := []uint32{0, 1, 127, 128, 300, 16384, 1<<32 - 1}
	for _, v := range vals {
		enc := encodeULEB128(uint64(v))
		r := NewFromBytes(enc)
		got, err := ReadULEB128[uint32](r)
		if err != nil {
			t.Fatalf("v=%d: %v", v, err)
		}
		if got != v {
			t.Fatalf("v=%d: got %d", v, got)
		}
		if r.Offset() != len(enc) {
			t.Fatalf("v=%d: offset=%d, want %d", v, r.Offset(), len(enc))
		}
	}
}

func TestLEB128RoundTripNegative(t *testing.T) {
	vals := []int32{0, -1, 1, -128, 127, -12345, 12345}
	for _, v := range vals {
		enc := encodeLEB128(int64(v))
		r := NewFromBytes(enc)
		got, err := ReadLEB128[int32](r)
		if err != nil {
			t.Fatalf("v=%d: %v", v, err)
		}
		if got != v {
			t.Fatalf("v=%d: got %d", v, got)
		}
	}
}

func TestI32ConstNegativeOne(t *testing.T) {
	// S3: `41 7F` decodes to i32_const(-1)
	r := NewFromBytes([]byte{0x7F})
	got, err := ReadLEB128[int32](r)
	if err != nil {
		t.Fatal(err)
	}
	if got != -1 {
		t.Fatalf("got %d, want -1", got)
	}
}

func TestI32ConstMinus128(t *testing.T) {
	// S3: `41 80 7F` decodes to i32_const(-128)
	r := NewFromBytes([]byte{0x80, 0x7F})
	got, err := ReadLEB128[int32](r)
	if err != nil {
		t.Fatal(err)
	}
	if got != -128 {
		t.Fatalf("got %d, want -128", got)
	}
}

func TestULEB128Truncated(t *testing.T) {
	r := NewFromBytes([]byte{0x80, 0x80})
	_, err := ReadULEB128[uint32](r)
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("err = %v, want ErrTruncated", err)
	}
}

func TestULEB128Overflow(t *testing.T) {
	// 6 bytes, continuation set on all but the last; value >= 2^32
	r := NewFromBytes([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x7F})
	_, err := ReadULEB128[uint32](r)
	if !errors.Is(err, ErrOverflow) {
		t.Fatalf("err = %v, want ErrOverflow", err)
	}
}

func TestPeekULEB128DoesNotAdvance(t *testing.T) {
	r := NewFromBytes(encodeULEB128(300))
	v, err := PeekULEB128[uint32](r)
	if err != nil {
		t.Fatal(err)
	}
	if v != 300 {
		t.Fatalf("v = %d, want 300", v)
	}
	if r.Offset() != 0 {
		t.Fatalf("offset = %d, want 0", r.Offset())
	}
}
