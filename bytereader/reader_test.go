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

func TestReadBytesAdvances(t *testing.T) {
	r := NewFromBytes([]byte{1, 2, 3, 4, 5})
	b, err := r.ReadBytes(3)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "\x01\x02\x03" {
		t.Fatalf("got %x", b)
	}
	if r.Offset() != 3 {
		t.Fatalf("offset = %d, want 3", r.Offset())
	}
}

func TestPeekBytesLeavesCursor(t *testing.T) {
	r := NewFromBytes([]byte{1, 2, 3, 4, 5})
	if _, err := r.PeekBytes(3); err != nil {
		t.Fatal(err)
	}
	if r.Offset() != 0 {
		t.Fatalf("offset = %d, want 0", r.Offset())
	}
}

func TestReadBytesOutOfBounds(t *testing.T) {
	r := NewFromBytes([]byte{1, 2})
	_, err := r.ReadBytes(3)
	if !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("err = %v, want ErrOutOfBounds", err)
	}
}

func TestPushPopIndex(t *testing.T) {
	r := NewFromBytes([]byte{1, 2, 3, 4, 5})
	r.MoveTo(2)
	r.PushIndex()
	r.ReadBytes(2)
	r.PopIndex()
	if r.Offset() != 2 {
		t.Fatalf("offset = %d, want 2 after pop", r.Offset())
	}
}

func TestPopIndexEmptyIsNoOp(t *testing.T) {
	r := NewFromBytes([]byte{1, 2, 3})
	r.MoveTo(1)
	r.PopIndex()
	if r.Offset() != 1 {
		t.Fatalf("offset = %d, want 1", r.Offset())
	}
}

func TestPeekFixedRestoresCursorOnFailure(t *testing.T) {
	r := NewFromBytes([]byte{1, 2})
	r.MoveTo(1)
	_, err := PeekFixed[uint32](r)
	if err == nil {
		t.Fatal("expected error")
	}
	if r.Offset() != 1 {
		t.Fatalf("offset = %d, want 1 (restored)", r.Offset())
	}
}

func TestReadExpectAdvancesEvenOnMismatch(t *testing.T) {
	r := NewFromBytes([]byte{0xDE, 0xAD, 0xBE, 0xEF})
	ok, err := r.ReadExpect([]byte{0x00, 0x61, 0x73, 0x6D})
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected mismatch")
	}
	if r.Offset() != 4 {
		t.Fatalf("offset = %d, want 4", r.Offset())
	}
}

func TestPeekExpectDoesNotAdvance(t *testing.T) {
	r := NewFromBytes([]byte{0xDE, 0xAD, 0xBE, 0xEF})
	ok, err := r.PeekExpect([]byte{0x00, 0x61, 0x73, 0x6D})
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected mismatch")
	}
	if r.Offset() != 0 {
		t.Fatalf("offset = %d, want 0", r.Offset())
	}
}

func TestFixedWidthLittleEndian(t *testing.T) {
	r := NewFromBytes([]byte{0x01, 0x00, 0x00, 0x00})
	v, err := ReadFixed[uint32](r)
	if err != nil {
		t.Fatal(err)
	}
	if v != 1 {
		t.Fatalf("v = %d, want 1", v)
	}
}

func TestFixedWidthBigEndian(t *testing.T) {
	r := NewFromBytes([]byte{0x00, 0x00, 0x00, 0x01}).SetEndian(BigEndian)
	v, err := ReadFixed[uint32](r)
	if err != nil {
		t.Fatal(err)
	}
	if v != 1 {
		t.Fatalf("v = %d, want 1", v)
	}
}

func TestFixedFloat(t *testing.T) {
	// 1.0f32 little-endian
	r := NewFromBytes([]byte{0x00, 0x00, 0x80, 0x3F})
	v, err := ReadFixed[float32](r)
	if err != nil {
		t.Fatal(err)
	}
	if v != 1.0 {
		t.Fatalf("v = %v, want 1.0", v)
	}
}

func TestStringStrictRejectsInvalidUTF8(t *testing.T) {
	r := NewFromBytes([]byte{0xFF, 0xFE})
	_, err := r.ReadString(2)
	if !errors.Is(err, ErrInvalidUTF8) {
		t.Fatalf("err = %v, want ErrInvalidUTF8", err)
	}
}

func TestStringLossyReplaces(t *testing.T) {
	r := NewFromBytes([]byte{0xFF})
	s, err := r.ReadStringLossy(1)
	if err != nil {
		t.Fatal(err)
	}
	if s != "�" {
		t.Fatalf("s = %q, want replacement char", s)
	}
}

func TestFindAllOffsetsOverlap(t *testing.T) {
	r := NewFromBytes([]byte("aaaa"))
	got := r.FindAll([]byte("aa"))
	want := []int{0, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestFindAllNonOverlapping(t *testing.T) {
	r := NewFromBytes([]byte("aaaa"))
	got := r.FindAllNonOverlapping([]byte("aa"))
	want := []int{0, 2}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestFindNotFound(t *testing.T) {
	r := NewFromBytes([]byte("hello"))
	_, err := r.Find([]byte("xyz"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
