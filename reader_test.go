// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import "testing"

func TestReaderPrimitives(t *testing.T) {
	r := NewReader([]byte{0x01, 0xCA, 0xFE, 0x00, 0x00, 0x00, 0x2A, 0xDE, 0xAD, 0xBE, 0xEF, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00})

	u8, err := r.ReadU8()
	if err != nil || u8 != 0x01 {
		t.Fatalf("ReadU8() = %v, %v, want 0x01, nil", u8, err)
	}
	u16, err := r.ReadU16()
	if err != nil || u16 != 0xCAFE {
		t.Fatalf("ReadU16() = %#x, %v, want 0xcafe, nil", u16, err)
	}
	u32, err := r.ReadU32()
	if err != nil || u32 != 0x2A {
		t.Fatalf("ReadU32() = %#x, %v, want 0x2a, nil", u32, err)
	}
	u64, err := r.ReadU64()
	if err != nil || u64 != 0xDEADBEEF00000000 {
		t.Fatalf("ReadU64() = %#x, %v, want 0xdeadbeef00000000, nil", u64, err)
	}
	if r.Remaining() != 2 {
		t.Fatalf("Remaining() = %d, want 2", r.Remaining())
	}
}

func TestReaderUnexpectedEnd(t *testing.T) {
	r := NewReader([]byte{0x01})
	if _, err := r.ReadU32(); err == nil {
		t.Fatalf("ReadU32() on a 1-byte input succeeded, want *UnexpectedEndError")
	} else if _, ok := err.(*UnexpectedEndError); !ok {
		t.Fatalf("ReadU32() error type = %T, want *UnexpectedEndError", err)
	}
}

func TestReaderSubAndExpectExhausted(t *testing.T) {
	r := NewReader([]byte{0xAA, 0xBB, 0xCC, 0xDD})
	sub, err := r.Sub(2)
	if err != nil {
		t.Fatalf("Sub(2) failed: %v", err)
	}
	if r.Remaining() != 2 {
		t.Fatalf("parent Remaining() = %d, want 2 after carving out a 2-byte sub-reader", r.Remaining())
	}

	if _, err := sub.ReadU8(); err != nil {
		t.Fatalf("sub.ReadU8() failed: %v", err)
	}
	if err := sub.ExpectExhausted("test"); err == nil {
		t.Fatalf("ExpectExhausted() succeeded with 1 byte remaining, want *TrailingBytesError")
	}
	if _, err := sub.ReadU8(); err != nil {
		t.Fatalf("sub.ReadU8() failed: %v", err)
	}
	if err := sub.ExpectExhausted("test"); err != nil {
		t.Fatalf("ExpectExhausted() = %v, want nil once fully consumed", err)
	}
}

func TestReaderExpectExhaustedReportsCount(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x03})
	_, _ = r.ReadU8()
	err := r.ExpectExhausted("attribute body")
	tbe, ok := err.(*TrailingBytesError)
	if !ok {
		t.Fatalf("ExpectExhausted() error type = %T, want *TrailingBytesError", err)
	}
	if tbe.Count != 2 || tbe.Context != "attribute body" {
		t.Fatalf("TrailingBytesError = %+v, want Count=2 Context=attribute body", tbe)
	}
}
