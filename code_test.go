// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import (
	"bytes"
	"testing"
)

func TestCodeAttributeRoundTrip(t *testing.T) {
	attr := &CodeAttribute{
		MaxStack:  2,
		MaxLocals: 1,
		Code:      []byte{0x2A, 0xB1}, // aload_0, return
		Exceptions: []ExceptionTableEntry{
			{StartPC: 0, EndPC: 2, HandlerPC: 4, CatchType: 0},
		},
	}
	pool := NewConstantPool()
	w := NewWriter()
	attr.encode(w)

	r := NewReader(w.Bytes())
	decoded, err := decodeCode(r, pool, nil)
	if err != nil {
		t.Fatalf("decodeCode() failed: %v", err)
	}
	got := decoded.(*CodeAttribute)
	if got.MaxStack != 2 || got.MaxLocals != 1 {
		t.Fatalf("decodeCode() = %+v, want MaxStack=2 MaxLocals=1", got)
	}
	if !bytes.Equal(got.Code, attr.Code) {
		t.Fatalf("Code = % x, want % x", got.Code, attr.Code)
	}
	if len(got.Exceptions) != 1 || got.Exceptions[0].HandlerPC != 4 {
		t.Fatalf("Exceptions = %+v", got.Exceptions)
	}
	if err := r.ExpectExhausted("code"); err != nil {
		t.Fatalf("ExpectExhausted() = %v, want nil", err)
	}
}

func TestCodeAttributeWithNestedLineNumberTable(t *testing.T) {
	lnt := &AttributeInfo{Decoded: &LineNumberTableAttribute{Entries: []LineNumberEntry{{StartPC: 0, LineNumber: 5}}}}
	attr := &CodeAttribute{MaxStack: 1, MaxLocals: 1, Code: []byte{0xB1}, Attributes: []*AttributeInfo{lnt}}

	pool := NewConstantPool()
	w := NewWriter()
	attr.encode(w)

	r := NewReader(w.Bytes())
	decoded, err := decodeCode(r, pool, nil)
	if err != nil {
		t.Fatalf("decodeCode() failed: %v", err)
	}
	got := decoded.(*CodeAttribute)
	if len(got.Attributes) != 1 {
		t.Fatalf("len(Attributes) = %d, want 1", len(got.Attributes))
	}
	if !bytes.Equal(got.Attributes[0].RawBytes, func() []byte {
		w2 := NewWriter()
		lnt.Decoded.encode(w2)
		return w2.Bytes()
	}()) {
		t.Fatalf("nested attribute raw bytes mismatch")
	}
}
