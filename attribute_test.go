// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import (
	"bytes"
	"testing"
)

func poolWithName(t *testing.T, name string) (*ConstantPool, uint16) {
	t.Helper()
	pool := NewConstantPool()
	idx, err := pool.InternUTF8(name)
	if err != nil {
		t.Fatalf("InternUTF8(%q) failed: %v", name, err)
	}
	return pool, idx
}

func encodeAttributeInfo(nameIdx uint16, body []byte) []byte {
	w := NewWriter()
	w.WriteU16(nameIdx)
	w.WriteU32(uint32(len(body)))
	w.Extend(body)
	return w.Bytes()
}

func TestDecodeAttributeInfoRecognisedName(t *testing.T) {
	pool, nameIdx := poolWithName(t, AttrDeprecated)
	raw := encodeAttributeInfo(nameIdx, nil)

	r := NewReader(raw)
	info, err := DecodeAttributeInfo(r, pool, nil)
	if err != nil {
		t.Fatalf("DecodeAttributeInfo() failed: %v", err)
	}
	if _, ok := info.Decoded.(*DeprecatedAttribute); !ok {
		t.Fatalf("Decoded = %T, want *DeprecatedAttribute", info.Decoded)
	}
}

func TestDecodeAttributeInfoUnknownNameLeavesDecodedNil(t *testing.T) {
	pool, nameIdx := poolWithName(t, "x-vendor-extension")
	raw := encodeAttributeInfo(nameIdx, []byte{0xAA, 0xBB})

	r := NewReader(raw)
	info, err := DecodeAttributeInfo(r, pool, nil)
	if err != nil {
		t.Fatalf("DecodeAttributeInfo() failed: %v", err)
	}
	if info.Decoded != nil {
		t.Fatalf("Decoded = %T, want nil for an unrecognised attribute name", info.Decoded)
	}
	if !bytes.Equal(info.RawBytes, []byte{0xAA, 0xBB}) {
		t.Fatalf("RawBytes = % x, want aa bb", info.RawBytes)
	}
}

func TestDecodeAttributeInfoSkipAttributeParsing(t *testing.T) {
	pool, nameIdx := poolWithName(t, AttrDeprecated)
	raw := encodeAttributeInfo(nameIdx, nil)

	r := NewReader(raw)
	info, err := DecodeAttributeInfo(r, pool, &Options{SkipAttributeParsing: true})
	if err != nil {
		t.Fatalf("DecodeAttributeInfo() failed: %v", err)
	}
	if info.Decoded != nil {
		t.Fatalf("Decoded = %T, want nil when SkipAttributeParsing is set", info.Decoded)
	}
}

func TestDecodeAttributeInfoTrailingBytes(t *testing.T) {
	pool, nameIdx := poolWithName(t, AttrDeprecated)
	// Deprecated carries no data; one extra byte must be rejected.
	raw := encodeAttributeInfo(nameIdx, []byte{0x00})

	r := NewReader(raw)
	_, err := DecodeAttributeInfo(r, pool, nil)
	if _, ok := err.(*TrailingBytesError); !ok {
		t.Fatalf("DecodeAttributeInfo() error type = %T, want *TrailingBytesError", err)
	}
}

func TestAttributeInfoEncodePreservesRawBytes(t *testing.T) {
	pool, nameIdx := poolWithName(t, AttrSourceFile)
	body := []byte{0x00, 0x07}
	raw := encodeAttributeInfo(nameIdx, body)

	r := NewReader(raw)
	info, err := DecodeAttributeInfo(r, pool, nil)
	if err != nil {
		t.Fatalf("DecodeAttributeInfo() failed: %v", err)
	}

	w := NewWriter()
	info.Encode(w)
	if !bytes.Equal(w.Bytes(), raw) {
		t.Fatalf("Encode() = % x, want the exact original bytes % x", w.Bytes(), raw)
	}
}

func TestAttributeInfoEncodeFromScratch(t *testing.T) {
	info := &AttributeInfo{
		NameIndex: 5,
		Decoded:   &ConstantValueAttribute{ConstantValueIndex: 9},
	}
	w := NewWriter()
	info.Encode(w)

	want := NewWriter()
	want.WriteU16(5)
	want.WriteU32(2)
	want.WriteU16(9)
	if !bytes.Equal(w.Bytes(), want.Bytes()) {
		t.Fatalf("Encode() from scratch = % x, want % x", w.Bytes(), want.Bytes())
	}
}

func TestFindReturnsFirstMatch(t *testing.T) {
	attrs := []*AttributeInfo{
		{Decoded: &SyntheticAttribute{}},
		{Decoded: &DeprecatedAttribute{}},
	}
	if Find(attrs, AttrDeprecated) == nil {
		t.Fatalf("Find(AttrDeprecated) = nil, want a match")
	}
	if Find(attrs, AttrSignature) != nil {
		t.Fatalf("Find(AttrSignature) = non-nil, want nil")
	}
}

func TestExceptionsAttributeRoundTrip(t *testing.T) {
	attr := &ExceptionsAttribute{ExceptionIndexTable: []uint16{3, 7, 11}}
	w := NewWriter()
	attr.encode(w)

	r := NewReader(w.Bytes())
	decoded, err := decodeExceptions(r, nil, nil)
	if err != nil {
		t.Fatalf("decodeExceptions() failed: %v", err)
	}
	got := decoded.(*ExceptionsAttribute)
	if len(got.ExceptionIndexTable) != 3 || got.ExceptionIndexTable[1] != 7 {
		t.Fatalf("decodeExceptions() = %+v, want [3 7 11]", got.ExceptionIndexTable)
	}
}

func TestLineNumberTableRoundTrip(t *testing.T) {
	attr := &LineNumberTableAttribute{Entries: []LineNumberEntry{{StartPC: 0, LineNumber: 10}, {StartPC: 4, LineNumber: 11}}}
	w := NewWriter()
	attr.encode(w)

	r := NewReader(w.Bytes())
	decoded, err := decodeLineNumberTable(r, nil, nil)
	if err != nil {
		t.Fatalf("decodeLineNumberTable() failed: %v", err)
	}
	got := decoded.(*LineNumberTableAttribute)
	if len(got.Entries) != 2 || got.Entries[1].LineNumber != 11 {
		t.Fatalf("decodeLineNumberTable() = %+v", got.Entries)
	}
}
