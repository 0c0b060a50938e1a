// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import "testing"

func TestRecordAttributeRoundTrip(t *testing.T) {
	pool, nameIdx := poolWithName(t, AttrDeprecated)
	depBody := encodeAttributeInfo(nameIdx, nil)
	depAttr, err := DecodeAttributeInfo(NewReader(depBody), pool, nil)
	if err != nil {
		t.Fatalf("DecodeAttributeInfo() failed: %v", err)
	}

	attr := &RecordAttribute{Components: []RecordComponentInfo{
		{NameIndex: 1, DescriptorIndex: 2, Attributes: []*AttributeInfo{depAttr}},
		{NameIndex: 3, DescriptorIndex: 4, Attributes: nil},
	}}

	w := NewWriter()
	attr.encode(w)

	r := NewReader(w.Bytes())
	decoded, err := decodeRecord(r, pool, nil)
	if err != nil {
		t.Fatalf("decodeRecord() failed: %v", err)
	}
	got := decoded.(*RecordAttribute)
	if len(got.Components) != 2 {
		t.Fatalf("len(Components) = %d, want 2", len(got.Components))
	}
	if got.Components[0].NameIndex != 1 || got.Components[0].DescriptorIndex != 2 {
		t.Fatalf("Components[0] = %+v", got.Components[0])
	}
	if len(got.Components[0].Attributes) != 1 {
		t.Fatalf("Components[0].Attributes = %+v, want one", got.Components[0].Attributes)
	}
	if _, ok := got.Components[0].Attributes[0].Decoded.(*DeprecatedAttribute); !ok {
		t.Fatalf("Components[0].Attributes[0].Decoded = %T, want *DeprecatedAttribute", got.Components[0].Attributes[0].Decoded)
	}
	if len(got.Components[1].Attributes) != 0 {
		t.Fatalf("Components[1].Attributes = %+v, want empty", got.Components[1].Attributes)
	}

	if err := r.ExpectExhausted("Record"); err != nil {
		t.Fatalf("ExpectExhausted() = %v, want nil", err)
	}
}

func TestRecordAttributeEmpty(t *testing.T) {
	attr := &RecordAttribute{}
	w := NewWriter()
	attr.encode(w)

	r := NewReader(w.Bytes())
	decoded, err := decodeRecord(r, NewConstantPool(), nil)
	if err != nil {
		t.Fatalf("decodeRecord() failed: %v", err)
	}
	if got := decoded.(*RecordAttribute); len(got.Components) != 0 {
		t.Fatalf("Components = %+v, want empty", got.Components)
	}
}
