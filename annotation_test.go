// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import (
	"bytes"
	"reflect"
	"testing"
)

func TestElementValueRoundTripPrimitive(t *testing.T) {
	v := ElementValue{Tag: EvInt, ConstValueIndex: 42}
	w := NewWriter()
	encodeElementValue(w, v)
	r := NewReader(w.Bytes())
	got, err := decodeElementValue(r)
	if err != nil {
		t.Fatalf("decodeElementValue() failed: %v", err)
	}
	if !reflect.DeepEqual(got, v) {
		t.Fatalf("decodeElementValue() = %+v, want %+v", got, v)
	}
}

func TestElementValueRoundTripEnumConstant(t *testing.T) {
	v := ElementValue{Tag: EvEnumConstant, TypeNameIndex: 3, ConstNameIndex: 4}
	w := NewWriter()
	encodeElementValue(w, v)
	r := NewReader(w.Bytes())
	got, err := decodeElementValue(r)
	if err != nil {
		t.Fatalf("decodeElementValue() failed: %v", err)
	}
	if !reflect.DeepEqual(got, v) {
		t.Fatalf("decodeElementValue() = %+v, want %+v", got, v)
	}
}

func TestElementValueRoundTripNestedAnnotation(t *testing.T) {
	inner := &Annotation{TypeIndex: 7, ElementValuePairs: []ElementValuePair{
		{ElementNameIndex: 1, Value: ElementValue{Tag: EvBoolean, ConstValueIndex: 2}},
	}}
	v := ElementValue{Tag: EvAnnotation, NestedAnnotation: inner}
	w := NewWriter()
	encodeElementValue(w, v)
	r := NewReader(w.Bytes())
	got, err := decodeElementValue(r)
	if err != nil {
		t.Fatalf("decodeElementValue() failed: %v", err)
	}
	if got.NestedAnnotation.TypeIndex != 7 || len(got.NestedAnnotation.ElementValuePairs) != 1 {
		t.Fatalf("decodeElementValue() = %+v", got)
	}
}

func TestElementValueRoundTripArray(t *testing.T) {
	v := ElementValue{Tag: EvArray, Values: []ElementValue{
		{Tag: EvInt, ConstValueIndex: 1},
		{Tag: EvInt, ConstValueIndex: 2},
	}}
	w := NewWriter()
	encodeElementValue(w, v)
	r := NewReader(w.Bytes())
	got, err := decodeElementValue(r)
	if err != nil {
		t.Fatalf("decodeElementValue() failed: %v", err)
	}
	if len(got.Values) != 2 || got.Values[1].ConstValueIndex != 2 {
		t.Fatalf("decodeElementValue() = %+v", got)
	}
}

func TestDecodeElementValueUnknownTag(t *testing.T) {
	r := NewReader([]byte{0xFF})
	_, err := decodeElementValue(r)
	if _, ok := err.(*UnknownTagError); !ok {
		t.Fatalf("decodeElementValue() error type = %T, want *UnknownTagError", err)
	}
}

func TestAnnotationRoundTrip(t *testing.T) {
	ann := &Annotation{
		TypeIndex: 5,
		ElementValuePairs: []ElementValuePair{
			{ElementNameIndex: 1, Value: ElementValue{Tag: EvString, ConstValueIndex: 2}},
			{ElementNameIndex: 3, Value: ElementValue{Tag: EvClass, ClassInfoIndex: 4}},
		},
	}
	w := NewWriter()
	encodeAnnotation(w, ann)
	r := NewReader(w.Bytes())
	got, err := decodeAnnotation(r)
	if err != nil {
		t.Fatalf("decodeAnnotation() failed: %v", err)
	}
	if got.TypeIndex != 5 || len(got.ElementValuePairs) != 2 {
		t.Fatalf("decodeAnnotation() = %+v", got)
	}
	if err := r.ExpectExhausted("annotation"); err != nil {
		t.Fatalf("ExpectExhausted() = %v, want nil", err)
	}
}

func TestRuntimeVisibleAnnotationsAttributeRoundTrip(t *testing.T) {
	attr := &RuntimeVisibleAnnotationsAttribute{Annotations: []Annotation{
		{TypeIndex: 1},
		{TypeIndex: 2, ElementValuePairs: []ElementValuePair{{ElementNameIndex: 1, Value: ElementValue{Tag: EvInt, ConstValueIndex: 9}}}},
	}}
	w := NewWriter()
	attr.encode(w)
	r := NewReader(w.Bytes())
	decoded, err := decodeRuntimeVisibleAnnotations(r, nil, nil)
	if err != nil {
		t.Fatalf("decodeRuntimeVisibleAnnotations() failed: %v", err)
	}
	got := decoded.(*RuntimeVisibleAnnotationsAttribute)
	if len(got.Annotations) != 2 {
		t.Fatalf("decodeRuntimeVisibleAnnotations() = %+v", got.Annotations)
	}
}

func TestTargetInfoTypeParameterBound(t *testing.T) {
	info := TargetInfo{TypeParameterIndex: 1, BoundIndex: 2}
	w := NewWriter()
	encodeTargetInfo(w, TargetClassTypeParameterBound, info)
	r := NewReader(w.Bytes())
	got, err := decodeTargetInfo(r, TargetClassTypeParameterBound)
	if err != nil {
		t.Fatalf("decodeTargetInfo() failed: %v", err)
	}
	if !reflect.DeepEqual(got, info) {
		t.Fatalf("decodeTargetInfo() = %+v, want %+v", got, info)
	}
}

func TestTargetInfoEmptyShapes(t *testing.T) {
	for _, tt := range []uint16{TargetField, TargetReturn, TargetReceiver} {
		r := NewReader(nil)
		got, err := decodeTargetInfo(r, tt)
		if err != nil {
			t.Fatalf("decodeTargetInfo(%#x) failed: %v", tt, err)
		}
		if !reflect.DeepEqual(got, TargetInfo{}) {
			t.Fatalf("decodeTargetInfo(%#x) = %+v, want zero value", tt, got)
		}
	}
}

func TestTargetInfoLocalVariable(t *testing.T) {
	info := TargetInfo{LocalVarTable: []LocalVarTargetEntry{{StartPC: 1, Length: 2, Index: 3}, {StartPC: 4, Length: 5, Index: 6}}}
	w := NewWriter()
	encodeTargetInfo(w, TargetLocalVariable, info)
	r := NewReader(w.Bytes())
	got, err := decodeTargetInfo(r, TargetLocalVariable)
	if err != nil {
		t.Fatalf("decodeTargetInfo() failed: %v", err)
	}
	if len(got.LocalVarTable) != 2 || got.LocalVarTable[1].Index != 6 {
		t.Fatalf("decodeTargetInfo() = %+v", got.LocalVarTable)
	}
}

func TestTargetInfoCastCarriesTypeArgumentIndex(t *testing.T) {
	info := TargetInfo{Offset: 12, TypeArgumentIndex: 1}
	w := NewWriter()
	encodeTargetInfo(w, TargetCast, info)
	if w.Len() != 3 {
		t.Fatalf("encoded cast target length = %d, want 3 (offset u16 + type_argument_index u8)", w.Len())
	}
	r := NewReader(w.Bytes())
	got, err := decodeTargetInfo(r, TargetCast)
	if err != nil {
		t.Fatalf("decodeTargetInfo() failed: %v", err)
	}
	if got.Offset != 12 || got.TypeArgumentIndex != 1 {
		t.Fatalf("decodeTargetInfo() = %+v, want Offset=12 TypeArgumentIndex=1", got)
	}
}

func TestTargetInfoUnknownTargetType(t *testing.T) {
	r := NewReader(nil)
	_, err := decodeTargetInfo(r, 0x99)
	if _, ok := err.(*UnknownTagError); !ok {
		t.Fatalf("decodeTargetInfo() error type = %T, want *UnknownTagError", err)
	}
}

func TestTypeAnnotationRoundTrip(t *testing.T) {
	ann := &TypeAnnotation{
		TargetType: TargetFormalParameter,
		TargetInfo: TargetInfo{FormalParameterIndex: 1},
		TypePath:   []TypePathEntry{{TypePathKind: TypePathArray, TypeArgumentIndex: 0}},
		TypeIndex:  7,
		ElementValuePairs: []ElementValuePair{
			{ElementNameIndex: 1, Value: ElementValue{Tag: EvBoolean, ConstValueIndex: 1}},
		},
	}
	w := NewWriter()
	encodeTypeAnnotation(w, ann)
	r := NewReader(w.Bytes())
	got, err := decodeTypeAnnotation(r)
	if err != nil {
		t.Fatalf("decodeTypeAnnotation() failed: %v", err)
	}
	if got.TargetType != TargetFormalParameter || got.TargetInfo.FormalParameterIndex != 1 {
		t.Fatalf("decodeTypeAnnotation() = %+v", got)
	}
	if len(got.TypePath) != 1 || got.TypePath[0].TypePathKind != TypePathArray {
		t.Fatalf("decodeTypeAnnotation() TypePath = %+v", got.TypePath)
	}
	if err := r.ExpectExhausted("type annotation"); err != nil {
		t.Fatalf("ExpectExhausted() = %v, want nil", err)
	}
}

func TestRuntimeVisibleTypeAnnotationsAttributeRoundTrip(t *testing.T) {
	attr := &RuntimeVisibleTypeAnnotationsAttribute{Annotations: []TypeAnnotation{
		{TargetType: TargetReturn, TargetInfo: TargetInfo{}},
	}}
	w := NewWriter()
	attr.encode(w)
	r := NewReader(w.Bytes())
	decoded, err := decodeRuntimeVisibleTypeAnnotations(r, nil, nil)
	if err != nil {
		t.Fatalf("decodeRuntimeVisibleTypeAnnotations() failed: %v", err)
	}
	got := decoded.(*RuntimeVisibleTypeAnnotationsAttribute)
	if len(got.Annotations) != 1 {
		t.Fatalf("decodeRuntimeVisibleTypeAnnotations() = %+v", got.Annotations)
	}
}

func TestAnnotationDefaultAttributeRoundTrip(t *testing.T) {
	attr := &AnnotationDefaultAttribute{DefaultValue: ElementValue{Tag: EvInt, ConstValueIndex: 3}}
	w := NewWriter()
	attr.encode(w)
	r := NewReader(w.Bytes())
	decoded, err := decodeAnnotationDefault(r, nil, nil)
	if err != nil {
		t.Fatalf("decodeAnnotationDefault() failed: %v", err)
	}
	got := decoded.(*AnnotationDefaultAttribute)
	if !bytes.Equal(w.Bytes()[1:], mustEncodeElementValueTail(got.DefaultValue)) {
		t.Fatalf("decodeAnnotationDefault() = %+v", got)
	}
}

func mustEncodeElementValueTail(v ElementValue) []byte {
	w := NewWriter()
	encodeElementValue(w, v)
	return w.Bytes()[1:]
}

// TestTypeAnnotationTargetTypeIsTwoBytes pins the wire width of
// target_type: a u16, not the single byte its 0x00..0x4B value range
// would suggest.
func TestTypeAnnotationTargetTypeIsTwoBytes(t *testing.T) {
	ann := &TypeAnnotation{TargetType: TargetReturn}
	w := NewWriter()
	encodeTypeAnnotation(w, ann)
	// target_type u16, empty target_info, type_path count u8, type_index
	// u16, element/value pair count u16.
	if w.Len() != 7 {
		t.Fatalf("encoded length = %d, want 7", w.Len())
	}
	if w.Bytes()[0] != 0x00 || w.Bytes()[1] != TargetReturn {
		t.Fatalf("target_type bytes = % x, want 00 14", w.Bytes()[:2])
	}
}
