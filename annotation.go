// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

// Element value tags (JVMS table 4.7.16.1-A).
const (
	EvByte         = 'B'
	EvChar         = 'C'
	EvDouble       = 'D'
	EvFloat        = 'F'
	EvInt          = 'I'
	EvLong         = 'J'
	EvShort        = 'S'
	EvBoolean      = 'Z'
	EvString       = 's'
	EvEnumConstant = 'e'
	EvClass        = 'c'
	EvAnnotation   = '@'
	EvArray        = '['
)

// Annotation is one runtime-visible or runtime-invisible annotation
// (JVMS §4.7.16): an annotation type plus its element/value pairs.
type Annotation struct {
	TypeIndex         uint16
	ElementValuePairs []ElementValuePair
}

// ElementValuePair is one (element_name, value) entry in an annotation.
type ElementValuePair struct {
	ElementNameIndex uint16
	Value            ElementValue
}

// ElementValue is the closed tagged union an annotation element can hold:
// one of the 9 const-value kinds (8 primitives and String), an enum constant, a
// nested Class literal, a nested Annotation, or an Array of ElementValue.
type ElementValue struct {
	Tag byte

	// ConstValueIndex is valid for the 9 primitive/String tags.
	ConstValueIndex uint16

	// TypeNameIndex/ConstNameIndex are valid for EvEnumConstant.
	TypeNameIndex  uint16
	ConstNameIndex uint16

	// ClassInfoIndex is valid for EvClass.
	ClassInfoIndex uint16

	// NestedAnnotation is valid for EvAnnotation.
	NestedAnnotation *Annotation

	// Values is valid for EvArray.
	Values []ElementValue
}

func decodeAnnotation(r *Reader) (*Annotation, error) {
	typeIdx, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	count, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	pairs := make([]ElementValuePair, count)
	for i := range pairs {
		nameIdx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		value, err := decodeElementValue(r)
		if err != nil {
			return nil, err
		}
		pairs[i] = ElementValuePair{ElementNameIndex: nameIdx, Value: value}
	}
	return &Annotation{TypeIndex: typeIdx, ElementValuePairs: pairs}, nil
}

func encodeAnnotation(w *Writer, a *Annotation) {
	w.WriteU16(a.TypeIndex)
	w.WriteU16(uint16(len(a.ElementValuePairs)))
	for _, p := range a.ElementValuePairs {
		w.WriteU16(p.ElementNameIndex)
		encodeElementValue(w, p.Value)
	}
}

func decodeElementValue(r *Reader) (ElementValue, error) {
	tag, err := r.ReadU8()
	if err != nil {
		return ElementValue{}, err
	}
	switch tag {
	case EvByte, EvChar, EvDouble, EvFloat, EvInt, EvLong, EvShort, EvBoolean, EvString:
		idx, err := r.ReadU16()
		if err != nil {
			return ElementValue{}, err
		}
		return ElementValue{Tag: tag, ConstValueIndex: idx}, nil
	case EvEnumConstant:
		typeNameIdx, constNameIdx, err := readIndexPair(r)
		if err != nil {
			return ElementValue{}, err
		}
		return ElementValue{Tag: tag, TypeNameIndex: typeNameIdx, ConstNameIndex: constNameIdx}, nil
	case EvClass:
		idx, err := r.ReadU16()
		if err != nil {
			return ElementValue{}, err
		}
		return ElementValue{Tag: tag, ClassInfoIndex: idx}, nil
	case EvAnnotation:
		nested, err := decodeAnnotation(r)
		if err != nil {
			return ElementValue{}, err
		}
		return ElementValue{Tag: tag, NestedAnnotation: nested}, nil
	case EvArray:
		count, err := r.ReadU16()
		if err != nil {
			return ElementValue{}, err
		}
		values := make([]ElementValue, count)
		for i := range values {
			v, err := decodeElementValue(r)
			if err != nil {
				return ElementValue{}, err
			}
			values[i] = v
		}
		return ElementValue{Tag: tag, Values: values}, nil
	default:
		return ElementValue{}, &UnknownTagError{Context: "element_value", Value: int(tag)}
	}
}

func encodeElementValue(w *Writer, v ElementValue) {
	w.WriteU8(v.Tag)
	switch v.Tag {
	case EvByte, EvChar, EvDouble, EvFloat, EvInt, EvLong, EvShort, EvBoolean, EvString:
		w.WriteU16(v.ConstValueIndex)
	case EvEnumConstant:
		w.WriteU16(v.TypeNameIndex)
		w.WriteU16(v.ConstNameIndex)
	case EvClass:
		w.WriteU16(v.ClassInfoIndex)
	case EvAnnotation:
		encodeAnnotation(w, v.NestedAnnotation)
	case EvArray:
		w.WriteU16(uint16(len(v.Values)))
		for _, e := range v.Values {
			encodeElementValue(w, e)
		}
	}
}

// RuntimeVisibleAnnotationsAttribute lists a class/field/method's
// runtime-visible annotations.
type RuntimeVisibleAnnotationsAttribute struct {
	Annotations []Annotation
}

func (a *RuntimeVisibleAnnotationsAttribute) attributeName() string {
	return AttrRuntimeVisibleAnnotations
}
func (a *RuntimeVisibleAnnotationsAttribute) encode(w *Writer) { encodeAnnotations(w, a.Annotations) }

func decodeRuntimeVisibleAnnotations(r *Reader, _ *ConstantPool, _ *Options) (Attribute, error) {
	anns, err := decodeAnnotations(r)
	if err != nil {
		return nil, err
	}
	return &RuntimeVisibleAnnotationsAttribute{Annotations: anns}, nil
}

// RuntimeInvisibleAnnotationsAttribute lists a class/field/method's
// runtime-invisible annotations.
type RuntimeInvisibleAnnotationsAttribute struct {
	Annotations []Annotation
}

func (a *RuntimeInvisibleAnnotationsAttribute) attributeName() string {
	return AttrRuntimeInvisibleAnnotations
}
func (a *RuntimeInvisibleAnnotationsAttribute) encode(w *Writer) { encodeAnnotations(w, a.Annotations) }

func decodeRuntimeInvisibleAnnotations(r *Reader, _ *ConstantPool, _ *Options) (Attribute, error) {
	anns, err := decodeAnnotations(r)
	if err != nil {
		return nil, err
	}
	return &RuntimeInvisibleAnnotationsAttribute{Annotations: anns}, nil
}

func decodeAnnotations(r *Reader) ([]Annotation, error) {
	count, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	anns := make([]Annotation, count)
	for i := range anns {
		a, err := decodeAnnotation(r)
		if err != nil {
			return nil, err
		}
		anns[i] = *a
	}
	return anns, nil
}

func encodeAnnotations(w *Writer, anns []Annotation) {
	w.WriteU16(uint16(len(anns)))
	for i := range anns {
		encodeAnnotation(w, &anns[i])
	}
}

// RuntimeVisibleParameterAnnotationsAttribute lists, per formal parameter
// in declaration order, that parameter's runtime-visible annotations.
type RuntimeVisibleParameterAnnotationsAttribute struct {
	ParameterAnnotations [][]Annotation
}

func (a *RuntimeVisibleParameterAnnotationsAttribute) attributeName() string {
	return AttrRuntimeVisibleParameterAnnotations
}
func (a *RuntimeVisibleParameterAnnotationsAttribute) encode(w *Writer) {
	encodeParameterAnnotations(w, a.ParameterAnnotations)
}

func decodeRuntimeVisibleParameterAnnotations(r *Reader, _ *ConstantPool, _ *Options) (Attribute, error) {
	pas, err := decodeParameterAnnotations(r)
	if err != nil {
		return nil, err
	}
	return &RuntimeVisibleParameterAnnotationsAttribute{ParameterAnnotations: pas}, nil
}

// RuntimeInvisibleParameterAnnotationsAttribute is the runtime-invisible
// counterpart of RuntimeVisibleParameterAnnotationsAttribute.
type RuntimeInvisibleParameterAnnotationsAttribute struct {
	ParameterAnnotations [][]Annotation
}

func (a *RuntimeInvisibleParameterAnnotationsAttribute) attributeName() string {
	return AttrRuntimeInvisibleParameterAnnotations
}
func (a *RuntimeInvisibleParameterAnnotationsAttribute) encode(w *Writer) {
	encodeParameterAnnotations(w, a.ParameterAnnotations)
}

func decodeRuntimeInvisibleParameterAnnotations(r *Reader, _ *ConstantPool, _ *Options) (Attribute, error) {
	pas, err := decodeParameterAnnotations(r)
	if err != nil {
		return nil, err
	}
	return &RuntimeInvisibleParameterAnnotationsAttribute{ParameterAnnotations: pas}, nil
}

func decodeParameterAnnotations(r *Reader) ([][]Annotation, error) {
	numParams, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	out := make([][]Annotation, numParams)
	for i := range out {
		anns, err := decodeAnnotations(r)
		if err != nil {
			return nil, err
		}
		out[i] = anns
	}
	return out, nil
}

func encodeParameterAnnotations(w *Writer, pas [][]Annotation) {
	w.WriteU8(uint8(len(pas)))
	for _, anns := range pas {
		encodeAnnotations(w, anns)
	}
}

// AnnotationDefaultAttribute gives the default value of an annotation
// interface's element.
type AnnotationDefaultAttribute struct {
	DefaultValue ElementValue
}

func (a *AnnotationDefaultAttribute) attributeName() string { return AttrAnnotationDefault }
func (a *AnnotationDefaultAttribute) encode(w *Writer)      { encodeElementValue(w, a.DefaultValue) }

func decodeAnnotationDefault(r *Reader, _ *ConstantPool, _ *Options) (Attribute, error) {
	v, err := decodeElementValue(r)
	if err != nil {
		return nil, err
	}
	return &AnnotationDefaultAttribute{DefaultValue: v}, nil
}

// TypePathEntry is one step of a type_path, locating a type-annotated
// position inside a compound type (JVMS §4.7.20.2).
type TypePathEntry struct {
	TypePathKind      uint8
	TypeArgumentIndex uint8
}

// Type-path kinds.
const (
	TypePathArray        = 0
	TypePathNested       = 1
	TypePathWildcard     = 2
	TypePathTypeArgument = 3
)

func decodeTypePath(r *Reader) ([]TypePathEntry, error) {
	count, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	path := make([]TypePathEntry, count)
	for i := range path {
		kind, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		argIdx, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		path[i] = TypePathEntry{TypePathKind: kind, TypeArgumentIndex: argIdx}
	}
	return path, nil
}

func encodeTypePath(w *Writer, path []TypePathEntry) {
	w.WriteU8(uint8(len(path)))
	for _, e := range path {
		w.WriteU8(e.TypePathKind)
		w.WriteU8(e.TypeArgumentIndex)
	}
}

// TargetInfo is the closed tagged union of type_annotation target shapes
// (JVMS §4.7.20.1), discriminated by TypeAnnotation.TargetType's numeric
// range.
type TargetInfo struct {
	// TypeParameterIndex is valid for target_type 0x00, 0x01, 0x11, 0x12.
	TypeParameterIndex uint8
	// BoundIndex is valid for 0x11, 0x12 alongside TypeParameterIndex.
	BoundIndex uint8
	// SupertypeIndex is valid for 0x10 (0xFFFF denotes the extends clause).
	SupertypeIndex uint16
	// FormalParameterIndex is valid for 0x16.
	FormalParameterIndex uint8
	// ThrowsTypeIndex is valid for 0x17.
	ThrowsTypeIndex uint16
	// LocalVarTable is valid for 0x40, 0x41.
	LocalVarTable []LocalVarTargetEntry
	// ExceptionTableIndex is valid for 0x42.
	ExceptionTableIndex uint16
	// Offset is valid for 0x43 through 0x4B.
	Offset uint16
	// TypeArgumentIndex is valid for 0x47 through 0x4B alongside Offset.
	TypeArgumentIndex uint8
}

// LocalVarTargetEntry is one entry of a localvar_target table, naming the
// bytecode range and slot a local variable's type annotation covers.
type LocalVarTargetEntry struct {
	StartPC uint16
	Length  uint16
	Index   uint16
}

// Type annotation target_type values (JVMS §4.7.20.1), grouped by the
// TargetInfo shape they select.
const (
	TargetClassTypeParameter                = 0x00
	TargetMethodTypeParameter               = 0x01
	TargetSupertype                         = 0x10
	TargetClassTypeParameterBound           = 0x11
	TargetMethodTypeParameterBound          = 0x12
	TargetField                             = 0x13
	TargetReturn                            = 0x14
	TargetReceiver                          = 0x15
	TargetFormalParameter                   = 0x16
	TargetThrows                            = 0x17
	TargetLocalVariable                     = 0x40
	TargetResourceVariable                  = 0x41
	TargetExceptionParameter                = 0x42
	TargetInstanceof                        = 0x43
	TargetNew                               = 0x44
	TargetConstructorReference              = 0x45
	TargetMethodReference                   = 0x46
	TargetCast                              = 0x47
	TargetConstructorInvocationTypeArgument = 0x48
	TargetMethodInvocationTypeArgument      = 0x49
	TargetConstructorReferenceTypeArgument  = 0x4A
	TargetMethodReferenceTypeArgument       = 0x4B
)

func decodeTargetInfo(r *Reader, targetType uint16) (TargetInfo, error) {
	switch targetType {
	case TargetClassTypeParameter, TargetMethodTypeParameter:
		idx, err := r.ReadU8()
		return TargetInfo{TypeParameterIndex: idx}, err
	case TargetSupertype:
		idx, err := r.ReadU16()
		return TargetInfo{SupertypeIndex: idx}, err
	case TargetClassTypeParameterBound, TargetMethodTypeParameterBound:
		typeParamIdx, err := r.ReadU8()
		if err != nil {
			return TargetInfo{}, err
		}
		boundIdx, err := r.ReadU8()
		return TargetInfo{TypeParameterIndex: typeParamIdx, BoundIndex: boundIdx}, err
	case TargetField, TargetReturn, TargetReceiver:
		return TargetInfo{}, nil
	case TargetFormalParameter:
		idx, err := r.ReadU8()
		return TargetInfo{FormalParameterIndex: idx}, err
	case TargetThrows:
		idx, err := r.ReadU16()
		return TargetInfo{ThrowsTypeIndex: idx}, err
	case TargetLocalVariable, TargetResourceVariable:
		count, err := r.ReadU16()
		if err != nil {
			return TargetInfo{}, err
		}
		table := make([]LocalVarTargetEntry, count)
		for i := range table {
			startPC, err := r.ReadU16()
			if err != nil {
				return TargetInfo{}, err
			}
			length, err := r.ReadU16()
			if err != nil {
				return TargetInfo{}, err
			}
			index, err := r.ReadU16()
			if err != nil {
				return TargetInfo{}, err
			}
			table[i] = LocalVarTargetEntry{StartPC: startPC, Length: length, Index: index}
		}
		return TargetInfo{LocalVarTable: table}, nil
	case TargetExceptionParameter:
		idx, err := r.ReadU16()
		return TargetInfo{ExceptionTableIndex: idx}, err
	case TargetInstanceof, TargetNew, TargetConstructorReference, TargetMethodReference:
		offset, err := r.ReadU16()
		return TargetInfo{Offset: offset}, err
	case TargetCast, TargetConstructorInvocationTypeArgument, TargetMethodInvocationTypeArgument,
		TargetConstructorReferenceTypeArgument, TargetMethodReferenceTypeArgument:
		offset, err := r.ReadU16()
		if err != nil {
			return TargetInfo{}, err
		}
		typeArgIdx, err := r.ReadU8()
		return TargetInfo{Offset: offset, TypeArgumentIndex: typeArgIdx}, err
	default:
		return TargetInfo{}, &UnknownTagError{Context: "type_annotation target_type", Value: int(targetType)}
	}
}

func encodeTargetInfo(w *Writer, targetType uint16, t TargetInfo) {
	switch targetType {
	case TargetClassTypeParameter, TargetMethodTypeParameter:
		w.WriteU8(t.TypeParameterIndex)
	case TargetSupertype:
		w.WriteU16(t.SupertypeIndex)
	case TargetClassTypeParameterBound, TargetMethodTypeParameterBound:
		w.WriteU8(t.TypeParameterIndex)
		w.WriteU8(t.BoundIndex)
	case TargetField, TargetReturn, TargetReceiver:
	case TargetFormalParameter:
		w.WriteU8(t.FormalParameterIndex)
	case TargetThrows:
		w.WriteU16(t.ThrowsTypeIndex)
	case TargetLocalVariable, TargetResourceVariable:
		w.WriteU16(uint16(len(t.LocalVarTable)))
		for _, e := range t.LocalVarTable {
			w.WriteU16(e.StartPC)
			w.WriteU16(e.Length)
			w.WriteU16(e.Index)
		}
	case TargetExceptionParameter:
		w.WriteU16(t.ExceptionTableIndex)
	case TargetInstanceof, TargetNew, TargetConstructorReference, TargetMethodReference:
		w.WriteU16(t.Offset)
	case TargetCast, TargetConstructorInvocationTypeArgument, TargetMethodInvocationTypeArgument,
		TargetConstructorReferenceTypeArgument, TargetMethodReferenceTypeArgument:
		w.WriteU16(t.Offset)
		w.WriteU8(t.TypeArgumentIndex)
	}
}

// TypeAnnotation is one runtime-visible or runtime-invisible type
// annotation (JVMS §4.7.20): a target location (TargetType/TargetInfo), a
// TypePath locating the annotated position within a compound type, and
// the same (type, element/value pairs) payload as a plain Annotation.
type TypeAnnotation struct {
	TargetType        uint16
	TargetInfo        TargetInfo
	TypePath          []TypePathEntry
	TypeIndex         uint16
	ElementValuePairs []ElementValuePair
}

func decodeTypeAnnotation(r *Reader) (*TypeAnnotation, error) {
	targetType, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	targetInfo, err := decodeTargetInfo(r, targetType)
	if err != nil {
		return nil, err
	}
	path, err := decodeTypePath(r)
	if err != nil {
		return nil, err
	}
	typeIdx, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	count, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	pairs := make([]ElementValuePair, count)
	for i := range pairs {
		nameIdx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		value, err := decodeElementValue(r)
		if err != nil {
			return nil, err
		}
		pairs[i] = ElementValuePair{ElementNameIndex: nameIdx, Value: value}
	}
	return &TypeAnnotation{
		TargetType:        targetType,
		TargetInfo:        targetInfo,
		TypePath:          path,
		TypeIndex:         typeIdx,
		ElementValuePairs: pairs,
	}, nil
}

func encodeTypeAnnotation(w *Writer, a *TypeAnnotation) {
	w.WriteU16(a.TargetType)
	encodeTargetInfo(w, a.TargetType, a.TargetInfo)
	encodeTypePath(w, a.TypePath)
	w.WriteU16(a.TypeIndex)
	w.WriteU16(uint16(len(a.ElementValuePairs)))
	for _, p := range a.ElementValuePairs {
		w.WriteU16(p.ElementNameIndex)
		encodeElementValue(w, p.Value)
	}
}

// RuntimeVisibleTypeAnnotationsAttribute lists runtime-visible type
// annotations on a class, field, method, or Code body.
type RuntimeVisibleTypeAnnotationsAttribute struct {
	Annotations []TypeAnnotation
}

func (a *RuntimeVisibleTypeAnnotationsAttribute) attributeName() string {
	return AttrRuntimeVisibleTypeAnnotations
}
func (a *RuntimeVisibleTypeAnnotationsAttribute) encode(w *Writer) {
	encodeTypeAnnotations(w, a.Annotations)
}

func decodeRuntimeVisibleTypeAnnotations(r *Reader, _ *ConstantPool, _ *Options) (Attribute, error) {
	anns, err := decodeTypeAnnotations(r)
	if err != nil {
		return nil, err
	}
	return &RuntimeVisibleTypeAnnotationsAttribute{Annotations: anns}, nil
}

// RuntimeInvisibleTypeAnnotationsAttribute is the runtime-invisible
// counterpart of RuntimeVisibleTypeAnnotationsAttribute.
type RuntimeInvisibleTypeAnnotationsAttribute struct {
	Annotations []TypeAnnotation
}

func (a *RuntimeInvisibleTypeAnnotationsAttribute) attributeName() string {
	return AttrRuntimeInvisibleTypeAnnotations
}
func (a *RuntimeInvisibleTypeAnnotationsAttribute) encode(w *Writer) {
	encodeTypeAnnotations(w, a.Annotations)
}

func decodeRuntimeInvisibleTypeAnnotations(r *Reader, _ *ConstantPool, _ *Options) (Attribute, error) {
	anns, err := decodeTypeAnnotations(r)
	if err != nil {
		return nil, err
	}
	return &RuntimeInvisibleTypeAnnotationsAttribute{Annotations: anns}, nil
}

func decodeTypeAnnotations(r *Reader) ([]TypeAnnotation, error) {
	count, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	anns := make([]TypeAnnotation, count)
	for i := range anns {
		a, err := decodeTypeAnnotation(r)
		if err != nil {
			return nil, err
		}
		anns[i] = *a
	}
	return anns, nil
}

func encodeTypeAnnotations(w *Writer, anns []TypeAnnotation) {
	w.WriteU16(uint16(len(anns)))
	for i := range anns {
		encodeTypeAnnotation(w, &anns[i])
	}
}
