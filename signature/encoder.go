// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package signature

import "strings"

// typeLevel tracks whether the ClassType currently being written by a
// TypeWriter has an open '<...>' type-argument group, so that closing it
// (End, or moving to the next inner-class suffix) never forgets the
// matching '>'.
type typeLevel struct {
	argsOpen bool
}

// TypeWriter is the streaming sub-builder every signature-builder entry
// point hands back: a sequence of calls describing one JavaTypeSig,
// emitted directly to the owning builder's buffer. Its stack holds one
// typeLevel per currently-open ClassType, so a type argument that is
// itself a bounded class type (e.g. `Comparable<? extends Number>`)
// nests correctly.
type TypeWriter struct {
	buf   *strings.Builder
	stack []typeLevel
}

// BaseType writes a single primitive type character (Z B S I J F D).
func (t *TypeWriter) BaseType(b byte) {
	t.buf.WriteByte(b)
}

// Array begins an array type; the next call on t describes the
// component type.
func (t *TypeWriter) Array() *TypeWriter {
	t.buf.WriteByte('[')
	return t
}

// ClassType begins a class type, opening a new type-argument level.
// binaryName is package-qualified with '/' separators and no leading
// 'L' or trailing ';' (e.g. "java/lang/Object").
func (t *TypeWriter) ClassType(binaryName string) *TypeWriter {
	t.buf.WriteByte('L')
	t.buf.WriteString(binaryName)
	t.stack = append(t.stack, typeLevel{})
	return t
}

// InnerClassType appends a `.Name` suffix to the class type currently
// being written, closing that class type's open argument group first if
// one was started.
func (t *TypeWriter) InnerClassType(name string) *TypeWriter {
	t.closeArgsIfOpen()
	t.buf.WriteByte('.')
	t.buf.WriteString(name)
	return t
}

// TypeVariable writes a complete `Tname;` type-variable reference. It
// does not open a stack level: a type variable has no arguments and
// needs no End().
func (t *TypeWriter) TypeVariable(name string) {
	t.buf.WriteByte('T')
	t.buf.WriteString(name)
	t.buf.WriteByte(';')
}

// TypeArgument opens the current class type's argument group if not
// already open and writes indicator's prefix ('+' for Extends, '-' for
// Super, nothing for InstanceOf). The caller follows with further
// TypeWriter calls describing the bound.
func (t *TypeWriter) TypeArgument(indicator WildcardIndicator) *TypeWriter {
	t.openArgsIfNeeded()
	switch indicator {
	case Extends:
		t.buf.WriteByte('+')
	case Super:
		t.buf.WriteByte('-')
	}
	return t
}

// Wildcard writes a complete unbounded '*' type argument.
func (t *TypeWriter) Wildcard() {
	t.openArgsIfNeeded()
	t.buf.WriteByte('*')
}

// End closes the innermost open class type: its argument group if one
// was opened, then the trailing ';', popping one stack level.
func (t *TypeWriter) End() {
	t.closeArgsIfOpen()
	t.buf.WriteByte(';')
	if len(t.stack) > 0 {
		t.stack = t.stack[:len(t.stack)-1]
	}
}

func (t *TypeWriter) openArgsIfNeeded() {
	if len(t.stack) == 0 {
		return
	}
	top := &t.stack[len(t.stack)-1]
	if !top.argsOpen {
		t.buf.WriteByte('<')
		top.argsOpen = true
	}
}

func (t *TypeWriter) closeArgsIfOpen() {
	if len(t.stack) == 0 {
		return
	}
	top := &t.stack[len(t.stack)-1]
	if top.argsOpen {
		t.buf.WriteByte('>')
		top.argsOpen = false
	}
}

// FormalBoundWriter writes one formal type parameter's class bound and
// interface bounds, following the ':' the owning builder already wrote
// after the parameter's name.
type FormalBoundWriter struct {
	buf *strings.Builder
}

// ClassBound returns a TypeWriter for the (optional) ClassTypeSig
// following the first ':'. Skip this call entirely for a formal
// parameter whose class bound is absent (e.g. `<T::Ljava/lang/Comparable;>`).
func (f *FormalBoundWriter) ClassBound() *TypeWriter {
	return &TypeWriter{buf: f.buf}
}

// InterfaceBound writes the ':' introducing one more interface bound and
// returns a TypeWriter for its ClassTypeSig.
func (f *FormalBoundWriter) InterfaceBound() *TypeWriter {
	f.buf.WriteByte(':')
	return &TypeWriter{buf: f.buf}
}

// ClassSignatureBuilder assembles a class's Signature attribute value:
// FormalParameter(name)* then SuperClass() then Interface()*.
type ClassSignatureBuilder struct {
	buf         strings.Builder
	formalsOpen bool
}

// NewClassSignatureBuilder returns an empty ClassSignatureBuilder.
func NewClassSignatureBuilder() *ClassSignatureBuilder {
	return &ClassSignatureBuilder{}
}

// FormalParameter begins one `Name:` formal type parameter, opening the
// enclosing '<...>' group on the first call.
func (b *ClassSignatureBuilder) FormalParameter(name string) *FormalBoundWriter {
	if !b.formalsOpen {
		b.buf.WriteByte('<')
		b.formalsOpen = true
	}
	b.buf.WriteString(name)
	b.buf.WriteByte(':')
	return &FormalBoundWriter{buf: &b.buf}
}

// SuperClass closes the formal-parameter group if one was opened and
// returns a TypeWriter for the super class's ClassTypeSig.
func (b *ClassSignatureBuilder) SuperClass() *TypeWriter {
	if b.formalsOpen {
		b.buf.WriteByte('>')
		b.formalsOpen = false
	}
	return &TypeWriter{buf: &b.buf}
}

// Interface returns a TypeWriter for one more implemented interface's
// ClassTypeSig.
func (b *ClassSignatureBuilder) Interface() *TypeWriter {
	return &TypeWriter{buf: &b.buf}
}

// String returns the assembled signature text.
func (b *ClassSignatureBuilder) String() string {
	return b.buf.String()
}

// FieldSignatureBuilder assembles a field's Signature attribute value: a
// single FieldType() call.
type FieldSignatureBuilder struct {
	buf strings.Builder
}

// NewFieldSignatureBuilder returns an empty FieldSignatureBuilder.
func NewFieldSignatureBuilder() *FieldSignatureBuilder {
	return &FieldSignatureBuilder{}
}

// FieldType returns a TypeWriter for the field's ReferenceType.
func (b *FieldSignatureBuilder) FieldType() *TypeWriter {
	return &TypeWriter{buf: &b.buf}
}

// String returns the assembled signature text.
func (b *FieldSignatureBuilder) String() string {
	return b.buf.String()
}

// MethodSignatureBuilder assembles a method's Signature attribute value:
// FormalParameter(name)* then Parameter()* then ReturnType() (or
// ReturnVoid()) then ExceptionType()*.
type MethodSignatureBuilder struct {
	buf             strings.Builder
	formalsOpen     bool
	wroteOpenParen  bool
	wroteCloseParen bool
}

// NewMethodSignatureBuilder returns an empty MethodSignatureBuilder.
func NewMethodSignatureBuilder() *MethodSignatureBuilder {
	return &MethodSignatureBuilder{}
}

// FormalParameter begins one `Name:` formal type parameter, opening the
// enclosing '<...>' group on the first call. Must precede any Parameter
// call.
func (b *MethodSignatureBuilder) FormalParameter(name string) *FormalBoundWriter {
	if !b.formalsOpen {
		b.buf.WriteByte('<')
		b.formalsOpen = true
	}
	b.buf.WriteString(name)
	b.buf.WriteByte(':')
	return &FormalBoundWriter{buf: &b.buf}
}

func (b *MethodSignatureBuilder) openParamList() {
	if b.formalsOpen {
		b.buf.WriteByte('>')
		b.formalsOpen = false
	}
	if !b.wroteOpenParen {
		b.buf.WriteByte('(')
		b.wroteOpenParen = true
	}
}

func (b *MethodSignatureBuilder) closeParamList() {
	b.openParamList()
	if !b.wroteCloseParen {
		b.buf.WriteByte(')')
		b.wroteCloseParen = true
	}
}

// Parameter returns a TypeWriter for one more parameter's JavaTypeSig.
func (b *MethodSignatureBuilder) Parameter() *TypeWriter {
	b.openParamList()
	return &TypeWriter{buf: &b.buf}
}

// ReturnType closes the parameter list and returns a TypeWriter for the
// method's non-void result type.
func (b *MethodSignatureBuilder) ReturnType() *TypeWriter {
	b.closeParamList()
	return &TypeWriter{buf: &b.buf}
}

// ReturnVoid closes the parameter list and writes the 'V' result.
func (b *MethodSignatureBuilder) ReturnVoid() {
	b.closeParamList()
	b.buf.WriteByte('V')
}

// ExceptionType writes the '^' introducing one more throws clause and
// returns a TypeWriter for its ClassTypeSig or TypeVariable.
func (b *MethodSignatureBuilder) ExceptionType() *TypeWriter {
	b.buf.WriteByte('^')
	return &TypeWriter{buf: &b.buf}
}

// String returns the assembled signature text.
func (b *MethodSignatureBuilder) String() string {
	return b.buf.String()
}

func classTypeBinaryName(ct *ClassType) string {
	if len(ct.PackageSpec) == 0 {
		return ct.SimpleName
	}
	return strings.Join(ct.PackageSpec, "/") + "/" + ct.SimpleName
}

func writeTypeArguments(tw *TypeWriter, args []TypeArgument) {
	for _, a := range args {
		if a.IsWildcard {
			tw.Wildcard()
			continue
		}
		writeJavaType(tw.TypeArgument(a.Indicator), a.Bound)
	}
}

func writeClassType(tw *TypeWriter, ct *ClassType) {
	tw = tw.ClassType(classTypeBinaryName(ct))
	writeTypeArguments(tw, ct.TypeArguments)
	for _, sfx := range ct.Suffixes {
		tw = tw.InnerClassType(sfx.Name)
		writeTypeArguments(tw, sfx.TypeArguments)
	}
	tw.End()
}

func writeJavaType(tw *TypeWriter, t *JavaType) {
	switch t.Kind {
	case KindBaseType:
		tw.BaseType(t.Base)
	case KindArray:
		writeJavaType(tw.Array(), t.Component)
	case KindTypeVariable:
		tw.TypeVariable(t.TypeVariable)
	case KindClass:
		writeClassType(tw, t.Class)
	}
}

func writeFormalParameter(fb *FormalBoundWriter, fp FormalTypeParameter) {
	if fp.ClassBound != nil {
		writeJavaType(fb.ClassBound(), fp.ClassBound)
	}
	for _, ib := range fp.InterfaceBounds {
		writeJavaType(fb.InterfaceBound(), ib)
	}
}

// String renders the signature back to its textual form by replaying it
// through ClassSignatureBuilder; decoding the result yields an equal
// value.
func (s *ClassSignature) String() string {
	b := NewClassSignatureBuilder()
	for _, fp := range s.FormalParameters {
		writeFormalParameter(b.FormalParameter(fp.Name), fp)
	}
	writeClassType(b.SuperClass(), s.SuperClass)
	for _, iface := range s.Interfaces {
		writeClassType(b.Interface(), iface)
	}
	return b.String()
}

// String renders the signature back to its textual form.
func (s *FieldSignature) String() string {
	b := NewFieldSignatureBuilder()
	writeJavaType(b.FieldType(), s.FieldType)
	return b.String()
}

// String renders the signature back to its textual form.
func (s *MethodSignature) String() string {
	b := NewMethodSignatureBuilder()
	for _, fp := range s.FormalParameters {
		writeFormalParameter(b.FormalParameter(fp.Name), fp)
	}
	for _, p := range s.ParameterTypes {
		writeJavaType(b.Parameter(), p)
	}
	if s.ReturnType == nil {
		b.ReturnVoid()
	} else {
		writeJavaType(b.ReturnType(), s.ReturnType)
	}
	for _, exc := range s.ExceptionTypes {
		writeJavaType(b.ExceptionType(), exc)
	}
	return b.String()
}
