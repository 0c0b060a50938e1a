// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package signature implements the generics-aware Signature grammar
// (JVMS §4.7.9.1): a textual extension of the field/method descriptor
// grammar that preserves type parameters, type arguments, and bounds
// erased from the descriptor at compile time.
package signature

// TypeKind discriminates the four shapes a JavaTypeSignature can take.
type TypeKind int

const (
	KindBaseType TypeKind = iota
	KindArray
	KindClass
	KindTypeVariable
)

// JavaType is a parsed JavaTypeSig: either a primitive BaseType, an array
// of JavaType, a ClassType, or a TypeVariable reference by name.
type JavaType struct {
	Kind         TypeKind
	Base         byte      // valid when Kind == KindBaseType: one of Z B S I J F D
	Component    *JavaType // valid when Kind == KindArray
	Class        *ClassType
	TypeVariable string // valid when Kind == KindTypeVariable
}

// ClassType is a parsed ClassTypeSig: a package-qualified class name,
// its own type arguments, and a chain of inner-class suffixes each
// carrying their own type arguments (for `Outer<T>.Inner<U>`-shaped
// signatures).
type ClassType struct {
	PackageSpec   []string
	SimpleName    string
	TypeArguments []TypeArgument
	Suffixes      []ClassTypeSuffix
}

// ClassTypeSuffix is one `.Inner<...>` segment following a ClassType's
// top-level name.
type ClassTypeSuffix struct {
	Name          string
	TypeArguments []TypeArgument
}

// WildcardIndicator selects a TypeArgument's variance.
type WildcardIndicator int

const (
	// InstanceOf is the absent-indicator case: an exact type argument.
	InstanceOf WildcardIndicator = iota
	Extends
	Super
)

// TypeArgument is one entry of a TypeArgs list: either the unbounded
// wildcard '*', or a (possibly variant-bounded) ReferenceType.
type TypeArgument struct {
	IsWildcard bool // true for the bare '*' case; Indicator/Bound are unused then
	Indicator  WildcardIndicator
	Bound      *JavaType
}

// FormalTypeParameter is one `Identifier ClassBound InterfaceBound*`
// entry of a FormalTypes list.
type FormalTypeParameter struct {
	Name            string
	ClassBound      *JavaType // nil when the optional ClassTypeSig after ':' is absent
	InterfaceBounds []*JavaType
}

// ClassSignature is the top-level Signature case for a class or
// interface declaration.
type ClassSignature struct {
	FormalParameters []FormalTypeParameter
	SuperClass       *ClassType
	Interfaces       []*ClassType
}

// FieldSignature is the top-level Signature case for a field or record
// component declaration.
type FieldSignature struct {
	FieldType *JavaType
}

// MethodSignature is the top-level Signature case for a method or
// constructor declaration.
type MethodSignature struct {
	FormalParameters []FormalTypeParameter
	ParameterTypes   []*JavaType
	ReturnType       *JavaType // nil denotes 'V' (void)
	ExceptionTypes   []*JavaType
}
