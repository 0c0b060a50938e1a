// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package signature

import "github.com/cafebabe/classfile"

func mismatchedChar(l *lexer, got rune, ok bool, allowed string) error {
	if !ok {
		return &classfile.UnexpectedEndOfSignatureError{Context: "signature"}
	}
	return &classfile.MismatchedCharacterError{Got: got, Pos: l.position() - 1, Allowed: allowed}
}

func unexpectedEnd(context string) error {
	return &classfile.UnexpectedEndOfSignatureError{Context: context}
}

func isBaseType(r rune) bool {
	switch r {
	case 'Z', 'B', 'S', 'I', 'J', 'F', 'D':
		return true
	}
	return false
}

// DecodeClassSignature parses a class's Signature attribute value (JVMS
// §4.7.9.1): an optional type-parameter block, the super class, and zero
// or more interfaces.
func DecodeClassSignature(s string) (*ClassSignature, error) {
	l := newLexer(s)
	formals, err := parseFormalTypeParameters(l)
	if err != nil {
		return nil, err
	}
	super, err := parseClassTypeSig(l)
	if err != nil {
		return nil, err
	}
	var interfaces []*ClassType
	for !l.atEnd() {
		iface, err := parseClassTypeSig(l)
		if err != nil {
			return nil, err
		}
		interfaces = append(interfaces, iface)
	}
	return &ClassSignature{FormalParameters: formals, SuperClass: super, Interfaces: interfaces}, nil
}

// DecodeFieldSignature parses a field's Signature attribute value: a
// single ReferenceType.
func DecodeFieldSignature(s string) (*FieldSignature, error) {
	l := newLexer(s)
	ref, err := parseReferenceType(l)
	if err != nil {
		return nil, err
	}
	if !l.atEnd() {
		return nil, &classfile.TrailingBytesError{Context: "field signature", Count: len(l.remaining())}
	}
	return &FieldSignature{FieldType: ref}, nil
}

// DecodeMethodSignature parses a method's Signature attribute value: an
// optional FormalTypes block, parenthesised parameter types, a result
// type (JavaTypeSig or 'V'), and zero or more throws clauses.
func DecodeMethodSignature(s string) (*MethodSignature, error) {
	l := newLexer(s)
	formals, err := parseFormalTypeParameters(l)
	if err != nil {
		return nil, err
	}
	r, ok := l.next()
	if !ok || r != '(' {
		return nil, mismatchedChar(l, r, ok, "(")
	}
	var params []*JavaType
	for {
		r2, ok2 := l.peek()
		if ok2 && r2 == ')' {
			l.next()
			break
		}
		if !ok2 {
			return nil, unexpectedEnd("method parameter list")
		}
		p, err := parseJavaTypeSig(l)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}

	var ret *JavaType
	if r3, ok3 := l.peek(); ok3 && r3 == 'V' {
		l.next()
	} else {
		ret, err = parseJavaTypeSig(l)
		if err != nil {
			return nil, err
		}
	}

	var exceptions []*JavaType
	for !l.atEnd() {
		exc, err := parseThrowsSignature(l)
		if err != nil {
			return nil, err
		}
		exceptions = append(exceptions, exc)
	}

	return &MethodSignature{
		FormalParameters: formals,
		ParameterTypes:   params,
		ReturnType:       ret,
		ExceptionTypes:   exceptions,
	}, nil
}

func parseFormalTypeParameters(l *lexer) ([]FormalTypeParameter, error) {
	r, ok := l.peek()
	if !ok || r != '<' {
		return nil, nil
	}
	l.next()
	var params []FormalTypeParameter
	for {
		p, err := parseFormalTypeParameter(l)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
		r, ok := l.peek()
		if ok && r == '>' {
			l.next()
			break
		}
		if !ok {
			return nil, unexpectedEnd("formal type parameters")
		}
	}
	return params, nil
}

func parseFormalTypeParameter(l *lexer) (FormalTypeParameter, error) {
	name := l.readIdentifier()
	if name == "" {
		got, ok := l.next()
		return FormalTypeParameter{}, mismatchedChar(l, got, ok, "identifier")
	}
	r, ok := l.next()
	if !ok || r != ':' {
		return FormalTypeParameter{}, mismatchedChar(l, r, ok, ":")
	}

	var classBound *JavaType
	if r2, ok2 := l.peek(); ok2 && r2 == 'L' {
		ct, err := parseClassTypeSig(l)
		if err != nil {
			return FormalTypeParameter{}, err
		}
		classBound = &JavaType{Kind: KindClass, Class: ct}
	}

	var interfaceBounds []*JavaType
	for {
		r3, ok3 := l.peek()
		if !ok3 || r3 != ':' {
			break
		}
		l.next()
		ct, err := parseClassTypeSig(l)
		if err != nil {
			return FormalTypeParameter{}, err
		}
		interfaceBounds = append(interfaceBounds, &JavaType{Kind: KindClass, Class: ct})
	}

	return FormalTypeParameter{Name: name, ClassBound: classBound, InterfaceBounds: interfaceBounds}, nil
}

func parseThrowsSignature(l *lexer) (*JavaType, error) {
	r, ok := l.next()
	if !ok || r != '^' {
		return nil, mismatchedChar(l, r, ok, "^")
	}
	if r2, ok2 := l.peek(); ok2 && r2 == 'T' {
		l.next()
		name := l.readIdentifier()
		r3, ok3 := l.next()
		if !ok3 || r3 != ';' {
			return nil, mismatchedChar(l, r3, ok3, ";")
		}
		return &JavaType{Kind: KindTypeVariable, TypeVariable: name}, nil
	}
	ct, err := parseClassTypeSig(l)
	if err != nil {
		return nil, err
	}
	return &JavaType{Kind: KindClass, Class: ct}, nil
}

func parseJavaTypeSig(l *lexer) (*JavaType, error) {
	r, ok := l.peek()
	if !ok {
		return nil, unexpectedEnd("type signature")
	}
	if isBaseType(r) {
		l.next()
		return &JavaType{Kind: KindBaseType, Base: byte(r)}, nil
	}
	return parseReferenceType(l)
}

func parseReferenceType(l *lexer) (*JavaType, error) {
	r, ok := l.peek()
	if !ok {
		return nil, unexpectedEnd("reference type")
	}
	switch r {
	case 'L':
		ct, err := parseClassTypeSig(l)
		if err != nil {
			return nil, err
		}
		return &JavaType{Kind: KindClass, Class: ct}, nil
	case 'T':
		l.next()
		name := l.readIdentifier()
		r2, ok2 := l.next()
		if !ok2 || r2 != ';' {
			return nil, mismatchedChar(l, r2, ok2, ";")
		}
		return &JavaType{Kind: KindTypeVariable, TypeVariable: name}, nil
	case '[':
		l.next()
		component, err := parseJavaTypeSig(l)
		if err != nil {
			return nil, err
		}
		return &JavaType{Kind: KindArray, Component: component}, nil
	default:
		l.next()
		return nil, mismatchedChar(l, r, true, "L T [")
	}
}

func parseClassTypeSig(l *lexer) (*ClassType, error) {
	r, ok := l.next()
	if !ok || r != 'L' {
		return nil, mismatchedChar(l, r, ok, "L")
	}

	var pkg []string
	name := l.readIdentifier()
	for {
		r2, ok2 := l.peek()
		if ok2 && r2 == '/' {
			l.next()
			pkg = append(pkg, name)
			name = l.readIdentifier()
			continue
		}
		break
	}

	typeArgs, err := maybeParseTypeArgs(l)
	if err != nil {
		return nil, err
	}
	ct := &ClassType{PackageSpec: pkg, SimpleName: name, TypeArguments: typeArgs}

	for {
		r3, ok3 := l.peek()
		if !ok3 || r3 != '.' {
			break
		}
		l.next()
		innerName := l.readIdentifier()
		innerArgs, err := maybeParseTypeArgs(l)
		if err != nil {
			return nil, err
		}
		ct.Suffixes = append(ct.Suffixes, ClassTypeSuffix{Name: innerName, TypeArguments: innerArgs})
	}

	r4, ok4 := l.next()
	if !ok4 || r4 != ';' {
		return nil, mismatchedChar(l, r4, ok4, ";")
	}
	return ct, nil
}

func maybeParseTypeArgs(l *lexer) ([]TypeArgument, error) {
	r, ok := l.peek()
	if !ok || r != '<' {
		return nil, nil
	}
	l.next()
	var args []TypeArgument
	for {
		r2, ok2 := l.peek()
		if ok2 && r2 == '>' {
			l.next()
			break
		}
		if !ok2 {
			return nil, unexpectedEnd("type arguments")
		}
		arg, err := parseTypeArgument(l)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return args, nil
}

func parseTypeArgument(l *lexer) (TypeArgument, error) {
	r, ok := l.peek()
	if ok && r == '*' {
		l.next()
		return TypeArgument{IsWildcard: true}, nil
	}
	indicator := InstanceOf
	if ok && (r == '+' || r == '-') {
		l.next()
		if r == '+' {
			indicator = Extends
		} else {
			indicator = Super
		}
	}
	ref, err := parseReferenceType(l)
	if err != nil {
		return TypeArgument{}, err
	}
	return TypeArgument{Indicator: indicator, Bound: ref}, nil
}
