// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import "strings"

// IsValidUnqualifiedName reports whether s may appear as a field or
// local variable name (JVMS §4.2.2): non-empty, and free of '.', ';',
// '[' and '/'.
func IsValidUnqualifiedName(s string) bool {
	if s == "" {
		return false
	}
	return !strings.ContainsAny(s, ".;[/")
}

// IsValidMethodName reports whether s may appear as a method name (JVMS
// §4.2.2): like IsValidUnqualifiedName, but also forbids '<' and '>'
// except for the two special names <init> and <clinit>.
func IsValidMethodName(s string) bool {
	if s == "<init>" || s == "<clinit>" {
		return true
	}
	if !IsValidUnqualifiedName(s) {
		return false
	}
	return !strings.ContainsAny(s, "<>")
}

// FieldTypeKind discriminates the three shapes a field descriptor can
// take (JVMS §4.3.2).
type FieldTypeKind int

const (
	FieldTypeBase FieldTypeKind = iota
	FieldTypeObject
	FieldTypeArray
)

// FieldType is a parsed field (or component) descriptor.
type FieldType struct {
	Kind      FieldTypeKind
	Base      byte       // valid when Kind == FieldTypeBase: one of B C D F I J S Z
	ClassName string     // valid when Kind == FieldTypeObject: the binary class name
	Component *FieldType // valid when Kind == FieldTypeArray
}

// String renders the descriptor back to its textual form.
func (t *FieldType) String() string {
	switch t.Kind {
	case FieldTypeBase:
		return string(t.Base)
	case FieldTypeObject:
		return "L" + t.ClassName + ";"
	case FieldTypeArray:
		return "[" + t.Component.String()
	default:
		return ""
	}
}

func isBaseTypeChar(b byte) bool {
	switch b {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z':
		return true
	}
	return false
}

// ParseFieldDescriptor parses a single field descriptor, e.g. "I",
// "Ljava/lang/String;", or "[[I" (JVMS §4.3.2).
func ParseFieldDescriptor(s string) (*FieldType, error) {
	t, rest, err := parseFieldType(s)
	if err != nil {
		return nil, err
	}
	if rest != "" {
		return nil, &TrailingBytesError{Context: "field descriptor", Count: len(rest)}
	}
	return t, nil
}

func parseFieldType(s string) (*FieldType, string, error) {
	if s == "" {
		return nil, "", &UnexpectedEndOfSignatureError{Context: "field descriptor"}
	}
	switch {
	case isBaseTypeChar(s[0]):
		return &FieldType{Kind: FieldTypeBase, Base: s[0]}, s[1:], nil
	case s[0] == 'L':
		end := strings.IndexByte(s, ';')
		if end < 0 {
			return nil, "", &UnexpectedEndOfSignatureError{Context: "object type descriptor"}
		}
		return &FieldType{Kind: FieldTypeObject, ClassName: s[1:end]}, s[end+1:], nil
	case s[0] == '[':
		component, rest, err := parseFieldType(s[1:])
		if err != nil {
			return nil, "", err
		}
		return &FieldType{Kind: FieldTypeArray, Component: component}, rest, nil
	default:
		return nil, "", &MismatchedCharacterError{Got: rune(s[0]), Pos: 0, Allowed: "B C D F I J S Z L ["}
	}
}

// MethodType is a parsed method descriptor: an ordered list of parameter
// types and a return type (nil Return means void, JVMS §4.3.3).
type MethodType struct {
	Parameters []*FieldType
	Return     *FieldType
}

// String renders the descriptor back to its textual form.
func (m *MethodType) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for _, p := range m.Parameters {
		b.WriteString(p.String())
	}
	b.WriteByte(')')
	if m.Return == nil {
		b.WriteByte('V')
	} else {
		b.WriteString(m.Return.String())
	}
	return b.String()
}

// ParseMethodDescriptor parses a method descriptor, e.g.
// "(ILjava/lang/String;)Z" (JVMS §4.3.3).
func ParseMethodDescriptor(s string) (*MethodType, error) {
	if s == "" || s[0] != '(' {
		return nil, &MismatchedCharacterError{Got: firstRune(s), Pos: 0, Allowed: "("}
	}
	rest := s[1:]
	var params []*FieldType
	for rest != "" && rest[0] != ')' {
		t, next, err := parseFieldType(rest)
		if err != nil {
			return nil, err
		}
		params = append(params, t)
		rest = next
	}
	if rest == "" {
		return nil, &UnexpectedEndOfSignatureError{Context: "method descriptor parameter list"}
	}
	rest = rest[1:] // consume ')'
	if rest == "V" {
		return &MethodType{Parameters: params, Return: nil}, nil
	}
	ret, trailing, err := parseFieldType(rest)
	if err != nil {
		return nil, err
	}
	if trailing != "" {
		return nil, &TrailingBytesError{Context: "method descriptor", Count: len(trailing)}
	}
	return &MethodType{Parameters: params, Return: ret}, nil
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}
