// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package signature

import "testing"

// TestClassSignatureBuilderRoundTrip assembles a generic class signature
// with ClassSignatureBuilder and checks the emitted text decodes back to
// an equal value.
func TestClassSignatureBuilderRoundTrip(t *testing.T) {
	const want = "<T:Ljava/lang/Object;>Ljava/lang/Object;Ljava/lang/Runnable;"

	b := NewClassSignatureBuilder()
	b.FormalParameter("T").ClassBound().ClassType("java/lang/Object").End()
	b.SuperClass().ClassType("java/lang/Object").End()
	b.Interface().ClassType("java/lang/Runnable").End()

	if got := b.String(); got != want {
		t.Fatalf("ClassSignatureBuilder.String() = %q, want %q", got, want)
	}

	decoded, err := DecodeClassSignature(b.String())
	if err != nil {
		t.Fatalf("DecodeClassSignature() of rebuilt text failed: %v", err)
	}
	if decoded.SuperClass.SimpleName != "Object" || len(decoded.Interfaces) != 1 {
		t.Fatalf("round-tripped ClassSignature = %+v, unexpected shape", decoded)
	}
}

// TestFieldSignatureBuilderTypeVariable covers the bare type-variable
// field signature.
func TestFieldSignatureBuilderTypeVariable(t *testing.T) {
	b := NewFieldSignatureBuilder()
	b.FieldType().TypeVariable("T")
	if got, want := b.String(), "TT;"; got != want {
		t.Fatalf("FieldSignatureBuilder.String() = %q, want %q", got, want)
	}
}

// TestMethodSignatureBuilderRoundTrip assembles a generic method
// signature with a throws clause and checks it decodes back.
func TestMethodSignatureBuilderRoundTrip(t *testing.T) {
	const want = "<T:Ljava/lang/Object;>(Z[[ZTT;)Ljava/lang/Object;^Ljava/lang/Exception;"

	b := NewMethodSignatureBuilder()
	b.FormalParameter("T").ClassBound().ClassType("java/lang/Object").End()
	b.Parameter().BaseType('Z')
	b.Parameter().Array().Array().BaseType('Z')
	b.Parameter().TypeVariable("T")
	b.ReturnType().ClassType("java/lang/Object").End()
	b.ExceptionType().ClassType("java/lang/Exception").End()

	if got := b.String(); got != want {
		t.Fatalf("MethodSignatureBuilder.String() = %q, want %q", got, want)
	}

	decoded, err := DecodeMethodSignature(b.String())
	if err != nil {
		t.Fatalf("DecodeMethodSignature() of rebuilt text failed: %v", err)
	}
	if len(decoded.ParameterTypes) != 3 || decoded.ReturnType == nil {
		t.Fatalf("round-tripped MethodSignature = %+v, unexpected shape", decoded)
	}
}

// TestMethodSignatureBuilderVoidReturn covers the 'V' result case and the
// no-parameters case together.
func TestMethodSignatureBuilderVoidReturn(t *testing.T) {
	b := NewMethodSignatureBuilder()
	b.ReturnVoid()
	if got, want := b.String(), "()V"; got != want {
		t.Fatalf("MethodSignatureBuilder.String() = %q, want %q", got, want)
	}
}

// TestTypeWriterWildcardsAndInnerClass rebuilds a wildcard/inner-class
// shape and checks it decodes back to an equivalent structure.
func TestTypeWriterWildcardsAndInnerClass(t *testing.T) {
	b := NewFieldSignatureBuilder()
	tw := b.FieldType().ClassType("java/util/AbstractList")
	tw.TypeArgument(InstanceOf).ClassType("java/lang/String").End()
	tw = tw.InnerClassType("Inner")
	tw.TypeArgument(Super).ClassType("java/lang/Integer").End()
	tw.Wildcard()
	tw.End()

	const want = "Ljava/util/AbstractList<Ljava/lang/String;>.Inner<-Ljava/lang/Integer;*>;"
	if got := b.String(); got != want {
		t.Fatalf("FieldSignatureBuilder.String() = %q, want %q", got, want)
	}

	decoded, err := DecodeFieldSignature(b.String())
	if err != nil {
		t.Fatalf("DecodeFieldSignature() of rebuilt text failed: %v", err)
	}
	ct := decoded.FieldType.Class
	if ct.SimpleName != "AbstractList" || len(ct.Suffixes) != 1 || ct.Suffixes[0].Name != "Inner" {
		t.Fatalf("round-tripped FieldSignature = %+v, unexpected shape", decoded)
	}
}

// TestSignatureStringRoundTrip checks that every accepted signature
// re-renders to exactly the text it was decoded from.
func TestSignatureStringRoundTrip(t *testing.T) {
	classSigs := []string{
		"Ljava/lang/Object;",
		"<T:Ljava/lang/Object;>Ljava/lang/Object;Ljava/lang/Runnable;",
		"<K:Ljava/lang/Object;V::Ljava/lang/Comparable<TK;>;>Ljava/util/AbstractMap<TK;TV;>;",
		"Ljava/util/AbstractList<Ljava/lang/String;>.Inner<-Ljava/lang/Integer;*>;",
	}
	for _, in := range classSigs {
		decoded, err := DecodeClassSignature(in)
		if err != nil {
			t.Fatalf("DecodeClassSignature(%q) failed: %v", in, err)
		}
		if got := decoded.String(); got != in {
			t.Errorf("ClassSignature.String() = %q, want %q", got, in)
		}
	}

	fieldSigs := []string{
		"TT;",
		"[[Z",
		"Ljava/util/List<+Ljava/lang/Number;>;",
		"[Ljava/util/Map<Ljava/lang/String;*>;",
	}
	for _, in := range fieldSigs {
		decoded, err := DecodeFieldSignature(in)
		if err != nil {
			t.Fatalf("DecodeFieldSignature(%q) failed: %v", in, err)
		}
		if got := decoded.String(); got != in {
			t.Errorf("FieldSignature.String() = %q, want %q", got, in)
		}
	}

	methodSigs := []string{
		"()V",
		"(I)Ljava/lang/String;",
		"<T:Ljava/lang/Object;>(Z[[ZTT;)Ljava/lang/Object;^Ljava/lang/Exception;",
		"<X:Ljava/lang/Throwable;>()V^TX;",
	}
	for _, in := range methodSigs {
		decoded, err := DecodeMethodSignature(in)
		if err != nil {
			t.Fatalf("DecodeMethodSignature(%q) failed: %v", in, err)
		}
		if got := decoded.String(); got != in {
			t.Errorf("MethodSignature.String() = %q, want %q", got, in)
		}
	}
}
