// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import "testing"

func TestDecodeAccessFlagsMasksUnknownBits(t *testing.T) {
	tests := []struct {
		name  string
		owner FlagOwner
		raw   uint16
		want  AccessFlags
	}{
		{"class public+super", OwnerClass, 0x0021, ClassAccPublic | ClassAccSuper},
		{"class discards field-only bit", OwnerClass, 0x0001 | 0x0002, ClassAccPublic},
		{"field public+static", OwnerField, 0x0009, FieldAccPublic | FieldAccStatic},
		{"method abstract", OwnerMethod, 0x0401, MethodAccPublic | MethodAccAbstract},
		{"parameter mandated", OwnerParameter, 0x8010, ParameterAccFinal | ParameterAccMandated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWriter()
			w.WriteU16(tt.raw)
			r := NewReader(w.Bytes())
			got, err := DecodeAccessFlags(r, tt.owner)
			if err != nil {
				t.Fatalf("DecodeAccessFlags() failed: %v", err)
			}
			if got != tt.want {
				t.Fatalf("DecodeAccessFlags() = %#x, want %#x", uint16(got), uint16(tt.want))
			}
		})
	}
}

func TestAccessFlagsHas(t *testing.T) {
	flags := ClassAccPublic | ClassAccSuper
	if !flags.Has(ClassAccPublic) {
		t.Errorf("Has(ClassAccPublic) = false, want true")
	}
	if flags.Has(ClassAccFinal) {
		t.Errorf("Has(ClassAccFinal) = true, want false")
	}
}

func TestAccessFlagsEncodeRoundTrip(t *testing.T) {
	flags := MethodAccPublic | MethodAccStatic | MethodAccFinal
	w := NewWriter()
	flags.Encode(w)
	r := NewReader(w.Bytes())
	got, err := DecodeAccessFlags(r, OwnerMethod)
	if err != nil {
		t.Fatalf("DecodeAccessFlags() failed: %v", err)
	}
	if got != flags {
		t.Fatalf("round trip = %#x, want %#x", uint16(got), uint16(flags))
	}
}

func TestMask(t *testing.T) {
	if Mask(OwnerExportsOpens) != (ExportsAccSynthetic | ExportsAccMandated) {
		t.Errorf("Mask(OwnerExportsOpens) = %#x, want %#x",
			uint16(Mask(OwnerExportsOpens)), uint16(ExportsAccSynthetic|ExportsAccMandated))
	}
}
