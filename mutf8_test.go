// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import (
	"bytes"
	"testing"
)

func TestModifiedUTF8EncodeDecodeRoundTrip(t *testing.T) {
	tests := []string{
		"",
		"Main",
		"java/lang/Object",
		"\x00",
		"café",
		"中文",
		"\U0001F600",
		"a\x00b\U0001F600c",
	}
	for _, s := range tests {
		raw, err := EncodeModifiedUTF8(s)
		if err != nil {
			t.Fatalf("EncodeModifiedUTF8(%q) failed: %v", s, err)
		}
		got, err := DecodeModifiedUTF8(raw)
		if err != nil {
			t.Fatalf("DecodeModifiedUTF8(% x) failed: %v", raw, err)
		}
		if got != s {
			t.Fatalf("round trip of %q produced %q", s, got)
		}
	}
}

func TestModifiedUTF8NulEncoding(t *testing.T) {
	raw, err := EncodeModifiedUTF8("\x00")
	if err != nil {
		t.Fatalf("EncodeModifiedUTF8() failed: %v", err)
	}
	if !bytes.Equal(raw, []byte{0xC0, 0x80}) {
		t.Fatalf("EncodeModifiedUTF8(NUL) = % x, want c0 80", raw)
	}
}

func TestModifiedUTF8SupplementaryIsSixBytes(t *testing.T) {
	raw, err := EncodeModifiedUTF8("\U0001F600")
	if err != nil {
		t.Fatalf("EncodeModifiedUTF8() failed: %v", err)
	}
	if len(raw) != 6 {
		t.Fatalf("len(EncodeModifiedUTF8(supplementary)) = %d, want 6", len(raw))
	}
}

func TestModifiedUTF8InvalidSequence(t *testing.T) {
	// A lone continuation byte with no lead byte.
	if _, err := DecodeModifiedUTF8([]byte{0x80}); err == nil {
		t.Fatalf("DecodeModifiedUTF8() succeeded on an invalid sequence, want error")
	}
}

func TestUTF8ConstantStringMemoized(t *testing.T) {
	raw, _ := EncodeModifiedUTF8("idempotent")
	c := &UTF8Constant{Raw: raw}
	first, err := c.String()
	if err != nil {
		t.Fatalf("String() failed: %v", err)
	}
	second, err := c.String()
	if err != nil {
		t.Fatalf("String() failed: %v", err)
	}
	if first != second || first != "idempotent" {
		t.Fatalf("String() = %q then %q, want idempotent both times", first, second)
	}
}
