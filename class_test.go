// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import "testing"

// TestDecodeClassEmptyPool checks that a header followed by an empty
// constant pool decodes to V8 and re-encodes byte-for-byte identical to
// the input.
func TestDecodeClassEmptyPool(t *testing.T) {
	// Pad out a minimal valid tail so Decode succeeds: this_class must be
	// non-zero (though unresolved against the empty pool, which the
	// permissive default allows), and every table that follows must be
	// present even if empty.
	data := []byte{
		0xCA, 0xFE, 0xBA, 0xBE, // magic
		0x00, 0x00, 0x00, 0x34, // minor 0, major 52 (V8)
		0x00, 0x01, // constant_pool_count: empty pool
		0x00, 0x00, // access_flags
		0x00, 0x01, // this_class = 1 (unresolved, permissive)
	}
	data = append(data,
		0x00, 0x00, // super_class
		0x00, 0x00, // interfaces_count
		0x00, 0x00, // fields_count
		0x00, 0x00, // methods_count
		0x00, 0x00, // attributes_count
	)

	c, err := Decode(data, nil)
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if c.Version != V8 {
		t.Fatalf("Version = %+v, want V8", c.Version)
	}
	if c.ConstantPool.Count() != 1 {
		t.Fatalf("ConstantPool.Count() = %d, want 1 (empty)", c.ConstantPool.Count())
	}

	reencoded := c.Encode()
	if string(reencoded) != string(data) {
		t.Fatalf("Encode() = % x, want % x", reencoded, data)
	}
}

// TestDecodeClassMinimal covers the smallest useful class: Main extends
// java.lang.Object, access flags Public|Super, no members.
func TestDecodeClassMinimal(t *testing.T) {
	w := NewWriter()
	w.WriteU32(ClassMagic)
	w.WriteU16(0)  // minor
	w.WriteU16(61) // major: V17
	w.WriteU16(5)  // constant_pool_count: 4 entries + 1

	// #1 Utf8 "Main"
	w.WriteU8(TagUTF8)
	w.WriteU16(4)
	w.Extend([]byte("Main"))
	// #2 Class -> #1
	w.WriteU8(TagClass)
	w.WriteU16(1)
	// #3 Utf8 "java/lang/Object"
	w.WriteU8(TagUTF8)
	w.WriteU16(16)
	w.Extend([]byte("java/lang/Object"))
	// #4 Class -> #3
	w.WriteU8(TagClass)
	w.WriteU16(3)

	w.WriteU16(uint16(ClassAccPublic | ClassAccSuper)) // access_flags: 0x0021
	w.WriteU16(2)                                      // this_class -> #2 (Main)
	w.WriteU16(4)                                      // super_class -> #4 (java/lang/Object)
	w.WriteU16(0)                                      // interfaces_count
	w.WriteU16(0)                                      // fields_count
	w.WriteU16(0)                                      // methods_count
	w.WriteU16(0)                                      // attributes_count

	c, err := Decode(w.Bytes(), nil)
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if c.AccessFlags != ClassAccPublic|ClassAccSuper {
		t.Fatalf("AccessFlags = 0x%04x, want 0x0021", uint16(c.AccessFlags))
	}
	if !c.AccessFlags.Has(ClassAccPublic) || !c.AccessFlags.Has(ClassAccSuper) {
		t.Fatalf("AccessFlags.Has() = false for Public/Super, got 0x%04x", uint16(c.AccessFlags))
	}
	name, ok := c.ThisClassName()
	if !ok || name != "Main" {
		t.Fatalf("ThisClassName() = %q, %v, want Main, true", name, ok)
	}
	superName, ok := c.SuperClassName()
	if !ok || superName != "java/lang/Object" {
		t.Fatalf("SuperClassName() = %q, %v, want java/lang/Object, true", superName, ok)
	}
	if len(c.Interfaces) != 0 || len(c.Fields) != 0 || len(c.Methods) != 0 {
		t.Fatalf("Main has no interfaces/fields/methods, got %d/%d/%d",
			len(c.Interfaces), len(c.Fields), len(c.Methods))
	}

	if got := c.Encode(); string(got) != string(w.Bytes()) {
		t.Fatalf("Encode() round-trip mismatch: got % x, want % x", got, w.Bytes())
	}
}

// TestDecodeClassMismatchedMagic checks the header rejection path.
func TestDecodeClassMismatchedMagic(t *testing.T) {
	data := []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x34, 0x00, 0x01}
	_, err := Decode(data, nil)
	if _, ok := err.(*MismatchedMagicNumberError); !ok {
		t.Fatalf("Decode() error type = %T, want *MismatchedMagicNumberError", err)
	}
}

// TestDecodeClassMaxConstantPoolEntries checks Options.MaxConstantPoolEntries
// is honored end-to-end through Decode.
func TestDecodeClassMaxConstantPoolEntries(t *testing.T) {
	w := NewWriter()
	w.WriteU32(ClassMagic)
	w.WriteU16(0)
	w.WriteU16(61)
	w.WriteU16(2) // constant_pool_count: 1 entry + 1
	w.WriteU8(TagUTF8)
	w.WriteU16(4)
	w.Extend([]byte("Main"))

	_, err := Decode(w.Bytes(), &Options{MaxConstantPoolEntries: 1})
	if err != ErrPoolOverflow {
		t.Fatalf("Decode() error = %v, want ErrPoolOverflow", err)
	}
}

// TestDecodeClassStrictIndices checks that Options.StrictIndices turns a
// dangling this_class reference into an *InvalidIndexError where the
// permissive default decodes the same bytes successfully.
func TestDecodeClassStrictIndices(t *testing.T) {
	data := []byte{
		0xCA, 0xFE, 0xBA, 0xBE,
		0x00, 0x00, 0x00, 0x34,
		0x00, 0x01, // empty pool
		0x00, 0x00, // access_flags
		0x00, 0x01, // this_class = 1, dangling
		0x00, 0x00, // super_class
		0x00, 0x00, // interfaces_count
		0x00, 0x00, // fields_count
		0x00, 0x00, // methods_count
		0x00, 0x00, // attributes_count
	}

	if _, err := Decode(data, nil); err != nil {
		t.Fatalf("permissive Decode() failed: %v", err)
	}

	_, err := Decode(data, &Options{StrictIndices: true})
	iie, ok := err.(*InvalidIndexError)
	if !ok {
		t.Fatalf("strict Decode() error type = %T, want *InvalidIndexError", err)
	}
	if iie.Index != 1 || iie.ExpectedKind != "Class" {
		t.Fatalf("InvalidIndexError = %+v, want Index=1 ExpectedKind=Class", iie)
	}
}
