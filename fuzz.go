// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

// Fuzz is a go-fuzz entry point: decode data as a class file, and for
// anything that decodes successfully, re-encode it and require the
// result's constant pool to match the original. A
// panic or a decode/encode mismatch is a bug; a clean decode failure on
// malformed input is not.
func Fuzz(data []byte) int {
	c, err := NewBytes(data, nil)
	if err != nil {
		return 0
	}
	defer c.Close()

	reencoded := c.Encode()
	c2, err := NewBytes(reencoded, nil)
	if err != nil {
		panic("classfile: re-encoding a decoded class produced an undecodable result")
	}
	defer c2.Close()

	if !c.ConstantPool.Equal(c2.ConstantPool) {
		panic("classfile: re-encoded constant pool does not match the original")
	}
	return 1
}
