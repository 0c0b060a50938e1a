// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the top-level class-file codec.
var (
	// ErrMismatchedMagicNumber is returned when the first four bytes of a
	// class file are not 0xCAFEBABE.
	ErrMismatchedMagicNumber = errors.New("classfile: magic number mismatch, not a class file")

	// ErrPoolOverflow is returned by ConstantPool.Intern when appending a
	// constant would push the slot count beyond the 16-bit index space.
	ErrPoolOverflow = errors.New("classfile: constant pool overflow, more than 65535 slots")

	// ErrInvalidThisClass is returned when a class file's this_class index
	// is zero.
	ErrInvalidThisClass = errors.New("classfile: this_class index must be non-zero")
)

// UnexpectedEndError is returned by a Reader operation that demanded more
// bytes than remain in the cursor.
type UnexpectedEndError struct {
	Requested int
	Remaining int
}

func (e *UnexpectedEndError) Error() string {
	return fmt.Sprintf("classfile: unexpected end of input, requested %d bytes, %d remaining",
		e.Requested, e.Remaining)
}

// TrailingBytesError is returned when a length-framed region (an attribute
// body, a sub-reader, a top-level signature) has bytes left over after its
// decoder returned successfully.
type TrailingBytesError struct {
	Context string
	Count   int
}

func (e *TrailingBytesError) Error() string {
	return fmt.Sprintf("classfile: %d trailing byte(s) after decoding %s", e.Count, e.Context)
}

// MismatchedMagicNumberError is returned by Decode when the leading
// four bytes are not the class file magic.
type MismatchedMagicNumberError struct {
	Got [4]byte
}

func (e *MismatchedMagicNumberError) Error() string {
	return fmt.Sprintf("classfile: mismatched magic number, got % x", e.Got[:])
}

func (e *MismatchedMagicNumberError) Is(target error) bool {
	return target == ErrMismatchedMagicNumber
}

// UnknownTagError is returned when a tagged discriminant (a constant tag, a
// verification-type tag, a frame-type, a target-info range, an
// element-value tag) falls outside its allowed set.
type UnknownTagError struct {
	Context string
	Value   int
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("classfile: unknown %s tag %d (0x%x)", e.Context, e.Value, e.Value)
}

// UnknownOpcodeError is reserved for future bytecode-level work; the
// codec never constructs it today because Code.Code is carried opaque.
type UnknownOpcodeError struct {
	Opcode byte
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("classfile: unknown opcode 0x%02x", e.Opcode)
}

// UnknownWideOpcodeError is reserved for future bytecode-level work, see
// UnknownOpcodeError.
type UnknownWideOpcodeError struct {
	Opcode  byte
	Allowed []byte
}

func (e *UnknownWideOpcodeError) Error() string {
	return fmt.Sprintf("classfile: unknown wide opcode 0x%02x (allowed: % x)", e.Opcode, e.Allowed)
}

// InvalidIndexError is returned when a constant-pool cross-reference
// resolves to nothing, to the second slot of a 2-slot constant, or (under
// Options.StrictIndices) to a constant of the wrong kind.
type InvalidIndexError struct {
	Index        uint16
	ExpectedKind string
}

func (e *InvalidIndexError) Error() string {
	return fmt.Sprintf("classfile: invalid constant pool index %d, expected %s", e.Index, e.ExpectedKind)
}

// MismatchedCharacterError is returned by the signature decoder when the
// next rune does not belong to the allowed set at this position.
type MismatchedCharacterError struct {
	Got     rune
	Pos     int
	Allowed string
}

func (e *MismatchedCharacterError) Error() string {
	return fmt.Sprintf("classfile: signature: unexpected character %q at offset %d, allowed: %s",
		e.Got, e.Pos, e.Allowed)
}

// UnexpectedEndOfSignatureError is returned by the signature decoder when
// the input ends before a grammar rule has been satisfied.
type UnexpectedEndOfSignatureError struct {
	Context string
}

func (e *UnexpectedEndOfSignatureError) Error() string {
	return fmt.Sprintf("classfile: signature: unexpected end of input while parsing %s", e.Context)
}

// InvalidUTF8Error is returned when modified-UTF-8 decoding is requested
// and the byte sequence is not a valid modified-UTF-8 encoding.
type InvalidUTF8Error struct {
	Bytes []byte
}

func (e *InvalidUTF8Error) Error() string {
	return fmt.Sprintf("classfile: invalid modified-UTF-8 sequence (%d bytes)", len(e.Bytes))
}

// IOError wraps an I/O failure surfaced by the underlying reader or writer.
type IOError struct {
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("classfile: io error: %v", e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
