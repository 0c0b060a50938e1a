// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import "encoding/binary"

// Reader is a sequential, big-endian cursor over an in-memory byte slice.
// It never rewinds: every Read* call advances the cursor by exactly the
// number of bytes consumed, and fails with an *UnexpectedEndError rather
// than reading past the end of the underlying slice.
//
// Length-framed sub-structures (attribute bodies) are decoded from a new
// Reader restricted to exactly the declared length (Sub carves one out of
// the parent; the attribute decoder wraps the copied body with NewReader);
// the caller must then call ExpectExhausted before trusting the decoded
// value.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps buf in a Reader positioned at offset 0.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Position returns the number of bytes already consumed.
func (r *Reader) Position() int {
	return r.pos
}

// Remaining returns the number of bytes left before the cursor runs out.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.pos
}

// Bytes returns the full underlying slice, regardless of cursor position.
func (r *Reader) Bytes() []byte {
	return r.buf
}

func (r *Reader) need(n int) error {
	if r.Remaining() < n {
		return &UnexpectedEndError{Requested: n, Remaining: r.Remaining()}
	}
	return nil
}

// ReadU8 reads one unsigned byte.
func (r *Reader) ReadU8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.buf[r.pos]
	r.pos++
	return v, nil
}

// ReadU16 reads a big-endian 16-bit unsigned integer.
func (r *Reader) ReadU16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r.buf[r.pos : r.pos+2])
	r.pos += 2
	return v, nil
}

// ReadU32 reads a big-endian 32-bit unsigned integer.
func (r *Reader) ReadU32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(r.buf[r.pos : r.pos+4])
	r.pos += 4
	return v, nil
}

// ReadU64 reads a big-endian 64-bit unsigned integer.
func (r *Reader) ReadU64() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(r.buf[r.pos : r.pos+8])
	r.pos += 8
	return v, nil
}

// ReadExact returns a slice of exactly n bytes, advancing the cursor past
// them. The returned slice aliases the Reader's backing array; callers
// that need to retain it past further mutation of the source buffer
// should copy it.
func (r *Reader) ReadExact(n int) ([]byte, error) {
	if n < 0 {
		return nil, &UnexpectedEndError{Requested: n, Remaining: r.Remaining()}
	}
	if err := r.need(n); err != nil {
		return nil, err
	}
	v := r.buf[r.pos : r.pos+n]
	r.pos += n
	return v, nil
}

// Sub carves out a child Reader restricted to exactly n bytes, advancing
// this Reader's cursor past the whole region. The child must be fully
// consumed by its caller (see ExpectExhausted) before the parent
// continues.
func (r *Reader) Sub(n int) (*Reader, error) {
	b, err := r.ReadExact(n)
	if err != nil {
		return nil, err
	}
	return NewReader(b), nil
}

// ExpectExhausted fails with a *TrailingBytesError if the Reader still has
// bytes left, naming context in the error for diagnostics. It is the
// single mechanism by which length-framed sub-formats are validated.
func (r *Reader) ExpectExhausted(context string) error {
	if rem := r.Remaining(); rem > 0 {
		return &TrailingBytesError{Context: context, Count: rem}
	}
	return nil
}
