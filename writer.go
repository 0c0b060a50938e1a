// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import (
	"bytes"
	"encoding/binary"
)

// Writer is the mirror of Reader: a sequential, big-endian cursor over a
// growable byte buffer. Every Write* call appends to the buffer and never
// fails; Writer exists as a distinct type (rather than a bare
// bytes.Buffer) so that encoders can be written symmetrically with the
// Reader-based decoders and so call sites read the same way regardless of
// which primitive width is being emitted.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Bytes returns the accumulated output.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// WriteU8 appends one byte.
func (w *Writer) WriteU8(v uint8) {
	w.buf.WriteByte(v)
}

// WriteU16 appends a big-endian 16-bit unsigned integer.
func (w *Writer) WriteU16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

// WriteU32 appends a big-endian 32-bit unsigned integer.
func (w *Writer) WriteU32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

// WriteU64 appends a big-endian 64-bit unsigned integer.
func (w *Writer) WriteU64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

// Extend appends a raw byte slice verbatim.
func (w *Writer) Extend(b []byte) {
	w.buf.Write(b)
}
