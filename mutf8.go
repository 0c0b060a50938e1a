// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import (
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// ModifiedUTF8 is the golang.org/x/text/encoding.Encoding for the JVM's
// "modified UTF-8" string format (JVMS §4.4.7): standard UTF-8 except
// U+0000 is encoded as the two bytes 0xC0 0x80, and supplementary code
// points are encoded as a surrogate pair of 3-byte sequences rather than
// one 4-byte sequence.
var ModifiedUTF8 encoding.Encoding = modifiedUTF8{}

type modifiedUTF8 struct{}

func (modifiedUTF8) NewDecoder() *encoding.Decoder {
	return &encoding.Decoder{Transformer: &mutf8Decoder{}}
}

func (modifiedUTF8) NewEncoder() *encoding.Encoder {
	return &encoding.Encoder{Transformer: &mutf8Encoder{}}
}

// mutf8Decoder implements transform.Transformer, turning modified-UTF-8
// bytes into standard UTF-8 bytes.
type mutf8Decoder struct{}

func (*mutf8Decoder) Reset() {}

func (*mutf8Decoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		r, size, runeErr := decodeModifiedUTF8Rune(src[nSrc:], atEOF)
		if runeErr == errShortModifiedUTF8 {
			if atEOF {
				return nDst, nSrc, &InvalidUTF8Error{Bytes: src[nSrc:]}
			}
			return nDst, nSrc, transform.ErrShortSrc
		}
		if runeErr != nil {
			return nDst, nSrc, runeErr
		}
		if nDst+utf8.UTFMax > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		n := utf8.EncodeRune(dst[nDst:], r)
		nDst += n
		nSrc += size
	}
	return nDst, nSrc, nil
}

// mutf8Encoder implements transform.Transformer, turning standard UTF-8
// bytes into modified-UTF-8 bytes.
type mutf8Encoder struct{}

func (*mutf8Encoder) Reset() {}

func (*mutf8Encoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		r, size := utf8.DecodeRune(src[nSrc:])
		if r == utf8.RuneError && size <= 1 {
			if !atEOF && size == 0 {
				return nDst, nSrc, transform.ErrShortSrc
			}
			return nDst, nSrc, &InvalidUTF8Error{Bytes: src[nSrc:]}
		}
		n, encErr := encodeModifiedUTF8Rune(dst[nDst:], r)
		if encErr != nil {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += n
		nSrc += size
	}
	return nDst, nSrc, nil
}

var errShortModifiedUTF8 = &InvalidUTF8Error{}

// decodeModifiedUTF8Rune decodes one logical rune (possibly a surrogate
// pair spanning two 3-byte sequences) from the front of b.
func decodeModifiedUTF8Rune(b []byte, atEOF bool) (rune, int, error) {
	if len(b) == 0 {
		return 0, 0, errShortModifiedUTF8
	}
	switch {
	case b[0] < 0x80:
		return rune(b[0]), 1, nil
	case b[0]&0xE0 == 0xC0:
		if len(b) < 2 {
			return 0, 0, errShortModifiedUTF8
		}
		if b[1]&0xC0 != 0x80 {
			return 0, 0, &InvalidUTF8Error{Bytes: b[:2]}
		}
		r := rune(b[0]&0x1F)<<6 | rune(b[1]&0x3F)
		return r, 2, nil
	case b[0]&0xF0 == 0xE0:
		if len(b) < 3 {
			return 0, 0, errShortModifiedUTF8
		}
		if b[1]&0xC0 != 0x80 || b[2]&0xC0 != 0x80 {
			return 0, 0, &InvalidUTF8Error{Bytes: b[:3]}
		}
		r := rune(b[0]&0x0F)<<12 | rune(b[1]&0x3F)<<6 | rune(b[2]&0x3F)
		if r >= 0xD800 && r < 0xDC00 {
			if len(b) < 6 {
				return 0, 0, errShortModifiedUTF8
			}
			if b[3] != 0xED {
				return 0, 0, &InvalidUTF8Error{Bytes: b[:3]}
			}
			r2, size2, err := decodeModifiedUTF8Rune(b[3:], atEOF)
			if err != nil {
				return 0, 0, err
			}
			combined := utf16.DecodeRune(r, r2)
			if combined == utf8.RuneError {
				return 0, 0, &InvalidUTF8Error{Bytes: b[:3+size2]}
			}
			return combined, 3 + size2, nil
		}
		return r, 3, nil
	default:
		return 0, 0, &InvalidUTF8Error{Bytes: b[:1]}
	}
}

// encodeModifiedUTF8Rune appends r's modified-UTF-8 encoding to dst,
// returning the number of bytes written. dst must have room for the worst
// case (6 bytes, a surrogate pair).
func encodeModifiedUTF8Rune(dst []byte, r rune) (int, error) {
	switch {
	case r == 0:
		if len(dst) < 2 {
			return 0, errShortModifiedUTF8
		}
		dst[0], dst[1] = 0xC0, 0x80
		return 2, nil
	case r > 0 && r <= 0x7F:
		if len(dst) < 1 {
			return 0, errShortModifiedUTF8
		}
		dst[0] = byte(r)
		return 1, nil
	case r <= 0x7FF:
		if len(dst) < 2 {
			return 0, errShortModifiedUTF8
		}
		dst[0] = 0xC0 | byte(r>>6)
		dst[1] = 0x80 | byte(r&0x3F)
		return 2, nil
	case r <= 0xFFFF:
		if len(dst) < 3 {
			return 0, errShortModifiedUTF8
		}
		dst[0] = 0xE0 | byte(r>>12)
		dst[1] = 0x80 | byte((r>>6)&0x3F)
		dst[2] = 0x80 | byte(r&0x3F)
		return 3, nil
	default:
		if len(dst) < 6 {
			return 0, errShortModifiedUTF8
		}
		hi, lo := utf16.EncodeRune(r)
		n1, _ := encodeModifiedUTF8Rune(dst, hi)
		n2, _ := encodeModifiedUTF8Rune(dst[n1:], lo)
		return n1 + n2, nil
	}
}

// DecodeModifiedUTF8 converts raw modified-UTF-8 bytes (as stored in a
// UTF8Constant) to a host Go string.
func DecodeModifiedUTF8(raw []byte) (string, error) {
	var out []byte
	i := 0
	for i < len(raw) {
		r, size, err := decodeModifiedUTF8Rune(raw[i:], true)
		if err != nil {
			return "", &InvalidUTF8Error{Bytes: raw}
		}
		var buf [utf8.UTFMax]byte
		n := utf8.EncodeRune(buf[:], r)
		out = append(out, buf[:n]...)
		i += size
	}
	return string(out), nil
}

// EncodeModifiedUTF8 converts a host Go string to modified-UTF-8 bytes
// suitable for a UTF8Constant.
func EncodeModifiedUTF8(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		var buf [6]byte
		n, err := encodeModifiedUTF8Rune(buf[:], r)
		if err != nil {
			return nil, err
		}
		out = append(out, buf[:n]...)
	}
	return out, nil
}
