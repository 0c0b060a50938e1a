// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

// ExceptionTableEntry is one row of a Code attribute's exception table: the
// bytecode range [StartPC, EndPC) is guarded, jumping to HandlerPC when an
// exception assignable to CatchType (or any exception, when CatchType is 0)
// is thrown.
type ExceptionTableEntry struct {
	StartPC   uint16
	EndPC     uint16
	HandlerPC uint16
	CatchType uint16
}

// CodeAttribute is a method body (JVMS §4.7.3): the raw bytecode is kept
// opaque, since this codec operates at the class-file structural level
// and never interprets instructions.
type CodeAttribute struct {
	MaxStack   uint16
	MaxLocals  uint16
	Code       []byte
	Exceptions []ExceptionTableEntry
	Attributes []*AttributeInfo
}

func (a *CodeAttribute) attributeName() string { return AttrCode }

func (a *CodeAttribute) encode(w *Writer) {
	w.WriteU16(a.MaxStack)
	w.WriteU16(a.MaxLocals)
	w.WriteU32(uint32(len(a.Code)))
	w.Extend(a.Code)
	w.WriteU16(uint16(len(a.Exceptions)))
	for _, e := range a.Exceptions {
		w.WriteU16(e.StartPC)
		w.WriteU16(e.EndPC)
		w.WriteU16(e.HandlerPC)
		w.WriteU16(e.CatchType)
	}
	EncodeAttributes(w, a.Attributes)
}

func decodeCode(r *Reader, pool *ConstantPool, opts *Options) (Attribute, error) {
	maxStack, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	maxLocals, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	codeLength, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	code, err := r.ReadExact(int(codeLength))
	if err != nil {
		return nil, err
	}
	codeCopy := make([]byte, len(code))
	copy(codeCopy, code)

	excCount, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	exceptions := make([]ExceptionTableEntry, excCount)
	for i := range exceptions {
		var e ExceptionTableEntry
		if e.StartPC, err = r.ReadU16(); err != nil {
			return nil, err
		}
		if e.EndPC, err = r.ReadU16(); err != nil {
			return nil, err
		}
		if e.HandlerPC, err = r.ReadU16(); err != nil {
			return nil, err
		}
		if e.CatchType, err = r.ReadU16(); err != nil {
			return nil, err
		}
		exceptions[i] = e
	}

	attrs, err := DecodeAttributes(r, pool, opts)
	if err != nil {
		return nil, err
	}

	return &CodeAttribute{
		MaxStack:   maxStack,
		MaxLocals:  maxLocals,
		Code:       codeCopy,
		Exceptions: exceptions,
		Attributes: attrs,
	}, nil
}
