// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

// MethodInfo describes one method of a class (JVMS §4.6): its access
// flags, name and descriptor (both UTF8 constants), and attribute list
// (typically Code, Exceptions, and the annotation family).
type MethodInfo struct {
	AccessFlags     AccessFlags
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []*AttributeInfo
}

// Name resolves NameIndex against pool, permissively.
func (m *MethodInfo) Name(pool *ConstantPool) (string, bool) {
	return pool.UTF8String(m.NameIndex)
}

// Descriptor resolves DescriptorIndex against pool, permissively.
func (m *MethodInfo) Descriptor(pool *ConstantPool) (string, bool) {
	return pool.UTF8String(m.DescriptorIndex)
}

// Code returns the method's Code attribute, or nil if it has none (as is
// the case for abstract and native methods).
func (m *MethodInfo) Code() *CodeAttribute {
	if c, ok := Find(m.Attributes, AttrCode).(*CodeAttribute); ok {
		return c
	}
	return nil
}

func decodeMethodInfo(r *Reader, pool *ConstantPool, opts *Options) (*MethodInfo, error) {
	flags, err := DecodeAccessFlags(r, OwnerMethod)
	if err != nil {
		return nil, err
	}
	nameIdx, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	descIdx, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	attrs, err := DecodeAttributes(r, pool, opts)
	if err != nil {
		return nil, err
	}
	return &MethodInfo{AccessFlags: flags, NameIndex: nameIdx, DescriptorIndex: descIdx, Attributes: attrs}, nil
}

func (m *MethodInfo) encode(w *Writer) {
	m.AccessFlags.Encode(w)
	w.WriteU16(m.NameIndex)
	w.WriteU16(m.DescriptorIndex)
	EncodeAttributes(w, m.Attributes)
}

func decodeMethods(r *Reader, pool *ConstantPool, opts *Options) ([]*MethodInfo, error) {
	count, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	methods := make([]*MethodInfo, count)
	for i := range methods {
		m, err := decodeMethodInfo(r, pool, opts)
		if err != nil {
			return nil, err
		}
		methods[i] = m
	}
	return methods, nil
}

func encodeMethods(w *Writer, methods []*MethodInfo) {
	w.WriteU16(uint16(len(methods)))
	for _, m := range methods {
		m.encode(w)
	}
}
