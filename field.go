// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

// FieldInfo describes one field of a class (JVMS §4.5): its access flags,
// name and descriptor (both UTF8 constants), and attribute list. Fields
// and methods are structurally identical; FieldInfo and MethodInfo are
// kept as distinct types only so the flag universe (OwnerField vs.
// OwnerMethod) is fixed at the type, not the call site.
type FieldInfo struct {
	AccessFlags     AccessFlags
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []*AttributeInfo
}

// Name resolves NameIndex against pool, permissively.
func (f *FieldInfo) Name(pool *ConstantPool) (string, bool) {
	return pool.UTF8String(f.NameIndex)
}

// Descriptor resolves DescriptorIndex against pool, permissively.
func (f *FieldInfo) Descriptor(pool *ConstantPool) (string, bool) {
	return pool.UTF8String(f.DescriptorIndex)
}

func decodeFieldInfo(r *Reader, pool *ConstantPool, opts *Options) (*FieldInfo, error) {
	flags, err := DecodeAccessFlags(r, OwnerField)
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
	return &FieldInfo{AccessFlags: flags, NameIndex: nameIdx, DescriptorIndex: descIdx, Attributes: attrs}, nil
}

func (f *FieldInfo) encode(w *Writer) {
	f.AccessFlags.Encode(w)
	w.WriteU16(f.NameIndex)
	w.WriteU16(f.DescriptorIndex)
	EncodeAttributes(w, f.Attributes)
}

func decodeFields(r *Reader, pool *ConstantPool, opts *Options) ([]*FieldInfo, error) {
	count, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	fields := make([]*FieldInfo, count)
	for i := range fields {
		f, err := decodeFieldInfo(r, pool, opts)
		if err != nil {
			return nil, err
		}
		fields[i] = f
	}
	return fields, nil
}

func encodeFields(w *Writer, fields []*FieldInfo) {
	w.WriteU16(uint16(len(fields)))
	for _, f := range fields {
		f.encode(w)
	}
}
