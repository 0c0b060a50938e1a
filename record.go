// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

// RecordComponentInfo describes one component of a record class (JVMS
// §4.7.30): its name, descriptor, and any attributes attached to it
// (typically Signature and the RuntimeVisible/InvisibleAnnotations pair).
type RecordComponentInfo struct {
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []*AttributeInfo
}

// RecordAttribute lists a record class's components in declaration
// order.
type RecordAttribute struct {
	Components []RecordComponentInfo
}

func (a *RecordAttribute) attributeName() string { return AttrRecord }

func (a *RecordAttribute) encode(w *Writer) {
	w.WriteU16(uint16(len(a.Components)))
	for _, c := range a.Components {
		w.WriteU16(c.NameIndex)
		w.WriteU16(c.DescriptorIndex)
		EncodeAttributes(w, c.Attributes)
	}
}

func decodeRecord(r *Reader, pool *ConstantPool, opts *Options) (Attribute, error) {
	count, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	components := make([]RecordComponentInfo, count)
	for i := range components {
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
		components[i] = RecordComponentInfo{NameIndex: nameIdx, DescriptorIndex: descIdx, Attributes: attrs}
	}
	return &RecordAttribute{Components: components}, nil
}
