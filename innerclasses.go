// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

// InnerClassEntry describes one class's relationship to an enclosing
// class (JVMS §4.7.6). OuterClassInfoIndex and InnerNameIndex are 0 for
// anonymous classes and classes not members of another class.
type InnerClassEntry struct {
	InnerClassInfoIndex   uint16
	OuterClassInfoIndex   uint16
	InnerNameIndex        uint16
	InnerClassAccessFlags AccessFlags
}

// InnerClassesAttribute lists every member class/interface of the
// declaring class or interface, plus any local/anonymous classes it
// encloses.
type InnerClassesAttribute struct {
	Classes []InnerClassEntry
}

func (a *InnerClassesAttribute) attributeName() string { return AttrInnerClasses }
func (a *InnerClassesAttribute) encode(w *Writer) {
	w.WriteU16(uint16(len(a.Classes)))
	for _, c := range a.Classes {
		w.WriteU16(c.InnerClassInfoIndex)
		w.WriteU16(c.OuterClassInfoIndex)
		w.WriteU16(c.InnerNameIndex)
		c.InnerClassAccessFlags.Encode(w)
	}
}

func decodeInnerClasses(r *Reader, _ *ConstantPool, _ *Options) (Attribute, error) {
	count, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	classes := make([]InnerClassEntry, count)
	for i := range classes {
		innerIdx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		outerIdx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		nameIdx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		flags, err := DecodeAccessFlags(r, OwnerNestedClass)
		if err != nil {
			return nil, err
		}
		classes[i] = InnerClassEntry{
			InnerClassInfoIndex:   innerIdx,
			OuterClassInfoIndex:   outerIdx,
			InnerNameIndex:        nameIdx,
			InnerClassAccessFlags: flags,
		}
	}
	return &InnerClassesAttribute{Classes: classes}, nil
}
