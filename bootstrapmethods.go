// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

// BootstrapMethod is one entry of the BootstrapMethods attribute: a
// MethodHandle constant plus its static arguments, referenced by index
// from Dynamic/InvokeDynamic constants.
type BootstrapMethod struct {
	BootstrapMethodRef uint16
	BootstrapArguments []uint16
}

// BootstrapMethodsAttribute backs every Dynamic and InvokeDynamic
// constant in the pool (JVMS §4.7.23); it is present exactly when the
// pool contains at least one such constant.
type BootstrapMethodsAttribute struct {
	BootstrapMethods []BootstrapMethod
}

func (a *BootstrapMethodsAttribute) attributeName() string { return AttrBootstrapMethods }

func (a *BootstrapMethodsAttribute) encode(w *Writer) {
	w.WriteU16(uint16(len(a.BootstrapMethods)))
	for _, m := range a.BootstrapMethods {
		w.WriteU16(m.BootstrapMethodRef)
		encodeU16Table(w, m.BootstrapArguments)
	}
}

func decodeBootstrapMethods(r *Reader, _ *ConstantPool, _ *Options) (Attribute, error) {
	count, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	methods := make([]BootstrapMethod, count)
	for i := range methods {
		ref, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		args, err := decodeU16Table(r)
		if err != nil {
			return nil, err
		}
		methods[i] = BootstrapMethod{BootstrapMethodRef: ref, BootstrapArguments: args}
	}
	return &BootstrapMethodsAttribute{BootstrapMethods: methods}, nil
}
