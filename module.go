// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

// ModuleRequires is one "requires" directive of a module declaration.
type ModuleRequires struct {
	RequiresIndex        uint16
	RequiresFlags        AccessFlags
	RequiresVersionIndex uint16
}

// ModuleExports is one "exports" directive, optionally qualified to a set
// of target modules.
type ModuleExports struct {
	ExportsIndex uint16
	ExportsFlags AccessFlags
	ExportsTo    []uint16
}

// ModuleOpens is one "opens" directive, optionally qualified to a set of
// target modules.
type ModuleOpens struct {
	OpensIndex uint16
	OpensFlags AccessFlags
	OpensTo    []uint16
}

// ModuleProvides is one "provides ... with ..." directive.
type ModuleProvides struct {
	ProvidesIndex     uint16
	ProvidesWithIndex []uint16
}

// ModuleAttribute describes a module declaration (JVMS §4.7.25): its
// requires/exports/opens/uses/provides directives.
type ModuleAttribute struct {
	ModuleNameIndex    uint16
	ModuleFlags        AccessFlags
	ModuleVersionIndex uint16
	Requires           []ModuleRequires
	Exports            []ModuleExports
	Opens              []ModuleOpens
	Uses               []uint16
	Provides           []ModuleProvides
}

func (a *ModuleAttribute) attributeName() string { return AttrModule }

func (a *ModuleAttribute) encode(w *Writer) {
	w.WriteU16(a.ModuleNameIndex)
	a.ModuleFlags.Encode(w)
	w.WriteU16(a.ModuleVersionIndex)

	w.WriteU16(uint16(len(a.Requires)))
	for _, r := range a.Requires {
		w.WriteU16(r.RequiresIndex)
		r.RequiresFlags.Encode(w)
		w.WriteU16(r.RequiresVersionIndex)
	}

	w.WriteU16(uint16(len(a.Exports)))
	for _, e := range a.Exports {
		w.WriteU16(e.ExportsIndex)
		e.ExportsFlags.Encode(w)
		encodeU16Table(w, e.ExportsTo)
	}

	w.WriteU16(uint16(len(a.Opens)))
	for _, o := range a.Opens {
		w.WriteU16(o.OpensIndex)
		o.OpensFlags.Encode(w)
		encodeU16Table(w, o.OpensTo)
	}

	encodeU16Table(w, a.Uses)

	w.WriteU16(uint16(len(a.Provides)))
	for _, p := range a.Provides {
		w.WriteU16(p.ProvidesIndex)
		encodeU16Table(w, p.ProvidesWithIndex)
	}
}

func decodeModule(r *Reader, _ *ConstantPool, _ *Options) (Attribute, error) {
	moduleNameIdx, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	moduleFlags, err := DecodeAccessFlags(r, OwnerModule)
	if err != nil {
		return nil, err
	}
	moduleVersionIdx, err := r.ReadU16()
	if err != nil {
		return nil, err
	}

	requiresCount, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	requires := make([]ModuleRequires, requiresCount)
	for i := range requires {
		idx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		flags, err := DecodeAccessFlags(r, OwnerRequires)
		if err != nil {
			return nil, err
		}
		versionIdx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		requires[i] = ModuleRequires{RequiresIndex: idx, RequiresFlags: flags, RequiresVersionIndex: versionIdx}
	}

	exportsCount, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	exports := make([]ModuleExports, exportsCount)
	for i := range exports {
		idx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		flags, err := DecodeAccessFlags(r, OwnerExportsOpens)
		if err != nil {
			return nil, err
		}
		to, err := decodeU16Table(r)
		if err != nil {
			return nil, err
		}
		exports[i] = ModuleExports{ExportsIndex: idx, ExportsFlags: flags, ExportsTo: to}
	}

	opensCount, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	opens := make([]ModuleOpens, opensCount)
	for i := range opens {
		idx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		flags, err := DecodeAccessFlags(r, OwnerExportsOpens)
		if err != nil {
			return nil, err
		}
		to, err := decodeU16Table(r)
		if err != nil {
			return nil, err
		}
		opens[i] = ModuleOpens{OpensIndex: idx, OpensFlags: flags, OpensTo: to}
	}

	uses, err := decodeU16Table(r)
	if err != nil {
		return nil, err
	}

	providesCount, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	provides := make([]ModuleProvides, providesCount)
	for i := range provides {
		idx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		with, err := decodeU16Table(r)
		if err != nil {
			return nil, err
		}
		provides[i] = ModuleProvides{ProvidesIndex: idx, ProvidesWithIndex: with}
	}

	return &ModuleAttribute{
		ModuleNameIndex:    moduleNameIdx,
		ModuleFlags:        moduleFlags,
		ModuleVersionIndex: moduleVersionIdx,
		Requires:           requires,
		Exports:            exports,
		Opens:              opens,
		Uses:               uses,
		Provides:           provides,
	}, nil
}
