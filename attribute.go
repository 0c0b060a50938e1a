// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

// Attribute is the closed tagged union of the ~30 structured attribute
// kinds a class, field, method, Code body, or record component can carry
// (JVMS §4.7). A concrete Attribute is reachable only through
// AttributeInfo.Decoded, never constructed standalone by a decoder.
type Attribute interface {
	attributeName() string
	encode(w *Writer)
}

// attributeDecoder decodes one attribute body. r is a sub-reader bounded
// to exactly the attribute's declared length; the caller (decodeAttributeBody)
// checks that r is fully exhausted afterwards.
type attributeDecoder func(r *Reader, pool *ConstantPool, opts *Options) (Attribute, error)

var attributeDecoders map[string]attributeDecoder

func init() {
	attributeDecoders = map[string]attributeDecoder{
		AttrConstantValue:                        decodeConstantValue,
		AttrCode:                                 decodeCode,
		AttrStackMapTable:                        decodeStackMapTable,
		AttrExceptions:                           decodeExceptions,
		AttrInnerClasses:                         decodeInnerClasses,
		AttrEnclosingMethod:                      decodeEnclosingMethod,
		AttrSynthetic:                            decodeSynthetic,
		AttrSignature:                            decodeSignatureAttribute,
		AttrSourceFile:                           decodeSourceFile,
		AttrSourceDebugExtension:                 decodeSourceDebugExtension,
		AttrLineNumberTable:                      decodeLineNumberTable,
		AttrLocalVariableTable:                   decodeLocalVariableTable,
		AttrLocalVariableTypeTable:               decodeLocalVariableTypeTable,
		AttrDeprecated:                           decodeDeprecated,
		AttrRuntimeVisibleAnnotations:            decodeRuntimeVisibleAnnotations,
		AttrRuntimeInvisibleAnnotations:          decodeRuntimeInvisibleAnnotations,
		AttrRuntimeVisibleParameterAnnotations:   decodeRuntimeVisibleParameterAnnotations,
		AttrRuntimeInvisibleParameterAnnotations: decodeRuntimeInvisibleParameterAnnotations,
		AttrRuntimeVisibleTypeAnnotations:        decodeRuntimeVisibleTypeAnnotations,
		AttrRuntimeInvisibleTypeAnnotations:      decodeRuntimeInvisibleTypeAnnotations,
		AttrAnnotationDefault:                    decodeAnnotationDefault,
		AttrBootstrapMethods:                     decodeBootstrapMethods,
		AttrMethodParameters:                     decodeMethodParameters,
		AttrModule:                               decodeModule,
		AttrModulePackages:                       decodeModulePackages,
		AttrModuleMainClass:                      decodeModuleMainClass,
		AttrNestHost:                             decodeNestHost,
		AttrNestMembers:                          decodeNestMembers,
		AttrRecord:                               decodeRecord,
		AttrPermittedSubclasses:                  decodePermittedSubclasses,
	}
}

// AttributeInfo is the length-framed envelope every attribute arrives in
// (JVMS §4.7): RawBytes is always preserved byte-exact, and Decoded
// is populated only when the name is recognised and attribute parsing was
// requested.
type AttributeInfo struct {
	NameIndex uint16
	RawBytes  []byte
	Decoded   Attribute
}

// RawLength reports the declared attribute length, i.e. len(RawBytes).
func (a *AttributeInfo) RawLength() uint32 {
	return uint32(len(a.RawBytes))
}

// decodeAttributeBody resolves name_index, dispatches to a structured
// decoder bounded to exactly the declared length, and requires the
// sub-reader to come up empty afterwards: a structured attribute must
// exactly fill the length it declared. An unresolved name index or an
// unrecognised name both leave Decoded nil without error: unknown
// attributes are a first-class outcome, not a failure.
func decodeAttributeBody(nameIndex uint16, raw []byte, pool *ConstantPool, opts *Options) (Attribute, error) {
	if !opts.parseAttributes() {
		return nil, nil
	}
	name, ok := pool.UTF8String(nameIndex)
	if !ok {
		return nil, nil
	}
	decoder, ok := attributeDecoders[name]
	if !ok {
		return nil, nil
	}
	sub := NewReader(raw)
	decoded, err := decoder(sub, pool, opts)
	if err != nil {
		return nil, err
	}
	if err := sub.ExpectExhausted(name); err != nil {
		return nil, err
	}
	return decoded, nil
}

// DecodeAttributeInfo reads one {name_index, length, info[length]} entry.
func DecodeAttributeInfo(r *Reader, pool *ConstantPool, opts *Options) (*AttributeInfo, error) {
	nameIndex, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	length, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	raw, err := r.ReadExact(int(length))
	if err != nil {
		return nil, err
	}
	rawCopy := make([]byte, len(raw))
	copy(rawCopy, raw)

	decoded, err := decodeAttributeBody(nameIndex, rawCopy, pool, opts)
	if err != nil {
		return nil, err
	}
	return &AttributeInfo{NameIndex: nameIndex, RawBytes: rawCopy, Decoded: decoded}, nil
}

// Encode emits this attribute exactly as it was received when RawBytes
// is present (the bit-exact round-trip contract); when building from
// scratch (RawBytes nil, Decoded set) it serialises Decoded first.
func (a *AttributeInfo) Encode(w *Writer) {
	raw := a.RawBytes
	if raw == nil && a.Decoded != nil {
		sub := NewWriter()
		a.Decoded.encode(sub)
		raw = sub.Bytes()
	}
	w.WriteU16(a.NameIndex)
	w.WriteU32(uint32(len(raw)))
	w.Extend(raw)
}

// DecodeAttributes reads a u16-count-prefixed list of AttributeInfo.
func DecodeAttributes(r *Reader, pool *ConstantPool, opts *Options) ([]*AttributeInfo, error) {
	count, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	attrs := make([]*AttributeInfo, 0, count)
	for i := 0; i < int(count); i++ {
		a, err := DecodeAttributeInfo(r, pool, opts)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, a)
	}
	return attrs, nil
}

// EncodeAttributes writes the count prefix followed by each attribute.
func EncodeAttributes(w *Writer, attrs []*AttributeInfo) {
	w.WriteU16(uint16(len(attrs)))
	for _, a := range attrs {
		a.Encode(w)
	}
}

// Find returns the first attribute in attrs decoded to kind name, or nil.
func Find(attrs []*AttributeInfo, name string) Attribute {
	for _, a := range attrs {
		if a.Decoded != nil && a.Decoded.attributeName() == name {
			return a.Decoded
		}
	}
	return nil
}

// --- simple, fixed-shape attributes ---

// ConstantValueAttribute names a constant-pool entry giving a field's
// compile-time constant value.
type ConstantValueAttribute struct {
	ConstantValueIndex uint16
}

func (a *ConstantValueAttribute) attributeName() string { return AttrConstantValue }
func (a *ConstantValueAttribute) encode(w *Writer)      { w.WriteU16(a.ConstantValueIndex) }

func decodeConstantValue(r *Reader, _ *ConstantPool, _ *Options) (Attribute, error) {
	idx, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	return &ConstantValueAttribute{ConstantValueIndex: idx}, nil
}

// ExceptionsAttribute lists the checked exception types a method may
// throw, as Class constant indices.
type ExceptionsAttribute struct {
	ExceptionIndexTable []uint16
}

func (a *ExceptionsAttribute) attributeName() string { return AttrExceptions }
func (a *ExceptionsAttribute) encode(w *Writer)      { encodeU16Table(w, a.ExceptionIndexTable) }

func decodeExceptions(r *Reader, _ *ConstantPool, _ *Options) (Attribute, error) {
	table, err := decodeU16Table(r)
	if err != nil {
		return nil, err
	}
	return &ExceptionsAttribute{ExceptionIndexTable: table}, nil
}

// EnclosingMethodAttribute identifies the innermost enclosing class and,
// for a local/anonymous class enclosed by a method, that method.
type EnclosingMethodAttribute struct {
	ClassIndex  uint16
	MethodIndex uint16
}

func (a *EnclosingMethodAttribute) attributeName() string { return AttrEnclosingMethod }
func (a *EnclosingMethodAttribute) encode(w *Writer) {
	w.WriteU16(a.ClassIndex)
	w.WriteU16(a.MethodIndex)
}

func decodeEnclosingMethod(r *Reader, _ *ConstantPool, _ *Options) (Attribute, error) {
	classIdx, methodIdx, err := readIndexPair(r)
	if err != nil {
		return nil, err
	}
	return &EnclosingMethodAttribute{ClassIndex: classIdx, MethodIndex: methodIdx}, nil
}

// SyntheticAttribute marks a member with no corresponding source-code
// construct. It carries no data.
type SyntheticAttribute struct{}

func (a *SyntheticAttribute) attributeName() string { return AttrSynthetic }
func (a *SyntheticAttribute) encode(*Writer)        {}

func decodeSynthetic(*Reader, *ConstantPool, *Options) (Attribute, error) {
	return &SyntheticAttribute{}, nil
}

// SignatureAttribute names a generic-aware Signature string (see the
// signature subpackage for its grammar).
type SignatureAttribute struct {
	SignatureIndex uint16
}

func (a *SignatureAttribute) attributeName() string { return AttrSignature }
func (a *SignatureAttribute) encode(w *Writer)      { w.WriteU16(a.SignatureIndex) }

func decodeSignatureAttribute(r *Reader, _ *ConstantPool, _ *Options) (Attribute, error) {
	idx, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	return &SignatureAttribute{SignatureIndex: idx}, nil
}

// SourceFileAttribute names the source file a class was compiled from.
type SourceFileAttribute struct {
	SourceFileIndex uint16
}

func (a *SourceFileAttribute) attributeName() string { return AttrSourceFile }
func (a *SourceFileAttribute) encode(w *Writer)      { w.WriteU16(a.SourceFileIndex) }

func decodeSourceFile(r *Reader, _ *ConstantPool, _ *Options) (Attribute, error) {
	idx, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	return &SourceFileAttribute{SourceFileIndex: idx}, nil
}

// SourceDebugExtensionAttribute carries extended debugging information,
// stored as raw modified-UTF-8 with no length prefix of its own (the
// surrounding attribute length is the only bound).
type SourceDebugExtensionAttribute struct {
	DebugExtension []byte
}

func (a *SourceDebugExtensionAttribute) attributeName() string { return AttrSourceDebugExtension }
func (a *SourceDebugExtensionAttribute) encode(w *Writer)      { w.Extend(a.DebugExtension) }

func decodeSourceDebugExtension(r *Reader, _ *ConstantPool, _ *Options) (Attribute, error) {
	raw, err := r.ReadExact(r.Remaining())
	if err != nil {
		return nil, err
	}
	buf := make([]byte, len(raw))
	copy(buf, raw)
	return &SourceDebugExtensionAttribute{DebugExtension: buf}, nil
}

// DeprecatedAttribute marks a deprecated member. It carries no data.
type DeprecatedAttribute struct{}

func (a *DeprecatedAttribute) attributeName() string { return AttrDeprecated }
func (a *DeprecatedAttribute) encode(*Writer)        {}

func decodeDeprecated(*Reader, *ConstantPool, *Options) (Attribute, error) {
	return &DeprecatedAttribute{}, nil
}

// LineNumberEntry maps a bytecode offset to a source line number.
type LineNumberEntry struct {
	StartPC    uint16
	LineNumber uint16
}

// LineNumberTableAttribute maps Code bytecode offsets to source lines.
type LineNumberTableAttribute struct {
	Entries []LineNumberEntry
}

func (a *LineNumberTableAttribute) attributeName() string { return AttrLineNumberTable }
func (a *LineNumberTableAttribute) encode(w *Writer) {
	w.WriteU16(uint16(len(a.Entries)))
	for _, e := range a.Entries {
		w.WriteU16(e.StartPC)
		w.WriteU16(e.LineNumber)
	}
}

func decodeLineNumberTable(r *Reader, _ *ConstantPool, _ *Options) (Attribute, error) {
	count, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	entries := make([]LineNumberEntry, count)
	for i := range entries {
		startPC, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		line, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		entries[i] = LineNumberEntry{StartPC: startPC, LineNumber: line}
	}
	return &LineNumberTableAttribute{Entries: entries}, nil
}

// LocalVariableEntry describes the scope and slot of one local variable.
type LocalVariableEntry struct {
	StartPC         uint16
	Length          uint16
	NameIndex       uint16
	DescriptorIndex uint16
	Index           uint16
}

// LocalVariableTableAttribute describes local variable scopes by
// descriptor.
type LocalVariableTableAttribute struct {
	Entries []LocalVariableEntry
}

func (a *LocalVariableTableAttribute) attributeName() string { return AttrLocalVariableTable }
func (a *LocalVariableTableAttribute) encode(w *Writer) {
	encodeLocalVariableEntries(w, a.Entries)
}

func decodeLocalVariableTable(r *Reader, _ *ConstantPool, _ *Options) (Attribute, error) {
	entries, err := decodeLocalVariableEntries(r)
	if err != nil {
		return nil, err
	}
	return &LocalVariableTableAttribute{Entries: entries}, nil
}

// LocalVariableTypeEntry describes the scope and slot of one local
// variable by generic Signature rather than descriptor.
type LocalVariableTypeEntry struct {
	StartPC        uint16
	Length         uint16
	NameIndex      uint16
	SignatureIndex uint16
	Index          uint16
}

// LocalVariableTypeTableAttribute describes local variable scopes by
// generic signature, for variables whose type uses type parameters.
type LocalVariableTypeTableAttribute struct {
	Entries []LocalVariableTypeEntry
}

func (a *LocalVariableTypeTableAttribute) attributeName() string { return AttrLocalVariableTypeTable }
func (a *LocalVariableTypeTableAttribute) encode(w *Writer) {
	w.WriteU16(uint16(len(a.Entries)))
	for _, e := range a.Entries {
		w.WriteU16(e.StartPC)
		w.WriteU16(e.Length)
		w.WriteU16(e.NameIndex)
		w.WriteU16(e.SignatureIndex)
		w.WriteU16(e.Index)
	}
}

func decodeLocalVariableTypeTable(r *Reader, _ *ConstantPool, _ *Options) (Attribute, error) {
	count, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	entries := make([]LocalVariableTypeEntry, count)
	for i := range entries {
		var e LocalVariableTypeEntry
		if e.StartPC, err = r.ReadU16(); err != nil {
			return nil, err
		}
		if e.Length, err = r.ReadU16(); err != nil {
			return nil, err
		}
		if e.NameIndex, err = r.ReadU16(); err != nil {
			return nil, err
		}
		if e.SignatureIndex, err = r.ReadU16(); err != nil {
			return nil, err
		}
		if e.Index, err = r.ReadU16(); err != nil {
			return nil, err
		}
		entries[i] = e
	}
	return &LocalVariableTypeTableAttribute{Entries: entries}, nil
}

func decodeLocalVariableEntries(r *Reader) ([]LocalVariableEntry, error) {
	count, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	entries := make([]LocalVariableEntry, count)
	for i := range entries {
		var e LocalVariableEntry
		if e.StartPC, err = r.ReadU16(); err != nil {
			return nil, err
		}
		if e.Length, err = r.ReadU16(); err != nil {
			return nil, err
		}
		if e.NameIndex, err = r.ReadU16(); err != nil {
			return nil, err
		}
		if e.DescriptorIndex, err = r.ReadU16(); err != nil {
			return nil, err
		}
		if e.Index, err = r.ReadU16(); err != nil {
			return nil, err
		}
		entries[i] = e
	}
	return entries, nil
}

func encodeLocalVariableEntries(w *Writer, entries []LocalVariableEntry) {
	w.WriteU16(uint16(len(entries)))
	for _, e := range entries {
		w.WriteU16(e.StartPC)
		w.WriteU16(e.Length)
		w.WriteU16(e.NameIndex)
		w.WriteU16(e.DescriptorIndex)
		w.WriteU16(e.Index)
	}
}

// MethodParameter describes one formal parameter's access flags and
// optional name.
type MethodParameter struct {
	NameIndex   uint16
	AccessFlags AccessFlags
}

// MethodParametersAttribute names and flags a method's formal parameters
// in declaration order.
type MethodParametersAttribute struct {
	Parameters []MethodParameter
}

func (a *MethodParametersAttribute) attributeName() string { return AttrMethodParameters }
func (a *MethodParametersAttribute) encode(w *Writer) {
	w.WriteU8(uint8(len(a.Parameters)))
	for _, p := range a.Parameters {
		w.WriteU16(p.NameIndex)
		p.AccessFlags.Encode(w)
	}
}

func decodeMethodParameters(r *Reader, _ *ConstantPool, _ *Options) (Attribute, error) {
	count, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	params := make([]MethodParameter, count)
	for i := range params {
		nameIdx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		flags, err := DecodeAccessFlags(r, OwnerParameter)
		if err != nil {
			return nil, err
		}
		params[i] = MethodParameter{NameIndex: nameIdx, AccessFlags: flags}
	}
	return &MethodParametersAttribute{Parameters: params}, nil
}

// ModulePackagesAttribute lists every package belonging to a module.
type ModulePackagesAttribute struct {
	PackageIndices []uint16
}

func (a *ModulePackagesAttribute) attributeName() string { return AttrModulePackages }
func (a *ModulePackagesAttribute) encode(w *Writer)      { encodeU16Table(w, a.PackageIndices) }

func decodeModulePackages(r *Reader, _ *ConstantPool, _ *Options) (Attribute, error) {
	table, err := decodeU16Table(r)
	if err != nil {
		return nil, err
	}
	return &ModulePackagesAttribute{PackageIndices: table}, nil
}

// ModuleMainClassAttribute names a module's main class.
type ModuleMainClassAttribute struct {
	MainClassIndex uint16
}

func (a *ModuleMainClassAttribute) attributeName() string { return AttrModuleMainClass }
func (a *ModuleMainClassAttribute) encode(w *Writer)      { w.WriteU16(a.MainClassIndex) }

func decodeModuleMainClass(r *Reader, _ *ConstantPool, _ *Options) (Attribute, error) {
	idx, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	return &ModuleMainClassAttribute{MainClassIndex: idx}, nil
}

// NestHostAttribute names this class's nest host.
type NestHostAttribute struct {
	HostClassIndex uint16
}

func (a *NestHostAttribute) attributeName() string { return AttrNestHost }
func (a *NestHostAttribute) encode(w *Writer)      { w.WriteU16(a.HostClassIndex) }

func decodeNestHost(r *Reader, _ *ConstantPool, _ *Options) (Attribute, error) {
	idx, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	return &NestHostAttribute{HostClassIndex: idx}, nil
}

// NestMembersAttribute lists the members of this class's nest.
type NestMembersAttribute struct {
	Classes []uint16
}

func (a *NestMembersAttribute) attributeName() string { return AttrNestMembers }
func (a *NestMembersAttribute) encode(w *Writer)      { encodeU16Table(w, a.Classes) }

func decodeNestMembers(r *Reader, _ *ConstantPool, _ *Options) (Attribute, error) {
	table, err := decodeU16Table(r)
	if err != nil {
		return nil, err
	}
	return &NestMembersAttribute{Classes: table}, nil
}

// PermittedSubclassesAttribute lists the classes/interfaces permitted to
// directly extend/implement a sealed class.
type PermittedSubclassesAttribute struct {
	Classes []uint16
}

func (a *PermittedSubclassesAttribute) attributeName() string { return AttrPermittedSubclasses }
func (a *PermittedSubclassesAttribute) encode(w *Writer)      { encodeU16Table(w, a.Classes) }

func decodePermittedSubclasses(r *Reader, _ *ConstantPool, _ *Options) (Attribute, error) {
	table, err := decodeU16Table(r)
	if err != nil {
		return nil, err
	}
	return &PermittedSubclassesAttribute{Classes: table}, nil
}

// decodeU16Table reads a u16-count-prefixed list of u16 indices, the
// shape shared by Exceptions, ModulePackages, NestMembers,
// PermittedSubclasses, and Uses.
func decodeU16Table(r *Reader) ([]uint16, error) {
	count, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	table := make([]uint16, count)
	for i := range table {
		v, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		table[i] = v
	}
	return table, nil
}

func encodeU16Table(w *Writer, table []uint16) {
	w.WriteU16(uint16(len(table)))
	for _, v := range table {
		w.WriteU16(v)
	}
}
