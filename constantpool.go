// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import (
	"bytes"
	"fmt"
	"sync"
)

// ConstantKind discriminates the 17 constant-pool tag variants (JVMS
// §4.4).
type ConstantKind int

// The constant kinds a ConstantPool slot can hold.
const (
	KindUTF8 ConstantKind = iota
	KindInteger
	KindFloat
	KindLong
	KindDouble
	KindClass
	KindString
	KindFieldRef
	KindMethodRef
	KindInterfaceMethodRef
	KindNameAndType
	KindMethodHandle
	KindMethodType
	KindDynamic
	KindInvokeDynamic
	KindModule
	KindPackage
)

// Constant is the closed tagged union of constant-pool entries. Concrete
// types below implement it; callers type-switch or use the ConstantPool
// typed-accessor family (GetUTF8, GetClass, ...) to recover a specific
// variant.
type Constant interface {
	Kind() ConstantKind
	// wide reports whether this constant occupies two pool slots.
	wide() bool
}

// reservedSlot marks the second slot of a Long or Double constant. It is
// never returned to callers; ConstantPool.Get treats it as absent.
type reservedSlot struct{}

func (reservedSlot) Kind() ConstantKind { return -1 }
func (reservedSlot) wide() bool         { return false }

// UTF8Constant holds modified-UTF-8 bytes. Equality and interning compare
// raw bytes, never the decoded string, since modified-UTF-8 sequences may
// not be valid standard UTF-8.
type UTF8Constant struct {
	Raw []byte

	once    sync.Once
	decoded string
	decErr  error
}

func (c *UTF8Constant) Kind() ConstantKind { return KindUTF8 }
func (c *UTF8Constant) wide() bool         { return false }

// String returns the host Unicode string form of Raw, decoding and
// memoizing it on first access. Concurrent callers observe the same
// decoded value; the cache is populated at most once.
func (c *UTF8Constant) String() (string, error) {
	c.once.Do(func() {
		c.decoded, c.decErr = DecodeModifiedUTF8(c.Raw)
	})
	return c.decoded, c.decErr
}

// IntegerConstant holds a 32-bit value as its raw big-endian bytes; the
// bit reinterpretation to int32 never fails.
type IntegerConstant struct {
	Bytes [4]byte
}

func (c *IntegerConstant) Kind() ConstantKind { return KindInteger }
func (c *IntegerConstant) wide() bool         { return false }

// Int32 reinterprets Bytes as a big-endian two's-complement int32.
func (c *IntegerConstant) Int32() int32 {
	return int32(uint32(c.Bytes[0])<<24 | uint32(c.Bytes[1])<<16 | uint32(c.Bytes[2])<<8 | uint32(c.Bytes[3]))
}

// FloatConstant holds an IEEE 754 single-precision value as its raw
// big-endian bytes, preserving NaN payloads bit-exactly.
type FloatConstant struct {
	Bytes [4]byte
}

func (c *FloatConstant) Kind() ConstantKind { return KindFloat }
func (c *FloatConstant) wide() bool         { return false }

// LongConstant holds a 64-bit value as its raw big-endian bytes. It
// occupies two constant-pool slots.
type LongConstant struct {
	Bytes [8]byte
}

func (c *LongConstant) Kind() ConstantKind { return KindLong }
func (c *LongConstant) wide() bool         { return true }

// Int64 reinterprets Bytes as a big-endian two's-complement int64.
func (c *LongConstant) Int64() int64 {
	var v uint64
	for _, b := range c.Bytes {
		v = v<<8 | uint64(b)
	}
	return int64(v)
}

// DoubleConstant holds an IEEE 754 double-precision value as its raw
// big-endian bytes, preserving NaN payloads bit-exactly. It occupies two
// constant-pool slots.
type DoubleConstant struct {
	Bytes [8]byte
}

func (c *DoubleConstant) Kind() ConstantKind { return KindDouble }
func (c *DoubleConstant) wide() bool         { return true }

// ClassConstant names a class or interface via its binary name's UTF8
// constant.
type ClassConstant struct {
	NameIndex uint16
}

func (c *ClassConstant) Kind() ConstantKind { return KindClass }
func (c *ClassConstant) wide() bool         { return false }

// StringConstant is a run-time constant String, via its UTF8 constant.
type StringConstant struct {
	StringIndex uint16
}

func (c *StringConstant) Kind() ConstantKind { return KindString }
func (c *StringConstant) wide() bool         { return false }

// FieldRefConstant is a symbolic reference to a field.
type FieldRefConstant struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (c *FieldRefConstant) Kind() ConstantKind { return KindFieldRef }
func (c *FieldRefConstant) wide() bool         { return false }

// MethodRefConstant is a symbolic reference to a class method.
type MethodRefConstant struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (c *MethodRefConstant) Kind() ConstantKind { return KindMethodRef }
func (c *MethodRefConstant) wide() bool         { return false }

// InterfaceMethodRefConstant is a symbolic reference to an interface
// method.
type InterfaceMethodRefConstant struct {
	ClassIndex       uint16
	NameAndTypeIndex uint16
}

func (c *InterfaceMethodRefConstant) Kind() ConstantKind { return KindInterfaceMethodRef }
func (c *InterfaceMethodRefConstant) wide() bool         { return false }

// NameAndTypeConstant pairs a name with a descriptor, both UTF8 constants.
type NameAndTypeConstant struct {
	NameIndex       uint16
	DescriptorIndex uint16
}

func (c *NameAndTypeConstant) Kind() ConstantKind { return KindNameAndType }
func (c *NameAndTypeConstant) wide() bool         { return false }

// MethodHandleConstant denotes a method handle of a given kind (JVMS table
// 5.4.3.5) over a field/method/interface-method reference.
type MethodHandleConstant struct {
	ReferenceKind  uint8
	ReferenceIndex uint16
}

func (c *MethodHandleConstant) Kind() ConstantKind { return KindMethodHandle }
func (c *MethodHandleConstant) wide() bool         { return false }

// MethodTypeConstant names a method descriptor.
type MethodTypeConstant struct {
	DescriptorIndex uint16
}

func (c *MethodTypeConstant) Kind() ConstantKind { return KindMethodType }
func (c *MethodTypeConstant) wide() bool         { return false }

// DynamicConstant is a dynamically-computed constant, resolved via a
// bootstrap method.
type DynamicConstant struct {
	BootstrapMethodAttrIndex uint16
	NameAndTypeIndex         uint16
}

func (c *DynamicConstant) Kind() ConstantKind { return KindDynamic }
func (c *DynamicConstant) wide() bool         { return false }

// InvokeDynamicConstant is a dynamically-computed call site, resolved via
// a bootstrap method.
type InvokeDynamicConstant struct {
	BootstrapMethodAttrIndex uint16
	NameAndTypeIndex         uint16
}

func (c *InvokeDynamicConstant) Kind() ConstantKind { return KindInvokeDynamic }
func (c *InvokeDynamicConstant) wide() bool         { return false }

// ModuleConstant names a module.
type ModuleConstant struct {
	NameIndex uint16
}

func (c *ModuleConstant) Kind() ConstantKind { return KindModule }
func (c *ModuleConstant) wide() bool         { return false }

// PackageConstant names a package.
type PackageConstant struct {
	NameIndex uint16
}

func (c *PackageConstant) Kind() ConstantKind { return KindPackage }
func (c *PackageConstant) wide() bool         { return false }

// ConstantPool is the indexed, heterogeneous table addressed by u16
// indices starting at 1 (JVMS §4.4). slots holds one entry per slot,
// not per entry: a Long/Double contributes its value to the first slot and
// a reservedSlot marker to the second.
type ConstantPool struct {
	slots []Constant
	index map[constantKey]uint16
}

// NewConstantPool returns an empty, writable pool suitable for building up
// via Intern, for generating a class from scratch rather than
// round-tripping a decoded one.
func NewConstantPool() *ConstantPool {
	return &ConstantPool{index: make(map[constantKey]uint16)}
}

// Count returns the written constant_pool_count: actual slot count + 1.
func (p *ConstantPool) Count() uint16 {
	return uint16(len(p.slots) + 1)
}

// Get returns the constant at index, or nil for index 0, an out-of-range
// index, or the second slot of a 2-slot constant (JVMS §4.4.5).
func (p *ConstantPool) Get(index uint16) Constant {
	if index == 0 {
		return nil
	}
	i := int(index) - 1
	if i < 0 || i >= len(p.slots) {
		return nil
	}
	if _, ok := p.slots[i].(reservedSlot); ok {
		return nil
	}
	return p.slots[i]
}

// GetUTF8 resolves index as a UTF8Constant.
func (p *ConstantPool) GetUTF8(index uint16) (*UTF8Constant, bool) {
	c, ok := p.Get(index).(*UTF8Constant)
	return c, ok
}

// GetClass resolves index as a ClassConstant.
func (p *ConstantPool) GetClass(index uint16) (*ClassConstant, bool) {
	c, ok := p.Get(index).(*ClassConstant)
	return c, ok
}

// GetNameAndType resolves index as a NameAndTypeConstant.
func (p *ConstantPool) GetNameAndType(index uint16) (*NameAndTypeConstant, bool) {
	c, ok := p.Get(index).(*NameAndTypeConstant)
	return c, ok
}

// ClassName resolves index as a ClassConstant and decodes its name. Under
// permissive resolution (the default) a wrong-kind or dangling index
// yields ("", false) rather than an error; Options.StrictIndices turns
// the same situation into an *InvalidIndexError surfaced from Decode.
func (p *ConstantPool) ClassName(index uint16) (string, bool) {
	cls, ok := p.GetClass(index)
	if !ok {
		return "", false
	}
	utf8, ok := p.GetUTF8(cls.NameIndex)
	if !ok {
		return "", false
	}
	s, err := utf8.String()
	if err != nil {
		return "", false
	}
	return s, true
}

// UTF8String resolves index as a UTF8Constant and decodes it, returning
// ("", false) permissively when the index is absent or the wrong kind.
func (p *ConstantPool) UTF8String(index uint16) (string, bool) {
	utf8, ok := p.GetUTF8(index)
	if !ok {
		return "", false
	}
	s, err := utf8.String()
	if err != nil {
		return "", false
	}
	return s, true
}

// Validate checks every cross-reference stored inside the pool's own
// entries: each index must resolve to a live slot of the semantically
// correct kind, failing with *InvalidIndexError otherwise. Decode runs it
// when Options.StrictIndices is set; permissive decoding never does.
// Bootstrap-method indices inside Dynamic/InvokeDynamic point into the
// BootstrapMethods attribute, not the pool, and are not checked here.
func (p *ConstantPool) Validate() error {
	requireUTF8 := func(index uint16) error {
		if _, ok := p.GetUTF8(index); !ok {
			return &InvalidIndexError{Index: index, ExpectedKind: "Utf8"}
		}
		return nil
	}
	requireNameAndType := func(index uint16) error {
		if _, ok := p.GetNameAndType(index); !ok {
			return &InvalidIndexError{Index: index, ExpectedKind: "NameAndType"}
		}
		return nil
	}
	requireClass := func(index uint16) error {
		if _, ok := p.GetClass(index); !ok {
			return &InvalidIndexError{Index: index, ExpectedKind: "Class"}
		}
		return nil
	}
	requireRef := func(classIdx, natIdx uint16) error {
		if err := requireClass(classIdx); err != nil {
			return err
		}
		return requireNameAndType(natIdx)
	}

	for _, c := range p.slots {
		var err error
		switch v := c.(type) {
		case *ClassConstant:
			err = requireUTF8(v.NameIndex)
		case *StringConstant:
			err = requireUTF8(v.StringIndex)
		case *FieldRefConstant:
			err = requireRef(v.ClassIndex, v.NameAndTypeIndex)
		case *MethodRefConstant:
			err = requireRef(v.ClassIndex, v.NameAndTypeIndex)
		case *InterfaceMethodRefConstant:
			err = requireRef(v.ClassIndex, v.NameAndTypeIndex)
		case *NameAndTypeConstant:
			if err = requireUTF8(v.NameIndex); err == nil {
				err = requireUTF8(v.DescriptorIndex)
			}
		case *MethodHandleConstant:
			switch p.Get(v.ReferenceIndex).(type) {
			case *FieldRefConstant, *MethodRefConstant, *InterfaceMethodRefConstant:
			default:
				err = &InvalidIndexError{Index: v.ReferenceIndex, ExpectedKind: "FieldRef/MethodRef/InterfaceMethodRef"}
			}
		case *MethodTypeConstant:
			err = requireUTF8(v.DescriptorIndex)
		case *DynamicConstant:
			err = requireNameAndType(v.NameAndTypeIndex)
		case *InvokeDynamicConstant:
			err = requireNameAndType(v.NameAndTypeIndex)
		case *ModuleConstant:
			err = requireUTF8(v.NameIndex)
		case *PackageConstant:
			err = requireUTF8(v.NameIndex)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// DecodeConstantPool reads the constant_pool_count followed by that many
// slots worth of entries (JVMS §4.4). maxEntries, if non-zero,
// rejects a declared count above it with ErrPoolOverflow before any
// entry is read, bounding how much an untrusted constant_pool_count can
// make the decoder allocate (Options.MaxConstantPoolEntries).
func DecodeConstantPool(r *Reader, maxEntries uint16) (*ConstantPool, error) {
	count, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	if maxEntries != 0 && count > maxEntries {
		return nil, ErrPoolOverflow
	}
	pool := &ConstantPool{}
	slotTarget := int(count) - 1
	for len(pool.slots) < slotTarget {
		c, err := decodeConstant(r)
		if err != nil {
			return nil, err
		}
		pool.slots = append(pool.slots, c)
		if c.wide() {
			pool.slots = append(pool.slots, reservedSlot{})
		}
	}
	// A Long/Double in the final declared slot would spill its hidden
	// second slot past constant_pool_count.
	if len(pool.slots) != slotTarget {
		return nil, &TrailingBytesError{Context: "constant pool", Count: len(pool.slots) - slotTarget}
	}
	return pool, nil
}

func decodeConstant(r *Reader) (Constant, error) {
	tag, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case TagUTF8:
		length, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		raw, err := r.ReadExact(int(length))
		if err != nil {
			return nil, err
		}
		buf := make([]byte, len(raw))
		copy(buf, raw)
		return &UTF8Constant{Raw: buf}, nil
	case TagInteger:
		var c IntegerConstant
		b, err := r.ReadExact(4)
		if err != nil {
			return nil, err
		}
		copy(c.Bytes[:], b)
		return &c, nil
	case TagFloat:
		var c FloatConstant
		b, err := r.ReadExact(4)
		if err != nil {
			return nil, err
		}
		copy(c.Bytes[:], b)
		return &c, nil
	case TagLong:
		var c LongConstant
		b, err := r.ReadExact(8)
		if err != nil {
			return nil, err
		}
		copy(c.Bytes[:], b)
		return &c, nil
	case TagDouble:
		var c DoubleConstant
		b, err := r.ReadExact(8)
		if err != nil {
			return nil, err
		}
		copy(c.Bytes[:], b)
		return &c, nil
	case TagClass:
		idx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		return &ClassConstant{NameIndex: idx}, nil
	case TagString:
		idx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		return &StringConstant{StringIndex: idx}, nil
	case TagFieldRef:
		classIdx, natIdx, err := readIndexPair(r)
		if err != nil {
			return nil, err
		}
		return &FieldRefConstant{ClassIndex: classIdx, NameAndTypeIndex: natIdx}, nil
	case TagMethodRef:
		classIdx, natIdx, err := readIndexPair(r)
		if err != nil {
			return nil, err
		}
		return &MethodRefConstant{ClassIndex: classIdx, NameAndTypeIndex: natIdx}, nil
	case TagInterfaceMethodRef:
		classIdx, natIdx, err := readIndexPair(r)
		if err != nil {
			return nil, err
		}
		return &InterfaceMethodRefConstant{ClassIndex: classIdx, NameAndTypeIndex: natIdx}, nil
	case TagNameAndType:
		nameIdx, descIdx, err := readIndexPair(r)
		if err != nil {
			return nil, err
		}
		return &NameAndTypeConstant{NameIndex: nameIdx, DescriptorIndex: descIdx}, nil
	case TagMethodHandle:
		refKind, err := r.ReadU8()
		if err != nil {
			return nil, err
		}
		refIdx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		return &MethodHandleConstant{ReferenceKind: refKind, ReferenceIndex: refIdx}, nil
	case TagMethodType:
		idx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		return &MethodTypeConstant{DescriptorIndex: idx}, nil
	case TagDynamic:
		bsmIdx, natIdx, err := readIndexPair(r)
		if err != nil {
			return nil, err
		}
		return &DynamicConstant{BootstrapMethodAttrIndex: bsmIdx, NameAndTypeIndex: natIdx}, nil
	case TagInvokeDynamic:
		bsmIdx, natIdx, err := readIndexPair(r)
		if err != nil {
			return nil, err
		}
		return &InvokeDynamicConstant{BootstrapMethodAttrIndex: bsmIdx, NameAndTypeIndex: natIdx}, nil
	case TagModule:
		idx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		return &ModuleConstant{NameIndex: idx}, nil
	case TagPackage:
		idx, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		return &PackageConstant{NameIndex: idx}, nil
	default:
		return nil, &UnknownTagError{Context: "constant", Value: int(tag)}
	}
}

func readIndexPair(r *Reader) (uint16, uint16, error) {
	a, err := r.ReadU16()
	if err != nil {
		return 0, 0, err
	}
	b, err := r.ReadU16()
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

// Encode emits constant_pool_count followed by each entry in slot order.
// Entries that occupy two slots re-emit their single tagged form; no
// padding is written for the reserved second slot.
func (p *ConstantPool) Encode(w *Writer) {
	w.WriteU16(p.Count())
	for _, c := range p.slots {
		if _, ok := c.(reservedSlot); ok {
			continue
		}
		encodeConstantTagged(w, c)
	}
}

func encodeConstantTagged(w *Writer, c Constant) {
	switch v := c.(type) {
	case *UTF8Constant:
		w.WriteU8(TagUTF8)
		w.WriteU16(uint16(len(v.Raw)))
		w.Extend(v.Raw)
	case *IntegerConstant:
		w.WriteU8(TagInteger)
		w.Extend(v.Bytes[:])
	case *FloatConstant:
		w.WriteU8(TagFloat)
		w.Extend(v.Bytes[:])
	case *LongConstant:
		w.WriteU8(TagLong)
		w.Extend(v.Bytes[:])
	case *DoubleConstant:
		w.WriteU8(TagDouble)
		w.Extend(v.Bytes[:])
	case *ClassConstant:
		w.WriteU8(TagClass)
		w.WriteU16(v.NameIndex)
	case *StringConstant:
		w.WriteU8(TagString)
		w.WriteU16(v.StringIndex)
	case *FieldRefConstant:
		w.WriteU8(TagFieldRef)
		w.WriteU16(v.ClassIndex)
		w.WriteU16(v.NameAndTypeIndex)
	case *MethodRefConstant:
		w.WriteU8(TagMethodRef)
		w.WriteU16(v.ClassIndex)
		w.WriteU16(v.NameAndTypeIndex)
	case *InterfaceMethodRefConstant:
		w.WriteU8(TagInterfaceMethodRef)
		w.WriteU16(v.ClassIndex)
		w.WriteU16(v.NameAndTypeIndex)
	case *NameAndTypeConstant:
		w.WriteU8(TagNameAndType)
		w.WriteU16(v.NameIndex)
		w.WriteU16(v.DescriptorIndex)
	case *MethodHandleConstant:
		w.WriteU8(TagMethodHandle)
		w.WriteU8(v.ReferenceKind)
		w.WriteU16(v.ReferenceIndex)
	case *MethodTypeConstant:
		w.WriteU8(TagMethodType)
		w.WriteU16(v.DescriptorIndex)
	case *DynamicConstant:
		w.WriteU8(TagDynamic)
		w.WriteU16(v.BootstrapMethodAttrIndex)
		w.WriteU16(v.NameAndTypeIndex)
	case *InvokeDynamicConstant:
		w.WriteU8(TagInvokeDynamic)
		w.WriteU16(v.BootstrapMethodAttrIndex)
		w.WriteU16(v.NameAndTypeIndex)
	case *ModuleConstant:
		w.WriteU8(TagModule)
		w.WriteU16(v.NameIndex)
	case *PackageConstant:
		w.WriteU8(TagPackage)
		w.WriteU16(v.NameIndex)
	default:
		panic(fmt.Sprintf("classfile: unencodable constant %T", c))
	}
}

// constantKey is a hashable identity for a constant's payload, used by
// Intern to dedup by structural equality rather than pointer identity.
// Utf8 compares by raw bytes (via rawStr), never the decoded string.
type constantKey struct {
	kind   ConstantKind
	a, b   uint16
	refKnd uint8
	rawStr string
}

func keyOf(c Constant) constantKey {
	switch v := c.(type) {
	case *UTF8Constant:
		return constantKey{kind: KindUTF8, rawStr: string(v.Raw)}
	case *IntegerConstant:
		return constantKey{kind: KindInteger, rawStr: string(v.Bytes[:])}
	case *FloatConstant:
		return constantKey{kind: KindFloat, rawStr: string(v.Bytes[:])}
	case *LongConstant:
		return constantKey{kind: KindLong, rawStr: string(v.Bytes[:])}
	case *DoubleConstant:
		return constantKey{kind: KindDouble, rawStr: string(v.Bytes[:])}
	case *ClassConstant:
		return constantKey{kind: KindClass, a: v.NameIndex}
	case *StringConstant:
		return constantKey{kind: KindString, a: v.StringIndex}
	case *FieldRefConstant:
		return constantKey{kind: KindFieldRef, a: v.ClassIndex, b: v.NameAndTypeIndex}
	case *MethodRefConstant:
		return constantKey{kind: KindMethodRef, a: v.ClassIndex, b: v.NameAndTypeIndex}
	case *InterfaceMethodRefConstant:
		return constantKey{kind: KindInterfaceMethodRef, a: v.ClassIndex, b: v.NameAndTypeIndex}
	case *NameAndTypeConstant:
		return constantKey{kind: KindNameAndType, a: v.NameIndex, b: v.DescriptorIndex}
	case *MethodHandleConstant:
		return constantKey{kind: KindMethodHandle, refKnd: v.ReferenceKind, a: v.ReferenceIndex}
	case *MethodTypeConstant:
		return constantKey{kind: KindMethodType, a: v.DescriptorIndex}
	case *DynamicConstant:
		return constantKey{kind: KindDynamic, a: v.BootstrapMethodAttrIndex, b: v.NameAndTypeIndex}
	case *InvokeDynamicConstant:
		return constantKey{kind: KindInvokeDynamic, a: v.BootstrapMethodAttrIndex, b: v.NameAndTypeIndex}
	case *ModuleConstant:
		return constantKey{kind: KindModule, a: v.NameIndex}
	case *PackageConstant:
		return constantKey{kind: KindPackage, a: v.NameIndex}
	default:
		panic(fmt.Sprintf("classfile: unkeyable constant %T", c))
	}
}

// Intern returns the index of a constant structurally equal to c, or
// appends c as a new entry and returns its fresh index. It fails with
// ErrPoolOverflow rather than growing the slot count past 65535, the
// limit a u16 index space imposes.
func (p *ConstantPool) Intern(c Constant) (uint16, error) {
	if p.index == nil {
		p.index = make(map[constantKey]uint16, len(p.slots))
		for i, existing := range p.slots {
			if _, ok := existing.(reservedSlot); ok {
				continue
			}
			p.index[keyOf(existing)] = uint16(i + 1)
		}
	}
	k := keyOf(c)
	if idx, ok := p.index[k]; ok {
		return idx, nil
	}
	width := 1
	if c.wide() {
		width = 2
	}
	if len(p.slots)+width > 0xFFFF-1 {
		return 0, ErrPoolOverflow
	}
	idx := uint16(len(p.slots) + 1)
	p.slots = append(p.slots, c)
	if c.wide() {
		p.slots = append(p.slots, reservedSlot{})
	}
	p.index[k] = idx
	return idx, nil
}

// InternUTF8 is a convenience wrapper around Intern for the extremely
// common case of interning a string's modified-UTF-8 encoding.
func (p *ConstantPool) InternUTF8(s string) (uint16, error) {
	raw, err := EncodeModifiedUTF8(s)
	if err != nil {
		return 0, err
	}
	return p.Intern(&UTF8Constant{Raw: raw})
}

// Equal reports whether two pools decode to the same sequence of entries,
// comparing UTF8 constants by raw bytes. Used by round-trip tests.
func (p *ConstantPool) Equal(other *ConstantPool) bool {
	if len(p.slots) != len(other.slots) {
		return false
	}
	for i := range p.slots {
		if !constantEqual(p.slots[i], other.slots[i]) {
			return false
		}
	}
	return true
}

func constantEqual(a, b Constant) bool {
	if _, ok := a.(reservedSlot); ok {
		_, ok2 := b.(reservedSlot)
		return ok2
	}
	au, aok := a.(*UTF8Constant)
	bu, bok := b.(*UTF8Constant)
	if aok || bok {
		return aok && bok && bytes.Equal(au.Raw, bu.Raw)
	}
	return keyOf(a) == keyOf(b)
}
