// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import (
	"os"

	mmap "github.com/edsrzf/mmap-go"
	"github.com/go-kratos/kratos/v2/log"
)

// Options controls how a Class is decoded.
type Options struct {
	// StrictIndices turns a dangling or wrong-kind constant-pool
	// cross-reference into an *InvalidIndexError instead of the
	// permissive zero-value/("", false) fallback every accessor returns
	// by default. Real-world class files do carry dangling references, so
	// permissive is the default.
	StrictIndices bool

	// SkipAttributeParsing, when true, leaves every AttributeInfo.Decoded
	// nil: only the raw name/bytes are captured. Attribute parsing is on
	// by default.
	SkipAttributeParsing bool

	// MaxConstantPoolEntries caps the constant_pool_count a Decode will
	// accept before allocating any slots, rejecting the rest with
	// ErrPoolOverflow. Zero means no cap beyond the format's own u16
	// limit. It guards against an untrusted count driving unbounded
	// allocation.
	MaxConstantPoolEntries uint16

	// A custom logger.
	Logger log.Logger
}

func (o *Options) parseAttributes() bool {
	return o == nil || !o.SkipAttributeParsing
}

func (o *Options) strict() bool {
	return o != nil && o.StrictIndices
}

func (o *Options) maxConstantPoolEntries() uint16 {
	if o == nil {
		return 0
	}
	return o.MaxConstantPoolEntries
}

// Class represents a parsed .class file (JVMS §4.1): the constant pool,
// access flags, this/super/interfaces, fields, methods, and attributes,
// decoded in file order.
type Class struct {
	Version      JavaVersion
	ConstantPool *ConstantPool
	AccessFlags  AccessFlags
	ThisClass    uint16
	SuperClass   uint16
	Interfaces   []uint16
	Fields       []*FieldInfo
	Methods      []*MethodInfo
	Attributes   []*AttributeInfo

	data   mmap.MMap
	f      *os.File
	opts   *Options
	logger *log.Helper
}

func newLogger(opts *Options) *log.Helper {
	if opts == nil || opts.Logger == nil {
		base := log.NewStdLogger(os.Stdout)
		return log.NewHelper(log.NewFilter(base, log.FilterLevel(log.LevelError)))
	}
	return log.NewHelper(opts.Logger)
}

// New instantiates a Class given a file name, memory-mapping its
// contents rather than reading it eagerly.
func New(name string, opts *Options) (*Class, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}

	c, err := Decode(data, opts)
	if err != nil {
		data.Unmap()
		f.Close()
		return nil, err
	}
	c.data = data
	c.f = f
	return c, nil
}

// NewBytes instantiates a Class given an in-memory buffer.
func NewBytes(data []byte, opts *Options) (*Class, error) {
	return Decode(data, opts)
}

// Close releases the memory mapping and underlying file handle acquired
// by New. It is a no-op for a Class built via NewBytes/Decode.
func (c *Class) Close() error {
	if c.data != nil {
		_ = c.data.Unmap()
	}
	if c.f != nil {
		return c.f.Close()
	}
	return nil
}

// Decode parses a complete class file from data (JVMS §4.1): magic,
// version, constant pool, access flags, this/super/interfaces, fields,
// methods, attributes, in that exact order.
func Decode(data []byte, opts *Options) (*Class, error) {
	logger := newLogger(opts)
	r := NewReader(data)

	magic, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if magic != ClassMagic {
		var got [4]byte
		got[0] = byte(magic >> 24)
		got[1] = byte(magic >> 16)
		got[2] = byte(magic >> 8)
		got[3] = byte(magic)
		return nil, &MismatchedMagicNumberError{Got: got}
	}

	version, err := DecodeJavaVersion(r)
	if err != nil {
		return nil, err
	}
	logger.Debugf("decoding class file version %s", version)

	pool, err := DecodeConstantPool(r, opts.maxConstantPoolEntries())
	if err != nil {
		return nil, err
	}

	accessFlags, err := DecodeAccessFlags(r, OwnerClass)
	if err != nil {
		return nil, err
	}

	thisClass, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	if thisClass == 0 {
		return nil, ErrInvalidThisClass
	}

	superClass, err := r.ReadU16()
	if err != nil {
		return nil, err
	}

	interfaces, err := decodeU16Table(r)
	if err != nil {
		return nil, err
	}

	fields, err := decodeFields(r, pool, opts)
	if err != nil {
		return nil, err
	}

	methods, err := decodeMethods(r, pool, opts)
	if err != nil {
		return nil, err
	}

	attrs, err := DecodeAttributes(r, pool, opts)
	if err != nil {
		return nil, err
	}

	if err := r.ExpectExhausted("class file"); err != nil {
		logger.Warnf("trailing bytes after class body: %v", err)
		return nil, err
	}

	if opts.strict() {
		if err := validateClassIndices(pool, thisClass, superClass, interfaces, fields, methods); err != nil {
			return nil, err
		}
	}

	return &Class{
		Version:      version,
		ConstantPool: pool,
		AccessFlags:  accessFlags,
		ThisClass:    thisClass,
		SuperClass:   superClass,
		Interfaces:   interfaces,
		Fields:       fields,
		Methods:      methods,
		Attributes:   attrs,
		opts:         opts,
		logger:       logger,
	}, nil
}

// validateClassIndices backs Options.StrictIndices: the pool must pass
// Validate, this_class, super_class (when non-zero) and every interface
// must name a Class constant, and every field and method name and
// descriptor index must name a Utf8 constant. Indices held inside
// attributes are not checked here.
func validateClassIndices(pool *ConstantPool, thisClass, superClass uint16, interfaces []uint16, fields []*FieldInfo, methods []*MethodInfo) error {
	if err := pool.Validate(); err != nil {
		return err
	}
	if _, ok := pool.GetClass(thisClass); !ok {
		return &InvalidIndexError{Index: thisClass, ExpectedKind: "Class"}
	}
	if superClass != 0 {
		if _, ok := pool.GetClass(superClass); !ok {
			return &InvalidIndexError{Index: superClass, ExpectedKind: "Class"}
		}
	}
	for _, idx := range interfaces {
		if _, ok := pool.GetClass(idx); !ok {
			return &InvalidIndexError{Index: idx, ExpectedKind: "Class"}
		}
	}
	for _, f := range fields {
		if _, ok := pool.GetUTF8(f.NameIndex); !ok {
			return &InvalidIndexError{Index: f.NameIndex, ExpectedKind: "Utf8"}
		}
		if _, ok := pool.GetUTF8(f.DescriptorIndex); !ok {
			return &InvalidIndexError{Index: f.DescriptorIndex, ExpectedKind: "Utf8"}
		}
	}
	for _, m := range methods {
		if _, ok := pool.GetUTF8(m.NameIndex); !ok {
			return &InvalidIndexError{Index: m.NameIndex, ExpectedKind: "Utf8"}
		}
		if _, ok := pool.GetUTF8(m.DescriptorIndex); !ok {
			return &InvalidIndexError{Index: m.DescriptorIndex, ExpectedKind: "Utf8"}
		}
	}
	return nil
}

// Encode serialises the class back to its binary form. Because every
// AttributeInfo retains its original raw bytes, a Class that was decoded
// and never mutated round-trips byte-for-byte.
func (c *Class) Encode() []byte {
	w := NewWriter()
	w.WriteU32(ClassMagic)
	c.Version.Encode(w)
	c.ConstantPool.Encode(w)
	c.AccessFlags.Encode(w)
	w.WriteU16(c.ThisClass)
	w.WriteU16(c.SuperClass)
	encodeU16Table(w, c.Interfaces)
	encodeFields(w, c.Fields)
	encodeMethods(w, c.Methods)
	EncodeAttributes(w, c.Attributes)
	return w.Bytes()
}

// EncodeToBytes is a convenience alias for Encode, named to mirror
// Decode/NewBytes at call sites that prefer the explicit verb.
func (c *Class) EncodeToBytes() []byte {
	return c.Encode()
}

// ThisClassName resolves ThisClass to its binary class name.
func (c *Class) ThisClassName() (string, bool) {
	return c.ConstantPool.ClassName(c.ThisClass)
}

// SuperClassName resolves SuperClass to its binary class name. It
// returns ("", false) for java.lang.Object and module-info classes,
// where SuperClass is legitimately 0 (JVMS §4.1).
func (c *Class) SuperClassName() (string, bool) {
	if c.SuperClass == 0 {
		return "", false
	}
	return c.ConstantPool.ClassName(c.SuperClass)
}

// InterfaceNames resolves every entry of Interfaces to its binary class
// name, permissively skipping any that fail to resolve.
func (c *Class) InterfaceNames() []string {
	names := make([]string, 0, len(c.Interfaces))
	for _, idx := range c.Interfaces {
		if name, ok := c.ConstantPool.ClassName(idx); ok {
			names = append(names, name)
		}
	}
	return names
}
