// Package types holds the static type descriptors the runtime core consumes:
// classes, generic classes and the per-compilation-unit type environment that
// memoizes generic instantiations.
package types

import (
	"fmt"
	"sync/atomic"
)

// ClassID uniquely identifies a class descriptor. IDs are allocated once per
// process and never reused, so they are stable keys for instantiation tables.
type ClassID uint32

// NoClassID marks the absence of a class.
const NoClassID ClassID = 0

var nextClassID atomic.Uint32

func allocClassID() ClassID {
	return ClassID(nextClassID.Add(1))
}

// Kind enumerates the runtime-relevant categories of declared types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindNone
	KindBool
	KindInt
	KindUint
	KindObject
	KindTypeVar
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindNone:
		return "none"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindObject:
		return "object"
	case KindTypeVar:
		return "typevar"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Width captures the precision of fixed-width integer types.
type Width uint8

const (
	WidthAny Width = 0
	Width8   Width = 8
	Width16  Width = 16
	Width32  Width = 32
	Width64  Width = 64
)

// Class is a static type descriptor. Identity is pointer identity: two types
// are the same type iff they are the same *Class, which is why generic
// instantiations must be memoized per environment.
type Class struct {
	id    ClassID
	Name  string
	Kind  Kind
	Width Width  // for KindInt/KindUint
	Base  *Class // nil for roots

	members map[string]*Class

	// Set only on instantiations produced by a GenericClass factory.
	Generic *GenericClass
	Args    []*Class
}

// NewClass creates an object class descriptor.
func NewClass(name string, base *Class) *Class {
	return &Class{
		id:   allocClassID(),
		Name: name,
		Kind: KindObject,
		Base: base,
	}
}

// NewPrimitive creates a primitive class descriptor (none, bool, fixed-width
// integers). Primitives have no base and no members.
func NewPrimitive(name string, kind Kind, width Width) *Class {
	return &Class{
		id:    allocClassID(),
		Name:  name,
		Kind:  kind,
		Width: width,
	}
}

// ID returns the stable identifier of the class.
func (c *Class) ID() ClassID {
	if c == nil {
		return NoClassID
	}
	return c.id
}

func (c *Class) String() string {
	if c == nil {
		return "<nil class>"
	}
	return c.Name
}

// SetMember declares a named member with the given type.
func (c *Class) SetMember(name string, typ *Class) {
	if c.members == nil {
		c.members = make(map[string]*Class)
	}
	c.members[name] = typ
}

// Member resolves a member type, walking the base chain.
func (c *Class) Member(name string) (*Class, bool) {
	for cur := c; cur != nil; cur = cur.Base {
		if t, ok := cur.members[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// IsSubclassOf reports whether c is other or a transitive subclass of it.
func (c *Class) IsSubclassOf(other *Class) bool {
	for cur := c; cur != nil; cur = cur.Base {
		if cur == other {
			return true
		}
	}
	return false
}

// IsFixedWidth reports whether the class is a range-checked primitive:
// a fixed-width integer or the boolean primitive.
func (c *Class) IsFixedWidth() bool {
	if c == nil {
		return false
	}
	switch c.Kind {
	case KindBool:
		return true
	case KindInt, KindUint:
		return c.Width != WidthAny
	default:
		return false
	}
}

// Builtins holds the predeclared primitive and root classes. The set is seeded
// once and shared by reference between type environments, so builtin identity
// comparisons hold across compilation units.
type Builtins struct {
	Object *Class
	None   *Class
	Bool   *Class

	Int8  *Class
	Int16 *Class
	Int32 *Class
	Int64 *Class

	Uint8  *Class
	Uint16 *Class
	Uint32 *Class
	Uint64 *Class
}

// NewBuiltins seeds the predeclared class set.
func NewBuiltins() *Builtins {
	return &Builtins{
		Object: NewClass("object", nil),
		None:   NewPrimitive("NoneType", KindNone, WidthAny),
		Bool:   NewPrimitive("cbool", KindBool, WidthAny),
		Int8:   NewPrimitive("int8", KindInt, Width8),
		Int16:  NewPrimitive("int16", KindInt, Width16),
		Int32:  NewPrimitive("int32", KindInt, Width32),
		Int64:  NewPrimitive("int64", KindInt, Width64),
		Uint8:  NewPrimitive("uint8", KindUint, Width8),
		Uint16: NewPrimitive("uint16", KindUint, Width16),
		Uint32: NewPrimitive("uint32", KindUint, Width32),
		Uint64: NewPrimitive("uint64", KindUint, Width64),
	}
}

// SignedByWidth returns the signed fixed-width class for a width.
func (b *Builtins) SignedByWidth(w Width) (*Class, bool) {
	switch w {
	case Width8:
		return b.Int8, true
	case Width16:
		return b.Int16, true
	case Width32:
		return b.Int32, true
	case Width64:
		return b.Int64, true
	default:
		return nil, false
	}
}

// UnsignedByWidth returns the unsigned fixed-width class for a width.
func (b *Builtins) UnsignedByWidth(w Width) (*Class, bool) {
	switch w {
	case Width8:
		return b.Uint8, true
	case Width16:
		return b.Uint16, true
	case Width32:
		return b.Uint32, true
	case Width64:
		return b.Uint64, true
	default:
		return nil, false
	}
}
