// Package dispatch implements the runtime binding core: typed slots with
// direct and guarded dispatch, patch guards that enforce declared return
// contracts, and call-site dispatch caches.
package dispatch

import (
	"fmt"
	"math/big"

	"strata/internal/asyncrt"
	"strata/internal/types"
)

// ValueKind identifies the runtime type of a Value.
type ValueKind uint8

const (
	// VKInvalid represents an invalid value.
	VKInvalid ValueKind = iota
	// VKNothing represents the absence-of-value marker.
	VKNothing
	// VKBool represents a boolean value.
	VKBool
	// VKInt represents a signed integer value.
	VKInt
	// VKBigInt represents an arbitrary-precision integer value.
	VKBigInt
	// VKString represents a string value.
	VKString
	// VKObject represents a class instance.
	VKObject
	// VKFunc represents a bound function value.
	VKFunc
	// VKFuture represents a suspended asynchronous result.
	VKFuture
)

// String returns a human-readable name for the value kind. The names follow
// the source language's type vocabulary because they appear verbatim in
// contract-violation messages.
func (k ValueKind) String() string {
	switch k {
	case VKInvalid:
		return "invalid"
	case VKNothing:
		return "NoneType"
	case VKBool:
		return "bool"
	case VKInt, VKBigInt:
		return "int"
	case VKString:
		return "str"
	case VKObject:
		return "object"
	case VKFunc:
		return "function"
	case VKFuture:
		return "coroutine"
	default:
		return fmt.Sprintf("ValueKind(%d)", k)
	}
}

// Object is a runtime class instance.
type Object struct {
	Class  *types.Class
	Fields map[string]Value
}

// Value represents a runtime value flowing through dispatch.
type Value struct {
	Kind ValueKind
	Bool bool            // for VKBool
	Int  int64           // for VKInt
	Big  *big.Int        // for VKBigInt
	Str  string          // for VKString
	Obj  *Object         // for VKObject
	Fn   *Function       // for VKFunc
	Fut  *asyncrt.Future // for VKFuture
}

// IsZero returns true if this is a zero/invalid value.
func (v Value) IsZero() bool {
	return v.Kind == VKInvalid
}

// TypeName returns the name used for this value in contract messages.
func (v Value) TypeName() string {
	if v.Kind == VKObject && v.Obj != nil && v.Obj.Class != nil {
		return v.Obj.Class.Name
	}
	return v.Kind.String()
}

// String returns a human-readable representation of the value.
func (v Value) String() string {
	switch v.Kind {
	case VKInvalid:
		return "<invalid>"
	case VKNothing:
		return "None"
	case VKBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case VKInt:
		return fmt.Sprintf("%d", v.Int)
	case VKBigInt:
		return v.Big.String()
	case VKString:
		return v.Str
	case VKObject:
		return fmt.Sprintf("<%s instance>", v.TypeName())
	case VKFunc:
		if v.Fn != nil {
			return fmt.Sprintf("<function %s>", v.Fn.QualName())
		}
		return "<function>"
	case VKFuture:
		return "<coroutine>"
	default:
		return fmt.Sprintf("<unknown:%d>", v.Kind)
	}
}

// MakeNothing creates the absence-of-value marker.
func MakeNothing() Value {
	return Value{Kind: VKNothing}
}

// MakeBool creates a boolean value.
func MakeBool(b bool) Value {
	return Value{Kind: VKBool, Bool: b}
}

// MakeInt creates an integer value.
func MakeInt(n int64) Value {
	return Value{Kind: VKInt, Int: n}
}

// MakeBigInt creates an arbitrary-precision integer value.
func MakeBigInt(n *big.Int) Value {
	return Value{Kind: VKBigInt, Big: n}
}

// MakeString creates a string value.
func MakeString(s string) Value {
	return Value{Kind: VKString, Str: s}
}

// MakeObject creates an instance of the given class.
func MakeObject(class *types.Class) Value {
	return Value{Kind: VKObject, Obj: &Object{Class: class}}
}

// MakeFunc creates a function value.
func MakeFunc(fn *Function) Value {
	return Value{Kind: VKFunc, Fn: fn}
}

// MakeFuture creates a suspended asynchronous result.
func MakeFuture(f *asyncrt.Future) Value {
	return Value{Kind: VKFuture, Fut: f}
}

// boxInt boxes a numeric value to an arbitrary-precision integer for range
// checking. Non-numeric values report false.
func boxInt(v Value) (*big.Int, bool) {
	switch v.Kind {
	case VKBool:
		if v.Bool {
			return big.NewInt(1), true
		}
		return big.NewInt(0), true
	case VKInt:
		return big.NewInt(v.Int), true
	case VKBigInt:
		return v.Big, true
	default:
		return nil, false
	}
}
