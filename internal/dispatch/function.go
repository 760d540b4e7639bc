package dispatch

import "strata/internal/types"

// CallFn is the invocable body of a function.
type CallFn func(args []Value) (Value, error)

// Decl is the declared contract of a callable: the return type the caller
// compiled against and whether the callable is asynchronous. Parameter arity
// is the call site's concern and is not re-validated here. A nil Ret means
// the return value is unconstrained.
type Decl struct {
	Ret   *types.Class
	Async bool
}

// Function is a callable bound into a namespace. Pointer identity is binding
// identity: reassigning the exact original restores the direct path, any
// other function is treated as a replacement and guarded.
type Function struct {
	name     string
	qualname string
	decl     Decl
	call     CallFn
}

// NewFunction creates a compiled function descriptor.
func NewFunction(qualname string, decl Decl, call CallFn) *Function {
	name := qualname
	for i := len(qualname) - 1; i >= 0; i-- {
		if qualname[i] == '.' {
			name = qualname[i+1:]
			break
		}
	}
	return &Function{
		name:     name,
		qualname: qualname,
		decl:     decl,
		call:     call,
	}
}

// Name returns the unqualified name of the function.
func (f *Function) Name() string {
	return f.name
}

// QualName returns the qualified name used in diagnostics, e.g. "C.f".
func (f *Function) QualName() string {
	return f.qualname
}

// Decl returns the declared contract.
func (f *Function) Decl() Decl {
	return f.decl
}

// Call invokes the function body.
func (f *Function) Call(args []Value) (Value, error) {
	return f.call(args)
}
