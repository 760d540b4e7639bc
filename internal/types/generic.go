package types

import "strings"

// TypeVar is an unbound type parameter of a generic class. It is a Class so
// member declarations can reference it before instantiation.
type TypeVar = Class

// NewTypeVar creates an unbound type parameter descriptor.
func NewTypeVar(name string) *TypeVar {
	return &Class{
		id:   allocClassID(),
		Name: name,
		Kind: KindTypeVar,
	}
}

// Factory produces a concrete Class for an argument tuple. It receives the
// environment so nested generic member types can be resolved through the same
// memoization tables.
type Factory func(args []*Class, env *TypeEnvironment) *Class

// GenericClass is a class with unbound type parameters. Its factory is the
// only way to obtain specializations; callers go through
// TypeEnvironment.GetGenericType so equal argument tuples share one instance.
type GenericClass struct {
	Class
	Params  []*TypeVar
	Factory Factory // nil means the default substituting factory
}

// NewGenericClass creates a generic class descriptor with the given ordered
// type parameters.
func NewGenericClass(name string, base *Class, params ...*TypeVar) *GenericClass {
	return &GenericClass{
		Class: Class{
			id:   allocClassID(),
			Name: name,
			Kind: KindObject,
			Base: base,
		},
		Params: params,
	}
}

// MakeGenericType produces a concrete class for the argument tuple. Arity is
// the caller's contract; the type checker validates it before reaching here.
func (g *GenericClass) MakeGenericType(args []*Class, env *TypeEnvironment) *Class {
	if g.Factory != nil {
		return g.Factory(args, env)
	}
	return g.instantiate(args, env)
}

// instantiate is the default factory: it builds a concrete class whose member
// types have the generic's parameters substituted by the argument tuple.
func (g *GenericClass) instantiate(args []*Class, env *TypeEnvironment) *Class {
	inst := &Class{
		id:      allocClassID(),
		Name:    instantiationName(g.Name, args),
		Kind:    KindObject,
		Base:    g.Base,
		Generic: g,
		Args:    args,
	}
	if len(g.members) > 0 {
		inst.members = make(map[string]*Class, len(g.members))
		for name, typ := range g.members {
			inst.members[name] = g.substitute(typ, args, env)
		}
	}
	return inst
}

// substitute maps a declared member type to its concrete form: type parameters
// become the matching argument, generic member types are re-specialized
// through the environment, anything else passes through untouched.
func (g *GenericClass) substitute(typ *Class, args []*Class, env *TypeEnvironment) *Class {
	if typ == nil {
		return nil
	}
	if typ.Kind == KindTypeVar {
		for i, p := range g.Params {
			if typ == p && i < len(args) {
				return args[i]
			}
		}
		return typ
	}
	if typ.Generic != nil && env != nil {
		resolved := make([]*Class, len(typ.Args))
		changed := false
		for i, a := range typ.Args {
			resolved[i] = g.substitute(a, args, env)
			if resolved[i] != a {
				changed = true
			}
		}
		if changed {
			return env.GetGenericType(typ.Generic, resolved)
		}
	}
	return typ
}

func instantiationName(base string, args []*Class) string {
	var b strings.Builder
	b.WriteString(base)
	b.WriteByte('[')
	for i, a := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.Name)
	}
	b.WriteByte(']')
	return b.String()
}
