package types

import (
	"strconv"
	"strings"
)

// TypeEnvironment memoizes generic instantiations for one compilation unit.
// For a fixed environment, equal argument tuples for the same generic always
// resolve to the same *Class, which downstream identity comparisons rely on.
//
// Environments are single-writer: one compilation unit owns one environment
// at a time, so there is no internal locking.
type TypeEnvironment struct {
	generics map[*GenericClass]map[string]*Class
}

// NewTypeEnvironment creates an environment, optionally branched from a base.
// Branching clones the outer table and every inner table so instantiations
// recorded in either environment stay invisible to the other.
func NewTypeEnvironment(base *TypeEnvironment) *TypeEnvironment {
	env := &TypeEnvironment{
		generics: make(map[*GenericClass]map[string]*Class),
	}
	if base != nil {
		for g, inner := range base.generics {
			clone := make(map[string]*Class, len(inner))
			for k, v := range inner {
				clone[k] = v
			}
			env.generics[g] = clone
		}
	}
	return env
}

// GetGenericType resolves a specialization of generic for the argument tuple,
// invoking the generic's factory at most once per distinct tuple. Argument
// arity is validated by the type checker before reaching here.
func (env *TypeEnvironment) GetGenericType(generic *GenericClass, args []*Class) *Class {
	key := argsKey(args)
	inner := env.generics[generic]
	if inner != nil {
		if inst, ok := inner[key]; ok {
			return inst
		}
	} else {
		inner = make(map[string]*Class)
		env.generics[generic] = inner
	}
	concrete := generic.MakeGenericType(args, env)
	inner[key] = concrete
	return concrete
}

// Instantiations returns the number of memoized specializations for a generic.
func (env *TypeEnvironment) Instantiations(generic *GenericClass) int {
	return len(env.generics[generic])
}

// argsKey produces a stable map key for an argument tuple. Go maps cannot use
// slices as keys, so the tuple is flattened into class IDs.
func argsKey(args []*Class) string {
	if len(args) == 0 {
		return ""
	}
	var b strings.Builder
	for i, a := range args {
		if i > 0 {
			b.WriteByte('#')
		}
		b.WriteString(strconv.FormatUint(uint64(a.ID()), 10))
	}
	return b.String()
}
