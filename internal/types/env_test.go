package types

import "testing"

func TestGetGenericTypeMemoizesByTuple(t *testing.T) {
	b := NewBuiltins()
	elem := NewTypeVar("T")
	box := NewGenericClass("Box", b.Object, elem)

	env := NewTypeEnvironment(nil)
	first := env.GetGenericType(box, []*Class{b.Int32})
	second := env.GetGenericType(box, []*Class{b.Int32})
	if first != second {
		t.Fatalf("equal tuples must return the identical class")
	}
	other := env.GetGenericType(box, []*Class{b.Int64})
	if other == first {
		t.Fatalf("distinct tuples must not share an instantiation")
	}
	if got := env.Instantiations(box); got != 2 {
		t.Fatalf("expected 2 instantiations, got %d", got)
	}
}

func TestGetGenericTypeInvokesFactoryOnce(t *testing.T) {
	b := NewBuiltins()
	elem := NewTypeVar("T")
	pair := NewGenericClass("Pair", b.Object, elem)

	calls := 0
	pair.Factory = func(args []*Class, env *TypeEnvironment) *Class {
		calls++
		inst := NewClass(instantiationName("Pair", args), b.Object)
		inst.Generic = pair
		inst.Args = args
		return inst
	}

	env := NewTypeEnvironment(nil)
	for range 5 {
		env.GetGenericType(pair, []*Class{b.Uint8})
	}
	if calls != 1 {
		t.Fatalf("factory invoked %d times, want 1", calls)
	}
}

func TestBranchedEnvironmentIsIsolated(t *testing.T) {
	b := NewBuiltins()
	elem := NewTypeVar("T")
	box := NewGenericClass("Box", b.Object, elem)

	base := NewTypeEnvironment(nil)
	shared := base.GetGenericType(box, []*Class{b.Int8})

	branch := NewTypeEnvironment(base)
	if got := branch.GetGenericType(box, []*Class{b.Int8}); got != shared {
		t.Fatalf("instantiations memoized before branching must be shared")
	}

	// New instantiations on the branch must not leak into the base.
	branch.GetGenericType(box, []*Class{b.Uint64})
	if got := base.Instantiations(box); got != 1 {
		t.Fatalf("base gained %d instantiations, want 1", got)
	}

	// And vice versa.
	base.GetGenericType(box, []*Class{b.Int16})
	if got := branch.Instantiations(box); got != 2 {
		t.Fatalf("branch gained %d instantiations, want 2", got)
	}

	// Tuples instantiated independently on both sides yield distinct classes.
	fromBase := base.GetGenericType(box, []*Class{b.Bool})
	fromBranch := branch.GetGenericType(box, []*Class{b.Bool})
	if fromBase == fromBranch {
		t.Fatalf("post-branch instantiations must be per-environment")
	}
}

func TestDefaultFactorySubstitutesMembers(t *testing.T) {
	b := NewBuiltins()
	elem := NewTypeVar("T")
	box := NewGenericClass("Box", b.Object, elem)
	box.SetMember("value", elem)
	box.SetMember("count", b.Int32)

	env := NewTypeEnvironment(nil)
	inst := env.GetGenericType(box, []*Class{b.Uint16})
	if inst.Name != "Box[uint16]" {
		t.Fatalf("unexpected instantiation name %q", inst.Name)
	}
	if got, _ := inst.Member("value"); got != b.Uint16 {
		t.Fatalf("member substitution failed: got %v", got)
	}
	if got, _ := inst.Member("count"); got != b.Int32 {
		t.Fatalf("non-parameter member changed: got %v", got)
	}
	if inst.Generic != box || len(inst.Args) != 1 {
		t.Fatalf("instantiation must record its generic origin")
	}
}

func TestNestedGenericMemberResolvesThroughEnvironment(t *testing.T) {
	b := NewBuiltins()
	elem := NewTypeVar("T")
	box := NewGenericClass("Box", b.Object, elem)

	env := NewTypeEnvironment(nil)

	wrapper := NewGenericClass("Wrapper", b.Object, elem)
	wrapper.SetMember("inner", box.MakeGenericType([]*Class{elem}, env))

	inst := env.GetGenericType(wrapper, []*Class{b.Int64})
	inner, ok := inst.Member("inner")
	if !ok {
		t.Fatalf("missing inner member")
	}
	if inner != env.GetGenericType(box, []*Class{b.Int64}) {
		t.Fatalf("nested generic member must resolve through the environment")
	}
}
