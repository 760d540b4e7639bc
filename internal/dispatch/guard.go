package dispatch

import (
	"strata/internal/asyncrt"
	"strata/internal/trace"
	"strata/internal/types"
)

// PatchGuard wraps the replacement target of a Guarded slot. It runs after
// the replacement produces a result and enforces the return contract the
// slot's callers compiled against. Exceptions from the replacement propagate
// unchanged; the guard adds no wrapping and no retries.
type PatchGuard struct {
	slot   *TypedSlot
	target *Function
}

func newPatchGuard(slot *TypedSlot, target *Function) *PatchGuard {
	return &PatchGuard{slot: slot, target: target}
}

// Target returns the wrapped replacement.
func (g *PatchGuard) Target() *Function {
	return g.target
}

// retarget swaps the wrapped replacement; Guarded to Guarded needs no
// intermediate state.
func (g *PatchGuard) retarget(fn *Function) {
	g.target = fn
}

// Call invokes the replacement and validates its result. For an
// asynchronously declared slot the guard returns a future and defers both
// the replacement invocation (when synchronous) and the validation to the
// resume protocol, so failures surface where an asynchronous result would.
func (g *PatchGuard) Call(args []Value) (Value, error) {
	if g.slot.decl.Async {
		st := &awaitState{guard: g, args: args}
		st.fut = asyncrt.Deferred(st.step)
		return MakeFuture(st.fut), nil
	}

	out, err := g.target.Call(args)
	if err != nil {
		return Value{}, err
	}
	if derr := g.validate(out); derr != nil {
		return Value{}, derr
	}
	return out, nil
}

// awaitState carries a guarded async call across resume steps. The
// replacement's awaitable-or-not shape is decided by its result kind, never
// by capability probing.
type awaitState struct {
	guard  *PatchGuard
	args   []Value
	fut    *asyncrt.Future // the future handed to the caller
	inner  *asyncrt.Future
	called bool
}

func (st *awaitState) step() (any, error, bool) {
	g := st.guard
	if !st.called {
		st.called = true
		out, err := g.target.Call(st.args)
		if err != nil {
			// A synchronous failure surfaces at this resume point, exactly
			// where an asynchronous failure would.
			return nil, err, true
		}
		if out.Kind == VKFuture {
			st.inner = out.Fut
			// Chain the wait so the executor can park on an
			// externally-driven inner future instead of re-polling.
			st.fut.WaitOn(st.inner)
		} else {
			// Synchronous replacement for an async declaration: its return
			// value is the asynchronous result, validated now.
			if derr := g.validate(out); derr != nil {
				return nil, derr, true
			}
			return out, nil, true
		}
	}

	v, done, err := st.inner.Resume()
	if !done {
		return nil, nil, false
	}
	if err != nil {
		return nil, err, true
	}
	out, ok := v.(Value)
	if !ok {
		out = MakeNothing()
	}
	if derr := g.validate(out); derr != nil {
		return nil, derr, true
	}
	return out, nil, true
}

// validate enforces the declared return type on a produced result.
func (g *PatchGuard) validate(v Value) *DispatchError {
	decl := g.slot.decl.Ret
	if decl == nil {
		return nil
	}

	var derr *DispatchError
	switch decl.Kind {
	case types.KindNone:
		if v.Kind != VKNothing {
			derr = returnTypeMismatch(g.slot.QualName(), decl.Name, v.TypeName())
		}
	case types.KindBool, types.KindInt, types.KindUint:
		boxed, ok := boxInt(v)
		if !ok {
			derr = returnTypeMismatch(g.slot.QualName(), decl.Name, v.TypeName())
			break
		}
		if !fitsDeclared(boxed, decl) {
			derr = returnOutOfRange(g.slot.QualName(), decl.Name, boxed)
		}
	case types.KindObject:
		if v.Kind != VKObject || v.Obj == nil || !v.Obj.Class.IsSubclassOf(decl) {
			derr = returnTypeMismatch(g.slot.QualName(), decl.Name, v.TypeName())
		}
	}

	if derr != nil {
		g.slot.ns.emit(trace.Event{
			Kind:   trace.KindPoint,
			Scope:  trace.ScopeGuard,
			Name:   g.slot.name,
			Detail: derr.Code.String(),
		})
	}
	return derr
}
