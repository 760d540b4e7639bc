package dispatch

import (
	"fmt"
	"weak"

	"strata/internal/trace"
)

// SlotState describes the binding state of a TypedSlot.
type SlotState uint8

const (
	// SlotDirect means the slot holds the original compiled callable and
	// calls bypass any wrapper.
	SlotDirect SlotState = iota
	// SlotGuarded means the slot holds a replacement invoked through the
	// patch guard.
	SlotGuarded
	// SlotUnbound means the name has been removed from its namespace.
	SlotUnbound
)

// String returns a human-readable name for the state.
func (s SlotState) String() string {
	switch s {
	case SlotDirect:
		return "direct"
	case SlotGuarded:
		return "guarded"
	case SlotUnbound:
		return "unbound"
	default:
		return fmt.Sprintf("SlotState(%d)", s)
	}
}

// TypedSlot is the mutable binding cell for one named callable. It is owned
// by its namespace and mutated only through namespace operations. The slot
// holds a strong reference to the original compiled function only while
// Direct; once patched, only a weak identity reference remains, so an
// otherwise-unreferenced original can be reclaimed even though the slot can
// still recognize it if it is assigned back.
type TypedSlot struct {
	ns   *Namespace
	name string
	decl Decl

	state    SlotState
	direct   *Function // strong only while Direct
	original weak.Pointer[Function]
	guard    *PatchGuard

	version uint64 // bumped on every transition
}

// Name returns the slot's binding name.
func (s *TypedSlot) Name() string {
	return s.name
}

// QualName returns "namespace.name" for diagnostics.
func (s *TypedSlot) QualName() string {
	return s.ns.name + "." + s.name
}

// Decl returns the declared contract callers compiled against.
func (s *TypedSlot) Decl() Decl {
	return s.decl
}

// State returns the current binding state.
func (s *TypedSlot) State() SlotState {
	return s.state
}

// Version returns the transition counter. Dispatch caches compare it to
// detect that their cached resolution went stale.
func (s *TypedSlot) Version() uint64 {
	return s.version
}

// Direct returns the original compiled function while the slot is Direct.
func (s *TypedSlot) Direct() *Function {
	if s.state != SlotDirect {
		return nil
	}
	return s.direct
}

// Call dispatches through the slot: straight to the original when Direct,
// through the patch guard when Guarded. Calling an Unbound slot fails with
// the unbound-target lookup error.
func (s *TypedSlot) Call(args []Value) (Value, error) {
	switch s.state {
	case SlotDirect:
		return s.direct.Call(args)
	case SlotGuarded:
		return s.guard.Call(args)
	default:
		s.ns.emit(trace.Event{
			Kind:   trace.KindPoint,
			Scope:  trace.ScopeGuard,
			Name:   s.name,
			Detail: ErrUnboundTarget.String(),
		})
		return Value{}, unboundTarget(s.ns.name, s.name)
	}
}

// bindDirect installs fn as the compiled original and restores the fast path.
func (s *TypedSlot) bindDirect(fn *Function) {
	s.direct = fn
	s.original = weak.Make(fn)
	s.guard = nil
	s.state = SlotDirect
	s.version++
}

// restoreDirect re-enables the fast path for the existing original.
func (s *TypedSlot) restoreDirect(fn *Function) {
	s.direct = fn
	s.guard = nil
	s.state = SlotDirect
	s.version++
}

// patchTarget installs a replacement behind the guard. The strong reference
// to the original is dropped here; only the weak identity remains.
func (s *TypedSlot) patchTarget(fn *Function) {
	if s.guard != nil && s.state == SlotGuarded {
		s.guard.retarget(fn)
	} else {
		s.guard = newPatchGuard(s, fn)
	}
	s.direct = nil
	s.state = SlotGuarded
	s.version++
}

// isOriginal reports whether fn is the exact compiled original, if it is
// still alive.
func (s *TypedSlot) isOriginal(fn *Function) bool {
	return fn != nil && s.original.Value() == fn
}

// unbind removes the binding. Both the direct and guarded references are
// dropped so nothing in the dispatch machinery keeps the targets alive.
func (s *TypedSlot) unbind() {
	s.direct = nil
	s.guard = nil
	s.state = SlotUnbound
	s.version++
}
