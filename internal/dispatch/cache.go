package dispatch

import "strata/internal/trace"

// DispatchCacheEntry is a per-call-site memo of a resolved slot. While the
// slot stays Direct at the cached version the entry calls the original
// without touching the namespace; any transition (patch, restore, delete)
// bumps the slot version and forces the entry back through resolution.
//
// An entry never pins a target: it holds the slot cell, and the strong
// function reference only while the fast path is valid.
type DispatchCacheEntry struct {
	ns   *Namespace
	name string

	slot    *TypedSlot
	direct  *Function
	version uint64
	gen     uint64
}

// NewCacheEntry creates an unresolved entry for a call site.
func NewCacheEntry(ns *Namespace, name string) *DispatchCacheEntry {
	return &DispatchCacheEntry{ns: ns, name: normalizeName(name)}
}

// Invoke dispatches through the cached resolution, re-resolving on any slot
// transition. Guarded slots are always invoked through the guard rather than
// cached: the guard is where the contract lives.
func (e *DispatchCacheEntry) Invoke(args []Value) (Value, error) {
	if e.Valid() {
		return e.direct.Call(args)
	}
	return e.resolveAndCall(args)
}

func (e *DispatchCacheEntry) resolveAndCall(args []Value) (Value, error) {
	e.direct = nil
	slot, ok := e.ns.Lookup(e.name)
	if !ok {
		e.ns.emit(trace.Event{
			Kind:   trace.KindPoint,
			Scope:  trace.ScopeGuard,
			Name:   e.name,
			Detail: ErrUnboundTarget.String(),
		})
		return Value{}, unboundTarget(e.ns.name, e.name)
	}
	e.slot = slot
	if fn := slot.Direct(); fn != nil {
		e.direct = fn
		e.version = slot.Version()
		e.gen = e.ns.gen
		return fn.Call(args)
	}
	return slot.Call(args)
}

// Valid reports whether the entry currently holds a usable fast path.
func (e *DispatchCacheEntry) Valid() bool {
	return e.direct != nil && e.slot.Version() == e.version && e.ns.gen == e.gen
}
