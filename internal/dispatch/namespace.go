package dispatch

import (
	"time"

	"golang.org/x/text/unicode/norm"

	"strata/internal/trace"
)

// Namespace owns the typed slots for one module or class scope. Binding
// names are NFKC-normalized on every operation, matching the identifier
// normalization of the source language. A separate raw table accepts
// arbitrary keys; ambient mutation of it never affects slot resolution.
//
// Bindings are process-wide shared mutable state with last-writer-wins
// semantics: a call that resolved its target before a patch may still
// complete against the previous target. The guarantee is only that the next
// resolution observes the new state.
type Namespace struct {
	name   string
	parent *Namespace
	slots  map[string]*TypedSlot
	raw    map[any]any
	tracer trace.Tracer

	// gen counts structural changes (slot insertions). Dispatch caches check
	// it so a local declaration shadowing an inherited slot is never served
	// from a stale fast path.
	gen uint64
}

// NewNamespace creates an empty namespace.
func NewNamespace(name string) *Namespace {
	return &Namespace{
		name:   name,
		slots:  make(map[string]*TypedSlot),
		tracer: trace.Nop,
	}
}

// NewChildNamespace creates a namespace that inherits slots from parent, the
// way a subclass scope inherits methods it does not override. Names resolve
// to the parent's slot cells, so patching through the parent is observed
// here; declaring a name locally overrides the inherited binding.
func NewChildNamespace(name string, parent *Namespace) *Namespace {
	ns := NewNamespace(name)
	ns.parent = parent
	if parent != nil {
		ns.tracer = parent.tracer
	}
	return ns
}

// SetTracer attaches a tracer for binding and dispatch events.
func (ns *Namespace) SetTracer(t trace.Tracer) {
	if t == nil {
		t = trace.Nop
	}
	ns.tracer = t
}

// Name returns the namespace name.
func (ns *Namespace) Name() string {
	return ns.name
}

// normalizeName applies NFKC identifier normalization.
func normalizeName(name string) string {
	return norm.NFKC.String(name)
}

// Declare installs a compiled function under its name, creating the slot or
// rebinding an existing one to the new original. This is the compile-time
// entry point; the slot starts (or returns to) Direct.
func (ns *Namespace) Declare(fn *Function) *TypedSlot {
	name := normalizeName(fn.Name())
	slot, ok := ns.slots[name]
	if !ok {
		slot = &TypedSlot{ns: ns, name: name, decl: fn.Decl()}
		ns.slots[name] = slot
		ns.gen++
	}
	slot.bindDirect(fn)
	ns.emit(trace.Event{Kind: trace.KindPoint, Scope: trace.ScopePatch, Name: name, Detail: "bind"})
	return slot
}

// Lookup resolves a slot by name, falling back to inherited slots.
func (ns *Namespace) Lookup(name string) (*TypedSlot, bool) {
	key := normalizeName(name)
	for cur := ns; cur != nil; cur = cur.parent {
		if slot, ok := cur.slots[key]; ok {
			return slot, true
		}
	}
	return nil, false
}

// Assign implements name assignment on the namespace. Assigning the exact
// original compiled function restores the direct path; any other function
// becomes a guarded replacement. Non-callable values are rejected.
func (ns *Namespace) Assign(name string, v Value) error {
	if v.Kind != VKFunc || v.Fn == nil {
		return notCallable(ns.name, name)
	}
	return ns.Patch(name, v.Fn)
}

// Patch installs a replacement into the slot for name, transitioning it to
// Guarded (or updating the existing guarded target). Reassigning the exact
// original restores Direct. Patching an undeclared name fails with the
// unbound-target error: there is no compiled contract to guard.
func (ns *Namespace) Patch(name string, fn *Function) error {
	key := normalizeName(name)
	slot, ok := ns.Lookup(key)
	if !ok {
		return unboundTarget(ns.name, key)
	}
	if slot.isOriginal(fn) {
		slot.restoreDirect(fn)
		ns.emit(trace.Event{Kind: trace.KindPoint, Scope: trace.ScopePatch, Name: key, Detail: "restore"})
		return nil
	}
	slot.patchTarget(fn)
	ns.emit(trace.Event{Kind: trace.KindPoint, Scope: trace.ScopePatch, Name: key, Detail: "guard"})
	return nil
}

// PatchFunc wraps a bare callable and installs it as a replacement.
func (ns *Namespace) PatchFunc(name string, call CallFn) error {
	return ns.Patch(name, NewFunction(ns.name+"."+name, Decl{}, call))
}

// Delete removes the binding for name. Subsequent calls through slots or
// dispatch caches observe the unbound-target lookup failure.
func (ns *Namespace) Delete(name string) error {
	key := normalizeName(name)
	slot, ok := ns.slots[key]
	if !ok {
		return unboundTarget(ns.name, key)
	}
	slot.unbind()
	ns.emit(trace.Event{Kind: trace.KindPoint, Scope: trace.ScopePatch, Name: key, Detail: "delete"})
	return nil
}

// SetRaw stores an ambient namespace entry under an arbitrary key. Raw
// entries never shadow slots and never perturb slot resolution; they exist
// because owning namespaces are plain mutable scopes to the rest of the
// system.
func (ns *Namespace) SetRaw(key, value any) {
	if ns.raw == nil {
		ns.raw = make(map[any]any)
	}
	ns.raw[key] = value
}

// GetRaw loads an ambient entry.
func (ns *Namespace) GetRaw(key any) (any, bool) {
	v, ok := ns.raw[key]
	return v, ok
}

func (ns *Namespace) emit(ev trace.Event) {
	if !ns.tracer.Enabled() {
		return
	}
	ev.Time = time.Now()
	ev.Namespace = ns.name
	ns.tracer.Emit(ev)
}
