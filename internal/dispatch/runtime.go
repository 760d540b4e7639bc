package dispatch

import (
	"fmt"

	"strata/internal/asyncrt"
	"strata/internal/trace"
	"strata/internal/types"
)

// Runtime bundles the pieces a running program needs: the builtin type
// universe, a type environment for generic instantiation, namespaces keyed by
// name, and a single-threaded executor for asynchronous results.
type Runtime struct {
	builtins   *types.Builtins
	env        *types.TypeEnvironment
	exec       *asyncrt.Executor
	tracer     trace.Tracer
	namespaces map[string]*Namespace
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithTracer attaches a tracer; new namespaces inherit it.
func WithTracer(t trace.Tracer) Option {
	return func(r *Runtime) {
		if t != nil {
			r.tracer = t
		}
	}
}

// WithExecutorConfig replaces the default executor configuration.
func WithExecutorConfig(cfg asyncrt.Config) Option {
	return func(r *Runtime) {
		r.exec = asyncrt.NewExecutor(cfg)
	}
}

// NewRuntime builds a runtime with fresh builtins and an empty environment.
func NewRuntime(opts ...Option) *Runtime {
	r := &Runtime{
		builtins:   types.NewBuiltins(),
		exec:       asyncrt.NewExecutor(asyncrt.Config{}),
		tracer:     trace.Nop,
		namespaces: make(map[string]*Namespace),
	}
	r.env = types.NewTypeEnvironment(nil)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Builtins returns the builtin type universe.
func (r *Runtime) Builtins() *types.Builtins {
	return r.builtins
}

// Env returns the runtime's type environment.
func (r *Runtime) Env() *types.TypeEnvironment {
	return r.env
}

// Executor returns the async executor.
func (r *Runtime) Executor() *asyncrt.Executor {
	return r.exec
}

// Tracer returns the runtime tracer.
func (r *Runtime) Tracer() trace.Tracer {
	return r.tracer
}

// Namespace returns the named namespace, creating it on first use.
func (r *Runtime) Namespace(name string) *Namespace {
	key := normalizeName(name)
	ns, ok := r.namespaces[key]
	if !ok {
		ns = NewNamespace(key)
		ns.SetTracer(r.tracer)
		r.namespaces[key] = ns
	}
	return ns
}

// Drive resolves a call result to its final value. Non-future values pass
// through; a future is spawned on the executor and run to completion. A
// future that parks with nothing left to wake it is a deadlock and reported
// as an error rather than returned suspended.
func (r *Runtime) Drive(v Value) (Value, error) {
	if v.Kind != VKFuture {
		return v, nil
	}
	id := r.exec.SpawnFuture(v.Fut)
	r.exec.RunUntilIdle()
	task := r.exec.Task(id)
	if task == nil || task.Status != asyncrt.TaskDone {
		return Value{}, fmt.Errorf("async result never completed (task %d)", id)
	}
	if task.Err != nil {
		return Value{}, task.Err
	}
	out, ok := task.Value.(Value)
	if !ok {
		return MakeNothing(), nil
	}
	return out, nil
}
