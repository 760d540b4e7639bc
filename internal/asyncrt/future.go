// Package asyncrt provides the minimal suspend/resume machinery the dispatch
// core needs: futures with an explicit resume protocol and a deterministic
// single-threaded executor for driving them.
package asyncrt

import "sync/atomic"

var futureIDs atomic.Uint64

// FutureState describes how far a future has progressed.
type FutureState uint8

const (
	// FuturePending means the future has not produced a result yet.
	FuturePending FutureState = iota
	// FutureReady means the future completed with a value.
	FutureReady
	// FutureFailed means the future completed with an error.
	FutureFailed
)

// StepFn advances a deferred future by one resume. It returns the result
// value, an error, and whether the future is now complete. A (nil, nil,
// false) return means "still pending, resume again later".
type StepFn func() (any, error, bool)

// Future is the explicit awaitable-or-not result used by the dispatch core.
// A value is either immediately available (Completed/Failed) or produced by
// resuming a step function. There is no capability probing: callers decide
// by constructing the right variant.
type Future struct {
	state FutureState
	value any
	err   error
	step  StepFn

	id    uint64
	waits *Future   // pending future this one cannot progress without
	exec  *Executor // set once a task parks on this future
}

// Completed builds a future that is already resolved with a value.
func Completed(v any) *Future {
	return &Future{state: FutureReady, value: v}
}

// Failed builds a future that is already resolved with an error.
func Failed(err error) *Future {
	return &Future{state: FutureFailed, err: err}
}

// Deferred builds a future whose result is produced by resuming step. A nil
// step makes an externally-driven future: it stays pending until Complete or
// Fail settles it, and tasks polling it park on its waker key instead of
// spinning.
func Deferred(step StepFn) *Future {
	return &Future{state: FuturePending, step: step, id: futureIDs.Add(1)}
}

// Key returns the waker key tasks park on until this future settles.
func (f *Future) Key() WakerKey {
	return FutureKey(f.id)
}

// WaitOn records the pending future this one cannot progress without, so the
// executor can park the polling task instead of re-resuming it.
func (f *Future) WaitOn(dep *Future) {
	f.waits = dep
}

// blockedOn walks the wait chain and returns the externally-driven future
// the chain is stuck on, or nil if every link can still make progress.
func (f *Future) blockedOn() *Future {
	for cur := f; cur != nil && cur.state == FuturePending; cur = cur.waits {
		if cur.step == nil {
			return cur
		}
	}
	return nil
}

func (f *Future) attach(e *Executor) {
	if f.exec == nil {
		f.exec = e
	}
}

func (f *Future) notify() {
	if f.exec != nil {
		f.exec.WakeKeyAll(FutureKey(f.id))
	}
}

// State returns the current state of the future.
func (f *Future) State() FutureState {
	if f == nil {
		return FutureFailed
	}
	return f.state
}

// Resume advances the future by one step. It returns the value, whether the
// future is complete, and the terminal error if it failed. Resuming a
// completed future returns its settled result without re-running anything.
func (f *Future) Resume() (any, bool, error) {
	switch f.state {
	case FutureReady:
		return f.value, true, nil
	case FutureFailed:
		return nil, true, f.err
	}
	if f.step == nil {
		// A pending future with no step can only be completed externally.
		return nil, false, nil
	}
	v, err, done := f.step()
	if !done {
		return nil, false, nil
	}
	f.step = nil
	if err != nil {
		f.state = FutureFailed
		f.err = err
		return nil, true, err
	}
	f.state = FutureReady
	f.value = v
	return v, true, nil
}

// Complete settles an externally-driven future with a value. No effect once
// settled.
func (f *Future) Complete(v any) {
	if f.state != FuturePending {
		return
	}
	f.state = FutureReady
	f.value = v
	f.step = nil
	f.notify()
}

// Fail settles an externally-driven future with an error. No effect once
// settled.
func (f *Future) Fail(err error) {
	if f.state != FuturePending {
		return
	}
	f.state = FutureFailed
	f.err = err
	f.step = nil
	f.notify()
}
